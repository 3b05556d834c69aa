package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-astrodb/internal/astro"
	"github.com/litescript/ls-astrodb/internal/astrodb"
	"github.com/litescript/ls-astrodb/internal/catalog"
)

// NewLookupCommand creates the lookup command.
func NewLookupCommand() *cobra.Command {
	var noI18n bool
	cmd := &cobra.Command{
		Use:   "lookup NAME...",
		Short: "Resolve names and designations to objects",
		Long: `Resolves each argument as a name, a localized name, a catalog designation
such as "HD 48915" or "#<index>", and prints what is known about the object.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := databaseFrom(cmd)
			if err != nil {
				return err
			}
			for i, name := range args {
				idx := db.NameToIndex(name, !noI18n, true)
				if !idx.Valid() {
					return fmt.Errorf("no object named %q", name)
				}
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				renderFields(cmd.OutOrStdout(), name, describe(db, idx))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noI18n, "no-i18n", false, "ignore localized names")
	return cmd
}

// describe lists what the database knows about idx.
func describe(db *astrodb.Database, idx catalog.Index) [][2]string {
	obj := db.Object(idx)
	fields := [][2]string{
		{"Index", idx.String()},
		{"Designation", db.Designation(idx)},
	}
	if obj != nil {
		fields = append(fields, [2]string{"Kind", obj.Kind().String()})
	}
	if names := db.ObjectNames(idx, true, 0); names != "" {
		fields = append(fields, [2]string{"Names", names})
	}
	if numbers := catalogNumbers(db, idx); len(numbers) > 0 {
		fields = append(fields, [2]string{"Catalogs", strings.Join(numbers, ", ")})
	}

	switch o := obj.(type) {
	case *astrodb.Star:
		fields = append(fields, position(o.Position)...)
		fields = append(fields, [2]string{"Abs mag", formatFloat(float64(o.AbsMag))})
		fields = append(fields, [2]string{"App mag", formatFloat(o.AppMag(astro.Vec3{}))})
		if o.SpectralType != "" {
			fields = append(fields, [2]string{"Spectral type", o.SpectralType})
		}
	case *astrodb.DeepSkyObject:
		fields = append(fields, position(o.Position)...)
		fields = append(fields, [2]string{"Abs mag", formatFloat(float64(o.AbsMag))})
		fields = append(fields, [2]string{"App mag", formatFloat(o.AppMag(astro.Vec3{}))})
		if o.Type != "" {
			fields = append(fields, [2]string{"Type", o.Type})
		}
	case *astrodb.Body:
		fields = append(fields, [2]string{"Primary", db.ObjectName(o.Primary, false)})
		if o.Class != "" {
			fields = append(fields, [2]string{"Class", o.Class})
		}
	}
	return fields
}

func catalogNumbers(db *astrodb.Database, idx catalog.Index) []string {
	var out []string
	for c := range db.Catalogs() {
		if num := db.IndexToCatalogNumber(c.ID, idx); num != catalog.InvalidNumber {
			out = append(out, c.Designation(num))
		}
	}
	return out
}

func position(p astro.Vec3) [][2]string {
	c := astro.CartesianToEquatorial(astro.EclipticToEquatorial(p))
	return [][2]string{
		{"RA", formatFloat(c.RAdeg) + "°"},
		{"Dec", formatFloat(c.DecDeg) + "°"},
		{"Distance", formatFloat(c.DistLy) + " ly"},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
