package cli

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-astrodb/internal/astro"
	"github.com/litescript/ls-astrodb/internal/astrodb"
	"github.com/litescript/ls-astrodb/internal/octree"
)

// NewVisibleCommand creates the visible command.
func NewVisibleCommand() *cobra.Command {
	var (
		ra, dec, fov float64
		limit        float64
		radius       float64
		from         string
		dso          bool
		maxRows      int
	)
	cmd := &cobra.Command{
		Use:   "visible",
		Short: "List objects brighter than a limiting magnitude",
		Long: `Lists stars (or deep-sky objects with --dso) whose apparent magnitude seen
from the viewpoint is at most --limit, brightest first. --fov restricts the
query to a cone around --ra/--dec; --from moves the viewpoint to a named
object.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := databaseFrom(cmd)
			if err != nil {
				return err
			}
			q := octree.Query{LimitingMag: limit, Radius: radius}
			if from != "" {
				p, err := objectPosition(db, from)
				if err != nil {
					return err
				}
				q.Viewpoint = p
			}
			if fov > 0 {
				q.Cone = octree.NewCone(astro.Direction(ra, dec), astro.DegToRad(fov/2))
			}

			tree := db.StarOctree()
			if dso {
				tree = db.DSOOctree()
			}
			hits := slices.SortedFunc(tree.Visible(q), func(a, b octree.Hit) int {
				return cmp.Or(cmp.Compare(a.AppMag, b.AppMag), cmp.Compare(a.Index, b.Index))
			})

			total := len(hits)
			if maxRows > 0 && total > maxRows {
				hits = hits[:maxRows]
			}
			rows := make([]table.Row, len(hits))
			for i, h := range hits {
				rows[i] = table.Row{h.Index, db.ObjectName(h.Index, false), formatFloat(h.AppMag), formatFloat(h.Distance)}
			}
			renderTable(cmd.OutOrStdout(), "Visible", table.Row{"Index", "Name", "App mag", "Distance (ly)"}, rows)
			if len(hits) < total {
				fmt.Fprintf(cmd.ErrOrStderr(), "(%d of %d shown)\n", len(hits), total)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&ra, "ra", 0, "cone center right ascension, degrees")
	f.Float64Var(&dec, "dec", 0, "cone center declination, degrees")
	f.Float64Var(&fov, "fov", 0, "cone full angle in degrees (0 for the whole sky)")
	f.Float64Var(&limit, "limit", 6, "limiting apparent magnitude")
	f.Float64Var(&radius, "radius", 0, "maximum distance in light years (0 for unbounded)")
	f.StringVar(&from, "from", "", "name of the object to look from (default the Sun)")
	f.BoolVar(&dso, "dso", false, "query deep-sky objects instead of stars")
	f.IntVar(&maxRows, "max", 50, "maximum rows (0 for all)")
	return cmd
}

// NewNearCommand creates the near command.
func NewNearCommand() *cobra.Command {
	var (
		radius float64
		dso    bool
	)
	cmd := &cobra.Command{
		Use:   "near NAME",
		Short: "List objects within a radius of a named object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := databaseFrom(cmd)
			if err != nil {
				return err
			}
			center := db.NameToIndex(args[0], true, true)
			p, err := objectPosition(db, args[0])
			if err != nil {
				return err
			}

			tree := db.StarOctree()
			if dso {
				tree = db.DSOOctree()
			}
			type near struct {
				entry octree.Entry
				dist  float64
			}
			var found []near
			for e := range tree.Near(p, radius) {
				if e.Index == center {
					continue
				}
				found = append(found, near{e, e.Pos.Distance(p)})
			}
			slices.SortFunc(found, func(a, b near) int {
				return cmp.Or(cmp.Compare(a.dist, b.dist), cmp.Compare(a.entry.Index, b.entry.Index))
			})

			rows := make([]table.Row, len(found))
			for i, n := range found {
				rows[i] = table.Row{n.entry.Index, db.ObjectName(n.entry.Index, false), formatFloat(n.dist)}
			}
			renderTable(cmd.OutOrStdout(), "Near "+args[0], table.Row{"Index", "Name", "Distance (ly)"}, rows)
			return nil
		},
	}
	cmd.Flags().Float64VarP(&radius, "radius", "r", 10, "search radius in light years")
	cmd.Flags().BoolVar(&dso, "dso", false, "search deep-sky objects instead of stars")
	return cmd
}

// objectPosition resolves name to a star or deep-sky object position.
func objectPosition(db *astrodb.Database, name string) (astro.Vec3, error) {
	idx := db.NameToIndex(name, true, true)
	if s := db.Star(idx); s != nil {
		return s.Position, nil
	}
	if o := db.DSO(idx); o != nil {
		return o.Position, nil
	}
	if idx.Valid() {
		return astro.Vec3{}, fmt.Errorf("%q has no position", name)
	}
	return astro.Vec3{}, fmt.Errorf("no object named %q", name)
}
