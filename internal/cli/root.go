// Package cli provides the ls-astrodb command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-astrodb/internal/astrodb"
	"github.com/litescript/ls-astrodb/internal/config"
	"github.com/litescript/ls-astrodb/internal/loader"
	"github.com/litescript/ls-astrodb/internal/logging"
	"github.com/litescript/ls-astrodb/internal/version"
)

// appKey stores the *app in the command context.
type appKey struct{}

// app carries what every command needs. The database is built on first use
// so commands like version never load catalogs.
type app struct {
	cfg config.Config
	log *logging.Logger
	db  *astrodb.Database
}

func (a *app) database(ctx context.Context) (*astrodb.Database, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, _, err := loader.Build(ctx, a.cfg.LoaderOptions(a.log))
	if err != nil {
		return nil, fmt.Errorf("loading catalogs: %w", err)
	}
	a.db = db
	return db, nil
}

func appFrom(cmd *cobra.Command) *app {
	if a, ok := cmd.Context().Value(appKey{}).(*app); ok {
		return a
	}
	return &app{cfg: config.Config{Seed: true}, log: logging.Discard()}
}

func databaseFrom(cmd *cobra.Command) (*astrodb.Database, error) {
	return appFrom(cmd).database(cmd.Context())
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "ls-astrodb",
		Short: "Astronomical catalog and spatial index",
		Long: `ls-astrodb loads star and deep-sky catalogs into an in-memory database and
answers name, designation, completion and visibility queries against it.`,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}
			if err := config.Init(cfgFile); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log := logging.New(cfg.Level())
			log.SetOutput(cmd.ErrOrStderr())

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, appKey{}, &app{cfg: cfg, log: log}))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default .ls-astrodb.yaml)")
	flags.String("data-dir", "", "directory holding stars.toml, dsos.toml, names.toml and xindex.toml")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("seed", true, "register the built-in bright stars and deep-sky objects")
	_ = config.BindFlags(flags)

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewVersionCommand(version.Version))
	rootCmd.AddCommand(NewLookupCommand())
	rootCmd.AddCommand(NewCompleteCommand())
	rootCmd.AddCommand(NewVisibleCommand())
	rootCmd.AddCommand(NewNearCommand())
	rootCmd.AddCommand(NewStatsCommand())
	rootCmd.AddCommand(NewBrowseCommand())
	rootCmd.AddCommand(NewWatchCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
