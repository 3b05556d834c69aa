package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-astrodb/internal/loader"
	"github.com/litescript/ls-astrodb/internal/state"
	"github.com/litescript/ls-astrodb/internal/ui"
	"github.com/litescript/ls-astrodb/internal/watch"
)

// startReloading loads the database into a new manager and, with follow,
// keeps reloading it as data files change until ctx is done. The returned
// stop function waits for the reload loop to exit.
func startReloading(ctx context.Context, a *app, follow bool) (*state.Manager, func(), error) {
	mgr := state.NewManager(state.DefaultConfig())
	r := watch.NewReloader(mgr, a.cfg.LoaderOptions(a.log), a.log.Named("watch"))
	if err := r.Load(ctx, "startup"); err != nil {
		return nil, nil, err
	}
	if !follow {
		return mgr, func() {}, nil
	}
	if a.cfg.DataDir == "" {
		return nil, nil, errors.New("watching needs a data directory (--data-dir or data_dir)")
	}

	w, err := watch.NewWatcher(a.cfg.DataDir, loader.DefaultRegistry().Files(), a.cfg.Watch.Debounce)
	if err != nil {
		return nil, nil, err
	}
	if err := w.Start(); err != nil {
		return nil, nil, fmt.Errorf("watching %s: %w", a.cfg.DataDir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx, w)
	}()
	stop := func() {
		cancel()
		<-done
		w.Stop()
	}
	return mgr, stop, nil
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Load the data directory and reload it whenever a file changes",
		Long: `Loads the catalogs, then watches the data directory and rebuilds the
database after each settled change. A failed rebuild keeps the previous
database. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			ctx := cmd.Context()
			mgr, stop, err := startReloading(ctx, a, true)
			if err != nil {
				return err
			}
			defer stop()

			a.log.Info("watching %s", a.cfg.DataDir)
			<-ctx.Done()

			for _, e := range mgr.Snapshot().Events {
				line := fmt.Sprintf("%s %-13s gen %d  %s  %d objects (%+d)",
					e.Timestamp.Format("15:04:05"), e.Type, e.Generation, e.Source, e.Objects, e.Delta)
				if e.Error != "" {
					line += "  " + e.Error
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search names and view the sky interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return errors.New("browse needs a terminal")
			}
			a := appFrom(cmd)
			mgr, stop, err := startReloading(cmd.Context(), a, follow)
			if err != nil {
				return err
			}
			defer stop()
			// Log lines would tear the alternate screen.
			a.log.SetOutput(io.Discard)
			return ui.Run(mgr, a.cfg.CompletionLimit)
		},
	}
	cmd.Flags().BoolVarP(&follow, "watch", "w", false, "reload when data files change")
	return cmd
}
