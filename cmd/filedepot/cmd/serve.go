package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/filedepot/filedepot/internal/config"
	deperr "github.com/filedepot/filedepot/internal/errors"
	"github.com/filedepot/filedepot/internal/index"
	"github.com/filedepot/filedepot/internal/watcher"
)

// lockFileName is the single-instance lock created inside the indexed root.
const lockFileName = ".filedepot.lock"

func newServeCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Index the root and keep the index fresh",
		Long: `Serve scans the configured root, then keeps the index up to date via
the configured periodic rescan interval and, with --watch, filesystem
change notifications. Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if watch {
				cfg.Watch.Enabled = true
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Rescan on filesystem changes")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	opts, err := index.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	// Only one serve instance per root.
	lock := flock.New(filepath.Join(opts.Root, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return deperr.New(deperr.ErrCodeLockHeld, "failed to acquire index lock", err)
	}
	if !locked {
		return deperr.New(deperr.ErrCodeLockHeld,
			fmt.Sprintf("another filedepot instance is serving %s", opts.Root), nil)
	}
	defer func() { _ = lock.Unlock() }()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := index.New(opts)
	if err != nil {
		return err
	}
	if err := store.Start(ctx); err != nil {
		return err
	}
	defer store.Stop()

	slog.Info("index ready",
		slog.String("root", opts.Root),
		slog.Int("files", len(store.GetAll())))

	if cfg.Watch.Enabled {
		if err := runWatcher(ctx, cfg, store); err != nil {
			return err
		}
	} else {
		<-ctx.Done()
	}

	slog.Info("shutting down")
	return nil
}

// runWatcher wires filesystem change batches to index rescans. Blocks until
// the context is cancelled.
func runWatcher(ctx context.Context, cfg *config.Config, store *index.Store) error {
	window, err := cfg.DebounceWindow()
	if err != nil {
		return err
	}

	w, err := watcher.New(watcher.Options{DebounceWindow: window})
	if err != nil {
		return deperr.New(deperr.ErrCodeWatchFailed, "failed to create watcher", err)
	}

	root, err := cfg.AbsRoot()
	if err != nil {
		return err
	}

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- w.Start(ctx, root)
	}()
	defer func() { _ = w.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-watchErr:
			if err != nil && err != context.Canceled {
				return deperr.New(deperr.ErrCodeWatchFailed, "watcher stopped", err)
			}
			return nil
		case batch, ok := <-w.Events():
			if !ok {
				return nil
			}
			slog.Debug("filesystem changed, rescanning",
				slog.Int("events", len(batch)))
			if err := store.Rescan(ctx); err != nil {
				// Previous snapshot stays authoritative.
				slog.Error("change-triggered rescan failed",
					slog.String("error", err.Error()))
			}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			slog.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}
