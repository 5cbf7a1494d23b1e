package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/almazuulu/inventory-mgmt-tool/internal/adapter/handler"
	"github.com/almazuulu/inventory-mgmt-tool/internal/adapter/storage"
	"github.com/almazuulu/inventory-mgmt-tool/internal/config"
	"github.com/almazuulu/inventory-mgmt-tool/internal/core/service"
	"github.com/almazuulu/inventory-mgmt-tool/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL ERROR: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		stateFile   string
		lockTimeout time.Duration
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:   "warehouse",
		Short: "File-backed warehouse inventory tracking driven by stdin commands",
		Long: `warehouse reads LOCATION and INVENTORY commands from stdin, one per
line, and writes one response per command to stdout. State lives in a
shared JSON file guarded by a file lock, so any number of warehouse
processes can work against the same file at once.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// Flags beat environment variables when set explicitly.
			if cmd.Flags().Changed("file") {
				cfg.StateFile = stateFile
			}
			if cmd.Flags().Changed("lock-timeout") {
				cfg.LockTimeout = lockTimeout
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&stateFile, "file", config.DefaultStateFile, "path of the JSON state file")
	cmd.Flags().DurationVar(&lockTimeout, "lock-timeout", 0, "max wait for the file lock, 0 waits forever")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug/info/warn/error)")

	return cmd
}

func run(cfg config.Config) error {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	store := storage.NewFileStore(cfg.StateFile)
	locker := storage.NewFlockLocker(cfg.StateFile+storage.LockSuffix, cfg.LockTimeout)
	engine := service.NewEngine(store, locker, logger)
	commands := handler.NewCommandHandler(engine)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("accepting commands",
		zap.String("state_file", cfg.StateFile),
		zap.Duration("lock_timeout", cfg.LockTimeout),
	)

	done := make(chan error, 1)
	go func() {
		done <- commands.Loop(ctx, os.Stdin, os.Stdout)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info("input closed, exiting")
		return nil
	}
}
