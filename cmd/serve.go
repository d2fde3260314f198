package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/homebudget/homebudget/internal/scheduler"
	"github.com/homebudget/homebudget/internal/server"
)

var (
	flagServeAddr     string
	flagPurgeSchedule string
	flagWarmSchedule  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", server.DefaultAddr, "HTTP listen address")
	serveCmd.Flags().StringVar(&flagPurgeSchedule, "purge-schedule", "@hourly", "Cron schedule for dropping expired lookups (empty disables)")
	serveCmd.Flags().StringVar(&flagWarmSchedule, "warm-schedule", "", "Cron schedule for refreshing the default lookup (empty disables)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, req, log, err := prepare(cmd)
	if err != nil {
		return err
	}
	w := newWiring(cfg, log)
	defer w.Close()

	sched := scheduler.New(log)
	if w.cache != nil && flagPurgeSchedule != "" {
		if err := sched.AddJob(flagPurgeSchedule, scheduler.NewPurgeJob(w.cache, log)); err != nil {
			return fmt.Errorf("--purge-schedule: %w", err)
		}
	}
	var warm scheduler.Job
	if flagWarmSchedule != "" {
		warm = scheduler.NewWarmJob(w.provider, req.Query, cfg.DataSource.Timeout()*2, log)
		if err := sched.AddJob(flagWarmSchedule, warm); err != nil {
			return fmt.Errorf("--warm-schedule: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()
	if warm != nil {
		sched.RunAsync(warm)
	}

	srv := server.New(w.runner, server.Config{
		Addr:     flagServeAddr,
		Log:      log,
		Defaults: req,
	})

	fmt.Printf("  homebudget API listening on http://%s\n", flagServeAddr)
	fmt.Println("  Stop with Ctrl+C")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
