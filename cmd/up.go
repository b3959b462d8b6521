package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlekseyChudov/rscheck/internal/config"
	"github.com/AlekseyChudov/rscheck/pkg/check"
	"github.com/AlekseyChudov/rscheck/pkg/pidfile"
	"github.com/AlekseyChudov/rscheck/pkg/probe"
	"github.com/AlekseyChudov/rscheck/pkg/server"
	"github.com/AlekseyChudov/rscheck/pkg/status"
	"github.com/AlekseyChudov/rscheck/pkg/watchdog"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(up)
	up.PersistentFlags().StringVar(&pidFile, "pidfile", "", "write rschecks process id to this file")
}

var up = &cobra.Command{
	Use:   "up <config-file>",
	Short: "Start the checks and the status endpoint",
	Long:  "This sub-command starts all configured checks, waits for the first healthy status if requested, and serves the aggregated verdict over HTTP",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(args[0])
		if err != nil {
			log.Fatalf("failed to load configuration: %s", err)
		}

		setupLogging(cfg.Logging)

		pidFileHandle := pidfile.New(pidFile)
		if err := pidFileHandle.Acquire(); err != nil {
			log.Fatalf("failed to write pid file to %q: %s", pidFile, err)
		}

		defer func() {
			if err := pidFileHandle.Release(); err != nil {
				log.Errorf("error while cleaning up the pid file: %s", err)
			}
		}()

		_, serverCfg := cfg.Server()

		store := status.NewStore(cfg.CheckNames())
		cache := status.NewQueryCache()
		aggregator := check.NewAggregator(store, cache, serverCfg)

		env := &probe.Env{
			Cache:    cache,
			CacheTTL: aggregator.CacheTTL(),
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		for name, thread := range cfg.Threads {
			if thread.Class == config.ClassServer {
				continue
			}

			p, err := probe.New(thread, env)
			if err != nil {
				log.Fatalf("check %q: %s", name, err)
			}

			go check.NewRunner(name, p, thread, store).Run(ctx)
		}

		notifier := watchdog.New()
		taskErrs := make(chan error, 2)

		srv := server.New(serverCfg, aggregator, Version)
		go func() {
			taskErrs <- srv.Run(ctx, notifier.Ready)
		}()
		go func() {
			taskErrs <- notifier.Run(ctx)
		}()

		signals := make(chan os.Signal, 1)
		signal.Notify(signals,
			syscall.SIGTERM,
			syscall.SIGINT,
		)

		select {
		case s := <-signals:
			log.Infof("received signal %s, shutting down", s)
			cancel()
		case err := <-taskErrs:
			if err != nil {
				log.Errorf("supervised task died: %s", err)
			} else {
				log.Error("supervised task exited unexpectedly")
			}

			if releaseErr := pidFileHandle.Release(); releaseErr != nil {
				log.Errorf("error while cleaning up the pid file: %s", releaseErr)
			}
			os.Exit(1)
		}
	},
}

func setupLogging(cfg config.Logging) {
	switch cfg.Format {
	case "", "text":
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.Fatalf("unknown log format %q", cfg.Format)
	}

	if cfg.Level == "" {
		return
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.Fatalf("unknown log level %q", cfg.Level)
	}
	log.SetLevel(level)
}
