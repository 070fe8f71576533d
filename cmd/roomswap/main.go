package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sxcben/unit-repartition-project/internal/config"
	"github.com/sxcben/unit-repartition-project/internal/engine"
	"github.com/sxcben/unit-repartition-project/internal/notify"
	"github.com/sxcben/unit-repartition-project/internal/tunnel"
	"github.com/sxcben/unit-repartition-project/internal/web"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Prompt for whatever flags and env left unset.
	if err := cfg.Wizard(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	eng, err := engine.New(cfg.TotalRent, cfg.Participants)
	if err != nil {
		logger.Fatal("failed to initialize allocation", zap.Error(err))
	}
	logger.Info("allocation initialized",
		zap.Stringer("total_rent", eng.TotalRent()),
		zap.Strings("participants", eng.Participants()))

	announcer, err := notify.New(cfg.DiscordToken, cfg.DiscordChannelID, logger)
	if err != nil {
		logger.Fatal("failed to create discord announcer", zap.Error(err))
	}
	if err := announcer.Start(); err != nil {
		logger.Fatal("failed to start discord announcer", zap.Error(err))
	}
	defer announcer.Stop()
	announcer.StartReminders(eng, time.Hour)

	server := web.New(cfg, eng, announcer, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.EnableTunnel {
		go func() {
			err := tunnel.Open(ctx, cfg.Port, logger, func(url string) {
				fmt.Printf("\nLocaltunnel URL: %s\n\n", url)
				announcer.TunnelReady(url)
			})
			if err != nil {
				logger.Warn("could not start localtunnel", zap.Error(err))
			}
		}()
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("web server error", zap.Error(err))
		}
	}()
	fmt.Printf("Starting room swap server at http://%s ...\n", cfg.Addr())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("web server shutdown failed", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
