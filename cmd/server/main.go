package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/mailrelay/app/relay"
	"github.com/dmitrymomot/mailrelay/core/config"
	"github.com/dmitrymomot/mailrelay/core/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Reads .env first when present; SMTP_USERNAME, SMTP_PASSWORD and FROM_EMAIL are required.
	var cfg relay.Config
	if err := config.Load(&cfg); err != nil {
		logger.New().Error("Failed to load configuration", logger.Component("config"), logger.Error(err))
		os.Exit(1)
	}

	log := relay.NewLogger(cfg)

	app, err := relay.New(cfg, relay.WithLogger(log))
	if err != nil {
		log.Error("Failed to initialize mail relay", logger.Component("relay"), logger.Error(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("Mail relay stopped with error", logger.Component("relay"), logger.Error(err))
		os.Exit(1)
	}
}
