package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"pointsdesk/application"
	"pointsdesk/config"
	"pointsdesk/database"
	"pointsdesk/domain/interfaces"
	"pointsdesk/domain/services"
	"pointsdesk/infrastructure"
	"pointsdesk/server"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting pointsdesk...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	// The audit sink is a collaborator, not a dependency the service cannot
	// run without. If NATS is unreachable, events are dropped with a warning.
	eventPublisher, natsClient := connectAuditSink(ctx, cfg)
	if natsClient != nil {
		defer natsClient.Close()
	}

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)

	srv := server.NewServer(
		cfg.HTTPAddr,
		uowFactory,
		application.NewSettlementEngine(uowFactory),
		application.NewConfiscationBatch(uowFactory),
		oddsPolicyFromConfig(cfg),
		cfg.DormantMonths,
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	log.WithField("environment", cfg.Environment).Info("pointsdesk is running")

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}

	log.Info("Shutdown completed")
	return nil
}

// connectAuditSink connects to NATS and prepares the audit stream, falling
// back to a noop publisher when the sink is unavailable
func connectAuditSink(ctx context.Context, cfg *config.Config) (interfaces.EventPublisher, *infrastructure.NATSClient) {
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		log.WithError(err).Warn("NATS unavailable, audit events will be dropped")
		return infrastructure.NewNoopEventPublisher(), nil
	}

	publisher := infrastructure.NewNATSEventPublisher(natsClient)
	if err := publisher.EnsureAuditStream(); err != nil {
		log.WithError(err).Warn("Failed to ensure audit stream, audit events will be dropped")
		natsClient.Close()
		return infrastructure.NewNoopEventPublisher(), nil
	}

	log.Info("Audit event sink connected")
	return publisher, natsClient
}

func oddsPolicyFromConfig(cfg *config.Config) interfaces.OddsPolicy {
	margin, err := decimal.NewFromString(cfg.OddsMargin)
	if err != nil {
		log.WithError(err).WithField("margin", cfg.OddsMargin).Warn("Invalid odds margin, using default")
		return services.DefaultOddsPolicy()
	}
	return services.NewFlatMarginPolicy(margin)
}
