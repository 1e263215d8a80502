package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fuelflow/fuelops-backend/internal/notify"
	"github.com/fuelflow/fuelops-backend/pkg/config"
	"github.com/fuelflow/fuelops-backend/pkg/logger"
)

// logSender stands in for the carrier gateway. Real delivery is a separate
// integration; the worker's contract is drain, send, ack.
type logSender struct {
	logg *logger.Logger
}

func (s *logSender) Send(ctx context.Context, msg notify.SMSMessage) error {
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"phone":    msg.Phone,
		"order_id": msg.OrderID,
	})
	s.logg.Info(logCtx, "sms dispatched")
	return nil
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "sms-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "sms-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.SMS.ClientID == "" {
		cfg.SMS.ClientID = "fuelops-sms-worker"
	}

	consumer, err := notify.NewConsumer(cfg.SMS, &logSender{logg: logg}, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sms consumer", err)
		os.Exit(1)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			logg.Error(context.Background(), "error closing sms consumer", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		logg.Error(ctx, "failed to start sms consumer", err)
		os.Exit(1)
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"subject": cfg.SMS.Subject,
	})
	logg.Info(logCtx, "sms worker running")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdown
	logg.Info(logg.WithField(logCtx, "signal", sig.String()), "sms worker shutting down")
}
