package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/GianImpedovo/is-inventoryapp/internal/config"
	"github.com/GianImpedovo/is-inventoryapp/internal/logger"
	sqspkg "github.com/GianImpedovo/is-inventoryapp/internal/sqs"
)

func main() {
	conf, err := config.LoadAWSFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(false)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sqsClient, err := sqspkg.NewClient(ctx, conf.Region, conf.Endpoint)
	handleErr("creating SQS client", err)

	notifier := sqspkg.NewStockNotifier(slog.Default(), conf.LowStockThreshold)
	consumer := sqspkg.NewConsumer(sqsClient, conf.SQSQueueURL, notifier)

	slog.Info("Notification service started. Listening for inventory changes...", slog.String("queue_url", conf.SQSQueueURL), slog.Int64("low_stock_threshold", conf.LowStockThreshold))

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Consumer error", slog.Any("err", err))
		stop()
		os.Exit(1)
	}

	log.Println("Shutting down gracefully...")
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}
