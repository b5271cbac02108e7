package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/GianImpedovo/is-inventoryapp/internal/config"
	httpAPI "github.com/GianImpedovo/is-inventoryapp/internal/http"
	"github.com/GianImpedovo/is-inventoryapp/internal/http/controller"
	"github.com/GianImpedovo/is-inventoryapp/internal/logger"
	"github.com/GianImpedovo/is-inventoryapp/internal/metrics"
	"github.com/GianImpedovo/is-inventoryapp/internal/repository/sql"
	"github.com/GianImpedovo/is-inventoryapp/internal/service"
	sqspkg "github.com/GianImpedovo/is-inventoryapp/internal/sqs"
	"github.com/GianImpedovo/is-inventoryapp/internal/stats"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(conf.DebugMode)
	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	db, err := sql.StartDB(ctx, conf.Database)
	handleErr("starting database", err)

	productRepository := sql.NewProductRepository(db)
	reporter := stats.NewFallbackReporter(
		stats.NewQueryReporter(productRepository),
		stats.NewFoldReporter(productRepository),
	)

	var notifier service.Notifier
	if conf.AWS.NotificationsEnabled() {
		sqsClient, err := sqspkg.NewClient(ctx, conf.AWS.Region, conf.AWS.Endpoint)
		handleErr("creating SQS client", err)
		notifier = sqspkg.NewPublisher(sqsClient, conf.AWS.SQSQueueURL)
		slog.Info("Product change notifications enabled", slog.String("queue_url", conf.AWS.SQSQueueURL))
	}

	productService := service.NewProductService(productRepository, reporter, notifier)

	ctr := controller.New(productService)
	productCtr := controller.NewProductController(productService)
	router := httpAPI.InitRouter(gin.New(), ctr, productCtr)

	httpServer := &http.Server{
		Addr:              ":" + conf.HTTPServer.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("HTTP server starting", slog.String("port", conf.HTTPServer.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			handleErr("listening to HTTP requests", err)
		}
	}()

	metricsServer := metrics.NewServer(conf.MetricsServer.Port)
	go func() {
		slog.Info("Metrics server starting", slog.String("port", conf.MetricsServer.Port))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			handleErr("listening to metrics requests", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				return httpServer.Shutdown(ctx)
			},
			"metrics-server": func(ctx context.Context) error {
				return metricsServer.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait
	if err := db.Close(); err != nil {
		slog.Error("Failed to close database", slog.Any("err", err))
	}
	log.Printf("Inventory service exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}
