package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/leowmjw/go-field-timeline/pkg/http"
	"github.com/leowmjw/go-field-timeline/pkg/sequence"
	"github.com/leowmjw/go-field-timeline/pkg/temporal"
)

func main() {
	var (
		httpAddr     = flag.String("http-addr", ":8080", "HTTP server address")
		temporalAddr = flag.String("temporal-addr", "", "Temporal server address; empty inspects in process")
		namespace    = flag.String("namespace", "default", "Temporal namespace")
		taskQueue    = flag.String("task-queue", temporal.DefaultTaskQueue, "Temporal task queue")
		logLevel     = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	// Setup logger
	var logHandler slog.Handler
	switch *logLevel {
	case "debug":
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	case "warn":
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})
	case "error":
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})
	default:
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	logger.Info("Starting field timeline inspection service",
		"http_addr", *httpAddr,
		"temporal_addr", *temporalAddr,
		"namespace", *namespace,
		"task_queue", *taskQueue,
	)

	inspector := sequence.NewInspector(logger)

	var backend http.Backend = http.NewLocal(inspector)
	if *temporalAddr != "" {
		temporalClient, err := client.Dial(client.Options{
			HostPort:  *temporalAddr,
			Namespace: *namespace,
			Logger:    log.NewStructuredLogger(logger),
		})
		if err != nil {
			logger.Error("Failed to create Temporal client", "error", err)
			os.Exit(1)
		}
		defer temporalClient.Close()

		w := worker.New(temporalClient, *taskQueue, worker.Options{})
		temporal.Register(w, temporal.NewActivities(logger, inspector))

		// Start worker in background
		go func() {
			logger.Info("Starting Temporal worker", "task_queue", *taskQueue)
			if err := w.Run(worker.InterruptCh()); err != nil {
				logger.Error("Temporal worker failed", "error", err)
				os.Exit(1)
			}
		}()

		backend = temporal.NewDispatcher(logger, temporalClient, *taskQueue)
	} else {
		logger.Info("No Temporal address given, inspecting in process")
	}

	server := http.NewServer(logger, backend, *httpAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := server.Start(ctx); err != nil {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	logger.Info("Received shutdown signal, stopping services...")

	cancel()

	logger.Info("Field timeline inspection service stopped")
}
