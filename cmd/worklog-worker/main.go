package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
	"worklog/internal/amqp"
	"worklog/internal/cli"
	"worklog/internal/export/google"
	applog "worklog/internal/log"
	"worklog/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)

	logger.Info("Starting worklog-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Google Sheets export is optional; without a spreadsheet the worker
	// only drains events.
	var exporter *google.Exporter
	if cfg.GoogleSpreadsheetID != "" {
		var err error
		exporter, err = google.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", "error", err)
			os.Exit(1)
		}
		logger.Info("Google Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	var exportWorker *worker.ExportWorker
	if exporter != nil {
		exportWorker = worker.NewExportWorker(sqliteRepo, exporter)

		// Export once at startup so the sheet reflects anything written
		// while the worker was down.
		if err := exportWorker.Export(ctx); err != nil {
			logger.Error("Startup export failed", "error", err)
			// Keep running; the next event or tick retries.
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeRecordEvents(gctx, func(ev *amqp.RecordEvent) error {
			if exportWorker == nil {
				logger.Info("Record event received, export disabled",
					"event", ev.Event, "record_id", ev.RecordID)
				return nil
			}
			return exportWorker.HandleEvent(gctx, ev)
		})
	})

	if exportWorker != nil {
		g.Go(func() error {
			return exportWorker.RunPeriodic(gctx, cfg.ExportInterval)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
