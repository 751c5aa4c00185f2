package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/mpetrenko/smartcat-translator/internal/batch"
	"github.com/mpetrenko/smartcat-translator/internal/config"
	"github.com/mpetrenko/smartcat-translator/internal/httpapi"
	"github.com/mpetrenko/smartcat-translator/internal/jobs"
	"github.com/mpetrenko/smartcat-translator/internal/langdetect"
	"github.com/mpetrenko/smartcat-translator/internal/persistence"
	"github.com/mpetrenko/smartcat-translator/internal/transfer"
	"github.com/mpetrenko/smartcat-translator/internal/watch"
	"github.com/mpetrenko/smartcat-translator/pkg/log"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, job queue and watch folder",
		Long: `Run the long-lived service mode: an HTTP API for submitting and
inspecting translation jobs, a worker queue backed by a sqlite ledger, and an
optional cron-driven watch folder (WATCH_DIR).

Jobs interrupted by a restart are re-run from upload on the next start.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, err := newTransferService(cfg)
	if err != nil {
		return err
	}

	store, err := persistence.NewSQLiteStore(cfg.Service.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open job ledger: %w", err)
	}
	defer store.Close()

	queue := jobs.NewQueue(1, store)
	queue.Start(newBatchExecutor(cfg, svc, queue))
	defer queue.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cron.New()
	if cfg.Service.WatchDir != "" {
		watcher := watch.NewWatcher(cfg.Service.WatchDir, cfg.Service.WatchCron, queue, c)
		if err := watcher.Schedule(ctx); err != nil {
			return fmt.Errorf("failed to schedule watch folder: %w", err)
		}
		c.Start()
		defer c.Stop()
	}

	server := httpapi.NewServer(queue)
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP API listening on %s", cfg.Service.HTTPAddr)
		errCh <- server.ListenAndServe(cfg.Service.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newBatchExecutor adapts the orchestrator to the queue's executor contract.
// Each job becomes one batch; its polling profile follows the job kind.
func newBatchExecutor(cfg *config.Config, svc *transfer.Service, queue *jobs.Queue) jobs.Executor {
	return func(ctx context.Context, job *jobs.BatchJob) (string, error) {
		var inputs []batch.Input
		var batchCfg batch.Config

		switch job.Kind {
		case jobs.KindText:
			if !langdetect.Matches(job.Payload.Text, cfg.Translate.SourceLanguage) {
				detected, _ := langdetect.Detect(job.Payload.Text)
				log.Warn("[%s] Text looks like %s, configured source language is %s",
					job.ID, detected, cfg.Translate.SourceLanguage)
			}
			inputs = []batch.Input{{Text: job.Payload.Text}}
			batchCfg = textBatchConfig(cfg)
		case jobs.KindFiles:
			for _, path := range job.Payload.FilePaths {
				inputs = append(inputs, batch.Input{FilePath: path})
			}
			batchCfg = fileBatchConfig(cfg)
			if job.Payload.OutputDir != "" {
				batchCfg.OutputDir = job.Payload.OutputDir
			}
		default:
			return "", fmt.Errorf("unknown job kind %q", job.Kind)
		}

		orchestrator := batch.New(svc, jobs.NewQueueReporter(queue, job.ID), batchCfg)
		result, err := orchestrator.Run(ctx, inputs)
		if err != nil {
			return "", err
		}
		if result.Succeeded == 0 && result.Failed > 0 {
			return "", fmt.Errorf("all items failed: %s", result.Failures[0].Reason)
		}
		return result.Summary(), nil
	}
}
