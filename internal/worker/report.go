package worker

import (
	"context"
	"encoding/json"

	"github.com/RoGasore/Scola-sub000/internal/config"
	"github.com/RoGasore/Scola-sub000/internal/db"
	"github.com/RoGasore/Scola-sub000/internal/logger"
	"github.com/RoGasore/Scola-sub000/internal/model"
	"github.com/RoGasore/Scola-sub000/internal/queue"
	"github.com/RoGasore/Scola-sub000/internal/report"

	"github.com/rs/zerolog"
)

// ReportWorker consumes report jobs and pushes class period results to the
// education authority.
type ReportWorker struct {
	cfg           *config.Config
	repo          db.Repository
	reportService *report.Service
	consumer      *queue.Consumer
	workerPool    *WorkerPool
	log           zerolog.Logger
}

func NewReportWorker(
	cfg *config.Config,
	repo db.Repository,
	redisClient *queue.RedisClient,
) *ReportWorker {
	return &ReportWorker{
		cfg:           cfg,
		repo:          repo,
		reportService: report.NewService(cfg, repo),
		consumer:      queue.NewConsumer(redisClient, cfg),
		workerPool:    NewWorkerPool(cfg.Workers.Report.Count),
		log:           logger.Get(),
	}
}

func (w *ReportWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting report worker")

	w.workerPool.Start(ctx)

	return w.consumer.ConsumeReportQueue(ctx, w.handleMessage)
}

func (w *ReportWorker) Stop() {
	w.log.Info().Msg("Stopping report worker")
	w.workerPool.Stop()
}

func (w *ReportWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.ReportJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal report job")
		return err
	}

	w.log.Info().
		Str("submission_id", job.SubmissionID).
		Str("class", job.ClassName).
		Str("term_id", job.TermID).
		Msg("Processing report job")

	w.workerPool.Submit(func(ctx context.Context) error {
		return w.reportService.ProcessReportJob(ctx, job)
	})

	return nil
}
