package worker

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/RoGasore/Scola-sub000/internal/config"
	"github.com/RoGasore/Scola-sub000/internal/db"
	"github.com/RoGasore/Scola-sub000/internal/excel"
	"github.com/RoGasore/Scola-sub000/internal/logger"
	"github.com/RoGasore/Scola-sub000/internal/model"
	"github.com/RoGasore/Scola-sub000/internal/queue"
	"github.com/RoGasore/Scola-sub000/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// IngestionWorker turns uploaded evaluation sheets into stored grade records.
type IngestionWorker struct {
	cfg        *config.Config
	repo       db.Repository
	storage    storage.Storage
	parser     excel.ParsingStrategy
	consumer   *queue.Consumer
	workerPool *WorkerPool
	log        zerolog.Logger
}

func NewIngestionWorker(
	cfg *config.Config,
	repo db.Repository,
	storage storage.Storage,
	redisClient *queue.RedisClient,
) *IngestionWorker {
	return &IngestionWorker{
		cfg:        cfg,
		repo:       repo,
		storage:    storage,
		parser:     excel.NewExcelStrategy(),
		consumer:   queue.NewConsumer(redisClient, cfg),
		workerPool: NewWorkerPool(cfg.Workers.Ingestion.Count),
		log:        logger.Get(),
	}
}

func (w *IngestionWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting ingestion worker")

	w.workerPool.Start(ctx)

	return w.consumer.ConsumeIngestionQueue(ctx, w.handleMessage)
}

func (w *IngestionWorker) Stop() {
	w.log.Info().Msg("Stopping ingestion worker")
	w.workerPool.Stop()
}

func (w *IngestionWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.IngestionJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal ingestion job")
		return err
	}

	w.log.Info().Str("upload_id", job.UploadID).Str("s3_path", job.S3Path).Msg("Processing ingestion job")

	w.workerPool.Submit(func(ctx context.Context) error {
		return w.processSheet(ctx, job)
	})

	return nil
}

func (w *IngestionWorker) processSheet(ctx context.Context, job model.IngestionJob) error {
	log := w.log.With().Str("upload_id", job.UploadID).Logger()

	upload, err := w.repo.GetUpload(ctx, job.UploadID)
	if err != nil {
		log.Error().Err(err).Msg("Upload not found")
		return err
	}

	log.Debug().Msg("Downloading sheet from storage")
	reader, err := w.storage.Download(ctx, job.S3Path)
	if err != nil {
		return w.failUpload(ctx, log, job.UploadID, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return w.failUpload(ctx, log, job.UploadID, err)
	}

	log.Debug().Msg("Parsing evaluation sheet")
	rows, err := w.parser.Parse(ctx, data)
	if err != nil {
		return w.failUpload(ctx, log, job.UploadID, err)
	}

	log.Debug().Int("row_count", len(rows)).Msg("Validating parsed rows")
	if err := w.parser.Validate(ctx, rows); err != nil {
		return w.failUpload(ctx, log, job.UploadID, err)
	}

	records := make([]model.GradeRecord, len(rows))
	now := time.Now().UTC()
	for i, row := range rows {
		records[i] = model.GradeRecord{
			ID:             uuid.NewString(),
			StudentID:      row.StudentID,
			ClassName:      upload.ClassName,
			Course:         row.Course,
			EvaluationType: row.EvaluationType,
			Grade:          row.Grade,
			Ponderation:    row.Ponderation,
			Semester:       row.Semester,
			Period:         row.Period,
			Date:           row.Date,
			CreatedAt:      now,
		}
	}

	log.Debug().Msg("Inserting grade records")
	if err := w.repo.InsertGrades(ctx, records); err != nil {
		return w.failUpload(ctx, log, job.UploadID, err)
	}

	if err := w.repo.UpdateUploadStatus(ctx, job.UploadID, model.SheetStatusParsedOK, nil); err != nil {
		log.Error().Err(err).Msg("Failed to update upload status")
		return err
	}

	log.Info().Int("record_count", len(records)).Msg("Sheet processed successfully")
	return nil
}

func (w *IngestionWorker) failUpload(ctx context.Context, log zerolog.Logger, uploadID string, cause error) error {
	log.Error().Err(cause).Msg("Sheet ingestion failed")
	errorMsg := cause.Error()
	if err := w.repo.UpdateUploadStatus(ctx, uploadID, model.SheetStatusParsedFail, &errorMsg); err != nil {
		log.Error().Err(err).Msg("Failed to update upload status")
	}
	return cause
}
