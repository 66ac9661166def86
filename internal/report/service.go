package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoGasore/Scola-sub000/internal/bulletin"
	"github.com/RoGasore/Scola-sub000/internal/config"
	"github.com/RoGasore/Scola-sub000/internal/db"
	"github.com/RoGasore/Scola-sub000/internal/logger"
	"github.com/RoGasore/Scola-sub000/internal/model"
	apperr "github.com/RoGasore/Scola-sub000/pkg/errors"

	"github.com/rs/zerolog"
)

type batchSender interface {
	SendResultBatch(ctx context.Context, results []model.AuthorityResult) (*model.BatchResponse, error)
}

// Service builds the period results of a whole class and pushes them to the
// education authority in batches.
type Service struct {
	cfg       *config.Config
	repo      db.Repository
	bulletins *bulletin.Service
	client    batchSender
	log       zerolog.Logger
}

func NewService(cfg *config.Config, repo db.Repository) *Service {
	return &Service{
		cfg:       cfg,
		repo:      repo,
		bulletins: bulletin.NewService(repo),
		client:    NewClient(cfg),
		log:       logger.Get(),
	}
}

func (s *Service) ProcessReportJob(ctx context.Context, job model.ReportJob) error {
	log := s.log.With().
		Str("submission_id", job.SubmissionID).
		Str("class", job.ClassName).
		Str("term_id", job.TermID).
		Logger()

	log.Info().Msg("Processing report job")

	students, err := s.repo.ListStudentsByClass(ctx, job.ClassName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list students")
		return s.fail(ctx, job.SubmissionID, err)
	}
	if len(students) == 0 {
		log.Warn().Msg("No students in class")
		return s.fail(ctx, job.SubmissionID, fmt.Errorf("no students in class %s", job.ClassName))
	}

	results := make([]model.AuthorityResult, 0, len(students))
	for _, student := range students {
		data, err := s.bulletins.BuildBulletin(ctx, student.ID, job.TermID)
		if err != nil {
			if errors.Is(err, apperr.ErrTermNotFound) {
				log.Error().Err(err).Msg("Term does not resolve, aborting submission")
				return s.fail(ctx, job.SubmissionID, err)
			}
			log.Error().Err(err).Str("student_id", student.ID).Msg("Failed to build bulletin")
			return s.fail(ctx, job.SubmissionID, err)
		}
		results = append(results, toAuthorityResult(data))
	}

	sent, failed, err := s.sendAll(ctx, results)
	if err != nil {
		log.Error().Err(err).Msg("Submission aborted")
		return s.fail(ctx, job.SubmissionID, err)
	}

	status := statusFor(sent, failed)
	if err := s.repo.UpdateSubmission(ctx, job.SubmissionID, status, sent, failed, nil); err != nil {
		return err
	}

	log.Info().
		Int("sent", sent).
		Int("failed", failed).
		Str("status", string(status)).
		Msg("Report job completed")
	return nil
}

// sendAll pushes results in authority-sized batches, each with bounded
// retries and linear backoff. It returns the per-student sent/failed tally.
func (s *Service) sendAll(ctx context.Context, results []model.AuthorityResult) (sent, failed int, err error) {
	batchSize := s.cfg.Authority.BatchSize
	if batchSize <= 0 {
		batchSize = len(results)
	}

	for start := 0; start < len(results); start += batchSize {
		end := start + batchSize
		if end > len(results) {
			end = len(results)
		}

		batchSent, batchFailed, err := s.sendBatch(ctx, results[start:end])
		if err != nil {
			return sent, failed, err
		}
		sent += batchSent
		failed += batchFailed
	}

	return sent, failed, nil
}

func (s *Service) sendBatch(ctx context.Context, batch []model.AuthorityResult) (int, int, error) {
	var lastErr error
	for attempt := 0; attempt < s.cfg.Authority.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, 0, ctx.Err()
			case <-time.After(s.cfg.Authority.RetryDelay * time.Duration(attempt)):
			}
		}

		resp, err := s.client.SendResultBatch(ctx, batch)
		if err != nil {
			lastErr = err
			if !apperr.IsRetryable(err) {
				return 0, 0, err
			}
			s.log.Warn().Err(err).Int("attempt", attempt+1).Msg("Batch send failed, retrying")
			continue
		}

		sent, failed := tally(batch, resp)
		return sent, failed, nil
	}

	return 0, 0, fmt.Errorf("max retries exhausted: %w", lastErr)
}

// tally splits a batch into sent/failed counts from the authority response.
// The authority reports failures by student id.
func tally(batch []model.AuthorityResult, resp *model.BatchResponse) (sent, failed int) {
	if resp.Success {
		return len(batch), 0
	}

	failedStudents := make(map[string]bool, len(resp.Failed))
	for _, studentID := range resp.Failed {
		failedStudents[studentID] = true
	}

	for _, result := range batch {
		if failedStudents[result.StudentID] {
			failed++
		} else {
			sent++
		}
	}
	return sent, failed
}

func statusFor(sent, failed int) model.SubmissionStatus {
	switch {
	case failed == 0:
		return model.SubmissionStatusSent
	case sent == 0:
		return model.SubmissionStatusFailed
	default:
		return model.SubmissionStatusPartial
	}
}

func toAuthorityResult(data *model.BulletinData) model.AuthorityResult {
	return model.AuthorityResult{
		StudentID:      data.Student.ID,
		StudentName:    data.Student.FullName(),
		ClassName:      data.Student.ClassName,
		TermName:       data.Term.Name,
		Semester:       data.Term.Semester,
		Period:         data.Term.Period,
		CourseAverages: data.CourseAverages,
		OverallAverage: data.OverallAverage,
	}
}

func (s *Service) fail(ctx context.Context, submissionID string, cause error) error {
	msg := cause.Error()
	if err := s.repo.UpdateSubmission(ctx, submissionID, model.SubmissionStatusFailed, 0, 0, &msg); err != nil {
		return err
	}
	return cause
}
