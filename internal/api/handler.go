package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/RoGasore/Scola-sub000/internal/bulletin"
	"github.com/RoGasore/Scola-sub000/internal/config"
	"github.com/RoGasore/Scola-sub000/internal/db"
	"github.com/RoGasore/Scola-sub000/internal/logger"
	"github.com/RoGasore/Scola-sub000/internal/model"
	apperr "github.com/RoGasore/Scola-sub000/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type jobProducer interface {
	EnqueueIngestionJob(ctx context.Context, job model.IngestionJob) error
	EnqueueReportJob(ctx context.Context, job model.ReportJob) error
}

type Handler struct {
	repo      db.Repository
	producer  jobProducer
	bulletins *bulletin.Service
	cfg       *config.Config
	log       zerolog.Logger
}

func NewHandler(
	repo db.Repository,
	producer jobProducer,
	cfg *config.Config,
) *Handler {
	return &Handler{
		repo:      repo,
		producer:  producer,
		bulletins: bulletin.NewService(repo),
		cfg:       cfg,
		log:       logger.Get(),
	}
}

func (h *Handler) CreateStudent(c *gin.Context) {
	var req model.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	student := model.Student{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ClassName: req.ClassName,
		Level:     req.Level,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.repo.CreateStudent(c.Request.Context(), &student); err != nil {
		h.log.Error().Err(err).Msg("Failed to create student")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, student)
}

func (h *Handler) GetStudent(c *gin.Context) {
	student, err := h.repo.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperr.ErrStudentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
			return
		}
		h.log.Error().Err(err).Str("student_id", c.Param("id")).Msg("Failed to get student")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, student)
}

// GetBulletin builds the report card for a (student, term) pair. Not-found
// errors surface as 404 so the UI can show its fallback state; no partial
// bulletin is ever returned.
func (h *Handler) GetBulletin(c *gin.Context) {
	studentID := c.Param("id")
	termID := c.Param("term_id")

	data, err := h.bulletins.BuildBulletin(c.Request.Context(), studentID, termID)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrStudentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		case errors.Is(err, apperr.ErrTermNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Academic term not found"})
		default:
			h.log.Error().Err(err).
				Str("student_id", studentID).
				Str("term_id", termID).
				Msg("Failed to build bulletin")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, data)
}

func (h *Handler) ListTerms(c *gin.Context) {
	terms, err := h.repo.ListTerms(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list terms")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"terms": terms})
}

func (h *Handler) CreateTerm(c *gin.Context) {
	var req model.CreateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	term := model.AcademicTerm{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Semester:  req.Semester,
		Period:    req.Period,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	if err := h.repo.CreateTerm(c.Request.Context(), &term); err != nil {
		h.log.Error().Err(err).Msg("Failed to create term")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, term)
}

// SetCurrentTerm advances the school year by repointing the single current
// term pointer. The old holder is implicitly cleared.
func (h *Handler) SetCurrentTerm(c *gin.Context) {
	var req model.SetCurrentTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	terms, err := h.repo.ListTerms(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list terms")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	found := false
	for _, term := range terms {
		if term.ID == req.TermID {
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Academic term not found"})
		return
	}

	if err := h.repo.SetCurrentTerm(c.Request.Context(), req.TermID); err != nil {
		h.log.Error().Err(err).Str("term_id", req.TermID).Msg("Failed to set current term")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.log.Info().Str("term_id", req.TermID).Msg("Current term updated")
	c.JSON(http.StatusOK, gin.H{"message": "Current term updated", "term_id": req.TermID})
}

// CreateEvaluation batch-creates one immutable grade record per listed
// student for a single evaluation event.
func (h *Handler) CreateEvaluation(c *gin.Context) {
	var req model.EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(req.Entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one entry is required"})
		return
	}

	now := time.Now().UTC()
	records := make([]model.GradeRecord, len(req.Entries))
	for i, entry := range req.Entries {
		records[i] = model.GradeRecord{
			ID:             uuid.NewString(),
			StudentID:      entry.StudentID,
			ClassName:      req.ClassName,
			Course:         req.Course,
			EvaluationType: req.EvaluationType,
			Grade:          entry.Grade,
			Ponderation:    req.Ponderation,
			Semester:       req.Semester,
			Period:         req.Period,
			Date:           req.Date,
			CreatedAt:      now,
		}
	}

	if err := h.repo.InsertGrades(c.Request.Context(), records); err != nil {
		h.log.Error().Err(err).Msg("Failed to insert grade records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.log.Info().
		Str("course", req.Course).
		Str("class", req.ClassName).
		Int("count", len(records)).
		Msg("Evaluation recorded")

	c.JSON(http.StatusCreated, gin.H{"message": "Evaluation recorded", "count": len(records)})
}

// RegisterSheet records an uploaded evaluation sheet and queues it for
// asynchronous ingestion.
func (h *Handler) RegisterSheet(c *gin.Context) {
	var req model.RegisterSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	upload := model.SheetUpload{
		ID:        uuid.NewString(),
		S3Path:    req.S3Path,
		ClassName: req.ClassName,
		Status:    model.SheetStatusUploaded,
	}

	if err := h.repo.CreateUpload(c.Request.Context(), &upload); err != nil {
		h.log.Error().Err(err).Msg("Failed to create upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	job := model.IngestionJob{
		UploadID: upload.ID,
		S3Path:   upload.S3Path,
	}

	if err := h.producer.EnqueueIngestionJob(c.Request.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue ingestion job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue ingestion job"})
		return
	}

	h.log.Info().Str("upload_id", upload.ID).Str("s3_path", upload.S3Path).Msg("Ingestion job enqueued")

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Sheet queued for ingestion",
		"upload":  upload,
	})
}

func (h *Handler) GetSheetStatus(c *gin.Context) {
	upload, err := h.repo.GetUpload(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperr.ErrSheetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Sheet upload not found"})
			return
		}
		h.log.Error().Err(err).Str("upload_id", c.Param("id")).Msg("Failed to get upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, upload)
}

// SubmitReport triggers a class period-result submission to the education
// authority.
func (h *Handler) SubmitReport(c *gin.Context) {
	var req model.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	students, err := h.repo.ListStudentsByClass(c.Request.Context(), req.ClassName)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list students")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if len(students) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No students in class"})
		return
	}

	sub := model.ReportSubmission{
		ID:           uuid.NewString(),
		ClassName:    req.ClassName,
		TermID:       req.TermID,
		Status:       model.SubmissionStatusPending,
		StudentCount: len(students),
	}

	if err := h.repo.CreateSubmission(c.Request.Context(), &sub); err != nil {
		h.log.Error().Err(err).Msg("Failed to create submission")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	job := model.ReportJob{
		SubmissionID: sub.ID,
		ClassName:    sub.ClassName,
		TermID:       sub.TermID,
	}

	if err := h.producer.EnqueueReportJob(c.Request.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue report job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue report job"})
		return
	}

	h.log.Info().
		Str("submission_id", sub.ID).
		Str("class", sub.ClassName).
		Str("term_id", sub.TermID).
		Msg("Report job enqueued")

	c.JSON(http.StatusAccepted, gin.H{
		"message":    "Report submission queued",
		"submission": sub,
	})
}

func (h *Handler) GetSubmission(c *gin.Context) {
	sub, err := h.repo.GetSubmission(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperr.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report submission not found"})
			return
		}
		h.log.Error().Err(err).Str("submission_id", c.Param("id")).Msg("Failed to get submission")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, sub)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}
