package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RoGasore/Scola-sub000/internal/config"
	"github.com/RoGasore/Scola-sub000/internal/model"
	apperr "github.com/RoGasore/Scola-sub000/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	students    map[string]model.Student
	terms       []model.AcademicTerm
	grades      map[string][]model.GradeRecord
	uploads     map[string]*model.SheetUpload
	submissions map[string]*model.ReportSubmission
	currentTerm string
}

func newMemRepo() *memRepo {
	return &memRepo{
		students:    make(map[string]model.Student),
		grades:      make(map[string][]model.GradeRecord),
		uploads:     make(map[string]*model.SheetUpload),
		submissions: make(map[string]*model.ReportSubmission),
	}
}

func (r *memRepo) CreateStudent(_ context.Context, s *model.Student) error {
	r.students[s.ID] = *s
	return nil
}

func (r *memRepo) GetStudent(_ context.Context, id string) (*model.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, apperr.ErrStudentNotFound
	}
	return &s, nil
}

func (r *memRepo) ListStudentsByClass(_ context.Context, className string) ([]model.Student, error) {
	var out []model.Student
	for _, s := range r.students {
		if s.ClassName == className {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memRepo) CreateTerm(_ context.Context, t *model.AcademicTerm) error {
	r.terms = append(r.terms, *t)
	return nil
}

func (r *memRepo) ListTerms(_ context.Context) ([]model.AcademicTerm, error) {
	terms := make([]model.AcademicTerm, len(r.terms))
	copy(terms, r.terms)
	for i := range terms {
		terms[i].IsCurrent = terms[i].ID == r.currentTerm
	}
	return terms, nil
}

func (r *memRepo) SetCurrentTerm(_ context.Context, termID string) error {
	r.currentTerm = termID
	return nil
}

func (r *memRepo) GetCurrentTermID(_ context.Context) (string, error) {
	if r.currentTerm == "" {
		return "", apperr.ErrNoCurrentTerm
	}
	return r.currentTerm, nil
}

func (r *memRepo) InsertGrades(_ context.Context, records []model.GradeRecord) error {
	for _, record := range records {
		r.grades[record.StudentID] = append(r.grades[record.StudentID], record)
	}
	return nil
}

func (r *memRepo) ListGradesByStudent(_ context.Context, studentID string) ([]model.GradeRecord, error) {
	return r.grades[studentID], nil
}

func (r *memRepo) CreateUpload(_ context.Context, u *model.SheetUpload) error {
	r.uploads[u.ID] = u
	return nil
}

func (r *memRepo) GetUpload(_ context.Context, id string) (*model.SheetUpload, error) {
	u, ok := r.uploads[id]
	if !ok {
		return nil, apperr.ErrSheetNotFound
	}
	return u, nil
}

func (r *memRepo) UpdateUploadStatus(_ context.Context, id string, status model.SheetStatus, errorMessage *string) error {
	if u, ok := r.uploads[id]; ok {
		u.Status = status
		u.ErrorMessage = errorMessage
	}
	return nil
}

func (r *memRepo) CreateSubmission(_ context.Context, s *model.ReportSubmission) error {
	r.submissions[s.ID] = s
	return nil
}

func (r *memRepo) GetSubmission(_ context.Context, id string) (*model.ReportSubmission, error) {
	s, ok := r.submissions[id]
	if !ok {
		return nil, apperr.ErrSubmissionNotFound
	}
	return s, nil
}

func (r *memRepo) UpdateSubmission(_ context.Context, id string, status model.SubmissionStatus, sent, failed int, errorMessage *string) error {
	if s, ok := r.submissions[id]; ok {
		s.Status = status
		s.SentCount = sent
		s.FailedCount = failed
		s.ErrorMessage = errorMessage
	}
	return nil
}

type memProducer struct {
	ingestionJobs []model.IngestionJob
	reportJobs    []model.ReportJob
}

func (p *memProducer) EnqueueIngestionJob(_ context.Context, job model.IngestionJob) error {
	p.ingestionJobs = append(p.ingestionJobs, job)
	return nil
}

func (p *memProducer) EnqueueReportJob(_ context.Context, job model.ReportJob) error {
	p.reportJobs = append(p.reportJobs, job)
	return nil
}

func setup(t *testing.T) (*gin.Engine, *memRepo, *memProducer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newMemRepo()
	producer := &memProducer{}
	cfg := &config.Config{}
	cfg.App.Name = "scolagest"
	cfg.App.Version = "test"

	router := gin.New()
	SetupRoutes(router, NewHandler(repo, producer, cfg))
	return router, repo, producer
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seedBulletinData(repo *memRepo) {
	repo.students["std-1"] = model.Student{ID: "std-1", FirstName: "Amani", LastName: "Kalume", ClassName: "6A"}
	repo.terms = []model.AcademicTerm{{ID: "term-1", Name: "1ère Période", Semester: 1, Period: 1}}
	repo.grades["std-1"] = []model.GradeRecord{
		{StudentID: "std-1", Course: "Math", Grade: "17/20", Semester: 1, Period: 1},
		{StudentID: "std-1", Course: "Math", Grade: "15/20", Semester: 1, Period: 1},
	}
}

func TestGetBulletin(t *testing.T) {
	router, repo, _ := setup(t)
	seedBulletinData(repo)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/students/std-1/bulletin/term-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data model.BulletinData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, "16.00/20", data.OverallAverage)
	assert.Equal(t, map[string]string{"Math": "16.00/20"}, data.CourseAverages)
	assert.Len(t, data.GradesByCourse["Math"], 2)
}

func TestGetBulletin_NotFound(t *testing.T) {
	router, repo, _ := setup(t)
	seedBulletinData(repo)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/students/ghost/bulletin/term-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/students/std-1/bulletin/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateEvaluation(t *testing.T) {
	router, repo, _ := setup(t)

	req := map[string]interface{}{
		"class_name":      "6A",
		"course":          "Math",
		"evaluation_type": "Interrogation",
		"ponderation":     20,
		"semester":        1,
		"period":          1,
		"date":            "2025-10-06T00:00:00Z",
		"entries": []map[string]string{
			{"student_id": "std-1", "grade": "17/20"},
			{"student_id": "std-2", "grade": "Acquis"},
		},
	}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/evaluations", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Len(t, repo.grades["std-1"], 1)
	assert.Len(t, repo.grades["std-2"], 1)
	assert.Equal(t, "Acquis", repo.grades["std-2"][0].Grade)
	assert.Equal(t, "Math", repo.grades["std-1"][0].Course)
}

func TestCreateEvaluation_BadBody(t *testing.T) {
	router, _, _ := setup(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/evaluations", map[string]string{"course": "Math"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterSheet(t *testing.T) {
	router, repo, producer := setup(t)

	req := map[string]string{"s3_path": "sheets/6a-math.xlsx", "class_name": "6A"}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/sheets", req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.Len(t, producer.ingestionJobs, 1)
	job := producer.ingestionJobs[0]
	assert.Equal(t, "sheets/6a-math.xlsx", job.S3Path)

	upload, err := repo.GetUpload(context.Background(), job.UploadID)
	require.NoError(t, err)
	assert.Equal(t, model.SheetStatusUploaded, upload.Status)
}

func TestSubmitReport(t *testing.T) {
	router, repo, producer := setup(t)
	seedBulletinData(repo)

	req := map[string]string{"class_name": "6A", "term_id": "term-1"}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/reports", req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.Len(t, producer.reportJobs, 1)
	sub := repo.submissions[producer.reportJobs[0].SubmissionID]
	require.NotNil(t, sub)
	assert.Equal(t, model.SubmissionStatusPending, sub.Status)
	assert.Equal(t, 1, sub.StudentCount)
}

func TestSubmitReport_EmptyClass(t *testing.T) {
	router, _, producer := setup(t)

	req := map[string]string{"class_name": "5B", "term_id": "term-1"}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/reports", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, producer.reportJobs)
}

func TestSetCurrentTerm(t *testing.T) {
	router, repo, _ := setup(t)
	repo.terms = []model.AcademicTerm{
		{ID: "term-1", Name: "1ère Période", Semester: 1, Period: 1},
		{ID: "term-2", Name: "2ème Période", Semester: 1, Period: 2},
	}

	rec := doJSON(t, router, http.MethodPut, "/api/v1/terms/current", map[string]string{"term_id": "term-2"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "term-2", repo.currentTerm)

	// Unknown term leaves the pointer untouched.
	rec = doJSON(t, router, http.MethodPut, "/api/v1/terms/current", map[string]string{"term_id": "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "term-2", repo.currentTerm)
}

func TestListTerms_MarksCurrent(t *testing.T) {
	router, repo, _ := setup(t)
	repo.terms = []model.AcademicTerm{
		{ID: "term-1", Name: "1ère Période", Semester: 1, Period: 1},
		{ID: "term-2", Name: "2ème Période", Semester: 1, Period: 2},
	}
	repo.currentTerm = "term-1"

	rec := doJSON(t, router, http.MethodGet, "/api/v1/terms", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Terms []model.AcademicTerm `json:"terms"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Terms, 2)
	assert.True(t, resp.Terms[0].IsCurrent)
	assert.False(t, resp.Terms[1].IsCurrent)
}

func TestHealthCheck(t *testing.T) {
	router, _, _ := setup(t)

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
