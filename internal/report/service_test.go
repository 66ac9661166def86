package report

import (
	"context"
	"testing"
	"time"

	"github.com/RoGasore/Scola-sub000/internal/bulletin"
	"github.com/RoGasore/Scola-sub000/internal/config"
	"github.com/RoGasore/Scola-sub000/internal/logger"
	"github.com/RoGasore/Scola-sub000/internal/model"
	apperr "github.com/RoGasore/Scola-sub000/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	students    []model.Student
	terms       []model.AcademicTerm
	grades      map[string][]model.GradeRecord
	submissions map[string]*model.ReportSubmission
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		grades:      make(map[string][]model.GradeRecord),
		submissions: make(map[string]*model.ReportSubmission),
	}
}

func (r *fakeRepo) GetStudent(_ context.Context, id string) (*model.Student, error) {
	for i := range r.students {
		if r.students[i].ID == id {
			return &r.students[i], nil
		}
	}
	return nil, apperr.ErrStudentNotFound
}

func (r *fakeRepo) ListStudentsByClass(_ context.Context, className string) ([]model.Student, error) {
	var out []model.Student
	for _, s := range r.students {
		if s.ClassName == className {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListTerms(_ context.Context) ([]model.AcademicTerm, error) { return r.terms, nil }

func (r *fakeRepo) ListGradesByStudent(_ context.Context, studentID string) ([]model.GradeRecord, error) {
	return r.grades[studentID], nil
}

func (r *fakeRepo) UpdateSubmission(_ context.Context, id string, status model.SubmissionStatus, sent, failed int, errorMessage *string) error {
	r.submissions[id] = &model.ReportSubmission{
		ID: id, Status: status, SentCount: sent, FailedCount: failed, ErrorMessage: errorMessage,
	}
	return nil
}

func (r *fakeRepo) CreateStudent(context.Context, *model.Student) error      { return nil }
func (r *fakeRepo) CreateTerm(context.Context, *model.AcademicTerm) error    { return nil }
func (r *fakeRepo) SetCurrentTerm(context.Context, string) error             { return nil }
func (r *fakeRepo) GetCurrentTermID(context.Context) (string, error)         { return "", apperr.ErrNoCurrentTerm }
func (r *fakeRepo) InsertGrades(context.Context, []model.GradeRecord) error  { return nil }
func (r *fakeRepo) CreateUpload(context.Context, *model.SheetUpload) error   { return nil }
func (r *fakeRepo) GetUpload(context.Context, string) (*model.SheetUpload, error) {
	return nil, apperr.ErrSheetNotFound
}
func (r *fakeRepo) UpdateUploadStatus(context.Context, string, model.SheetStatus, *string) error {
	return nil
}
func (r *fakeRepo) CreateSubmission(context.Context, *model.ReportSubmission) error { return nil }
func (r *fakeRepo) GetSubmission(_ context.Context, id string) (*model.ReportSubmission, error) {
	if sub, ok := r.submissions[id]; ok {
		return sub, nil
	}
	return nil, apperr.ErrSubmissionNotFound
}

type fakeSender struct {
	batches   [][]model.AuthorityResult
	responses []*model.BatchResponse
	errs      []error
	calls     int
}

func (f *fakeSender) SendResultBatch(_ context.Context, results []model.AuthorityResult) (*model.BatchResponse, error) {
	f.batches = append(f.batches, results)
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return &model.BatchResponse{Success: true}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Authority.BatchSize = 2
	cfg.Authority.RetryAttempts = 3
	cfg.Authority.RetryDelay = time.Millisecond
	return cfg
}

func newTestService(repo *fakeRepo, sender *fakeSender) *Service {
	return &Service{
		cfg:       testConfig(),
		repo:      repo,
		bulletins: bulletin.NewService(repo),
		client:    sender,
		log:       logger.Get(),
	}
}

func seedClass(repo *fakeRepo) {
	repo.terms = []model.AcademicTerm{{ID: "term-1", Name: "1ère Période", Semester: 1, Period: 1}}
	repo.students = []model.Student{
		{ID: "std-1", FirstName: "Amani", LastName: "Kalume", ClassName: "6A"},
		{ID: "std-2", FirstName: "Bahati", LastName: "Mwamba", ClassName: "6A"},
		{ID: "std-3", FirstName: "Chance", LastName: "Nzigire", ClassName: "6A"},
	}
	for _, id := range []string{"std-1", "std-2", "std-3"} {
		repo.grades[id] = []model.GradeRecord{
			{StudentID: id, Course: "Math", Grade: "15/20", Semester: 1, Period: 1},
		}
	}
}

func TestProcessReportJob_AllSent(t *testing.T) {
	repo := newFakeRepo()
	seedClass(repo)
	sender := &fakeSender{}
	svc := newTestService(repo, sender)

	job := model.ReportJob{SubmissionID: "sub-1", ClassName: "6A", TermID: "term-1"}
	require.NoError(t, svc.ProcessReportJob(context.Background(), job))

	// 3 students, batch size 2 -> two batches
	require.Len(t, sender.batches, 2)
	assert.Len(t, sender.batches[0], 2)
	assert.Len(t, sender.batches[1], 1)
	assert.Equal(t, "Amani Kalume", sender.batches[0][0].StudentName)
	assert.Equal(t, "15.00/20", sender.batches[0][0].OverallAverage)

	sub := repo.submissions["sub-1"]
	require.NotNil(t, sub)
	assert.Equal(t, model.SubmissionStatusSent, sub.Status)
	assert.Equal(t, 3, sub.SentCount)
	assert.Equal(t, 0, sub.FailedCount)
}

func TestProcessReportJob_PartialFailure(t *testing.T) {
	repo := newFakeRepo()
	seedClass(repo)
	sender := &fakeSender{
		responses: []*model.BatchResponse{
			{Success: false, Failed: []string{"std-2"}},
			{Success: true},
		},
	}
	svc := newTestService(repo, sender)

	job := model.ReportJob{SubmissionID: "sub-1", ClassName: "6A", TermID: "term-1"}
	require.NoError(t, svc.ProcessReportJob(context.Background(), job))

	sub := repo.submissions["sub-1"]
	require.NotNil(t, sub)
	assert.Equal(t, model.SubmissionStatusPartial, sub.Status)
	assert.Equal(t, 2, sub.SentCount)
	assert.Equal(t, 1, sub.FailedCount)
}

func TestProcessReportJob_RetriesThenSucceeds(t *testing.T) {
	repo := newFakeRepo()
	seedClass(repo)
	sender := &fakeSender{
		errs: []error{apperr.NewRetryableError(apperr.ErrAuthorityUnavailable, "unavailable")},
	}
	svc := newTestService(repo, sender)

	job := model.ReportJob{SubmissionID: "sub-1", ClassName: "6A", TermID: "term-1"}
	require.NoError(t, svc.ProcessReportJob(context.Background(), job))

	// First batch needed two attempts, second batch one.
	assert.Equal(t, 3, sender.calls)
	assert.Equal(t, model.SubmissionStatusSent, repo.submissions["sub-1"].Status)
}

func TestProcessReportJob_TermNotFound(t *testing.T) {
	repo := newFakeRepo()
	seedClass(repo)
	sender := &fakeSender{}
	svc := newTestService(repo, sender)

	job := model.ReportJob{SubmissionID: "sub-1", ClassName: "6A", TermID: "nonexistent"}
	err := svc.ProcessReportJob(context.Background(), job)
	assert.ErrorIs(t, err, apperr.ErrTermNotFound)

	sub := repo.submissions["sub-1"]
	require.NotNil(t, sub)
	assert.Equal(t, model.SubmissionStatusFailed, sub.Status)
	assert.Empty(t, sender.batches)
}

func TestProcessReportJob_EmptyClass(t *testing.T) {
	repo := newFakeRepo()
	seedClass(repo)
	sender := &fakeSender{}
	svc := newTestService(repo, sender)

	job := model.ReportJob{SubmissionID: "sub-1", ClassName: "5B", TermID: "term-1"}
	err := svc.ProcessReportJob(context.Background(), job)
	require.Error(t, err)
	assert.Equal(t, model.SubmissionStatusFailed, repo.submissions["sub-1"].Status)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, model.SubmissionStatusSent, statusFor(3, 0))
	assert.Equal(t, model.SubmissionStatusPartial, statusFor(2, 1))
	assert.Equal(t, model.SubmissionStatusFailed, statusFor(0, 3))
}

func TestTally(t *testing.T) {
	batch := []model.AuthorityResult{{StudentID: "a"}, {StudentID: "b"}, {StudentID: "c"}}

	sent, failed := tally(batch, &model.BatchResponse{Success: true})
	assert.Equal(t, 3, sent)
	assert.Equal(t, 0, failed)

	sent, failed = tally(batch, &model.BatchResponse{Success: false, Failed: []string{"b"}})
	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed)
}
