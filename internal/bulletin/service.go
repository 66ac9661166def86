package bulletin

import (
	"context"
	"sync"

	"github.com/RoGasore/Scola-sub000/internal/db"
	"github.com/RoGasore/Scola-sub000/internal/logger"
	"github.com/RoGasore/Scola-sub000/internal/model"
	apperr "github.com/RoGasore/Scola-sub000/pkg/errors"

	"github.com/rs/zerolog"
)

// Service aggregates a student's grade records into a report card for one
// academic term. It is read-only: every call re-fetches and recomputes.
type Service struct {
	repo db.Repository
	log  zerolog.Logger
}

func NewService(repo db.Repository) *Service {
	return &Service{
		repo: repo,
		log:  logger.Get(),
	}
}

// BuildBulletin produces the BulletinData for a (student, term) pair.
//
// The three fetches have no ordering dependency and are issued concurrently.
// Grade records are fetched for all terms and filtered locally on the term's
// (semester, period) pair; the data volume of a single school keeps this
// cheap. Returns apperr.ErrStudentNotFound or apperr.ErrTermNotFound when a
// reference does not resolve, never a partial result.
func (s *Service) BuildBulletin(ctx context.Context, studentID, termID string) (*model.BulletinData, error) {
	var (
		student *model.Student
		terms   []model.AcademicTerm
		grades  []model.GradeRecord

		studentErr, termsErr, gradesErr error
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		student, studentErr = s.repo.GetStudent(ctx, studentID)
	}()
	go func() {
		defer wg.Done()
		terms, termsErr = s.repo.ListTerms(ctx)
	}()
	go func() {
		defer wg.Done()
		grades, gradesErr = s.repo.ListGradesByStudent(ctx, studentID)
	}()
	wg.Wait()

	if studentErr != nil {
		return nil, studentErr
	}
	if termsErr != nil {
		return nil, termsErr
	}
	if gradesErr != nil {
		return nil, gradesErr
	}

	term := findTerm(terms, termID)
	if term == nil {
		return nil, apperr.ErrTermNotFound
	}

	// Restrict to the requested period. Grouping preserves the order of first
	// appearance so bulletins keep a stable course order across calls.
	var order []string
	byCourse := make(map[string][]model.GradeRecord)
	var filtered []model.GradeRecord

	for _, record := range grades {
		if record.Semester != term.Semester || record.Period != term.Period {
			continue
		}
		if _, seen := byCourse[record.Course]; !seen {
			order = append(order, record.Course)
		}
		byCourse[record.Course] = append(byCourse[record.Course], record)
		filtered = append(filtered, record)
	}

	averages := make(map[string]string, len(byCourse))
	for course, records := range byCourse {
		averages[course] = averageOf(records)
	}

	data := &model.BulletinData{
		Student:        student,
		Term:           term,
		CourseOrder:    order,
		GradesByCourse: byCourse,
		CourseAverages: averages,
		OverallAverage: averageOf(filtered),
	}

	s.log.Debug().
		Str("student_id", studentID).
		Str("term_id", termID).
		Int("courses", len(order)).
		Int("records", len(filtered)).
		Msg("Bulletin built")

	return data, nil
}

func findTerm(terms []model.AcademicTerm, termID string) *model.AcademicTerm {
	for i := range terms {
		if terms[i].ID == termID {
			return &terms[i]
		}
	}
	return nil
}
