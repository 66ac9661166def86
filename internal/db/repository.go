package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/RoGasore/Scola-sub000/internal/model"
	apperr "github.com/RoGasore/Scola-sub000/pkg/errors"
)

type Repository interface {
	// Students
	CreateStudent(ctx context.Context, student *model.Student) error
	GetStudent(ctx context.Context, id string) (*model.Student, error)
	ListStudentsByClass(ctx context.Context, className string) ([]model.Student, error)

	// Academic terms
	CreateTerm(ctx context.Context, term *model.AcademicTerm) error
	ListTerms(ctx context.Context) ([]model.AcademicTerm, error)
	SetCurrentTerm(ctx context.Context, termID string) error
	GetCurrentTermID(ctx context.Context) (string, error)

	// Grade records
	InsertGrades(ctx context.Context, records []model.GradeRecord) error
	ListGradesByStudent(ctx context.Context, studentID string) ([]model.GradeRecord, error)

	// Sheet uploads
	CreateUpload(ctx context.Context, upload *model.SheetUpload) error
	GetUpload(ctx context.Context, id string) (*model.SheetUpload, error)
	UpdateUploadStatus(ctx context.Context, id string, status model.SheetStatus, errorMessage *string) error

	// Report submissions
	CreateSubmission(ctx context.Context, sub *model.ReportSubmission) error
	GetSubmission(ctx context.Context, id string) (*model.ReportSubmission, error)
	UpdateSubmission(ctx context.Context, id string, status model.SubmissionStatus, sent, failed int, errorMessage *string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateStudent(ctx context.Context, student *model.Student) error {
	query := `INSERT INTO students (id, first_name, last_name, class_name, level, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, student.ID, student.FirstName, student.LastName,
		student.ClassName, student.Level, student.CreatedAt)
	return err
}

func (r *repository) GetStudent(ctx context.Context, id string) (*model.Student, error) {
	query := `SELECT id, first_name, last_name, class_name, level, created_at FROM students WHERE id = ?`

	var student model.Student
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&student.ID, &student.FirstName, &student.LastName,
		&student.ClassName, &student.Level, &student.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &student, nil
}

func (r *repository) ListStudentsByClass(ctx context.Context, className string) ([]model.Student, error) {
	query := `SELECT id, first_name, last_name, class_name, level, created_at
			  FROM students WHERE class_name = ? ORDER BY last_name, first_name`

	rows, err := r.db.QueryContext(ctx, query, className)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var student model.Student
		err := rows.Scan(&student.ID, &student.FirstName, &student.LastName,
			&student.ClassName, &student.Level, &student.CreatedAt)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	return students, rows.Err()
}

func (r *repository) CreateTerm(ctx context.Context, term *model.AcademicTerm) error {
	query := `INSERT INTO academic_terms (id, name, semester, period, start_date, end_date)
			  VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, term.ID, term.Name, term.Semester, term.Period,
		term.StartDate, term.EndDate)
	return err
}

func (r *repository) ListTerms(ctx context.Context) ([]model.AcademicTerm, error) {
	query := `SELECT id, name, semester, period, start_date, end_date FROM academic_terms`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []model.AcademicTerm
	for rows.Next() {
		var term model.AcademicTerm
		err := rows.Scan(&term.ID, &term.Name, &term.Semester, &term.Period,
			&term.StartDate, &term.EndDate)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Mark the current term from the settings pointer. A single row holds the
	// pointer, so advancing the year never touches the term rows themselves.
	currentID, err := r.GetCurrentTermID(ctx)
	if err != nil && !errors.Is(err, apperr.ErrNoCurrentTerm) {
		return nil, err
	}
	for i := range terms {
		terms[i].IsCurrent = terms[i].ID == currentID
	}

	return terms, nil
}

func (r *repository) SetCurrentTerm(ctx context.Context, termID string) error {
	query := `UPDATE school_settings SET current_term_id = ?, updated_at = NOW() WHERE id = 1`
	result, err := r.db.ExecContext(ctx, query, termID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		insert := `INSERT INTO school_settings (id, current_term_id) VALUES (1, ?)`
		_, err = r.db.ExecContext(ctx, insert, termID)
	}
	return err
}

func (r *repository) GetCurrentTermID(ctx context.Context) (string, error) {
	query := `SELECT current_term_id FROM school_settings WHERE id = 1`

	var termID sql.NullString
	err := r.db.QueryRowContext(ctx, query).Scan(&termID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !termID.Valid) {
		return "", apperr.ErrNoCurrentTerm
	}
	if err != nil {
		return "", err
	}

	return termID.String, nil
}

func (r *repository) InsertGrades(ctx context.Context, records []model.GradeRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO grade_records
			  (id, student_id, class_name, course, evaluation_type, grade, ponderation, semester, period, date, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, record := range records {
		_, err := tx.ExecContext(ctx, query, record.ID, record.StudentID, record.ClassName,
			record.Course, record.EvaluationType, record.Grade, record.Ponderation,
			record.Semester, record.Period, record.Date, record.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) ListGradesByStudent(ctx context.Context, studentID string) ([]model.GradeRecord, error) {
	query := `SELECT id, student_id, class_name, course, evaluation_type, grade, ponderation, semester, period, date, created_at
			  FROM grade_records WHERE student_id = ? ORDER BY date, created_at`

	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.GradeRecord
	for rows.Next() {
		var record model.GradeRecord
		err := rows.Scan(&record.ID, &record.StudentID, &record.ClassName, &record.Course,
			&record.EvaluationType, &record.Grade, &record.Ponderation,
			&record.Semester, &record.Period, &record.Date, &record.CreatedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (r *repository) CreateUpload(ctx context.Context, upload *model.SheetUpload) error {
	query := `INSERT INTO sheet_uploads (id, s3_path, class_name, status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, NOW(), NOW())`
	_, err := r.db.ExecContext(ctx, query, upload.ID, upload.S3Path, upload.ClassName, upload.Status)
	return err
}

func (r *repository) GetUpload(ctx context.Context, id string) (*model.SheetUpload, error) {
	query := `SELECT id, s3_path, class_name, status, error_message, created_at, updated_at
			  FROM sheet_uploads WHERE id = ?`

	var upload model.SheetUpload
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&upload.ID, &upload.S3Path, &upload.ClassName, &upload.Status,
		&upload.ErrorMessage, &upload.CreatedAt, &upload.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrSheetNotFound
	}
	if err != nil {
		return nil, err
	}

	return &upload, nil
}

func (r *repository) UpdateUploadStatus(ctx context.Context, id string, status model.SheetStatus, errorMessage *string) error {
	query := `UPDATE sheet_uploads SET status = ?, error_message = ?, updated_at = NOW() WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, status, errorMessage, id)
	return err
}

func (r *repository) CreateSubmission(ctx context.Context, sub *model.ReportSubmission) error {
	query := `INSERT INTO report_submissions (id, class_name, term_id, status, student_count, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, NOW(), NOW())`
	_, err := r.db.ExecContext(ctx, query, sub.ID, sub.ClassName, sub.TermID, sub.Status, sub.StudentCount)
	return err
}

func (r *repository) GetSubmission(ctx context.Context, id string) (*model.ReportSubmission, error) {
	query := `SELECT id, class_name, term_id, status, student_count, sent_count, failed_count, error_message, created_at, updated_at
			  FROM report_submissions WHERE id = ?`

	var sub model.ReportSubmission
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.ClassName, &sub.TermID, &sub.Status, &sub.StudentCount,
		&sub.SentCount, &sub.FailedCount, &sub.ErrorMessage, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func (r *repository) UpdateSubmission(ctx context.Context, id string, status model.SubmissionStatus, sent, failed int, errorMessage *string) error {
	query := `UPDATE report_submissions SET status = ?, sent_count = ?, failed_count = ?, error_message = ?, updated_at = NOW() WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, status, sent, failed, errorMessage, id)
	return err
}
