package model

import "time"

// IngestionJob is queued when an evaluation sheet is registered.
type IngestionJob struct {
	UploadID string `json:"upload_id"`
	S3Path   string `json:"s3_path"`
}

// ReportJob is queued when an admin triggers a submission to the authority.
type ReportJob struct {
	SubmissionID string `json:"submission_id"`
	ClassName    string `json:"class_name"`
	TermID       string `json:"term_id"`
}

type CreateStudentRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	ClassName string `json:"class_name" binding:"required"`
	Level     string `json:"level"`
}

type CreateTermRequest struct {
	Name      string    `json:"name" binding:"required"`
	Semester  int       `json:"semester" binding:"required"`
	Period    int       `json:"period" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

type SetCurrentTermRequest struct {
	TermID string `json:"term_id" binding:"required"`
}

// EvaluationRequest records one evaluation event: the same course, type and
// period for every listed student.
type EvaluationRequest struct {
	ClassName      string           `json:"class_name" binding:"required"`
	Course         string           `json:"course" binding:"required"`
	EvaluationType string           `json:"evaluation_type" binding:"required"`
	Ponderation    int              `json:"ponderation" binding:"required"`
	Semester       int              `json:"semester" binding:"required"`
	Period         int              `json:"period" binding:"required"`
	Date           time.Time        `json:"date" binding:"required"`
	Entries        []EvaluationMark `json:"entries" binding:"required,dive"`
}

type EvaluationMark struct {
	StudentID string `json:"student_id" binding:"required"`
	Grade     string `json:"grade" binding:"required"`
}

type RegisterSheetRequest struct {
	S3Path    string `json:"s3_path" binding:"required"`
	ClassName string `json:"class_name" binding:"required"`
}

type SubmitReportRequest struct {
	ClassName string `json:"class_name" binding:"required"`
	TermID    string `json:"term_id" binding:"required"`
}
