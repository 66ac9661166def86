package model

import "time"

type SubmissionStatus string

const (
	SubmissionStatusPending SubmissionStatus = "PENDING"
	SubmissionStatusSent    SubmissionStatus = "SENT"
	SubmissionStatusPartial SubmissionStatus = "PARTIAL"
	SubmissionStatusFailed  SubmissionStatus = "FAILED"
)

// ReportSubmission tracks one push of a class's period results to the
// education authority.
type ReportSubmission struct {
	ID           string           `json:"id" db:"id"`
	ClassName    string           `json:"class_name" db:"class_name"`
	TermID       string           `json:"term_id" db:"term_id"`
	Status       SubmissionStatus `json:"status" db:"status"`
	StudentCount int              `json:"student_count" db:"student_count"`
	SentCount    int              `json:"sent_count" db:"sent_count"`
	FailedCount  int              `json:"failed_count" db:"failed_count"`
	ErrorMessage *string          `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}

// AuthorityResult is the wire format the authority accepts, one element per
// student of the reported class.
type AuthorityResult struct {
	StudentID      string            `json:"student_id"`
	StudentName    string            `json:"student_name"`
	ClassName      string            `json:"class_name"`
	TermName       string            `json:"term_name"`
	Semester       int               `json:"semester"`
	Period         int               `json:"period"`
	CourseAverages map[string]string `json:"course_averages"`
	OverallAverage string            `json:"overall_average"`
}

type ResultBatch struct {
	Results []AuthorityResult `json:"results"`
}

type BatchResponse struct {
	Success bool     `json:"success"`
	Failed  []string `json:"failed,omitempty"`
	Message string   `json:"message,omitempty"`
}

type AuthTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
