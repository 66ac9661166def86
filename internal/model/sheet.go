package model

import "time"

type SheetStatus string

const (
	SheetStatusUploaded   SheetStatus = "UPLOADED"
	SheetStatusParsedOK   SheetStatus = "PARSED_OK"
	SheetStatusParsedFail SheetStatus = "PARSED_FAIL"
)

// SheetUpload tracks one evaluation sheet dropped in object storage and its
// ingestion outcome.
type SheetUpload struct {
	ID           string      `json:"id" db:"id"`
	S3Path       string      `json:"s3_path" db:"s3_path"`
	ClassName    string      `json:"class_name" db:"class_name"`
	Status       SheetStatus `json:"status" db:"status"`
	ErrorMessage *string     `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}
