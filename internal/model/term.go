package model

import "time"

// AcademicTerm is a grading subdivision of the school year, identified by
// its (semester, period) pair. IsCurrent is derived from the school settings
// pointer when terms are read, it is not stored on the row itself.
type AcademicTerm struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Semester  int       `json:"semester" db:"semester"`
	Period    int       `json:"period" db:"period"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`
	IsCurrent bool      `json:"is_current" db:"-"`
}
