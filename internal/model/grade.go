package model

import "time"

// GradeRecord is one evaluation result for one student in one course.
// Grade holds the raw "<score>/<max>" string (e.g. "17/20") or a non-numeric
// token such as "Acquis" for early-childhood levels. Records are immutable
// once created.
type GradeRecord struct {
	ID             string    `json:"id" db:"id"`
	StudentID      string    `json:"student_id" db:"student_id"`
	ClassName      string    `json:"class_name" db:"class_name"`
	Course         string    `json:"course" db:"course"`
	EvaluationType string    `json:"evaluation_type" db:"evaluation_type"`
	Grade          string    `json:"grade" db:"grade"`
	Ponderation    int       `json:"ponderation" db:"ponderation"`
	Semester       int       `json:"semester" db:"semester"`
	Period         int       `json:"period" db:"period"`
	Date           time.Time `json:"date" db:"date"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// GradeRow is a single parsed row from an evaluation sheet, before it is
// turned into a stored GradeRecord.
type GradeRow struct {
	StudentID      string    `json:"student_id"`
	Course         string    `json:"course"`
	EvaluationType string    `json:"evaluation_type"`
	Grade          string    `json:"grade"`
	Ponderation    int       `json:"ponderation"`
	Semester       int       `json:"semester"`
	Period         int       `json:"period"`
	Date           time.Time `json:"date"`
}
