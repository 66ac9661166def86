package model

import "time"

type Student struct {
	ID        string    `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	ClassName string    `json:"class_name" db:"class_name"`
	Level     string    `json:"level" db:"level"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
