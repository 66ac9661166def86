package excel

import (
	"context"
	"regexp"

	"github.com/RoGasore/Scola-sub000/internal/model"
	apperr "github.com/RoGasore/Scola-sub000/pkg/errors"
)

type Validator struct {
	studentIDRegex *regexp.Regexp
	gradeRegex     *regexp.Regexp
}

func NewValidator() *Validator {
	return &Validator{
		studentIDRegex: regexp.MustCompile(`^[a-zA-Z0-9-]{4,40}$`),
		// Numeric "score/max" or a plain appreciation token such as "Acquis".
		gradeRegex: regexp.MustCompile(`^(\d+(?:[.,]\d+)?\s*/\s*\d+(?:[.,]\d+)?|[\p{L} ]{1,30})$`),
	}
}

func (v *Validator) Validate(ctx context.Context, grades []model.GradeRow) error {
	if len(grades) == 0 {
		return apperr.ErrSchemaValidation
	}

	for _, grade := range grades {
		if err := v.validateRow(grade); err != nil {
			return err
		}
	}

	return nil
}

func (v *Validator) validateRow(grade model.GradeRow) error {
	if !v.studentIDRegex.MatchString(grade.StudentID) {
		return apperr.ValidationError{
			Field:   "student_id",
			Value:   grade.StudentID,
			Message: "must be 4-40 alphanumeric characters",
		}
	}

	if !v.gradeRegex.MatchString(grade.Grade) {
		return apperr.ValidationError{
			Field:   "grade",
			Value:   grade.Grade,
			Message: "must be a score/max pair or an appreciation token",
		}
	}

	if grade.Ponderation <= 0 || grade.Ponderation > 100 {
		return apperr.ValidationError{
			Field:   "ponderation",
			Value:   grade.Ponderation,
			Message: "must be between 1 and 100",
		}
	}

	if len(grade.Course) == 0 || len(grade.Course) > 100 {
		return apperr.ValidationError{
			Field:   "course",
			Value:   grade.Course,
			Message: "course cannot be empty",
		}
	}

	if grade.Semester < 1 || grade.Semester > 2 {
		return apperr.ValidationError{
			Field:   "semester",
			Value:   grade.Semester,
			Message: "must be 1 or 2",
		}
	}

	if grade.Period < 1 || grade.Period > 3 {
		return apperr.ValidationError{
			Field:   "period",
			Value:   grade.Period,
			Message: "must be between 1 and 3",
		}
	}

	return nil
}
