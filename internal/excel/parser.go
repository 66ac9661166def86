package excel

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RoGasore/Scola-sub000/internal/model"
	apperr "github.com/RoGasore/Scola-sub000/pkg/errors"

	"github.com/xuri/excelize/v2"
)

const dateLayout = "2006-01-02"

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads an evaluation sheet into grade rows. The first worksheet must
// carry a header row naming the required columns; column order is free.
func (p *Parser) Parse(ctx context.Context, data []byte) ([]model.GradeRow, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.ErrInvalidSheetFormat
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	if len(rows) < 2 { // Header + at least one data row
		return nil, apperr.ErrInvalidSheetFormat
	}

	header := rows[0]
	columnMap := make(map[string]int)
	for i, col := range header {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	requiredColumns := []string{"student_id", "course", "evaluation_type", "grade", "ponderation", "semester", "period", "date"}
	for _, col := range requiredColumns {
		if _, exists := columnMap[col]; !exists {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	var grades []model.GradeRow
	for i, row := range rows[1:] { // Skip header
		if isEmptyRow(row) {
			continue
		}

		grade, err := p.parseRow(row, columnMap)
		if err != nil {
			return nil, fmt.Errorf("error parsing row %d: %w", i+2, err)
		}

		grades = append(grades, *grade)
	}

	return grades, nil
}

func (p *Parser) parseRow(row []string, columnMap map[string]int) (*model.GradeRow, error) {
	getValue := func(colName string) string {
		if idx, exists := columnMap[colName]; exists && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	studentID := getValue("student_id")
	if studentID == "" {
		return nil, fmt.Errorf("student_id is required")
	}

	course := getValue("course")
	if course == "" {
		return nil, fmt.Errorf("course is required")
	}

	evaluationType := getValue("evaluation_type")
	if evaluationType == "" {
		return nil, fmt.Errorf("evaluation_type is required")
	}

	gradeStr := getValue("grade")
	if gradeStr == "" {
		return nil, fmt.Errorf("grade is required")
	}

	ponderation, err := strconv.Atoi(getValue("ponderation"))
	if err != nil {
		return nil, fmt.Errorf("invalid ponderation value: %s", getValue("ponderation"))
	}

	semester, err := strconv.Atoi(getValue("semester"))
	if err != nil {
		return nil, fmt.Errorf("invalid semester value: %s", getValue("semester"))
	}

	period, err := strconv.Atoi(getValue("period"))
	if err != nil {
		return nil, fmt.Errorf("invalid period value: %s", getValue("period"))
	}

	date, err := time.Parse(dateLayout, getValue("date"))
	if err != nil {
		return nil, fmt.Errorf("invalid date value: %s", getValue("date"))
	}

	return &model.GradeRow{
		StudentID:      studentID,
		Course:         course,
		EvaluationType: evaluationType,
		Grade:          gradeStr,
		Ponderation:    ponderation,
		Semester:       semester,
		Period:         period,
		Date:           date,
	}, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
