package bulletin

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/RoGasore/Scola-sub000/internal/model"
)

// NoAverage is returned when a record set holds no parseable numeric grade.
const NoAverage = "--/20"

var gradeRegex = regexp.MustCompile(`^\s*(\d+(?:[.,]\d+)?)\s*/\s*(\d+(?:[.,]\d+)?)\s*$`)

// parseGrade parses a raw "<score>/<max>" grade string. Non-numeric tokens
// (letter grades, "Acquis", ...) and zero maximums are rejected, the caller
// excludes them from averaging while keeping the record for display.
func parseGrade(raw string) (score, max float64, ok bool) {
	m := gradeRegex.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, false
	}

	score, err := strconv.ParseFloat(decimalComma(m[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	max, err = strconv.ParseFloat(decimalComma(m[2]), 64)
	if err != nil || max == 0 {
		return 0, 0, false
	}

	return score, max, true
}

func decimalComma(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			return s[:i] + "." + s[i+1:]
		}
	}
	return s
}

// averageOf computes the normalized /20 average of a record set. Every
// parseable record is linearly rescaled to a 20-point contribution before
// averaging, so a 10-point quiz counts the same as a 100-point exam.
func averageOf(records []model.GradeRecord) string {
	var sum float64
	var count int

	for _, record := range records {
		score, max, ok := parseGrade(record.Grade)
		if !ok {
			continue
		}
		sum += (score / max) * 20
		count++
	}

	if count == 0 {
		return NoAverage
	}
	return fmt.Sprintf("%.2f/20", sum/float64(count))
}
