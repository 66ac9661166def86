package model

// BulletinData is the aggregation result for one (student, term) pair. It is
// never persisted.
//
// GradesByCourse and CourseAverages always hold exactly the same keys.
// CourseOrder lists the courses in order of first appearance in the student's
// filtered records, since map iteration order is not stable.
type BulletinData struct {
	Student        *Student                 `json:"student"`
	Term           *AcademicTerm            `json:"term"`
	CourseOrder    []string                 `json:"course_order"`
	GradesByCourse map[string][]GradeRecord `json:"grades_by_course"`
	CourseAverages map[string]string        `json:"course_averages"`
	OverallAverage string                   `json:"overall_average"`
}
