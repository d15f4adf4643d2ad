package domain

import (
	"strconv"
	"strings"
)

// preSchoolToken is the reserved grade label that sorts below first grade.
const preSchoolToken = "pre-school"

// GradeUnknown is the sentinel for labels that do not normalize to a grade.
const GradeUnknown = -1

// NormalizeGrade maps a free-form grade label to a comparable integer.
// The pre-school token (case-insensitive) is grade 0, numeric strings parse
// as-is, and anything else is unknown. Never fails.
func NormalizeGrade(label string) (grade int, known bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return GradeUnknown, false
	}
	if strings.EqualFold(label, preSchoolToken) {
		return 0, true
	}
	n, err := strconv.Atoi(label)
	if err != nil {
		return GradeUnknown, false
	}
	return n, true
}
