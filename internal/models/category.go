package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchoolCategory is the school level a scanned meal is served to.
type SchoolCategory string

const (
	CategoryEarlyChildhood  SchoolCategory = "early-childhood"
	CategoryLowerPrimary    SchoolCategory = "lower-primary"
	CategoryUpperPrimary    SchoolCategory = "upper-primary"
	CategoryJuniorSecondary SchoolCategory = "junior-secondary"
	CategorySeniorSecondary SchoolCategory = "senior-secondary"
)

// SchoolCategories lists every category in display order.
var SchoolCategories = []SchoolCategory{
	CategoryEarlyChildhood,
	CategoryLowerPrimary,
	CategoryUpperPrimary,
	CategoryJuniorSecondary,
	CategorySeniorSecondary,
}

var categoryLabels = map[SchoolCategory]string{
	CategoryEarlyChildhood:  "TK/PAUD",
	CategoryLowerPrimary:    "SD Kelas 1–3",
	CategoryUpperPrimary:    "SD Kelas 4–5",
	CategoryJuniorSecondary: "SMP/MTS",
	CategorySeniorSecondary: "SMA/SMK/MA",
}

// legacy short codes still sent by older clients
var legacyCategories = map[string]SchoolCategory{
	"TK":     CategoryEarlyChildhood,
	"SD_1_3": CategoryLowerPrimary,
	"SD_4_5": CategoryUpperPrimary,
	"SMP":    CategoryJuniorSecondary,
	"SMA":    CategorySeniorSecondary,
}

// ParseSchoolCategory accepts a category value or a legacy code.
func ParseSchoolCategory(s string) (SchoolCategory, error) {
	s = strings.TrimSpace(s)
	if c, ok := legacyCategories[strings.ToUpper(s)]; ok {
		return c, nil
	}
	c := SchoolCategory(strings.ToLower(s))
	if _, ok := categoryLabels[c]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown school category %q", s)
}

// Valid reports whether c is one of the known categories.
func (c SchoolCategory) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label is the Indonesian display name, or "-" when unset.
func (c SchoolCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return "-"
}

// EvaluationStatus is the closed verdict of the meal balance evaluation.
type EvaluationStatus string

const (
	StatusBalanced   EvaluationStatus = "balanced"
	StatusUnbalanced EvaluationStatus = "unbalanced"
)

// ParseEvaluationStatus maps provider labels onto the closed set.
func ParseEvaluationStatus(s string) (EvaluationStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "balanced", "layak":
		return StatusBalanced, nil
	case "unbalanced", "kurang sesuai", "tidak layak", "kurang layak":
		return StatusUnbalanced, nil
	}
	return "", fmt.Errorf("unknown evaluation status %q", s)
}

// UnmarshalJSON normalizes the status and rejects anything outside the closed set.
func (s *EvaluationStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("evaluation status: %w", err)
	}
	parsed, err := ParseEvaluationStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Label is the Indonesian display form.
func (s EvaluationStatus) Label() string {
	switch s {
	case StatusBalanced:
		return "Layak"
	case StatusUnbalanced:
		return "Kurang sesuai"
	}
	return string(s)
}
