package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gizikita/backend/internal/models"
)

// extractJSON returns the first balanced substring of text that opens with
// opening, closes with the matching closing bracket and parses as JSON. Brackets inside
// string literals are ignored.
func extractJSON(text string, opening, closing byte) (string, error) {
	for start := strings.IndexByte(text, opening); start >= 0; {
		if end := matchBracket(text, start, opening, closing); end > 0 {
			candidate := text[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, nil
			}
		}
		next := strings.IndexByte(text[start+1:], opening)
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", ErrNoJSONFound
}

// matchBracket returns the index of the bracket closing text[start], or -1.
func matchBracket(text string, start int, opening, closing byte) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case opening:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func decodeStrict(raw string, v any) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

// DecodeDetections parses the detection stage output.
func DecodeDetections(text string) ([]models.MenuItemDetection, error) {
	raw, err := extractJSON(text, '[', ']')
	if err != nil {
		return nil, err
	}

	var items []models.MenuItemDetection
	if err := decodeStrict(raw, &items); err != nil {
		return nil, fmt.Errorf("decode detections: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNoItemsDetected
	}
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("detection %d: missing nama_menu", i)
		}
		if !nonNegative(item.Grams) {
			return nil, fmt.Errorf("detection %d: invalid estimasi_gram %v", i, item.Grams)
		}
	}
	return items, nil
}

type analysisWire struct {
	Summary    *models.Nutrients         `json:"nutrition_summary"`
	Items      []models.NutritionItem    `json:"items"`
	Evaluation *models.SummaryEvaluation `json:"summary_evaluation"`
}

// DecodeAnalysis parses the nutrition stage output.
func DecodeAnalysis(text string) (*models.NutritionAnalysis, error) {
	raw, err := extractJSON(text, '{', '}')
	if err != nil {
		return nil, err
	}

	var wire analysisWire
	if err := decodeStrict(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	if wire.Summary == nil {
		return nil, errors.New("analysis: missing nutrition_summary")
	}
	if len(wire.Items) == 0 {
		return nil, errors.New("analysis: missing items")
	}
	if err := checkNutrients(*wire.Summary); err != nil {
		return nil, fmt.Errorf("analysis summary: %w", err)
	}
	for i, item := range wire.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("analysis item %d: missing name", i)
		}
		if !nonNegative(item.Grams) {
			return nil, fmt.Errorf("analysis item %d: invalid grams %v", i, item.Grams)
		}
		if err := checkNutrients(item.Nutrients); err != nil {
			return nil, fmt.Errorf("analysis item %d: %w", i, err)
		}
	}
	if wire.Evaluation != nil && wire.Evaluation.Status == "" {
		return nil, errors.New("analysis: evaluation without status")
	}

	return &models.NutritionAnalysis{
		Summary:    *wire.Summary,
		Items:      wire.Items,
		Evaluation: wire.Evaluation,
	}, nil
}

func checkNutrients(n models.Nutrients) error {
	for name, v := range map[string]float64{
		"calories_kcal": n.CaloriesKcal,
		"protein_g":     n.ProteinG,
		"fat_g":         n.FatG,
		"carbs_g":       n.CarbsG,
		"sodium_mg":     n.SodiumMg,
		"fiber_g":       n.FiberG,
	} {
		if !nonNegative(v) {
			return fmt.Errorf("invalid %s %v", name, v)
		}
	}
	return nil
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
