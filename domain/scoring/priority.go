package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EffortSize is the T-shirt size picked in the Effort dropdown
type EffortSize string

const (
	EffortS  EffortSize = "S"
	EffortM  EffortSize = "M"
	EffortL  EffortSize = "L"
	EffortXL EffortSize = "XL"
)

const (
	MinScore = 1
	MaxScore = 5
)

var effortPoints = map[EffortSize]int{
	EffortS:  1,
	EffortM:  3,
	EffortL:  5,
	EffortXL: 8,
}

// ParseEffort - parses an effort size, case-insensitive
func ParseEffort(s string) (EffortSize, error) {
	e := EffortSize(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := effortPoints[e]; !ok {
		return "", fmt.Errorf("invalid effort size: %q", s)
	}
	return e, nil
}

// Points - returns the divisor used for an effort size
func (e EffortSize) Points() (int, error) {
	p, ok := effortPoints[e]
	if !ok {
		return 0, fmt.Errorf("invalid effort size: %q", string(e))
	}
	return p, nil
}

// Label - returns the option text shown in the dropdown, e.g. "S (1)"
func (e EffortSize) Label() string {
	p, ok := effortPoints[e]
	if !ok {
		return string(e)
	}
	return fmt.Sprintf("%s (%d)", e, p)
}

// Calculate - computes (impact * urgency) / effort rounded to two decimals
func Calculate(impact, urgency int, effort EffortSize) (float64, error) {
	if impact < MinScore || impact > MaxScore {
		return 0, fmt.Errorf("impact must be between %d and %d, got %d", MinScore, MaxScore, impact)
	}
	if urgency < MinScore || urgency > MaxScore {
		return 0, fmt.Errorf("urgency must be between %d and %d, got %d", MinScore, MaxScore, urgency)
	}
	points, err := effort.Points()
	if err != nil {
		return 0, err
	}

	priority := float64(impact*urgency) / float64(points)
	return math.Floor(priority*100+0.5) / 100, nil
}

// Format - renders a score the way the score preview does: no trailing zeros
func Format(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// Expected - returns the formatted score the preview should display
func Expected(impact, urgency int, effort EffortSize) (string, error) {
	score, err := Calculate(impact, urgency, effort)
	if err != nil {
		return "", err
	}
	return Format(score), nil
}
