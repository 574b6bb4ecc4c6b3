package actions

import (
	"math"
	"strconv"
	"strings"

	"recruit-console/internal/model"
)

// DefaultThreshold pre-fills the shortlist threshold prompt.
const DefaultThreshold = "80"

const ThresholdPrompt = "Enter shortlisting score threshold (0-100):"

var ErrInvalidThreshold = &model.ValidationError{Message: "Invalid threshold value."}

// ParseThreshold accepts a number in [0,100] and returns the trimmed input
// text so it reaches the backend exactly as entered.
func ParseThreshold(input string) (string, error) {
	s := strings.TrimSpace(input)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || v < 0 || v > 100 {
		return "", ErrInvalidThreshold
	}
	return s, nil
}
