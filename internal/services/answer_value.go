package services

import (
	"strconv"
	"strings"
)

// AnswerValue pairs a stored answer value with the type of the question it
// answered. Values are persisted as text whatever the question type; parsing
// happens here, once, instead of at every read site.
type AnswerValue struct {
	QuestionType string
	Raw          string
}

// IsRating reports whether the value belongs to the rating family used by the
// satisfaction metrics.
func (v AnswerValue) IsRating() bool {
	return v.QuestionType == TypeStarRating || v.QuestionType == TypePercentageRange
}

// Score parses the raw value as a number. Returns false for text and
// multiple-choice answers and for unparseable input.
func (v AnswerValue) Score() (float64, bool) {
	if v.QuestionType == TypeTextBox || v.QuestionType == TypeMultipleChoice {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Raw), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Satisfied applies the Top-2-Box convention: star ratings of 4 or 5 count,
// percentage answers of 80 or above count.
func (v AnswerValue) Satisfied() bool {
	f, ok := v.Score()
	if !ok {
		return false
	}
	switch v.QuestionType {
	case TypeStarRating:
		return f >= 4
	case TypePercentageRange:
		return f >= 80
	}
	return false
}
