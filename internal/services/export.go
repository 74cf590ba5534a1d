package services

import (
	"bytes"
	"encoding/csv"
)

// AnswerRow is one line of the long-format export.
type AnswerRow struct {
	ResponseID  string
	QuestionID  string
	Value       string
	SubmittedAt string // RFC3339
}

// ExportLongCSV renders one row per answer.
func ExportLongCSV(rows []AnswerRow) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"response_id", "question_id", "value", "submitted_at"})
	for _, r := range rows {
		if err := w.Write([]string{r.ResponseID, r.QuestionID, r.Value, r.SubmittedAt}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportWideCSV renders one row per response with the given ordered headers.
// Question columns follow the survey's display order, so repeated exports are
// byte-identical for unchanged data.
func ExportWideCSV(headers []string, rows [][]string) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write(headers)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
