package services

import (
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportStore abstracts the reads needed by the export workflows.
type ExportStore interface {
	GetSurvey(id string) (*Survey, error)
	ListResponses(surveyID string) ([]*Response, error)
}

type ExportService struct {
	store ExportStore
}

func NewExportService(store ExportStore) *ExportService {
	return &ExportService{store: store}
}

func (s *ExportService) load(surveyID string) (*Survey, []*Response, error) {
	survey, err := s.store.GetSurvey(surveyID)
	if err != nil {
		return nil, nil, err
	}
	if survey == nil {
		return nil, nil, NewNotFoundError("survey not found")
	}
	responses, err := s.store.ListResponses(surveyID)
	if err != nil {
		return nil, nil, err
	}
	return survey, responses, nil
}

// LongCSV exports one row per answer.
func (s *ExportService) LongCSV(surveyID string) ([]byte, error) {
	_, responses, err := s.load(surveyID)
	if err != nil {
		return nil, err
	}
	rows := make([]AnswerRow, 0, len(responses))
	for _, r := range responses {
		for _, a := range r.Answers {
			rows = append(rows, AnswerRow{
				ResponseID:  r.ID,
				QuestionID:  a.QuestionID,
				Value:       a.Value,
				SubmittedAt: r.SubmittedAt.Format(time.RFC3339),
			})
		}
	}
	return ExportLongCSV(rows)
}

// WideCSV exports one row per response with a column per question in display
// order, demographic columns first.
func (s *ExportService) WideCSV(surveyID string) ([]byte, error) {
	survey, responses, err := s.load(surveyID)
	if err != nil {
		return nil, err
	}
	headers := []string{"response_id", "submitted_at", "gender", "age_range", "nationality"}
	for _, q := range survey.Questions {
		headers = append(headers, q.ContentEn)
	}
	rows := make([][]string, 0, len(responses))
	for _, r := range responses {
		byQuestion := make(map[string]string, len(r.Answers))
		for _, a := range r.Answers {
			byQuestion[a.QuestionID] = a.Value
		}
		row := []string{r.ID, r.SubmittedAt.Format(time.RFC3339), r.Gender, r.AgeRange, r.Nationality}
		for _, q := range survey.Questions {
			row = append(row, byQuestion[q.ID])
		}
		rows = append(rows, row)
	}
	return ExportWideCSV(headers, rows)
}

// RespondentsXLSX renders the wide view as a spreadsheet for the dashboard's
// download button.
func (s *ExportService) RespondentsXLSX(surveyID string) ([]byte, error) {
	survey, responses, err := s.load(surveyID)
	if err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Responses"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{"response_id", "submitted_at", "email", "gender", "age_range", "education_level", "nationality", "hajj_number"}
	for _, q := range survey.Questions {
		headers = append(headers, q.ContentEn)
	}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	for i, r := range responses {
		byQuestion := make(map[string]string, len(r.Answers))
		for _, a := range r.Answers {
			byQuestion[a.QuestionID] = a.Value
		}
		values := []string{r.ID, r.SubmittedAt.Format(time.RFC3339), r.Email, r.Gender, r.AgeRange, r.EducationLevel, r.Nationality, r.HajjNumber}
		for _, q := range survey.Questions {
			values = append(values, byQuestion[q.ID])
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
