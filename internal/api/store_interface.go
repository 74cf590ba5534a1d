package api

import "errors"

// ErrDuplicateResponse is returned by InsertResponse when the
// (survey_id, session_id) uniqueness constraint rejects the write.
var ErrDuplicateResponse = errors.New("duplicate response")

type Store interface {
	AddAdmin(a *Admin) error
	FindAdminByEmail(email string) (*Admin, error)

	InsertSurvey(s *Survey) error
	GetSurvey(id string) (*Survey, error)
	UpdateSurveyMeta(s *Survey) error
	ReplaceQuestions(surveyID string, qs []*Question) error
	AppendQuestions(surveyID string, qs []*Question) error
	SetArchived(id string, archived bool) (bool, error)
	DeleteSurvey(id string) (bool, error)
	ListSurveys(customerType, search string) ([]*Survey, error)
	CountResponses(surveyID string) (int, error)

	InsertResponse(r *Response) error
	HasResponse(surveyID, sessionID string) (bool, error)
	GetResponse(id string) (*Response, error)
	DeleteResponse(id string) (bool, error)
	ListResponses(surveyID string) ([]*Response, error)

	AddAudit(e AuditEntry)
	ListAudit() ([]AuditEntry, error)
}
