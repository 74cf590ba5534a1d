package services

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// ResponseStore abstracts persistence operations required by ResponseService.
type ResponseStore interface {
	GetSurvey(id string) (*Survey, error)
	HasResponse(surveyID, sessionID string) (bool, error)
	// InsertResponse persists the response and its answers atomically and
	// returns ErrDuplicateResponse when the uniqueness constraint fires.
	InsertResponse(r *Response) error
	GetResponse(id string) (*Response, error)
	DeleteResponse(id string) (bool, error)
	ListResponses(surveyID string) ([]*Response, error)
	AddAudit(e AuditEntry)
}

// SubmittedAnswer mirrors one inbound answer after the handler coerced the
// value to a string.
type SubmittedAnswer struct {
	QuestionID string
	Value      string
}

// SubmitRequest carries a sanitized public submission into the service layer.
type SubmitRequest struct {
	SurveyID   string
	RemoteAddr string
	UserAgent  string
	Answers    []SubmittedAnswer

	Email          string
	Gender         string
	AgeRange       string
	EducationLevel string
	Nationality    string
	HajjNumber     string
}

type ResponseService struct {
	store ResponseStore
	now   func() time.Time
}

func NewResponseService(store ResponseStore) *ResponseService {
	return &ResponseService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates and persists one public submission. The duplicate guard is
// two-layered: a best-effort existence check up front, and the storage-level
// unique index on (survey_id, session_id) as the authoritative signal.
func (s *ResponseService) Submit(req SubmitRequest) (*Response, error) {
	survey, err := s.store.GetSurvey(req.SurveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil || survey.IsArchived {
		return nil, NewNotFoundError("survey not found")
	}

	if missing := missingRequired(survey.Questions, req.Answers); len(missing) > 0 {
		return nil, NewInvalidError("missing answers for required questions: " + strings.Join(missing, ", "))
	}

	sessionID := SessionFingerprint(req.RemoteAddr, req.UserAgent)
	exists, err := s.store.HasResponse(req.SurveyID, sessionID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewConflictError("Survey already submitted")
	}

	known := make(map[string]bool, len(survey.Questions))
	for _, q := range survey.Questions {
		known[q.ID] = true
	}

	resp := &Response{
		ID:             shortID(12),
		SurveyID:       req.SurveyID,
		SessionID:      sessionID,
		SubmittedAt:    s.now(),
		Email:          req.Email,
		Gender:         req.Gender,
		AgeRange:       req.AgeRange,
		EducationLevel: req.EducationLevel,
		Nationality:    req.Nationality,
		HajjNumber:     req.HajjNumber,
	}
	for _, a := range req.Answers {
		if a.QuestionID == "" || !known[a.QuestionID] {
			continue
		}
		resp.Answers = append(resp.Answers, &Answer{
			ID:         shortID(12),
			ResponseID: resp.ID,
			QuestionID: a.QuestionID,
			Value:      a.Value,
		})
	}

	if err := s.store.InsertResponse(resp); err != nil {
		if errors.Is(err, ErrDuplicateResponse) {
			return nil, NewConflictError("Survey already submitted")
		}
		return nil, err
	}
	return resp, nil
}

func missingRequired(questions []*Question, answers []SubmittedAnswer) []string {
	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		if strings.TrimSpace(a.Value) != "" {
			answered[a.QuestionID] = true
		}
	}
	var missing []string
	for _, q := range questions {
		if q.Required && !answered[q.ID] {
			missing = append(missing, q.ID)
		}
	}
	sort.Strings(missing)
	return missing
}

// ListResponses returns all responses for a survey, answers included.
func (s *ResponseService) ListResponses(surveyID string) ([]*Response, error) {
	survey, err := s.store.GetSurvey(surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, NewNotFoundError("survey not found")
	}
	return s.store.ListResponses(surveyID)
}

// GetResponse returns one response with its answers.
func (s *ResponseService) GetResponse(id string) (*Response, error) {
	r, err := s.store.GetResponse(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, NewNotFoundError("response not found")
	}
	return r, nil
}

// DeleteResponse removes one response and its answers.
func (s *ResponseService) DeleteResponse(id, actor string) error {
	ok, err := s.store.DeleteResponse(id)
	if err != nil {
		return err
	}
	if !ok {
		return NewNotFoundError("response not found")
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: actor, Action: "delete_response", Target: id})
	return nil
}
