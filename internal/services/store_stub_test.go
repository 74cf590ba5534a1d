package services

import "time"

// memStore is a shared in-memory stub backing the service tests. It implements
// every store interface the services declare.
type memStore struct {
	surveys   map[string]*Survey
	questions map[string][]*Question
	responses map[string][]*Response
	admins    map[string]*Admin
	audit     []AuditEntry

	insertResponseErr error
}

func newMemStore() *memStore {
	return &memStore{
		surveys:   map[string]*Survey{},
		questions: map[string][]*Question{},
		responses: map[string][]*Response{},
		admins:    map[string]*Admin{},
	}
}

func (m *memStore) InsertSurvey(s *Survey) (*Survey, error) {
	m.surveys[s.ID] = s
	m.questions[s.ID] = s.Questions
	return s, nil
}

func (m *memStore) GetSurvey(id string) (*Survey, error) {
	cur, ok := m.surveys[id]
	if !ok {
		return nil, nil
	}
	// Hand out a copy, like the real store's row scan: question appends and
	// service-side field tweaks must not rewrite surveys callers already hold.
	dup := *cur
	if qs, ok := m.questions[id]; ok {
		dup.Questions = qs
	}
	return &dup, nil
}

func (m *memStore) UpdateSurveyMeta(s *Survey) error {
	cur, ok := m.surveys[s.ID]
	if !ok {
		return nil
	}
	cur.TitleAr = s.TitleAr
	cur.TitleEn = s.TitleEn
	cur.DescriptionAr = s.DescriptionAr
	cur.DescriptionEn = s.DescriptionEn
	cur.CustomerType = s.CustomerType
	cur.IsArchived = s.IsArchived
	return nil
}

func (m *memStore) ReplaceQuestions(surveyID string, qs []*Question) error {
	if _, ok := m.surveys[surveyID]; ok {
		m.questions[surveyID] = qs
	}
	return nil
}

func (m *memStore) AppendQuestions(surveyID string, qs []*Question) error {
	if cur, ok := m.surveys[surveyID]; ok {
		base, seeded := m.questions[surveyID]
		if !seeded {
			base = cur.Questions
		}
		m.questions[surveyID] = append(base, qs...)
	}
	return nil
}

func (m *memStore) SetArchived(id string, archived bool) (bool, error) {
	cur, ok := m.surveys[id]
	if !ok {
		return false, nil
	}
	cur.IsArchived = archived
	return true, nil
}

func (m *memStore) DeleteSurvey(id string) (bool, error) {
	if _, ok := m.surveys[id]; !ok {
		return false, nil
	}
	delete(m.surveys, id)
	delete(m.questions, id)
	delete(m.responses, id)
	return true, nil
}

func (m *memStore) ListSurveys(customerType, search string) ([]*Survey, error) {
	var out []*Survey
	for _, s := range m.surveys {
		if customerType != "" && s.CustomerType != customerType {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memStore) CountResponses(surveyID string) (int, error) {
	return len(m.responses[surveyID]), nil
}

func (m *memStore) HasResponse(surveyID, sessionID string) (bool, error) {
	for _, r := range m.responses[surveyID] {
		if r.SessionID == sessionID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) InsertResponse(r *Response) error {
	if m.insertResponseErr != nil {
		return m.insertResponseErr
	}
	for _, prev := range m.responses[r.SurveyID] {
		if prev.SessionID == r.SessionID {
			return ErrDuplicateResponse
		}
	}
	m.responses[r.SurveyID] = append(m.responses[r.SurveyID], r)
	return nil
}

func (m *memStore) GetResponse(id string) (*Response, error) {
	for _, rs := range m.responses {
		for _, r := range rs {
			if r.ID == id {
				return r, nil
			}
		}
	}
	return nil, nil
}

func (m *memStore) DeleteResponse(id string) (bool, error) {
	for sid, rs := range m.responses {
		for i, r := range rs {
			if r.ID == id {
				m.responses[sid] = append(rs[:i], rs[i+1:]...)
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *memStore) ListResponses(surveyID string) ([]*Response, error) {
	return m.responses[surveyID], nil
}

func (m *memStore) AddAudit(e AuditEntry) {
	m.audit = append(m.audit, e)
}

func (m *memStore) FindAdminByEmail(email string) (*Admin, error) {
	return m.admins[email], nil
}

func (m *memStore) AddAdmin(a *Admin) error {
	m.admins[a.Email] = a
	return nil
}

func f64(v float64) *float64 { return &v }

func fixedTime() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}
