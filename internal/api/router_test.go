package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aliskandarani/raai/internal/middleware"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	surveys   map[string]*Survey
	responses map[string][]*Response
	admins    map[string]*Admin
	audit     []AuditEntry
}

func newTestStore() *memStore {
	return &memStore{
		surveys:   map[string]*Survey{},
		responses: map[string][]*Response{},
		admins:    map[string]*Admin{},
	}
}

func (m *memStore) AddAdmin(a *Admin) error { m.admins[a.Email] = a; return nil }
func (m *memStore) FindAdminByEmail(email string) (*Admin, error) {
	return m.admins[email], nil
}

func (m *memStore) InsertSurvey(s *Survey) error { m.surveys[s.ID] = s; return nil }
func (m *memStore) GetSurvey(id string) (*Survey, error) {
	return m.surveys[id], nil
}

func (m *memStore) UpdateSurveyMeta(s *Survey) error {
	if cur, ok := m.surveys[s.ID]; ok {
		qs := cur.Questions
		*cur = *s
		cur.Questions = qs
	}
	return nil
}

func (m *memStore) ReplaceQuestions(surveyID string, qs []*Question) error {
	if cur, ok := m.surveys[surveyID]; ok {
		cur.Questions = qs
	}
	return nil
}

func (m *memStore) AppendQuestions(surveyID string, qs []*Question) error {
	if cur, ok := m.surveys[surveyID]; ok {
		cur.Questions = append(cur.Questions, qs...)
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

func (m *memStore) InsertResponse(r *Response) error {
	for _, prev := range m.responses[r.SurveyID] {
		if prev.SessionID == r.SessionID {
			return ErrDuplicateResponse
		}
	}
	m.responses[r.SurveyID] = append(m.responses[r.SurveyID], r)
	return nil
}

func (m *memStore) HasResponse(surveyID, sessionID string) (bool, error) {
	for _, r := range m.responses[surveyID] {
		if r.SessionID == sessionID {
			return true, nil
		}
	}
	return false, nil
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

func (m *memStore) AddAudit(e AuditEntry) { m.audit = append(m.audit, e) }

func (m *memStore) ListAudit() ([]AuditEntry, error) { return m.audit, nil }

type testEnv struct {
	store   *memStore
	handler http.Handler
	token   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newTestStore()
	auth := middleware.NewAuth("test-secret")
	rt := NewRouter(store, auth.SignToken, time.Hour, zap.NewNop().Sugar(), nil)
	if err := rt.AuthService().EnsureAdmin("admin@example.com", "secret123"); err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}
	r := mux.NewRouter()
	rt.Register(r)
	env := &testEnv{store: store, handler: auth.WithAuth(r)}

	rec := env.do(t, http.MethodPost, "/api/auth/login", `{"email":"admin@example.com","password":"secret123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d body %s", rec.Code, rec.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	decode(t, rec, &login)
	env.token = login.Token
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.RemoteAddr = "203.0.113.9:40000"
	req.Header.Set("User-Agent", "router-test")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

const createPayload = `{
  "title_ar": "استبيان الخدمات",
  "title_en": "Services Survey",
  "customer_type": "pilgrims",
  "questions": [
    {"type": "star_rating", "content_ar": "السكن", "content_en": "Housing", "required": true, "star_count": 5},
    {"type": "text_box", "content_ar": "ملاحظات", "content_en": "Comments"}
  ]
}`

func (e *testEnv) createSurvey(t *testing.T) *Survey {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/admin/surveys", createPayload, e.token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body %s", rec.Code, rec.Body.String())
	}
	var sv Survey
	decode(t, rec, &sv)
	return &sv
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{
		"/api/admin/surveys",
		"/api/admin/analytics",
		"/api/admin/respondents",
		"/api/admin/audit",
	} {
		rec := env.do(t, http.MethodGet, path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s status = %d, want 401", path, rec.Code)
		}
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/auth/login", `{"email":"admin@example.com","password":"wrong"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestSurveyLifecycle(t *testing.T) {
	env := newTestEnv(t)
	sv := env.createSurvey(t)
	if sv.ID == "" || len(sv.Questions) != 2 {
		t.Fatalf("created survey = %+v", sv)
	}

	// Public view omits created_by and response_count.
	rec := env.do(t, http.MethodGet, "/api/surveys/"+sv.ID, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("public get status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "created_by") || strings.Contains(rec.Body.String(), "response_count") {
		t.Fatalf("public payload leaks admin fields: %s", rec.Body.String())
	}

	// Validation failures surface as 400 with the service message.
	rec = env.do(t, http.MethodPost, "/api/admin/surveys",
		`{"title_ar":"أ","title_en":"A","customer_type":"pilgrims","questions":[{"type":"multiple_choice","content_ar":"س","content_en":"Q","options":[{"text_ar":"أ","text_en":"a"}]}]}`,
		env.token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid create status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "at least 2 options") {
		t.Fatalf("invalid create body = %s", rec.Body.String())
	}

	// Archive hides the public view but keeps the admin view.
	rec = env.do(t, http.MethodPost, "/api/admin/surveys/"+sv.ID+"/archive", "", env.token)
	if rec.Code != http.StatusOK {
		t.Fatalf("archive status = %d body %s", rec.Code, rec.Body.String())
	}
	if rec := env.do(t, http.MethodGet, "/api/surveys/"+sv.ID, "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("archived public get status = %d, want 404", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/admin/surveys/"+sv.ID, "", env.token); rec.Code != http.StatusOK {
		t.Fatalf("admin get after archive status = %d", rec.Code)
	}

	// Clone and delete.
	rec = env.do(t, http.MethodPost, "/api/admin/surveys/"+sv.ID+"/clone", "", env.token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("clone status = %d body %s", rec.Code, rec.Body.String())
	}
	var dup Survey
	decode(t, rec, &dup)
	if dup.ID == sv.ID || !strings.HasSuffix(dup.TitleEn, " (Copy)") {
		t.Fatalf("clone = %+v", dup)
	}

	rec = env.do(t, http.MethodDelete, "/api/admin/surveys/"+sv.ID, "", env.token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodDelete, "/api/admin/surveys/"+sv.ID, "", env.token); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestSubmitResponseFlow(t *testing.T) {
	env := newTestEnv(t)
	sv := env.createSurvey(t)
	body := `{"answers":[{"question_id":"` + sv.Questions[0].ID + `","value":5}],"gender":"male"}`

	rec := env.do(t, http.MethodPost, "/api/surveys/"+sv.ID+"/responses", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d body %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Success    bool   `json:"success"`
		ResponseID string `json:"response_id"`
	}
	decode(t, rec, &out)
	if !out.Success || out.ResponseID == "" {
		t.Fatalf("submit body = %s", rec.Body.String())
	}
	// Numeric JSON values are stored as their text form.
	stored := env.store.responses[sv.ID][0]
	if len(stored.Answers) != 1 || stored.Answers[0].Value != "5" {
		t.Fatalf("stored answers = %+v", stored.Answers)
	}

	// Same client again: conflict.
	rec = env.do(t, http.MethodPost, "/api/surveys/"+sv.ID+"/responses", body, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Survey already submitted") {
		t.Fatalf("duplicate body = %s", rec.Body.String())
	}

	// Non-array answers payload.
	rec = env.do(t, http.MethodPost, "/api/surveys/"+sv.ID+"/responses", `{"answers":{"q":"1"}}`, "")
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "answers must be an array") {
		t.Fatalf("bad answers = %d %s", rec.Code, rec.Body.String())
	}

	// Missing required question.
	rec = env.do(t, http.MethodPost, "/api/surveys/"+sv.ID+"/responses", `{"answers":[]}`, "")
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "required") {
		t.Fatalf("missing required = %d %s", rec.Code, rec.Body.String())
	}

	// Admin listing, single fetch, and reports see the stored response.
	rec = env.do(t, http.MethodGet, "/api/admin/surveys/"+sv.ID+"/responses", "", env.token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list responses status = %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/admin/responses/"+out.ResponseID, "", env.token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get response status = %d body %s", rec.Code, rec.Body.String())
	}
	var single Response
	decode(t, rec, &single)
	if single.ID != out.ResponseID || len(single.Answers) != 1 {
		t.Fatalf("fetched response = %+v", single)
	}
	if rec := env.do(t, http.MethodGet, "/api/admin/responses/missing", "", env.token); rec.Code != http.StatusNotFound {
		t.Fatalf("missing response status = %d, want 404", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/admin/reports?survey_id="+sv.ID, "", env.token)
	if rec.Code != http.StatusOK {
		t.Fatalf("reports status = %d body %s", rec.Code, rec.Body.String())
	}
	var report struct {
		TotalResponses            int `json:"total_responses"`
		TotalInvitationsEstimated int `json:"total_invitations_estimated"`
	}
	decode(t, rec, &report)
	if report.TotalResponses != 1 || report.TotalInvitationsEstimated != 100 {
		t.Fatalf("report = %+v", report)
	}

	rec = env.do(t, http.MethodGet, "/api/admin/export?survey_id="+sv.ID+"&format=wide", "", env.token)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("export content type = %q", ct)
	}
}

func TestSubmitToUnknownSurveyIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	// The survey lookup runs first, so a malformed body still gets 404.
	rec := env.do(t, http.MethodPost, "/api/surveys/missing/responses", `{"answers":{"q":"1"}}`, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing survey status = %d, want 404", rec.Code)
	}

	sv := env.createSurvey(t)
	if rec := env.do(t, http.MethodPost, "/api/admin/surveys/"+sv.ID+"/archive", "", env.token); rec.Code != http.StatusOK {
		t.Fatalf("archive status = %d", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/api/surveys/"+sv.ID+"/responses", `{"answers":{"q":"1"}}`, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("archived survey status = %d, want 404", rec.Code)
	}
}

func TestReportsRequireSurveyID(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/admin/reports", "", env.token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
