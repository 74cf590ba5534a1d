package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/aliskandarani/raai/internal/services"
)

// GET /api/surveys/{id}
func (rt *Router) handlePublicSurvey(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if b, ok := rt.cache.GetSurvey(r.Context(), id); ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
		return
	}
	sv, err := rt.surveySvc.GetPublicSurvey(id)
	if err != nil {
		rt.writeServiceError(w, err)
		return
	}
	view := publicView(sv)
	payload, err := json.Marshal(view)
	if err != nil {
		rt.writeServiceError(w, err)
		return
	}
	rt.cache.SetSurvey(r.Context(), id, payload)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(payload)
}

func publicView(sv *services.Survey) *PublicSurvey {
	rec := fromServiceSurvey(sv)
	return &PublicSurvey{
		ID:            rec.ID,
		TitleAr:       rec.TitleAr,
		TitleEn:       rec.TitleEn,
		DescriptionAr: rec.DescriptionAr,
		DescriptionEn: rec.DescriptionEn,
		CustomerType:  rec.CustomerType,
		Questions:     rec.Questions,
	}
}

// POST /api/surveys/{id}/responses
// { answers: [{question_id, value}], email?, gender?, age_range?,
//   education_level?, nationality?, hajj_number? }
func (rt *Router) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	// Missing or archived surveys 404 before any body validation.
	if _, err := rt.surveySvc.GetPublicSurvey(id); err != nil {
		rt.writeServiceError(w, err)
		return
	}
	var body struct {
		Answers        json.RawMessage `json:"answers"`
		Email          string          `json:"email"`
		Gender         string          `json:"gender"`
		AgeRange       string          `json:"age_range"`
		EducationLevel string          `json:"education_level"`
		Nationality    string          `json:"nationality"`
		HajjNumber     string          `json:"hajj_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	trimmed := bytes.TrimSpace(body.Answers)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		writeError(w, http.StatusBadRequest, "answers must be an array")
		return
	}
	var raw []struct {
		QuestionID string          `json:"question_id"`
		Value      json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "answers must be an array")
		return
	}
	answers := make([]services.SubmittedAnswer, 0, len(raw))
	for _, a := range raw {
		answers = append(answers, services.SubmittedAnswer{QuestionID: a.QuestionID, Value: rawValueToString(a.Value)})
	}

	resp, err := rt.responseSvc.Submit(services.SubmitRequest{
		SurveyID:       id,
		RemoteAddr:     clientAddr(r),
		UserAgent:      r.UserAgent(),
		Answers:        answers,
		Email:          body.Email,
		Gender:         body.Gender,
		AgeRange:       body.AgeRange,
		EducationLevel: body.EducationLevel,
		Nationality:    body.Nationality,
		HajjNumber:     body.HajjNumber,
	})
	if err != nil {
		rt.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "response_id": resp.ID})
}

// rawValueToString coerces any JSON answer value to its stored text form.
func rawValueToString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// clientAddr prefers the first X-Forwarded-For hop so fingerprints survive a
// reverse proxy.
func clientAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.Index(xff, ","); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	return r.RemoteAddr
}
