package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// GET /api/admin/surveys?customer_type=&search=
func (rt *Router) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	customerType := r.URL.Query().Get("customer_type")
	search := r.URL.Query().Get("search")
	list, err := rt.surveySvc.ListSurveys(customerType, search)
	if err != nil {
		rt.writeServiceError(w, err)
		return
	}
	out := make([]*Survey, 0, len(list))
	for _, sv := range list {
		out = append(out, fromServiceSurvey(sv))
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/admin/surveys
func (rt *Router) handleCreateSurvey(w http.ResponseWriter, r *http.Request) {
	var payload Survey
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	created, err := rt.surveySvc.CreateSurvey(adminID(r), toServiceSurvey(&payload))
	if err != nil {
		rt.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fromServiceSurvey(created))
}

// GET /api/admin/surveys/{id}
func (rt *Router) handleGetSurvey(w http.ResponseWriter, r *http.Request) {
	sv, err := rt.surveySvc.GetSurvey(mux.Vars(r)["id"])
	if err != nil {
		rt.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fromServiceSurvey(sv))
}

// PUT /api/admin/surveys/{id}
func (rt *Router) handleUpdateSurvey(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var payload Survey
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	updated, err := rt.surveySvc.UpdateSurvey(id, actor(r), toServiceSurvey(&payload))
	if err != nil {
		rt.writeServiceError(w, err)
		return
	}
	rt.cache.Invalidate(r.Context(), id)
	writeJSON(w, http.StatusOK, fromServiceSurvey(updated))
}

// DELETE /api/admin/surveys/{id}
func (rt *Router) handleDeleteSurvey(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := rt.surveySvc.DeleteSurvey(id, actor(r)); err != nil {
		rt.writeServiceError(w, err)
		return
	}
	rt.cache.Invalidate(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// POST /api/admin/surveys/{id}/clone
func (rt *Router) handleCloneSurvey(w http.ResponseWriter, r *http.Request) {
	created, err := rt.surveySvc.CloneSurvey(mux.Vars(r)["id"], adminID(r))
	if err != nil {
		rt.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fromServiceSurvey(created))
}

// POST /api/admin/surveys/{id}/archive
func (rt *Router) handleArchiveSurvey(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := rt.surveySvc.ArchiveSurvey(id, actor(r)); err != nil {
		rt.writeServiceError(w, err)
		return
	}
	rt.cache.Invalidate(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// GET /api/admin/surveys/{id}/responses
func (rt *Router) handleListResponses(w http.ResponseWriter, r *http.Request) {
	list, err := rt.responseSvc.ListResponses(mux.Vars(r)["id"])
	if err != nil {
		rt.writeServiceError(w, err)
		return
	}
	out := make([]*Response, 0, len(list))
	for _, resp := range list {
		out = append(out, fromServiceResponse(resp))
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/admin/responses/{id}
func (rt *Router) handleGetResponse(w http.ResponseWriter, r *http.Request) {
	resp, err := rt.responseSvc.GetResponse(mux.Vars(r)["id"])
	if err != nil {
		rt.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fromServiceResponse(resp))
}

// DELETE /api/admin/responses/{id}
func (rt *Router) handleDeleteResponse(w http.ResponseWriter, r *http.Request) {
	if err := rt.responseSvc.DeleteResponse(mux.Vars(r)["id"], actor(r)); err != nil {
		rt.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
