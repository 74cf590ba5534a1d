package api

import (
	"net/http"
)

// GET /api/admin/analytics
func (rt *Router) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	summary, err := rt.reportSvc.Dashboard()
	if err != nil {
		rt.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GET /api/admin/reports?survey_id=
func (rt *Router) handleReports(w http.ResponseWriter, r *http.Request) {
	surveyID := r.URL.Query().Get("survey_id")
	if surveyID == "" {
		writeError(w, http.StatusBadRequest, "survey_id is required")
		return
	}
	report, err := rt.reportSvc.SurveyReport(surveyID)
	if err != nil {
		rt.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GET /api/admin/respondents?survey_id=
func (rt *Router) handleRespondents(w http.ResponseWriter, r *http.Request) {
	rows, err := rt.reportSvc.Respondents(r.URL.Query().Get("survey_id"))
	if err != nil {
		rt.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"respondents": rows, "total": len(rows)})
}

// GET /api/admin/export?survey_id=...&format=csv|wide|xlsx
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	surveyID := r.URL.Query().Get("survey_id")
	if surveyID == "" {
		writeError(w, http.StatusBadRequest, "survey_id is required")
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	switch format {
	case "csv":
		b, err := rt.exportSvc.LongCSV(surveyID)
		if err != nil {
			rt.writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=responses_long.csv")
		_, _ = w.Write(b)
	case "wide":
		b, err := rt.exportSvc.WideCSV(surveyID)
		if err != nil {
			rt.writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=responses_wide.csv")
		_, _ = w.Write(b)
	case "xlsx":
		b, err := rt.exportSvc.RespondentsXLSX(surveyID)
		if err != nil {
			rt.writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename=responses.xlsx")
		_, _ = w.Write(b)
	default:
		writeError(w, http.StatusBadRequest, "unsupported format")
	}
}
