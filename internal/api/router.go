package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aliskandarani/raai/internal/cache"
	"github.com/aliskandarani/raai/internal/middleware"
	"github.com/aliskandarani/raai/internal/services"
)

type Router struct {
	store Store
	log   *zap.SugaredLogger
	cache *cache.SurveyCache

	authSvc     *services.AuthService
	surveySvc   *services.SurveyService
	responseSvc *services.ResponseService
	reportSvc   *services.ReportService
	exportSvc   *services.ExportService
}

func NewRouter(store Store, signer services.TokenSigner, tokenTTL time.Duration, log *zap.SugaredLogger, surveyCache *cache.SurveyCache) *Router {
	return &Router{
		store:       store,
		log:         log,
		cache:       surveyCache,
		authSvc:     services.NewAuthService(newAuthStoreAdapter(store), signer, tokenTTL),
		surveySvc:   services.NewSurveyService(newSurveyStoreAdapter(store)),
		responseSvc: services.NewResponseService(newResponseStoreAdapter(store)),
		reportSvc:   services.NewReportService(newReportStoreAdapter(store)),
		exportSvc:   services.NewExportService(newExportStoreAdapter(store)),
	}
}

// AuthService exposes the auth service for startup admin seeding.
func (rt *Router) AuthService() *services.AuthService { return rt.authSvc }

func (rt *Router) Register(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/login", rt.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/surveys/{id}", rt.handlePublicSurvey).Methods(http.MethodGet)
	api.HandleFunc("/surveys/{id}/responses", rt.handleSubmitResponse).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAuth)
	admin.HandleFunc("/surveys", rt.handleListSurveys).Methods(http.MethodGet)
	admin.HandleFunc("/surveys", rt.handleCreateSurvey).Methods(http.MethodPost)
	admin.HandleFunc("/surveys/{id}", rt.handleGetSurvey).Methods(http.MethodGet)
	admin.HandleFunc("/surveys/{id}", rt.handleUpdateSurvey).Methods(http.MethodPut)
	admin.HandleFunc("/surveys/{id}", rt.handleDeleteSurvey).Methods(http.MethodDelete)
	admin.HandleFunc("/surveys/{id}/clone", rt.handleCloneSurvey).Methods(http.MethodPost)
	admin.HandleFunc("/surveys/{id}/archive", rt.handleArchiveSurvey).Methods(http.MethodPost)
	admin.HandleFunc("/surveys/{id}/responses", rt.handleListResponses).Methods(http.MethodGet)
	admin.HandleFunc("/responses/{id}", rt.handleGetResponse).Methods(http.MethodGet)
	admin.HandleFunc("/responses/{id}", rt.handleDeleteResponse).Methods(http.MethodDelete)
	admin.HandleFunc("/analytics", rt.handleAnalytics).Methods(http.MethodGet)
	admin.HandleFunc("/reports", rt.handleReports).Methods(http.MethodGet)
	admin.HandleFunc("/respondents", rt.handleRespondents).Methods(http.MethodGet)
	admin.HandleFunc("/export", rt.handleExport).Methods(http.MethodGet)
	admin.HandleFunc("/audit", rt.handleAudit).Methods(http.MethodGet)
}

// actor identifies the authenticated admin for audit entries.
func actor(r *http.Request) string {
	if c, ok := middleware.AdminFromContext(r.Context()); ok {
		return c.Email
	}
	return ""
}

func adminID(r *http.Request) string {
	if c, ok := middleware.AdminFromContext(r.Context()); ok {
		return c.UID
	}
	return ""
}
