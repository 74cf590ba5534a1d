package api

import "github.com/aliskandarani/raai/internal/services"

type reportStoreAdapter struct {
	store Store
}

func newReportStoreAdapter(store Store) services.ReportStore {
	return &reportStoreAdapter{store: store}
}

func (a *reportStoreAdapter) GetSurvey(id string) (*services.Survey, error) {
	rec, err := a.store.GetSurvey(id)
	if err != nil {
		return nil, err
	}
	return toServiceSurvey(rec), nil
}

func (a *reportStoreAdapter) ListSurveys(customerType, search string) ([]*services.Survey, error) {
	recs, err := a.store.ListSurveys(customerType, search)
	if err != nil {
		return nil, err
	}
	return toServiceSurveys(recs), nil
}

func (a *reportStoreAdapter) ListResponses(surveyID string) ([]*services.Response, error) {
	recs, err := a.store.ListResponses(surveyID)
	if err != nil {
		return nil, err
	}
	return toServiceResponses(recs), nil
}

var _ services.ReportStore = (*reportStoreAdapter)(nil)

type exportStoreAdapter struct {
	store Store
}

func newExportStoreAdapter(store Store) services.ExportStore {
	return &exportStoreAdapter{store: store}
}

func (a *exportStoreAdapter) GetSurvey(id string) (*services.Survey, error) {
	rec, err := a.store.GetSurvey(id)
	if err != nil {
		return nil, err
	}
	return toServiceSurvey(rec), nil
}

func (a *exportStoreAdapter) ListResponses(surveyID string) ([]*services.Response, error) {
	recs, err := a.store.ListResponses(surveyID)
	if err != nil {
		return nil, err
	}
	return toServiceResponses(recs), nil
}

var _ services.ExportStore = (*exportStoreAdapter)(nil)
