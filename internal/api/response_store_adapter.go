package api

import (
	"errors"

	"github.com/aliskandarani/raai/internal/services"
)

type responseStoreAdapter struct {
	store Store
}

func newResponseStoreAdapter(store Store) services.ResponseStore {
	return &responseStoreAdapter{store: store}
}

func (a *responseStoreAdapter) GetSurvey(id string) (*services.Survey, error) {
	rec, err := a.store.GetSurvey(id)
	if err != nil {
		return nil, err
	}
	return toServiceSurvey(rec), nil
}

func (a *responseStoreAdapter) HasResponse(surveyID, sessionID string) (bool, error) {
	return a.store.HasResponse(surveyID, sessionID)
}

func (a *responseStoreAdapter) InsertResponse(r *services.Response) error {
	err := a.store.InsertResponse(fromServiceResponse(r))
	if errors.Is(err, ErrDuplicateResponse) {
		return services.ErrDuplicateResponse
	}
	return err
}

func (a *responseStoreAdapter) GetResponse(id string) (*services.Response, error) {
	rec, err := a.store.GetResponse(id)
	if err != nil {
		return nil, err
	}
	return toServiceResponse(rec), nil
}

func (a *responseStoreAdapter) DeleteResponse(id string) (bool, error) {
	return a.store.DeleteResponse(id)
}

func (a *responseStoreAdapter) ListResponses(surveyID string) ([]*services.Response, error) {
	recs, err := a.store.ListResponses(surveyID)
	if err != nil {
		return nil, err
	}
	return toServiceResponses(recs), nil
}

func (a *responseStoreAdapter) AddAudit(e services.AuditEntry) {
	a.store.AddAudit(AuditEntry{Time: e.Time, Actor: e.Actor, Action: e.Action, Target: e.Target, Note: e.Note})
}

var _ services.ResponseStore = (*responseStoreAdapter)(nil)
