package api

import "github.com/aliskandarani/raai/internal/services"

type surveyStoreAdapter struct {
	store Store
}

func newSurveyStoreAdapter(store Store) services.SurveyStore {
	return &surveyStoreAdapter{store: store}
}

func (a *surveyStoreAdapter) InsertSurvey(s *services.Survey) (*services.Survey, error) {
	rec := fromServiceSurvey(s)
	if err := a.store.InsertSurvey(rec); err != nil {
		return nil, err
	}
	return toServiceSurvey(rec), nil
}

func (a *surveyStoreAdapter) GetSurvey(id string) (*services.Survey, error) {
	rec, err := a.store.GetSurvey(id)
	if err != nil {
		return nil, err
	}
	return toServiceSurvey(rec), nil
}

func (a *surveyStoreAdapter) UpdateSurveyMeta(s *services.Survey) error {
	return a.store.UpdateSurveyMeta(fromServiceSurvey(s))
}

func (a *surveyStoreAdapter) ReplaceQuestions(surveyID string, qs []*services.Question) error {
	recs := make([]*Question, 0, len(qs))
	for _, q := range qs {
		recs = append(recs, fromServiceQuestion(q))
	}
	return a.store.ReplaceQuestions(surveyID, recs)
}

func (a *surveyStoreAdapter) AppendQuestions(surveyID string, qs []*services.Question) error {
	recs := make([]*Question, 0, len(qs))
	for _, q := range qs {
		recs = append(recs, fromServiceQuestion(q))
	}
	return a.store.AppendQuestions(surveyID, recs)
}

func (a *surveyStoreAdapter) SetArchived(id string, archived bool) (bool, error) {
	return a.store.SetArchived(id, archived)
}

func (a *surveyStoreAdapter) DeleteSurvey(id string) (bool, error) {
	return a.store.DeleteSurvey(id)
}

func (a *surveyStoreAdapter) ListSurveys(customerType, search string) ([]*services.Survey, error) {
	recs, err := a.store.ListSurveys(customerType, search)
	if err != nil {
		return nil, err
	}
	return toServiceSurveys(recs), nil
}

func (a *surveyStoreAdapter) CountResponses(surveyID string) (int, error) {
	return a.store.CountResponses(surveyID)
}

func (a *surveyStoreAdapter) AddAudit(e services.AuditEntry) {
	a.store.AddAudit(AuditEntry{Time: e.Time, Actor: e.Actor, Action: e.Action, Target: e.Target, Note: e.Note})
}

var _ services.SurveyStore = (*surveyStoreAdapter)(nil)
