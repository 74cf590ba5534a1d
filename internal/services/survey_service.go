package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SurveyStore abstracts persistence operations required by SurveyService.
type SurveyStore interface {
	InsertSurvey(s *Survey) (*Survey, error)
	GetSurvey(id string) (*Survey, error)
	UpdateSurveyMeta(s *Survey) error
	ReplaceQuestions(surveyID string, qs []*Question) error
	AppendQuestions(surveyID string, qs []*Question) error
	SetArchived(id string, archived bool) (bool, error)
	DeleteSurvey(id string) (bool, error)
	ListSurveys(customerType, search string) ([]*Survey, error)
	CountResponses(surveyID string) (int, error)
	AddAudit(e AuditEntry)
}

type SurveyService struct {
	store SurveyStore
	now   func() time.Time
}

func NewSurveyService(store SurveyStore) *SurveyService {
	return &SurveyService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

var knownQuestionTypes = map[string]bool{
	TypeMultipleChoice:  true,
	TypeStarRating:      true,
	TypePercentageRange: true,
	TypeTextBox:         true,
}

// ValidateSurvey checks a proposed survey definition against the authoring
// rules, stopping at the first violated constraint.
func ValidateSurvey(s *Survey) error {
	if s == nil {
		return NewInvalidError("survey payload is required")
	}
	if strings.TrimSpace(s.TitleAr) == "" {
		return NewInvalidError("title_ar is required")
	}
	if strings.TrimSpace(s.TitleEn) == "" {
		return NewInvalidError("title_en is required")
	}
	if strings.TrimSpace(s.CustomerType) == "" {
		return NewInvalidError("customer_type is required")
	}
	if s.CustomerType != CustomerPilgrims && s.CustomerType != CustomerStaff {
		return NewInvalidError("customer_type must be pilgrims or staff")
	}
	if len(s.Questions) == 0 {
		return NewInvalidError("at least one question is required")
	}
	for i, q := range s.Questions {
		if err := validateQuestion(i, q); err != nil {
			return err
		}
	}
	return nil
}

func validateQuestion(i int, q *Question) error {
	pos := i + 1
	if q == nil {
		return NewInvalidError(fmt.Sprintf("question %d: payload is required", pos))
	}
	if strings.TrimSpace(q.Type) == "" {
		return NewInvalidError(fmt.Sprintf("question %d: type is required", pos))
	}
	if strings.TrimSpace(q.ContentAr) == "" {
		return NewInvalidError(fmt.Sprintf("question %d: content_ar is required", pos))
	}
	if strings.TrimSpace(q.ContentEn) == "" {
		return NewInvalidError(fmt.Sprintf("question %d: content_en is required", pos))
	}
	if !knownQuestionTypes[q.Type] {
		return NewInvalidError(fmt.Sprintf("question %d: unknown type %q", pos, q.Type))
	}
	switch q.Type {
	case TypeMultipleChoice:
		if len(q.Options) < 2 {
			return NewInvalidError(fmt.Sprintf("question %d: multiple choice requires at least 2 options", pos))
		}
		for j, opt := range q.Options {
			if opt == nil || strings.TrimSpace(opt.TextAr) == "" || strings.TrimSpace(opt.TextEn) == "" {
				return NewInvalidError(fmt.Sprintf("question %d option %d: text_ar and text_en are required", pos, j+1))
			}
		}
	case TypeStarRating:
		if q.StarCount < 1 || q.StarCount > 5 {
			return NewInvalidError(fmt.Sprintf("question %d: star_count must be between 1 and 5", pos))
		}
		for j, m := range q.RangeMappings {
			if m == nil || m.Stars < 1 || m.MinPercentage == nil || m.MaxPercentage == nil {
				return NewInvalidError(fmt.Sprintf("question %d mapping %d: stars, min_percentage and max_percentage are required", pos, j+1))
			}
		}
	case TypePercentageRange:
		// max > min is deliberately not enforced; the authoring UI owns that.
		if q.MinValue == nil || q.MaxValue == nil {
			return NewInvalidError(fmt.Sprintf("question %d: min_value and max_value are required", pos))
		}
	}
	return nil
}

// CreateSurvey validates the proposed definition, assigns identifiers and
// display order, and persists the whole tree in one transaction.
func (s *SurveyService) CreateSurvey(adminID string, sv *Survey) (*Survey, error) {
	if err := ValidateSurvey(sv); err != nil {
		return nil, err
	}
	sv.ID = shortID(8)
	sv.CreatedBy = adminID
	sv.CreatedAt = s.now()
	sv.IsArchived = false
	assignQuestionIdentity(sv.ID, sv.Questions)
	created, err := s.store.InsertSurvey(sv)
	if err != nil {
		return nil, err
	}
	if created == nil {
		created = sv
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: adminID, Action: "create_survey", Target: created.ID})
	return created, nil
}

func assignQuestionIdentity(surveyID string, qs []*Question) {
	for i, q := range qs {
		q.ID = shortID(8)
		q.SurveyID = surveyID
		q.OrderNum = i + 1
		for j, opt := range q.Options {
			opt.ID = shortID(8)
			opt.QuestionID = q.ID
			opt.OrderNum = j + 1
		}
		for _, m := range q.RangeMappings {
			m.ID = shortID(8)
			m.QuestionID = q.ID
		}
	}
}

// GetSurvey returns the full admin view including the response count.
func (s *SurveyService) GetSurvey(id string) (*Survey, error) {
	sv, err := s.store.GetSurvey(id)
	if err != nil {
		return nil, err
	}
	if sv == nil {
		return nil, NewNotFoundError("survey not found")
	}
	count, err := s.store.CountResponses(id)
	if err != nil {
		return nil, err
	}
	sv.ResponseCount = count
	return sv, nil
}

// GetPublicSurvey returns the respondent-facing view. Archived surveys are
// indistinguishable from missing ones.
func (s *SurveyService) GetPublicSurvey(id string) (*Survey, error) {
	sv, err := s.store.GetSurvey(id)
	if err != nil {
		return nil, err
	}
	if sv == nil || sv.IsArchived {
		return nil, NewNotFoundError("survey not found")
	}
	sv.CreatedBy = ""
	sv.ResponseCount = 0
	return sv, nil
}

func (s *SurveyService) ListSurveys(customerType, search string) ([]*Survey, error) {
	if customerType != "" && customerType != CustomerPilgrims && customerType != CustomerStaff {
		return nil, NewInvalidError("customer_type must be pilgrims or staff")
	}
	return s.store.ListSurveys(customerType, strings.TrimSpace(search))
}

// UpdateSurvey applies an edited definition. Once a survey has recorded
// responses its existing questions are frozen so historical answers stay
// comparable; edits may then only touch titles/descriptions and append new
// questions.
func (s *SurveyService) UpdateSurvey(id, actor string, sv *Survey) (*Survey, error) {
	old, err := s.store.GetSurvey(id)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, NewNotFoundError("survey not found")
	}
	if err := ValidateSurvey(sv); err != nil {
		return nil, err
	}
	count, err := s.store.CountResponses(id)
	if err != nil {
		return nil, err
	}

	meta := *old
	meta.TitleAr = sv.TitleAr
	meta.TitleEn = sv.TitleEn
	meta.DescriptionAr = sv.DescriptionAr
	meta.DescriptionEn = sv.DescriptionEn
	meta.CustomerType = sv.CustomerType

	if count == 0 {
		assignQuestionIdentity(id, sv.Questions)
		if err := s.store.UpdateSurveyMeta(&meta); err != nil {
			return nil, err
		}
		if err := s.store.ReplaceQuestions(id, sv.Questions); err != nil {
			return nil, err
		}
	} else {
		added, err := frozenQuestionDelta(old.Questions, sv.Questions)
		if err != nil {
			return nil, err
		}
		next := len(old.Questions) + 1
		for i, q := range added {
			q.ID = shortID(8)
			q.SurveyID = id
			q.OrderNum = next + i
			for j, opt := range q.Options {
				opt.ID = shortID(8)
				opt.QuestionID = q.ID
				opt.OrderNum = j + 1
			}
			for _, m := range q.RangeMappings {
				m.ID = shortID(8)
				m.QuestionID = q.ID
			}
		}
		if err := s.store.UpdateSurveyMeta(&meta); err != nil {
			return nil, err
		}
		if len(added) > 0 {
			if err := s.store.AppendQuestions(id, added); err != nil {
				return nil, err
			}
		}
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: actor, Action: "update_survey", Target: id})
	return s.GetSurvey(id)
}

// frozenQuestionDelta verifies the incoming list keeps every existing question
// unchanged and in place, returning only the questions to append.
func frozenQuestionDelta(existing, incoming []*Question) ([]*Question, error) {
	if len(incoming) < len(existing) {
		return nil, NewInvalidError("existing questions cannot be removed once responses are recorded")
	}
	for i, old := range existing {
		in := incoming[i]
		if in.ID != old.ID || in.Type != old.Type || in.ContentAr != old.ContentAr ||
			in.ContentEn != old.ContentEn || in.Required != old.Required {
			return nil, NewInvalidError("existing questions cannot be modified once responses are recorded")
		}
	}
	added := make([]*Question, 0, len(incoming)-len(existing))
	for _, q := range incoming[len(existing):] {
		if q.ID != "" {
			return nil, NewInvalidError("existing questions cannot be reordered once responses are recorded")
		}
		added = append(added, q)
	}
	return added, nil
}

// CloneSurvey deep-copies a survey into a fresh unarchived one with no
// responses.
func (s *SurveyService) CloneSurvey(id, adminID string) (*Survey, error) {
	src, err := s.store.GetSurvey(id)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, NewNotFoundError("survey not found")
	}
	dup := *src
	dup.TitleEn = src.TitleEn + " (Copy)"
	dup.TitleAr = src.TitleAr + " (نسخة)"
	dup.ID = shortID(8)
	dup.CreatedBy = adminID
	dup.CreatedAt = s.now()
	dup.IsArchived = false
	dup.ResponseCount = 0
	dup.Questions = cloneQuestions(src.Questions)
	assignQuestionIdentity(dup.ID, dup.Questions)
	created, err := s.store.InsertSurvey(&dup)
	if err != nil {
		return nil, err
	}
	if created == nil {
		created = &dup
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: adminID, Action: "clone_survey", Target: id, Note: created.ID})
	return created, nil
}

func cloneQuestions(qs []*Question) []*Question {
	out := make([]*Question, 0, len(qs))
	for _, q := range qs {
		cq := *q
		cq.Options = make([]*Option, 0, len(q.Options))
		for _, opt := range q.Options {
			co := *opt
			cq.Options = append(cq.Options, &co)
		}
		cq.RangeMappings = make([]*RangeMapping, 0, len(q.RangeMappings))
		for _, m := range q.RangeMappings {
			cm := *m
			if m.MinPercentage != nil {
				v := *m.MinPercentage
				cm.MinPercentage = &v
			}
			if m.MaxPercentage != nil {
				v := *m.MaxPercentage
				cm.MaxPercentage = &v
			}
			cq.RangeMappings = append(cq.RangeMappings, &cm)
		}
		out = append(out, &cq)
	}
	return out
}

// DeleteSurvey permanently removes a survey and everything under it.
func (s *SurveyService) DeleteSurvey(id, actor string) error {
	ok, err := s.store.DeleteSurvey(id)
	if err != nil {
		return err
	}
	if !ok {
		return NewNotFoundError("survey not found")
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: actor, Action: "delete_survey", Target: id})
	return nil
}

// ArchiveSurvey hides a survey from the public surface without destroying its
// data.
func (s *SurveyService) ArchiveSurvey(id, actor string) error {
	ok, err := s.store.SetArchived(id, true)
	if err != nil {
		return err
	}
	if !ok {
		return NewNotFoundError("survey not found")
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: actor, Action: "archive_survey", Target: id})
	return nil
}
