package services

import (
	"sort"
	"time"
)

// ReportStore abstracts the reads needed by the report aggregator. All math
// below operates on collections already loaded from it.
type ReportStore interface {
	GetSurvey(id string) (*Survey, error)
	ListSurveys(customerType, search string) ([]*Survey, error)
	ListResponses(surveyID string) ([]*Response, error)
}

type ReportService struct {
	store ReportStore
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store}
}

type QuestionScore struct {
	QuestionID  string  `json:"question_id,omitempty"`
	TitleAr     string  `json:"title_ar"`
	TitleEn     string  `json:"title_en"`
	Average     float64 `json:"average"`
	AnswerCount int     `json:"answer_count"`
}

type Demographics struct {
	Gender      map[string]int `json:"gender"`
	AgeRange    map[string]int `json:"age_range"`
	Nationality map[string]int `json:"nationality"`
}

// Satisfaction is the Top-2-Box dashboard score with its five-level label.
type Satisfaction struct {
	Score float64 `json:"score"`
	Level string  `json:"level"`
}

type SurveyReport struct {
	SurveyID                  string          `json:"survey_id"`
	TitleAr                   string          `json:"title_ar"`
	TitleEn                   string          `json:"title_en"`
	TotalResponses            int             `json:"total_responses"`
	TotalInvitationsEstimated int             `json:"total_invitations_estimated"`
	ResponseRate              float64         `json:"response_rate"`
	CompletionRate            float64         `json:"completion_rate"`
	AnswerRate                float64         `json:"answer_rate"`
	SatisfactionRate          float64         `json:"satisfaction_rate"`
	Satisfaction              Satisfaction    `json:"satisfaction"`
	TopStrengths              []QuestionScore `json:"top_strengths"`
	BottomImprovements        []QuestionScore `json:"bottom_improvements"`
	Demographics              Demographics    `json:"demographics"`
}

type DashboardSummary struct {
	TotalSurveys    int            `json:"total_surveys"`
	ActiveSurveys   int            `json:"active_surveys"`
	TotalResponses  int            `json:"total_responses"`
	ByCustomerType  map[string]int `json:"surveys_by_customer_type"`
	Satisfaction    Satisfaction   `json:"satisfaction"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

type RespondentRow struct {
	ResponseID     string    `json:"response_id"`
	SurveyID       string    `json:"survey_id"`
	SurveyTitleAr  string    `json:"survey_title_ar"`
	SurveyTitleEn  string    `json:"survey_title_en"`
	SubmittedAt    time.Time `json:"submitted_at"`
	Email          string    `json:"email,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	AgeRange       string    `json:"age_range,omitempty"`
	EducationLevel string    `json:"education_level,omitempty"`
	Nationality    string    `json:"nationality,omitempty"`
	HajjNumber     string    `json:"hajj_number,omitempty"`
	AnswerCount    int       `json:"answer_count"`
}

// SurveyReport builds the full per-survey report.
func (s *ReportService) SurveyReport(surveyID string) (*SurveyReport, error) {
	survey, err := s.store.GetSurvey(surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, NewNotFoundError("survey not found")
	}
	responses, err := s.store.ListResponses(surveyID)
	if err != nil {
		return nil, err
	}

	invitations := EstimatedInvitations(len(responses))
	rate := 0.0
	if invitations > 0 {
		rate = float64(len(responses)) / float64(invitations) * 100
	}
	score, level := TopTwoBox(responses, survey.Questions)
	strengths, improvements := RankQuestions(responses, survey.Questions)

	return &SurveyReport{
		SurveyID:                  surveyID,
		TitleAr:                   survey.TitleAr,
		TitleEn:                   survey.TitleEn,
		TotalResponses:            len(responses),
		TotalInvitationsEstimated: invitations,
		ResponseRate:              rate,
		CompletionRate:            CompletionRate(responses, survey.Questions),
		AnswerRate:                AnswerRate(responses, survey.Questions),
		SatisfactionRate:          SatisfactionRate(responses, survey.Questions),
		Satisfaction:              Satisfaction{Score: score, Level: level},
		TopStrengths:              strengths,
		BottomImprovements:        improvements,
		Demographics:              DemographicBreakdown(responses),
	}, nil
}

// Dashboard aggregates across every survey.
func (s *ReportService) Dashboard() (*DashboardSummary, error) {
	summaries, err := s.store.ListSurveys("", "")
	if err != nil {
		return nil, err
	}
	out := &DashboardSummary{
		TotalSurveys:   len(summaries),
		ByCustomerType: map[string]int{},
		GeneratedAt:    time.Now().UTC(),
	}
	satisfied, rated := 0, 0
	for _, sm := range summaries {
		out.ByCustomerType[sm.CustomerType]++
		if !sm.IsArchived {
			out.ActiveSurveys++
		}
		survey, err := s.store.GetSurvey(sm.ID)
		if err != nil {
			return nil, err
		}
		if survey == nil {
			continue
		}
		responses, err := s.store.ListResponses(sm.ID)
		if err != nil {
			return nil, err
		}
		out.TotalResponses += len(responses)
		sat, tot := topTwoBoxCounts(responses, survey.Questions)
		satisfied += sat
		rated += tot
	}
	score := 0.0
	if rated > 0 {
		score = float64(satisfied) / float64(rated) * 100
	}
	out.Satisfaction = Satisfaction{Score: score, Level: SatisfactionLevel(score)}
	return out, nil
}

// Respondents lists respondent rows, optionally filtered to one survey.
func (s *ReportService) Respondents(surveyID string) ([]RespondentRow, error) {
	var surveys []*Survey
	if surveyID != "" {
		sv, err := s.store.GetSurvey(surveyID)
		if err != nil {
			return nil, err
		}
		if sv == nil {
			return nil, NewNotFoundError("survey not found")
		}
		surveys = []*Survey{sv}
	} else {
		var err error
		surveys, err = s.store.ListSurveys("", "")
		if err != nil {
			return nil, err
		}
	}
	rows := []RespondentRow{}
	for _, sv := range surveys {
		responses, err := s.store.ListResponses(sv.ID)
		if err != nil {
			return nil, err
		}
		for _, r := range responses {
			rows = append(rows, RespondentRow{
				ResponseID:     r.ID,
				SurveyID:       sv.ID,
				SurveyTitleAr:  sv.TitleAr,
				SurveyTitleEn:  sv.TitleEn,
				SubmittedAt:    r.SubmittedAt,
				Email:          r.Email,
				Gender:         r.Gender,
				AgeRange:       r.AgeRange,
				EducationLevel: r.EducationLevel,
				Nationality:    r.Nationality,
				HajjNumber:     r.HajjNumber,
				AnswerCount:    len(r.Answers),
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SubmittedAt.After(rows[j].SubmittedAt) })
	return rows, nil
}

// CompletionRate is the fraction of (response, question) pairs carrying at
// least one answer. Zero when either side is empty.
func CompletionRate(responses []*Response, questions []*Question) float64 {
	if len(responses) == 0 || len(questions) == 0 {
		return 0
	}
	ids := make(map[string]bool, len(questions))
	for _, q := range questions {
		ids[q.ID] = true
	}
	answered := 0
	for _, r := range responses {
		seen := map[string]bool{}
		for _, a := range r.Answers {
			if ids[a.QuestionID] && !seen[a.QuestionID] {
				seen[a.QuestionID] = true
				answered++
			}
		}
	}
	return float64(answered) / float64(len(responses)*len(questions))
}

// AnswerRate currently shares CompletionRate's formula. The two are reported
// as separate fields and must not be merged without product sign-off.
func AnswerRate(responses []*Response, questions []*Question) float64 {
	return CompletionRate(responses, questions)
}

// SatisfactionRate averages all rating-family answer values and normalizes
// the mean against a 0-5 scale. Percentage answers flow through the same
// divisor; see DESIGN.md before touching this.
func SatisfactionRate(responses []*Response, questions []*Question) float64 {
	typeOf := questionTypes(questions)
	sum, n := 0.0, 0
	for _, r := range responses {
		for _, a := range r.Answers {
			v := AnswerValue{QuestionType: typeOf[a.QuestionID], Raw: a.Value}
			if !v.IsRating() {
				continue
			}
			if f, ok := v.Score(); ok {
				sum += f
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n) / 5 * 100
}

// RankQuestions scores each rating question by its average answer value and
// returns the top three as strengths and the bottom three (weakest first) as
// improvements. A bilingual placeholder row stands in when there is nothing
// to rank.
func RankQuestions(responses []*Response, questions []*Question) (strengths, improvements []QuestionScore) {
	typeOf := questionTypes(questions)
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range responses {
		for _, a := range r.Answers {
			v := AnswerValue{QuestionType: typeOf[a.QuestionID], Raw: a.Value}
			if !v.IsRating() {
				continue
			}
			if f, ok := v.Score(); ok {
				sums[a.QuestionID] += f
				counts[a.QuestionID]++
			}
		}
	}
	ranked := []QuestionScore{}
	for _, q := range questions {
		if q.Type != TypeStarRating && q.Type != TypePercentageRange {
			continue
		}
		c := counts[q.ID]
		if c == 0 {
			continue
		}
		ranked = append(ranked, QuestionScore{
			QuestionID:  q.ID,
			TitleAr:     q.ContentAr,
			TitleEn:     q.ContentEn,
			Average:     sums[q.ID] / float64(c),
			AnswerCount: c,
		})
	}
	if len(ranked) == 0 {
		placeholder := []QuestionScore{{TitleAr: "لا توجد بيانات تقييم", TitleEn: "No rating data available"}}
		return placeholder, placeholder
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Average > ranked[j].Average })
	top := len(ranked)
	if top > 3 {
		top = 3
	}
	strengths = append([]QuestionScore{}, ranked[:top]...)
	bottom := ranked
	if len(bottom) > 3 {
		bottom = bottom[len(bottom)-3:]
	}
	improvements = make([]QuestionScore, 0, len(bottom))
	for i := len(bottom) - 1; i >= 0; i-- {
		improvements = append(improvements, bottom[i])
	}
	return strengths, improvements
}

// DemographicBreakdown tallies gender, age range and nationality across the
// responses; unset fields are excluded.
func DemographicBreakdown(responses []*Response) Demographics {
	d := Demographics{
		Gender:      map[string]int{},
		AgeRange:    map[string]int{},
		Nationality: map[string]int{},
	}
	for _, r := range responses {
		if r.Gender != "" {
			d.Gender[r.Gender]++
		}
		if r.AgeRange != "" {
			d.AgeRange[r.AgeRange]++
		}
		if r.Nationality != "" {
			d.Nationality[r.Nationality]++
		}
	}
	return d
}

// EstimatedInvitations is a synthetic denominator; there is no invitation
// tracking behind it.
func EstimatedInvitations(responseCount int) int {
	n := responseCount * 10
	if n < 100 {
		n = 100
	}
	return n
}

// TopTwoBox computes the dashboard satisfaction score: the share of rating
// answers in the top two levels (stars 4-5, percentages >= 80).
func TopTwoBox(responses []*Response, questions []*Question) (float64, string) {
	satisfied, total := topTwoBoxCounts(responses, questions)
	score := 0.0
	if total > 0 {
		score = float64(satisfied) / float64(total) * 100
	}
	return score, SatisfactionLevel(score)
}

func topTwoBoxCounts(responses []*Response, questions []*Question) (satisfied, total int) {
	typeOf := questionTypes(questions)
	for _, r := range responses {
		for _, a := range r.Answers {
			v := AnswerValue{QuestionType: typeOf[a.QuestionID], Raw: a.Value}
			if !v.IsRating() {
				continue
			}
			if _, ok := v.Score(); !ok {
				continue
			}
			total++
			if v.Satisfied() {
				satisfied++
			}
		}
	}
	return satisfied, total
}

// SatisfactionLevel maps a 0-100 score to its five-level label.
func SatisfactionLevel(score float64) string {
	switch {
	case score >= 80:
		return "very_satisfied"
	case score >= 60:
		return "satisfied"
	case score >= 40:
		return "neutral"
	case score >= 20:
		return "dissatisfied"
	default:
		return "very_dissatisfied"
	}
}

func questionTypes(questions []*Question) map[string]string {
	m := make(map[string]string, len(questions))
	for _, q := range questions {
		m[q.ID] = q.Type
	}
	return m
}
