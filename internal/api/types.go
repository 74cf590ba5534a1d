package api

import "time"

type Survey struct {
	ID            string      `json:"id"`
	TitleAr       string      `json:"title_ar"`
	TitleEn       string      `json:"title_en"`
	DescriptionAr string      `json:"description_ar,omitempty"`
	DescriptionEn string      `json:"description_en,omitempty"`
	CustomerType  string      `json:"customer_type"`
	CreatedBy     string      `json:"created_by,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	IsArchived    bool        `json:"is_archived"`
	ResponseCount int         `json:"response_count"`
	Questions     []*Question `json:"questions,omitempty"`
}

type Question struct {
	ID            string          `json:"id"`
	SurveyID      string          `json:"survey_id,omitempty"`
	Type          string          `json:"type"`
	ContentAr     string          `json:"content_ar"`
	ContentEn     string          `json:"content_en"`
	Required      bool            `json:"required"`
	OrderNum      int             `json:"order_num"`
	CategoryAr    string          `json:"category_ar,omitempty"`
	CategoryEn    string          `json:"category_en,omitempty"`
	Options       []*Option       `json:"options,omitempty"`
	StarCount     int             `json:"star_count,omitempty"`
	RangeMappings []*RangeMapping `json:"range_mappings,omitempty"`
	MinValue      *float64        `json:"min_value,omitempty"`
	MaxValue      *float64        `json:"max_value,omitempty"`
	Step          *float64        `json:"step,omitempty"`
}

type Option struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id,omitempty"`
	TextAr     string `json:"text_ar"`
	TextEn     string `json:"text_en"`
	OrderNum   int    `json:"order_num"`
}

type RangeMapping struct {
	ID            string   `json:"id"`
	QuestionID    string   `json:"question_id,omitempty"`
	Stars         int      `json:"stars"`
	MinPercentage *float64 `json:"min_percentage"`
	MaxPercentage *float64 `json:"max_percentage"`
}

type Response struct {
	ID          string    `json:"id"`
	SurveyID    string    `json:"survey_id"`
	SessionID   string    `json:"session_id,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`

	Email          string `json:"email,omitempty"`
	Gender         string `json:"gender,omitempty"`
	AgeRange       string `json:"age_range,omitempty"`
	EducationLevel string `json:"education_level,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	HajjNumber     string `json:"hajj_number,omitempty"`

	Answers []*Answer `json:"answers,omitempty"`
}

type Answer struct {
	ID         string `json:"id"`
	ResponseID string `json:"response_id,omitempty"`
	QuestionID string `json:"question_id"`
	Value      string `json:"value"`
}

type Admin struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	PassHash  []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type AuditEntry struct {
	Time   time.Time `json:"time"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Target string    `json:"target"`
	Note   string    `json:"note,omitempty"`
}

// PublicSurvey is the respondent-facing view: no creator, no counts.
type PublicSurvey struct {
	ID            string      `json:"id"`
	TitleAr       string      `json:"title_ar"`
	TitleEn       string      `json:"title_en"`
	DescriptionAr string      `json:"description_ar,omitempty"`
	DescriptionEn string      `json:"description_en,omitempty"`
	CustomerType  string      `json:"customer_type"`
	Questions     []*Question `json:"questions"`
}
