package services

import (
	"errors"
	"time"
)

type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorForbidden    ErrorCode = "forbidden"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorConflict     ErrorCode = "conflict"
	ErrorUnauthorized ErrorCode = "unauthorized"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error   { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewForbiddenError(msg string) error { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error  { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error  { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ErrDuplicateResponse is surfaced by stores when the (survey_id, session_id)
// uniqueness constraint rejects an insert.
var ErrDuplicateResponse = errors.New("duplicate response")

// Customer types a survey may target.
const (
	CustomerPilgrims = "pilgrims"
	CustomerStaff    = "staff"
)

// Question types.
const (
	TypeMultipleChoice  = "multiple_choice"
	TypeStarRating      = "star_rating"
	TypePercentageRange = "percentage_range"
	TypeTextBox         = "text_box"
)

// Survey is a bilingual questionnaire with an ordered question list.
type Survey struct {
	ID            string
	TitleAr       string
	TitleEn       string
	DescriptionAr string
	DescriptionEn string
	CustomerType  string
	CreatedBy     string
	CreatedAt     time.Time
	IsArchived    bool
	ResponseCount int
	Questions     []*Question
}

type Question struct {
	ID         string
	SurveyID   string
	Type       string
	ContentAr  string
	ContentEn  string
	Required   bool
	OrderNum   int
	CategoryAr string
	CategoryEn string

	// multiple_choice
	Options []*Option
	// star_rating
	StarCount     int
	RangeMappings []*RangeMapping
	// percentage_range
	MinValue *float64
	MaxValue *float64
	Step     *float64
}

type Option struct {
	ID         string
	QuestionID string
	TextAr     string
	TextEn     string
	OrderNum   int
}

// RangeMapping relates a star level to a percentage band.
type RangeMapping struct {
	ID            string
	QuestionID    string
	Stars         int
	MinPercentage *float64
	MaxPercentage *float64
}

// Response is one respondent's submission, identified by a coarse session
// fingerprint rather than an account.
type Response struct {
	ID          string
	SurveyID    string
	SessionID   string
	SubmittedAt time.Time

	Email          string
	Gender         string
	AgeRange       string
	EducationLevel string
	Nationality    string
	HajjNumber     string

	Answers []*Answer
}

type Answer struct {
	ID         string
	ResponseID string
	QuestionID string
	Value      string
}

// Admin is the dashboard account. There is a single seeded admin in normal
// operation.
type Admin struct {
	ID        string
	Email     string
	PassHash  []byte
	CreatedAt time.Time
}

type AuditEntry struct {
	Time   time.Time
	Actor  string
	Action string
	Target string
	Note   string
}
