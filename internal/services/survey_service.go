package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/usf-app/usf-backend/internal/models"
)

// SurveyStore abstracts catalog persistence for SurveyService.
type SurveyStore interface {
	InsertSurvey(sv *models.Survey) error
	GetSurvey(id string) (*models.Survey, error)
	ListSurveys() ([]*models.Survey, error)
	// DeleteSurvey removes the survey row and every question referencing it.
	DeleteSurvey(id string) error
	InsertQuestion(q *models.Question) (*models.Question, error)
	UpdateQuestion(q *models.Question) error
	DeleteQuestion(id int64) error
	// ListQuestions returns questions for one survey ordered by id, or, with
	// an empty surveyID, all questions ordered by (survey_id, id).
	ListQuestions(surveyID string) ([]*models.Question, error)
}

// QuestionInput carries the raw question payload. Weight stays untyped until
// coercion so that both JSON numbers and numeric strings are accepted.
type QuestionInput struct {
	SurveyID          string `json:"survey_id"`
	SurveyDescription string `json:"survey_description"`
	Category          string `json:"category"`
	Description       string `json:"description"`
	Weight            any    `json:"weight"`
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

func (s *SurveyService) ListSurveys() ([]*models.Survey, error) {
	return s.store.ListSurveys()
}

func (s *SurveyService) GetSurvey(id string) (*models.Survey, error) {
	sv, err := s.store.GetSurvey(id)
	if err != nil {
		return nil, err
	}
	if sv == nil {
		return nil, NewNotFoundError("survey not found")
	}
	return sv, nil
}

func (s *SurveyService) CreateSurvey(id, description string) (*models.Survey, error) {
	id = strings.TrimSpace(id)
	description = strings.TrimSpace(description)
	if id == "" || description == "" {
		return nil, NewMissingError("missing survey_id or survey_description")
	}
	existing, err := s.store.GetSurvey(id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("survey id already exists")
	}
	sv := &models.Survey{ID: id, Description: description, CreatedAt: s.now()}
	if err := s.store.InsertSurvey(sv); err != nil {
		return nil, err
	}
	return sv, nil
}

// DeleteSurvey cascades to the survey's questions and succeeds even when the
// survey never existed. Accumulated responses are left in place.
func (s *SurveyService) DeleteSurvey(id string) error {
	return s.store.DeleteSurvey(id)
}

func (s *SurveyService) ListQuestions(surveyID string) ([]*models.Question, error) {
	return s.store.ListQuestions(surveyID)
}

func (s *SurveyService) CreateQuestion(in *QuestionInput) (*models.Question, error) {
	q, err := s.questionFromInput(in)
	if err != nil {
		return nil, err
	}
	sv, err := s.store.GetSurvey(q.SurveyID)
	if err != nil {
		return nil, err
	}
	if sv == nil {
		return nil, NewNotFoundError("survey does not exist")
	}
	return s.store.InsertQuestion(q)
}

// UpdateQuestion overwrites every field of the row identified by id. A missing
// row is a silent no-op, matching delete semantics.
func (s *SurveyService) UpdateQuestion(id int64, in *QuestionInput) error {
	q, err := s.questionFromInput(in)
	if err != nil {
		return err
	}
	q.ID = id
	return s.store.UpdateQuestion(q)
}

func (s *SurveyService) DeleteQuestion(id int64) error {
	return s.store.DeleteQuestion(id)
}

func (s *SurveyService) questionFromInput(in *QuestionInput) (*models.Question, error) {
	if in == nil {
		return nil, NewMissingError("missing fields")
	}
	if in.SurveyID == "" || in.SurveyDescription == "" || in.Category == "" ||
		in.Description == "" || in.Weight == nil {
		return nil, NewMissingError("missing fields")
	}
	weight, err := CoerceInt(in.Weight)
	if err != nil {
		return nil, NewInvalidInputError("weight must be numeric")
	}
	return &models.Question{
		SurveyID:          in.SurveyID,
		SurveyDescription: in.SurveyDescription,
		Category:          in.Category,
		Description:       in.Description,
		Weight:            weight,
	}, nil
}

// CoerceInt converts a decoded JSON value to an integer. JSON numbers arrive
// as float64, form-ish clients send numeric strings; both are accepted.
func CoerceInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return int(f), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, err
		}
		return i, nil
	default:
		return 0, fmt.Errorf("value %v is not numeric", v)
	}
}
