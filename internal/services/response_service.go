package services

import (
	"time"

	"github.com/usf-app/usf-backend/internal/models"
)

// ResponseStore abstracts ledger persistence for ResponseService.
type ResponseStore interface {
	// ReplaceResponses atomically swaps the user's response set for the
	// survey: prior rows for (surveyID, userID) are deleted and rs inserted
	// within one transaction.
	ReplaceResponses(surveyID, userID string, rs []*models.Response) error
}

type ResponseService struct {
	store ResponseStore
	now   func() time.Time
}

func NewResponseService(store ResponseStore) *ResponseService {
	return &ResponseService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Submit records the user's answers for a survey, replacing any earlier
// submission. userID comes from the session identity, never the payload.
// At most one row per (survey, user, question) survives.
func (s *ResponseService) Submit(surveyID, userID string, answers map[string]any) (int, error) {
	if surveyID == "" || len(answers) == 0 {
		return 0, NewMissingError("missing survey_id or responses")
	}
	submittedAt := s.now()
	rs := make([]*models.Response, 0, len(answers))
	for qid, value := range answers {
		questionID, err := CoerceInt(qid)
		if err != nil {
			return 0, NewInvalidInputError("question id must be numeric")
		}
		v, err := CoerceInt(value)
		if err != nil {
			return 0, NewInvalidInputError("response value must be numeric")
		}
		rs = append(rs, &models.Response{
			SurveyID:    surveyID,
			UserID:      userID,
			QuestionID:  int64(questionID),
			Value:       v,
			SubmittedAt: submittedAt,
		})
	}
	if err := s.store.ReplaceResponses(surveyID, userID, rs); err != nil {
		return 0, err
	}
	return len(rs), nil
}
