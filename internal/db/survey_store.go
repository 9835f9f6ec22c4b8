package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/usf-app/usf-backend/internal/models"
	"github.com/usf-app/usf-backend/internal/services"
)

const surveysSchema = `
CREATE TABLE IF NOT EXISTS surveys (
    survey_id TEXT PRIMARY KEY,
    survey_description TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS questions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    survey_id TEXT NOT NULL,
    survey_description TEXT NOT NULL,
    category TEXT NOT NULL,
    description TEXT NOT NULL,
    weight INTEGER NOT NULL,
    FOREIGN KEY (survey_id) REFERENCES surveys (survey_id)
);
`

// The response ledger is created lazily on first submission.
const responsesSchema = `
CREATE TABLE IF NOT EXISTS responses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    survey_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    question_id INTEGER NOT NULL,
    response_value INTEGER NOT NULL,
    submitted_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (survey_id) REFERENCES surveys (survey_id),
    FOREIGN KEY (question_id) REFERENCES questions (id)
);
`

// SurveyStore persists the survey catalog and response ledger in surveys.db.
type SurveyStore struct {
	db *sql.DB
}

// NewSurveyStore ensures the catalog schema exists. Safe to call repeatedly.
func NewSurveyStore(db *sql.DB) (*SurveyStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	if _, err := db.Exec(surveysSchema); err != nil {
		return nil, fmt.Errorf("create surveys schema: %w", err)
	}
	return &SurveyStore{db: db}, nil
}

func (s *SurveyStore) InsertSurvey(sv *models.Survey) error {
	_, err := s.db.Exec(`INSERT INTO surveys (survey_id, survey_description, created_at) VALUES (?, ?, ?)`,
		sv.ID, sv.Description, sv.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert survey: %w", err)
	}
	return nil
}

func (s *SurveyStore) GetSurvey(id string) (*models.Survey, error) {
	var sv models.Survey
	err := s.db.QueryRow(`SELECT survey_id, survey_description, created_at FROM surveys WHERE survey_id = ?`, id).
		Scan(&sv.ID, &sv.Description, &sv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get survey: %w", err)
	}
	return &sv, nil
}

func (s *SurveyStore) ListSurveys() ([]*models.Survey, error) {
	rows, err := s.db.Query(`SELECT survey_id, survey_description, created_at FROM surveys ORDER BY survey_id`)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	defer rows.Close()
	out := []*models.Survey{}
	for rows.Next() {
		var sv models.Survey
		if err := rows.Scan(&sv.ID, &sv.Description, &sv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan survey: %w", err)
		}
		out = append(out, &sv)
	}
	return out, rows.Err()
}

// DeleteSurvey removes the survey row and its questions in one transaction.
// Responses are intentionally left behind.
func (s *SurveyStore) DeleteSurvey(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete survey: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM questions WHERE survey_id = ?`, id); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM surveys WHERE survey_id = ?`, id); err != nil {
		return fmt.Errorf("delete survey: %w", err)
	}
	return tx.Commit()
}

func (s *SurveyStore) InsertQuestion(q *models.Question) (*models.Question, error) {
	res, err := s.db.Exec(
		`INSERT INTO questions (survey_id, survey_description, category, description, weight) VALUES (?, ?, ?, ?, ?)`,
		q.SurveyID, q.SurveyDescription, q.Category, q.Description, q.Weight)
	if err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("question id: %w", err)
	}
	created := *q
	created.ID = id
	return &created, nil
}

func (s *SurveyStore) UpdateQuestion(q *models.Question) error {
	_, err := s.db.Exec(
		`UPDATE questions SET survey_id = ?, survey_description = ?, category = ?, description = ?, weight = ? WHERE id = ?`,
		q.SurveyID, q.SurveyDescription, q.Category, q.Description, q.Weight, q.ID)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return nil
}

func (s *SurveyStore) DeleteQuestion(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM questions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}

func (s *SurveyStore) ListQuestions(surveyID string) ([]*models.Question, error) {
	var rows *sql.Rows
	var err error
	if surveyID != "" {
		rows, err = s.db.Query(
			`SELECT id, survey_id, survey_description, category, description, weight FROM questions WHERE survey_id = ? ORDER BY id`,
			surveyID)
	} else {
		rows, err = s.db.Query(
			`SELECT id, survey_id, survey_description, category, description, weight FROM questions ORDER BY survey_id, id`)
	}
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()
	out := []*models.Question{}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.SurveyID, &q.SurveyDescription, &q.Category, &q.Description, &q.Weight); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, &q)
	}
	return out, rows.Err()
}

// ReplaceResponses swaps the user's response set for a survey. The delete and
// the inserts share one transaction, so concurrent resubmissions cannot
// interleave into a union of both sets.
func (s *SurveyStore) ReplaceResponses(surveyID, userID string, rs []*models.Response) error {
	if _, err := s.db.Exec(responsesSchema); err != nil {
		return fmt.Errorf("create responses schema: %w", err)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace responses: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM responses WHERE survey_id = ? AND user_id = ?`, surveyID, userID); err != nil {
		return fmt.Errorf("delete prior responses: %w", err)
	}
	for _, r := range rs {
		if _, err := tx.Exec(
			`INSERT INTO responses (survey_id, user_id, question_id, response_value, submitted_at) VALUES (?, ?, ?, ?, ?)`,
			r.SurveyID, r.UserID, r.QuestionID, r.Value, r.SubmittedAt); err != nil {
			return fmt.Errorf("insert response: %w", err)
		}
	}
	return tx.Commit()
}

// ListResponses returns the stored response set for one (survey, user) pair
// ordered by question id.
func (s *SurveyStore) ListResponses(surveyID, userID string) ([]*models.Response, error) {
	if _, err := s.db.Exec(responsesSchema); err != nil {
		return nil, fmt.Errorf("create responses schema: %w", err)
	}
	rows, err := s.db.Query(
		`SELECT id, survey_id, user_id, question_id, response_value, submitted_at FROM responses WHERE survey_id = ? AND user_id = ? ORDER BY question_id`,
		surveyID, userID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()
	out := []*models.Response{}
	for rows.Next() {
		var r models.Response
		if err := rows.Scan(&r.ID, &r.SurveyID, &r.UserID, &r.QuestionID, &r.Value, &r.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

var (
	_ services.SurveyStore   = (*SurveyStore)(nil)
	_ services.ResponseStore = (*SurveyStore)(nil)
)
