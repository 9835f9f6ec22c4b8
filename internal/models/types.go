package models

import "time"

// User is a registered account. Identifiers are stored uppercase, so lookups
// are case-insensitive. The identity "ADMIN" is privileged by convention.
type User struct {
	ID       string
	PassHash []byte // bcrypt; never leaves the server
	Email    string
}

// Survey is a named collection of questions managed by administrators.
type Survey struct {
	ID          string    `json:"survey_id"`
	Description string    `json:"survey_description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Question is a scored item within a survey. SurveyDescription is a
// denormalized copy of the owning survey's description.
type Question struct {
	ID                int64  `json:"id"`
	SurveyID          string `json:"survey_id"`
	SurveyDescription string `json:"survey_description"`
	Category          string `json:"category"`
	Description       string `json:"description"`
	Weight            int    `json:"weight"`
}

// Response is one user's answer to one question within one survey.
type Response struct {
	ID          int64     `json:"id"`
	SurveyID    string    `json:"survey_id"`
	UserID      string    `json:"user_id"`
	QuestionID  int64     `json:"question_id"`
	Value       int       `json:"response_value"`
	SubmittedAt time.Time `json:"submitted_at"`
}
