//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("USF_TEST_BASE_URL"); strings.TrimSpace(v) != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://127.0.0.1:5001"
}

// Requires a running server whose JWT secret matches USF_JWT_SECRET and an
// existing ADMIN account (register one or set USF_TEST_ADMIN_PW).
func TestUserJourneyIntegration(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	base := baseURL()

	suffix := time.Now().UnixNano()
	userID := fmt.Sprintf("alice_%d", suffix)
	surveyID := fmt.Sprintf("S%d", suffix)

	// register + login; ids are case-normalized, so login uppercase
	doRequest(t, client, http.MethodPost, base+"/usf/register", "", map[string]string{
		"id": userID, "pw": "secret", "email": userID + "@example.com",
	}, http.StatusCreated, nil)

	var loginResp struct {
		Token string `json:"token"`
		User  string `json:"user"`
	}
	doRequest(t, client, http.MethodPost, base+"/usf/login", "", map[string]string{
		"id": strings.ToUpper(userID), "pw": "secret",
	}, http.StatusOK, &loginResp)
	if loginResp.Token == "" || loginResp.User != strings.ToUpper(userID) {
		t.Fatalf("unexpected login response: %+v", loginResp)
	}
	userTok := loginResp.Token

	// a non-admin may not create surveys
	doRequest(t, client, http.MethodPost, base+"/usf/surveys", userTok, map[string]string{
		"survey_id": surveyID, "survey_description": "Demo",
	}, http.StatusForbidden, nil)

	adminPW := os.Getenv("USF_TEST_ADMIN_PW")
	if adminPW == "" {
		adminPW = "adminpw"
		doRequest(t, client, http.MethodPost, base+"/usf/register", "", map[string]string{
			"id": "ADMIN", "pw": adminPW,
		}, 0, nil) // 201 on first run, 409 afterwards; both fine
	}
	var adminLogin struct {
		Token string `json:"token"`
	}
	doRequest(t, client, http.MethodPost, base+"/usf/login", "", map[string]string{
		"id": "ADMIN", "pw": adminPW,
	}, http.StatusOK, &adminLogin)
	adminTok := adminLogin.Token

	doRequest(t, client, http.MethodPost, base+"/usf/surveys", adminTok, map[string]string{
		"survey_id": surveyID, "survey_description": "Demo",
	}, http.StatusCreated, nil)

	var got struct {
		Survey struct {
			ID          string `json:"survey_id"`
			Description string `json:"survey_description"`
		} `json:"survey"`
	}
	doRequest(t, client, http.MethodGet, base+"/usf/surveys/"+surveyID, userTok, nil, http.StatusOK, &got)
	if got.Survey.ID != surveyID || got.Survey.Description != "Demo" {
		t.Fatalf("unexpected survey: %+v", got)
	}

	doRequest(t, client, http.MethodPost, base+"/usf/questions", adminTok, map[string]any{
		"survey_id": surveyID, "survey_description": "Demo",
		"category": "general", "description": "How satisfied are you?", "weight": 3,
	}, http.StatusCreated, nil)

	var questions struct {
		Questions []struct {
			ID int64 `json:"id"`
		} `json:"questions"`
	}
	doRequest(t, client, http.MethodGet, base+"/usf/questions?survey_id="+surveyID, userTok, nil, http.StatusOK, &questions)
	if len(questions.Questions) != 1 {
		t.Fatalf("expected one question, got %+v", questions)
	}
	qid := questions.Questions[0].ID

	doRequest(t, client, http.MethodPost, base+"/usf/responses", userTok, map[string]any{
		"survey_id": surveyID,
		"responses": map[string]any{fmt.Sprint(qid): 4},
	}, http.StatusCreated, nil)

	doRequest(t, client, http.MethodDelete, base+"/usf/surveys/"+surveyID, adminTok, nil, http.StatusOK, nil)
	doRequest(t, client, http.MethodGet, base+"/usf/surveys/"+surveyID, userTok, nil, http.StatusNotFound, nil)
	doRequest(t, client, http.MethodGet, base+"/usf/questions?survey_id="+surveyID, userTok, nil, http.StatusOK, &questions)
	if len(questions.Questions) != 0 {
		t.Fatalf("questions survived survey delete: %+v", questions)
	}
}

// doRequest sends a JSON request; wantStatus 0 accepts any status.
func doRequest(t *testing.T, client *http.Client, method, url, token string, body any, wantStatus int, out any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()
	if wantStatus != 0 && resp.StatusCode != wantStatus {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: status %d, want %d: %s", method, url, resp.StatusCode, wantStatus, string(bodyBytes))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response from %s: %v", url, err)
		}
	}
}
