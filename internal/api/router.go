package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/usf-app/usf-backend/internal/middleware"
	"github.com/usf-app/usf-backend/internal/services"
)

// Router wires the /usf/ HTTP surface to the services.
type Router struct {
	auth      *services.AuthService
	surveys   *services.SurveyService
	responses *services.ResponseService
}

func NewRouter(auth *services.AuthService, surveys *services.SurveyService, responses *services.ResponseService) *Router {
	return &Router{auth: auth, surveys: surveys, responses: responses}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /usf/register", rt.handleRegister)
	mux.HandleFunc("POST /usf/login", rt.handleLogin)
	mux.Handle("POST /usf/logout", middleware.RequireAuth(http.HandlerFunc(rt.handleLogout)))
	mux.HandleFunc("GET /usf/me", rt.handleMe)

	mux.Handle("GET /usf/surveys", middleware.RequireAuth(http.HandlerFunc(rt.handleListSurveys)))
	mux.Handle("POST /usf/surveys", middleware.RequireAdmin(http.HandlerFunc(rt.handleCreateSurvey)))
	mux.Handle("GET /usf/surveys/{id}", middleware.RequireAuth(http.HandlerFunc(rt.handleGetSurvey)))
	mux.Handle("DELETE /usf/surveys/{id}", middleware.RequireAdmin(http.HandlerFunc(rt.handleDeleteSurvey)))

	mux.Handle("GET /usf/questions", middleware.RequireAuth(http.HandlerFunc(rt.handleListQuestions)))
	mux.Handle("POST /usf/questions", middleware.RequireAdmin(http.HandlerFunc(rt.handleCreateQuestion)))
	mux.Handle("PUT /usf/questions/{id}", middleware.RequireAdmin(http.HandlerFunc(rt.handleUpdateQuestion)))
	mux.Handle("DELETE /usf/questions/{id}", middleware.RequireAdmin(http.HandlerFunc(rt.handleDeleteQuestion)))

	mux.Handle("POST /usf/responses", middleware.RequireAuth(http.HandlerFunc(rt.handleSubmitResponses)))
}

func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID    string `json:"id"`
		PW    string `json:"pw"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := rt.auth.Register(req.ID, req.PW, req.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
		PW string `json:"pw"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	res, err := rt.auth.Login(req.ID, req.PW)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    res.Token,
		Path:     "/",
		MaxAge:   int(rt.auth.TokenTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": res.Token, "user": res.UserID})
}

func (rt *Router) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (rt *Router) handleMe(w http.ResponseWriter, r *http.Request) {
	if uid, ok := middleware.IdentityFromContext(r.Context()); ok {
		writeJSON(w, http.StatusOK, map[string]any{"logged_in": true, "user": uid})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logged_in": false})
}

func (rt *Router) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	list, err := rt.surveys.ListSurveys()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"surveys": list})
}

func (rt *Router) handleCreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SurveyID          string `json:"survey_id"`
		SurveyDescription string `json:"survey_description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if _, err := rt.surveys.CreateSurvey(req.SurveyID, req.SurveyDescription); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}

func (rt *Router) handleGetSurvey(w http.ResponseWriter, r *http.Request) {
	sv, err := rt.surveys.GetSurvey(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"survey": sv})
}

func (rt *Router) handleDeleteSurvey(w http.ResponseWriter, r *http.Request) {
	if err := rt.surveys.DeleteSurvey(r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (rt *Router) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := rt.surveys.ListQuestions(r.URL.Query().Get("survey_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": qs})
}

func (rt *Router) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var in services.QuestionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if _, err := rt.surveys.CreateQuestion(&in); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}

func (rt *Router) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "question id must be numeric")
		return
	}
	var in services.QuestionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := rt.surveys.UpdateQuestion(id, &in); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (rt *Router) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "question id must be numeric")
		return
	}
	if err := rt.surveys.DeleteQuestion(id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (rt *Router) handleSubmitResponses(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SurveyID  string         `json:"survey_id"`
		Responses map[string]any `json:"responses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	// submitter comes from the session, never the payload
	uid, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if _, err := rt.responses.Submit(req.SurveyID, uid, req.Responses); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeServiceError(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		writeError(w, statusFor(se.Code), se.Message)
		return
	}
	log.Printf("internal error: %v", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func statusFor(code services.ErrorCode) int {
	switch code {
	case services.ErrorMissing, services.ErrorInvalidInput:
		return http.StatusBadRequest
	case services.ErrorUnauthorized, services.ErrorInvalidCredentials:
		return http.StatusUnauthorized
	case services.ErrorForbidden:
		return http.StatusForbidden
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
