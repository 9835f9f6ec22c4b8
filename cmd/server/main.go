package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/usf-app/usf-backend/internal/api"
	"github.com/usf-app/usf-backend/internal/db"
	"github.com/usf-app/usf-backend/internal/middleware"
	"github.com/usf-app/usf-backend/internal/services"
	"github.com/usf-app/usf-backend/internal/utils"
)

func main() {
	// optional .env for local development; real deployments set the variables
	_ = godotenv.Load()

	addr := utils.SafeEnv("USF_ADDR", ":5001")
	dbDir := utils.SafeEnv("USF_DB_DIR", "database_file")
	corsOrigin := utils.SafeEnv("USF_CORS_ORIGIN", "http://localhost:3000")
	tokenTTL := 24 * time.Hour
	if hours, err := strconv.Atoi(utils.SafeEnv("USF_TOKEN_TTL_HOURS", "")); err == nil && hours > 0 {
		tokenTTL = time.Duration(hours) * time.Hour
	}

	authStore, surveyStore, responseStore, err := openStores(dbDir)
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}

	auth := services.NewAuthService(authStore, middleware.SignToken, tokenTTL)
	surveys := services.NewSurveyService(surveyStore)
	responses := services.NewResponseService(responseStore)

	mux := http.NewServeMux()
	api.NewRouter(auth, surveys, responses).Register(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "name": "USF API"})
	})

	handler := middleware.SecureHeaders(
		middleware.NoStore(
			middleware.CORS(corsOrigin,
				middleware.WithLogging(
					middleware.WithAuth(mux)))))

	log.Printf("USF server listening on %s (db dir %s)", addr, dbDir)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// openStores wires the two SQLite databases, or a single shared in-memory
// store when USF_DB_DIR=:memory: (handy for local frontend work).
func openStores(dbDir string) (services.AuthStore, services.SurveyStore, services.ResponseStore, error) {
	if dbDir == ":memory:" {
		mem := api.NewMemoryStore()
		return mem, mem, mem, nil
	}
	usersDB, err := db.Open(dbDir, db.UsersDBFile)
	if err != nil {
		return nil, nil, nil, err
	}
	users, err := db.NewUserStore(usersDB)
	if err != nil {
		return nil, nil, nil, err
	}
	surveysDB, err := db.Open(dbDir, db.SurveysDBFile)
	if err != nil {
		return nil, nil, nil, err
	}
	surveys, err := db.NewSurveyStore(surveysDB)
	if err != nil {
		return nil, nil, nil, err
	}
	return users, surveys, surveys, nil
}
