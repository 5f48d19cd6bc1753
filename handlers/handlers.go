package handlers

import (
	"net/http"

	"github.com/adamspd/quizdesk/utils"
)

// NewQuizRouter wires question delivery and scoring.
func NewQuizRouter(store QuizStore, corsOrigin string) http.Handler {
	qh := NewQuizHandlers(store)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", rootCheck)
	mux.HandleFunc("GET /health", healthCheck)

	mux.HandleFunc("GET /quiz", qh.ListQuizzes)
	mux.HandleFunc("GET /quiz/{quizId}", qh.GetQuiz)
	mux.HandleFunc("GET /quiz/{quizId}/questions", qh.GetQuestions)
	mux.HandleFunc("POST /quiz/{quizId}/submit", qh.Submit)

	return chain(mux, corsOrigin)
}

// NewEmployeeRouter wires the employee directory.
func NewEmployeeRouter(store EmployeeStore, notifier Notifier, corsOrigin string) http.Handler {
	eh := NewEmployeeHandlers(store, notifier)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", rootCheck)
	mux.HandleFunc("GET /health", healthCheck)

	mux.HandleFunc("GET /api/employees", eh.List)
	mux.HandleFunc("POST /api/employees", eh.Create)
	mux.HandleFunc("GET /api/employees/{id}", eh.Get)
	mux.HandleFunc("PUT /api/employees/{id}", eh.Update)
	mux.HandleFunc("DELETE /api/employees/{id}", eh.Delete)

	return chain(mux, corsOrigin)
}

func chain(h http.Handler, corsOrigin string) http.Handler {
	return requestIDMiddleware(loggingMiddleware(recoverMiddleware(corsMiddleware(h, corsOrigin))))
}

func corsMiddleware(next http.Handler, origin string) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, If-None-Match")
		w.Header().Set("Access-Control-Expose-Headers", "ETag, X-Request-ID")
		if origin != "*" {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func rootCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.LogDebug("Health check requested")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
