package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/adamspd/quizdesk/models"
	"github.com/adamspd/quizdesk/scoring"
	"github.com/adamspd/quizdesk/utils"
)

const maxSubmitBytes = 1 << 20

// QuizStore is the read contract of the quiz store.
type QuizStore interface {
	ListQuizzes(ctx context.Context) ([]models.Quiz, error)
	GetQuiz(ctx context.Context, id int) (*models.Quiz, error)
	GetQuizQuestions(ctx context.Context, quizID int) ([]models.PublicQuestion, error)
	GetAnswerKey(ctx context.Context, quizID int) (map[int]string, error)
}

type QuizHandlers struct {
	store QuizStore
}

func NewQuizHandlers(store QuizStore) *QuizHandlers {
	return &QuizHandlers{store: store}
}

var errInvalidQuizID = &apiError{Status: http.StatusBadRequest, Message: "invalid quiz id", Err: models.ErrInvalidID}

func quizIDFromPath(r *http.Request) (int, error) {
	id, ok := utils.ParsePositiveID(r.PathValue("quizId"))
	if !ok {
		return 0, errInvalidQuizID
	}
	return id, nil
}

func (qh *QuizHandlers) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := qh.store.ListQuizzes(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.QuizListResponse{Quizzes: quizzes})
}

func (qh *QuizHandlers) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFromPath(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	quiz, err := qh.store.GetQuiz(r.Context(), quizID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

// GetQuestions delivers a quiz's questions without correct options. An
// unknown quiz and a quiz with no questions both yield an empty list.
func (qh *QuizHandlers) GetQuestions(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFromPath(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	questions, err := qh.store.GetQuizQuestions(r.Context(), quizID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if questions == nil {
		questions = []models.PublicQuestion{}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(models.QuestionsResponse{QuizID: quizID, Questions: questions}); err != nil {
		respondError(w, r, err)
		return
	}

	etag := utils.ContentETag(buf.Bytes())
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	utils.LogHTTP("Returning %d questions for quiz %d", len(questions), quizID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Submit scores a (possibly partial) submission against the stored key.
// The body is fully validated before the store is touched.
func (qh *QuizHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFromPath(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	answers, err := decodeSubmission(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	key, err := qh.store.GetAnswerKey(r.Context(), quizID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result := scoring.Score(key, answers)
	utils.LogHTTP("Scored quiz %d submission: %d/%d correct", quizID, result.Correct, result.Total)
	writeJSON(w, http.StatusOK, result)
}

func decodeSubmission(w http.ResponseWriter, r *http.Request) ([]models.SubmittedAnswer, error) {
	var req models.SubmitRequest
	if err := readJSON(w, r, maxSubmitBytes, &req); err != nil {
		return nil, &apiError{Status: http.StatusBadRequest, Message: "invalid request", Err: err}
	}
	if req.Answers == nil {
		return nil, &apiError{Status: http.StatusBadRequest, Message: "invalid request", Err: models.ErrInvalidRequest}
	}
	return *req.Answers, nil
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
