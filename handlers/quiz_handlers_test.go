package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adamspd/quizdesk/db"
	"github.com/adamspd/quizdesk/models"
)

func newQuizServer(t *testing.T) (*httptest.Server, *db.DB) {
	t.Helper()
	database, err := db.InitDB(":memory:")
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	_, err = database.CreateQuiz(context.Background(), "Sample", []models.Question{
		{Text: "Q1", OptionA: "Paris", OptionB: "Rome", CorrectOption: "a"},
		{Text: "Q2", OptionA: "Earth", OptionB: "Mars", CorrectOption: "b"},
		{Text: "Q3", OptionA: "x", OptionB: "y", OptionC: "z", CorrectOption: "c"},
	})
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	if _, err := database.CreateQuiz(context.Background(), "Empty", nil); err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}

	srv := httptest.NewServer(NewQuizRouter(database, "*"))
	t.Cleanup(srv.Close)
	return srv, database
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func TestGetQuestions_HidesCorrectOption(t *testing.T) {
	srv, _ := newQuizServer(t)

	resp, err := http.Get(srv.URL + "/quiz/1/questions")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var raw map[string]any
	decodeBody(t, resp, &raw)

	if raw["quizId"].(float64) != 1 {
		t.Fatalf("unexpected quizId %v", raw["quizId"])
	}
	questions := raw["questions"].([]any)
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	for _, q := range questions {
		m := q.(map[string]any)
		for _, k := range []string{"id", "text", "a", "b", "c", "d"} {
			if _, ok := m[k]; !ok {
				t.Errorf("missing field %q in %v", k, m)
			}
		}
		for k := range m {
			if strings.Contains(strings.ToLower(k), "correct") {
				t.Fatalf("correct option leaked via field %q", k)
			}
		}
	}
	if questions[0].(map[string]any)["a"] != "Paris" {
		t.Fatalf("expected questions in id order, got %v", questions[0])
	}
}

func TestGetQuestions_EmptyAndUnknownQuiz(t *testing.T) {
	srv, _ := newQuizServer(t)

	for _, path := range []string{"/quiz/2/questions", "/quiz/999/questions"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
		var body struct {
			Questions json.RawMessage `json:"questions"`
		}
		decodeBody(t, resp, &body)
		if string(body.Questions) != "[]" {
			t.Fatalf("%s: expected empty array, got %s", path, body.Questions)
		}
	}
}

func TestGetQuestions_InvalidID(t *testing.T) {
	srv, _ := newQuizServer(t)

	for _, id := range []string{"0", "-1", "abc", "1.5"} {
		resp, err := http.Get(srv.URL + "/quiz/" + id + "/questions")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("id %q: expected 400, got %d", id, resp.StatusCode)
		}
		var body models.ErrorResponse
		decodeBody(t, resp, &body)
		if body.Error != "invalid quiz id" {
			t.Fatalf("id %q: unexpected error %q", id, body.Error)
		}
	}
}

func TestGetQuestions_ETag(t *testing.T) {
	srv, _ := newQuizServer(t)

	resp, err := http.Get(srv.URL + "/quiz/1/questions")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag header")
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/quiz/1/questions", nil)
	req.Header.Set("If-None-Match", etag)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("conditional GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", resp.StatusCode)
	}
}

func TestSubmit_Scenario(t *testing.T) {
	srv, _ := newQuizServer(t)

	resp := postJSON(t, srv.URL+"/quiz/1/submit",
		`{"answers":[{"questionId":1,"answer":"a"},{"questionId":2,"answer":"c"},{"questionId":3,"answer":"C"}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result models.ScoreResult
	decodeBody(t, resp, &result)

	if result.Total != 3 || result.Correct != 2 {
		t.Fatalf("expected 3/2, got %d/%d", result.Total, result.Correct)
	}
	if d := result.Details[1]; d.QuestionID != 2 || d.UserAnswer != "c" || d.IsCorrect || d.CorrectAnswer == nil || *d.CorrectAnswer != "b" {
		t.Fatalf("unexpected detail %+v", d)
	}
	if d := result.Details[2]; !d.IsCorrect || d.UserAnswer != "c" {
		t.Fatalf("expected case-insensitive match, got %+v", d)
	}
}

func TestSubmit_UnknownQuestionHasNullCorrectAnswer(t *testing.T) {
	srv, _ := newQuizServer(t)

	resp := postJSON(t, srv.URL+"/quiz/1/submit", `{"answers":[{"questionId":99,"answer":"a"}]}`)
	var raw struct {
		Total   int              `json:"total"`
		Correct int              `json:"correct"`
		Details []map[string]any `json:"details"`
	}
	decodeBody(t, resp, &raw)

	if raw.Total != 1 || raw.Correct != 0 {
		t.Fatalf("unexpected counts %+v", raw)
	}
	v, ok := raw.Details[0]["correctAnswer"]
	if !ok || v != nil {
		t.Fatalf("expected correctAnswer: null, got %v (present=%v)", v, ok)
	}
}

func TestSubmit_QuestionFromAnotherQuizIsUnknown(t *testing.T) {
	srv, _ := newQuizServer(t)

	resp := postJSON(t, srv.URL+"/quiz/2/submit", `{"answers":[{"questionId":1,"answer":"a"}]}`)
	var result models.ScoreResult
	decodeBody(t, resp, &result)
	if result.Correct != 0 || result.Details[0].CorrectAnswer != nil {
		t.Fatalf("expected question 1 to be unknown for quiz 2, got %+v", result.Details[0])
	}
}

func TestSubmit_EmptyAnswers(t *testing.T) {
	srv, _ := newQuizServer(t)

	resp := postJSON(t, srv.URL+"/quiz/1/submit", `{"answers":[]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var raw struct {
		Total   int             `json:"total"`
		Correct int             `json:"correct"`
		Details json.RawMessage `json:"details"`
	}
	decodeBody(t, resp, &raw)
	if raw.Total != 0 || raw.Correct != 0 || string(raw.Details) != "[]" {
		t.Fatalf("unexpected result %+v (%s)", raw, raw.Details)
	}
}

func TestSubmit_LenientElements(t *testing.T) {
	srv, _ := newQuizServer(t)

	resp := postJSON(t, srv.URL+"/quiz/1/submit",
		`{"answers":[{"questionId":"1","answer":"A"},{"questionId":2},{"questionId":"x","answer":"a"}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result models.ScoreResult
	decodeBody(t, resp, &result)

	if result.Total != 3 || result.Correct != 1 {
		t.Fatalf("unexpected counts %d/%d", result.Total, result.Correct)
	}
	if result.Details[1].UserAnswer != "" || result.Details[1].IsCorrect {
		t.Fatalf("missing answer must be empty and incorrect, got %+v", result.Details[1])
	}
	if result.Details[2].QuestionID != 0 || result.Details[2].CorrectAnswer != nil {
		t.Fatalf("non-numeric id must be unknown, got %+v", result.Details[2])
	}
}

func TestSubmit_MalformedRequests(t *testing.T) {
	srv, _ := newQuizServer(t)

	cases := map[string]struct {
		path string
		body string
	}{
		"missing answers":  {"/quiz/1/submit", `{}`},
		"null answers":     {"/quiz/1/submit", `{"answers":null}`},
		"answers object":   {"/quiz/1/submit", `{"answers":{"1":"a"}}`},
		"answers string":   {"/quiz/1/submit", `{"answers":"a"}`},
		"element number":   {"/quiz/1/submit", `{"answers":[1,2]}`},
		"not json":         {"/quiz/1/submit", `answers=a`},
		"empty body":       {"/quiz/1/submit", ``},
		"invalid quiz id":  {"/quiz/zero/submit", `{"answers":[]}`},
		"zero quiz id":     {"/quiz/0/submit", `{"answers":[]}`},
		"answer is number": {"/quiz/1/submit", `{"answers":[{"questionId":1,"answer":5}]}`},
		"element null":     {"/quiz/1/submit", `{"answers":[null]}`},
		"trailing data":    {"/quiz/1/submit", `{"answers":[]} trailing`},
		"second value":     {"/quiz/1/submit", `{"answers":[]}{"answers":[]}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+tc.path, tc.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			var body models.ErrorResponse
			decodeBody(t, resp, &body)
			if body.Error == "" {
				t.Fatalf("expected error message")
			}
		})
	}
}

func TestListAndGetQuiz(t *testing.T) {
	srv, _ := newQuizServer(t)

	resp, err := http.Get(srv.URL + "/quiz")
	if err != nil {
		t.Fatalf("GET /quiz: %v", err)
	}
	var list models.QuizListResponse
	decodeBody(t, resp, &list)
	if len(list.Quizzes) != 2 || list.Quizzes[0].QuestionCount != 3 || list.Quizzes[1].QuestionCount != 0 {
		t.Fatalf("unexpected list %+v", list)
	}

	resp, err = http.Get(srv.URL + "/quiz/1")
	if err != nil {
		t.Fatalf("GET /quiz/1: %v", err)
	}
	var quiz models.Quiz
	decodeBody(t, resp, &quiz)
	if quiz.Title != "Sample" {
		t.Fatalf("unexpected quiz %+v", quiz)
	}

	resp, err = http.Get(srv.URL + "/quiz/77")
	if err != nil {
		t.Fatalf("GET /quiz/77: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestHealthAndCORS(t *testing.T) {
	srv, _ := newQuizServer(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	var ok map[string]bool
	decodeBody(t, resp, &ok)
	if !ok["ok"] {
		t.Fatalf("expected ok=true")
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/quiz/1/submit", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("unexpected preflight response %d %v", resp.StatusCode, resp.Header)
	}
}

type failingQuizStore struct{}

var errStoreDown = errors.New("disk I/O error")

func (failingQuizStore) ListQuizzes(context.Context) ([]models.Quiz, error) { return nil, errStoreDown }
func (failingQuizStore) GetQuiz(context.Context, int) (*models.Quiz, error) { return nil, errStoreDown }
func (failingQuizStore) GetQuizQuestions(context.Context, int) ([]models.PublicQuestion, error) {
	return nil, errStoreDown
}
func (failingQuizStore) GetAnswerKey(context.Context, int) (map[int]string, error) {
	return nil, errStoreDown
}

func TestStoreUnavailable(t *testing.T) {
	srv := httptest.NewServer(NewQuizRouter(failingQuizStore{}, "*"))
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/quiz/1/submit", `{"answers":[]}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	var body models.ErrorResponse
	decodeBody(t, resp, &body)
	if body.Error != "db error" {
		t.Fatalf("unexpected error %q", body.Error)
	}

	// validation still wins over store failure
	resp = postJSON(t, srv.URL+"/quiz/1/submit", `{}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 before touching the store, got %d", resp.StatusCode)
	}
}
