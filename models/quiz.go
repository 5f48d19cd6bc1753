package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// OptionLabels are the option keys a question may carry, in display order.
var OptionLabels = []string{"a", "b", "c", "d"}

// Quiz is a named collection of questions.
type Quiz struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Question is the stored form, including the correct option label.
type Question struct {
	ID            int    `json:"id"`
	QuizID        int    `json:"quizId"`
	Text          string `json:"text"`
	OptionA       string `json:"a"`
	OptionB       string `json:"b"`
	OptionC       string `json:"c"`
	OptionD       string `json:"d"`
	CorrectOption string `json:"-"`
}

// Option returns the text for a label, or "" when the label is unknown.
func (q Question) Option(label string) string {
	switch label {
	case "a":
		return q.OptionA
	case "b":
		return q.OptionB
	case "c":
		return q.OptionC
	case "d":
		return q.OptionD
	}
	return ""
}

// Public strips the correct option.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{ID: q.ID, Text: q.Text, A: q.OptionA, B: q.OptionB, C: q.OptionC, D: q.OptionD}
}

// PublicQuestion is what question delivery returns. It has no field for the
// correct option.
type PublicQuestion struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	A    string `json:"a"`
	B    string `json:"b"`
	C    string `json:"c"`
	D    string `json:"d"`
}

// Option returns the text for a label, or "" when absent.
func (q PublicQuestion) Option(label string) string {
	switch label {
	case "a":
		return q.A
	case "b":
		return q.B
	case "c":
		return q.C
	case "d":
		return q.D
	}
	return ""
}

// HasOption reports whether label names a non-empty option.
func (q PublicQuestion) HasOption(label string) bool {
	return q.Option(label) != ""
}

// QuestionsResponse is the body of GET /quiz/{quizId}/questions.
type QuestionsResponse struct {
	QuizID    int              `json:"quizId"`
	Questions []PublicQuestion `json:"questions"`
}

// QuizListResponse is the body of GET /quiz.
type QuizListResponse struct {
	Quizzes []Quiz `json:"quizzes"`
}

// QuizDraft is a quiz not yet stored.
type QuizDraft struct {
	Title     string
	Questions []Question
}

// QuestionRef is a submitted question id. It accepts a JSON number or a
// numeric string; any other value decodes to 0, which never names a question.
type QuestionRef int

func (r *QuestionRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}

	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || n != float64(int(n)) {
		*r = 0
		return nil
	}
	*r = QuestionRef(int(n))
	return nil
}

// SubmittedAnswer is one (question id, chosen option) pair.
type SubmittedAnswer struct {
	QuestionID QuestionRef `json:"questionId"`
	Answer     *string     `json:"answer"`
}

// UnmarshalJSON accepts only a JSON object; null or any other value is an
// invalid request.
func (a *SubmittedAnswer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return fmt.Errorf("%w: answer must be an object", ErrInvalidRequest)
	}
	type plain SubmittedAnswer
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = SubmittedAnswer(p)
	return nil
}

// Value returns the raw answer, "" when missing.
func (a SubmittedAnswer) Value() string {
	if a.Answer == nil {
		return ""
	}
	return *a.Answer
}

// Answer is a convenience constructor used by clients and tests.
func Answer(questionID int, option string) SubmittedAnswer {
	return SubmittedAnswer{QuestionID: QuestionRef(questionID), Answer: &option}
}

// SubmitRequest is the body of POST /quiz/{quizId}/submit. Answers stays nil
// when the field is absent or null so the handler can reject it.
type SubmitRequest struct {
	Answers *[]SubmittedAnswer `json:"answers"`
}

// AnswerDetail is the verdict for one submitted answer.
type AnswerDetail struct {
	QuestionID    int     `json:"questionId"`
	UserAnswer    string  `json:"userAnswer"`
	CorrectAnswer *string `json:"correctAnswer"`
	IsCorrect     bool    `json:"isCorrect"`
}

// ScoreResult is the body of a successful submission.
type ScoreResult struct {
	Total   int            `json:"total"`
	Correct int            `json:"correct"`
	Details []AnswerDetail `json:"details"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}
