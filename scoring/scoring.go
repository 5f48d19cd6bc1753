// Package scoring compares a submission against a quiz's answer key.
package scoring

import (
	"strings"

	"github.com/adamspd/quizdesk/models"
)

// AnswerKey maps question id to its correct option label. Questions
// without a known correct option are absent.
type AnswerKey map[int]string

// Normalize lowercases a submitted answer. Whitespace is kept, so " a"
// never matches "a".
func Normalize(answer string) string {
	return strings.ToLower(answer)
}

// Score walks the submission once, in order. Unknown question ids and empty
// answers are incorrect, never errors. Duplicate ids are scored (and
// counted) once per occurrence.
func Score(key AnswerKey, answers []models.SubmittedAnswer) models.ScoreResult {
	result := models.ScoreResult{
		Total:   len(answers),
		Details: make([]models.AnswerDetail, 0, len(answers)),
	}

	for _, ans := range answers {
		qid := int(ans.QuestionID)
		userAnswer := Normalize(ans.Value())

		detail := models.AnswerDetail{
			QuestionID: qid,
			UserAnswer: userAnswer,
		}
		if correct, ok := key[qid]; ok && correct != "" {
			c := correct
			detail.CorrectAnswer = &c
			detail.IsCorrect = userAnswer == correct
		}
		if detail.IsCorrect {
			result.Correct++
		}
		result.Details = append(result.Details, detail)
	}

	return result
}
