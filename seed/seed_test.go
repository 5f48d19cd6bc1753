package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/adamspd/quizdesk/db"
	"github.com/adamspd/quizdesk/models"
)

func TestLoad_Default(t *testing.T) {
	f, err := Load("")
	if err != nil {
		t.Fatalf("Load default: %v", err)
	}
	if len(f.Quizzes) != 1 || f.Quizzes[0].Title != "General Knowledge" {
		t.Fatalf("unexpected quizzes %+v", f.Quizzes)
	}
	if len(f.Quizzes[0].Questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(f.Quizzes[0].Questions))
	}
	if f.Quizzes[0].Questions[2].D != "" {
		t.Fatalf("expected question 3 to have no option d")
	}
	if len(f.Employees) != 3 {
		t.Fatalf("expected 3 employees, got %d", len(f.Employees))
	}
}

func TestParse_LowercasesCorrectOption(t *testing.T) {
	f, err := Parse([]byte(`
quizzes:
  - title: Caps
    questions:
      - text: Pick B
        a: one
        b: two
        correct: " B "
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := f.Quizzes[0].Questions[0].Correct; got != "b" {
		t.Fatalf("expected normalized label b, got %q", got)
	}
}

func TestParse_RejectsCorrectOptionOnEmptyOption(t *testing.T) {
	_, err := Parse([]byte(`
quizzes:
  - title: Broken
    questions:
      - text: Pick D
        a: one
        b: two
        d: ""
        correct: d
`))
	if !errors.Is(err, models.ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}
}

func TestParse_RejectsUnknownLabel(t *testing.T) {
	_, err := Parse([]byte(`
quizzes:
  - title: Broken
    questions:
      - text: Pick E
        a: one
        correct: e
`))
	if !errors.Is(err, models.ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}
}

func TestParse_RejectsUnknownField(t *testing.T) {
	if _, err := Parse([]byte("quizzes:\n  - title: X\n    level: hard\n")); err == nil {
		t.Fatalf("expected unknown field to be rejected")
	}
}

func TestParse_RejectsInvalidEmployee(t *testing.T) {
	_, err := Parse([]byte("employees:\n  - name: X\n    email: not-an-email\n"))
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type failingQuizStore struct{ drafts []models.QuizDraft }

func (s *failingQuizStore) SeedQuizzes(_ context.Context, drafts []models.QuizDraft, _ bool) ([]models.Quiz, error) {
	s.drafts = drafts
	return nil, errors.New("disk full")
}

func TestApplyQuizzes_PassesAllQuizzesInOneCall(t *testing.T) {
	f, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	store := &failingQuizStore{}
	created, err := ApplyQuizzes(context.Background(), store, f, true)
	if err == nil || created != nil {
		t.Fatalf("expected store error and no quizzes, got %v / %+v", err, created)
	}
	if len(store.drafts) != 1 || len(store.drafts[0].Questions) != 5 || store.drafts[0].Questions[0].CorrectOption == "" {
		t.Fatalf("unexpected drafts %+v", store.drafts)
	}
}

func TestApply(t *testing.T) {
	database, err := db.InitDB(":memory:")
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer database.Close()
	ctx := context.Background()

	f, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := ApplyQuizzes(ctx, database, f, false); err != nil {
		t.Fatalf("ApplyQuizzes: %v", err)
	}
	created, err := ApplyQuizzes(ctx, database, f, true)
	if err != nil {
		t.Fatalf("ApplyQuizzes reset: %v", err)
	}
	if len(created) != 1 || created[0].ID != 1 || created[0].QuestionCount != 5 {
		t.Fatalf("expected a single fresh quiz after reset, got %+v", created)
	}

	key, err := database.GetAnswerKey(ctx, 1)
	if err != nil {
		t.Fatalf("GetAnswerKey: %v", err)
	}
	if len(key) != 5 {
		t.Fatalf("expected 5 keyed questions, got %d", len(key))
	}

	n, err := ApplyEmployees(ctx, database, f)
	if err != nil || n != 3 {
		t.Fatalf("expected 3 employees inserted, got %d (%v)", n, err)
	}
	n, err = ApplyEmployees(ctx, database, f)
	if err != nil || n != 0 {
		t.Fatalf("expected re-seed to skip existing employees, got %d (%v)", n, err)
	}
}
