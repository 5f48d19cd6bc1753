// Package seed loads quiz and employee fixtures from YAML.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/adamspd/quizdesk/models"
	"github.com/adamspd/quizdesk/utils"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultSeed []byte

type File struct {
	Quizzes   []Quiz     `yaml:"quizzes"`
	Employees []Employee `yaml:"employees"`
}

type Quiz struct {
	Title     string     `yaml:"title"`
	Questions []Question `yaml:"questions"`
}

type Question struct {
	Text    string `yaml:"text"`
	A       string `yaml:"a"`
	B       string `yaml:"b"`
	C       string `yaml:"c"`
	D       string `yaml:"d"`
	Correct string `yaml:"correct"`
}

type Employee struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Position string `yaml:"position"`
}

// Load reads a seed file, or the embedded default when path is empty.
func Load(path string) (*File, error) {
	data := defaultSeed
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes and validates seed YAML. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate normalizes correct labels to lowercase and checks each names a
// non-empty option. An empty correct label is allowed; such questions are
// never scored as correct.
func (f *File) Validate() error {
	for qi := range f.Quizzes {
		quiz := &f.Quizzes[qi]
		if strings.TrimSpace(quiz.Title) == "" {
			return fmt.Errorf("quiz %d: title is required", qi+1)
		}
		for i := range quiz.Questions {
			q := &quiz.Questions[i]
			if strings.TrimSpace(q.Text) == "" {
				return &models.QuestionError{Quiz: quiz.Title, Index: i, Reason: "text is required"}
			}
			q.Correct = strings.ToLower(strings.TrimSpace(q.Correct))
			if q.Correct == "" {
				continue
			}
			if q.toModel().Option(q.Correct) == "" {
				return &models.QuestionError{
					Quiz:   quiz.Title,
					Index:  i,
					Reason: fmt.Sprintf("correct option %q does not name a non-empty option", q.Correct),
				}
			}
		}
	}

	for i, e := range f.Employees {
		req := e.request()
		if err := req.Validate(); err != nil {
			return fmt.Errorf("employee %d: %w", i+1, err)
		}
	}
	return nil
}

func (q Question) toModel() models.Question {
	return models.Question{
		Text:          q.Text,
		OptionA:       q.A,
		OptionB:       q.B,
		OptionC:       q.C,
		OptionD:       q.D,
		CorrectOption: q.Correct,
	}
}

func (e Employee) request() models.EmployeeRequest {
	return models.EmployeeRequest{Name: e.Name, Email: e.Email, Position: e.Position}
}

// QuizStore is the write side used by ApplyQuizzes.
type QuizStore interface {
	SeedQuizzes(ctx context.Context, drafts []models.QuizDraft, reset bool) ([]models.Quiz, error)
}

// EmployeeStore is the write side used by ApplyEmployees.
type EmployeeStore interface {
	InsertEmployeeIfAbsent(ctx context.Context, req models.EmployeeRequest) (bool, error)
}

// ApplyQuizzes writes every quiz in one transaction. With reset, existing
// quizzes are dropped first. On error the store is left as it was.
func ApplyQuizzes(ctx context.Context, store QuizStore, f *File, reset bool) ([]models.Quiz, error) {
	drafts := make([]models.QuizDraft, 0, len(f.Quizzes))
	for _, quiz := range f.Quizzes {
		questions := make([]models.Question, 0, len(quiz.Questions))
		for _, q := range quiz.Questions {
			questions = append(questions, q.toModel())
		}
		drafts = append(drafts, models.QuizDraft{Title: quiz.Title, Questions: questions})
	}

	created, err := store.SeedQuizzes(ctx, drafts, reset)
	if err != nil {
		return nil, fmt.Errorf("seed quizzes: %w", err)
	}
	for _, z := range created {
		utils.LogSeed("Seeded quiz %d %q with %d questions", z.ID, z.Title, z.QuestionCount)
	}
	return created, nil
}

// ApplyEmployees inserts sample employees, skipping emails already present.
func ApplyEmployees(ctx context.Context, store EmployeeStore, f *File) (int, error) {
	inserted := 0
	for _, e := range f.Employees {
		ok, err := store.InsertEmployeeIfAbsent(ctx, e.request())
		if err != nil {
			return inserted, fmt.Errorf("seed employee %s: %w", e.Email, err)
		}
		if ok {
			inserted++
		} else {
			utils.LogSeed("Employee %s already present, skipped", e.Email)
		}
	}
	utils.LogSeed("Seeded %d of %d employees", inserted, len(f.Employees))
	return inserted, nil
}
