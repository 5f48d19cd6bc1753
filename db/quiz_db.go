package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/adamspd/quizdesk/models"
	"github.com/adamspd/quizdesk/utils"
)

func (db *DB) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	utils.LogDB("Executing query: ListQuizzes")
	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT z.id, z.title, z.created_at, COUNT(q.id)
		FROM quizzes z
		LEFT JOIN questions q ON q.quiz_id = z.id
		GROUP BY z.id
		ORDER BY z.id
	`)
	if err != nil {
		utils.LogError("ListQuizzes query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	quizzes := []models.Quiz{}
	for rows.Next() {
		var z models.Quiz
		if err := rows.Scan(&z.ID, &z.Title, &z.CreatedAt, &z.QuestionCount); err != nil {
			utils.LogError("Failed to scan quiz row: %v", err)
			return nil, err
		}
		quizzes = append(quizzes, z)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	utils.LogDB("ListQuizzes completed: %d quizzes in %v", len(quizzes), time.Since(start))
	return quizzes, nil
}

func (db *DB) GetQuiz(ctx context.Context, id int) (*models.Quiz, error) {
	utils.LogDB("Executing query: GetQuiz(%d)", id)

	var z models.Quiz
	err := db.QueryRowContext(ctx, `
		SELECT z.id, z.title, z.created_at,
		       (SELECT COUNT(*) FROM questions q WHERE q.quiz_id = z.id)
		FROM quizzes z WHERE z.id = ?
	`, id).Scan(&z.ID, &z.Title, &z.CreatedAt, &z.QuestionCount)
	if errors.Is(err, sql.ErrNoRows) {
		utils.LogDB("Quiz ID %d not found", id)
		return nil, models.ErrNotFound
	}
	if err != nil {
		utils.LogError("GetQuiz(%d) failed: %v", id, err)
		return nil, err
	}
	return &z, nil
}

// GetQuizQuestions returns the quiz's questions ordered by id with the
// correct option left out of the projection. An unknown quiz yields an
// empty slice.
func (db *DB) GetQuizQuestions(ctx context.Context, quizID int) ([]models.PublicQuestion, error) {
	utils.LogDB("Executing query: GetQuizQuestions(%d)", quizID)
	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, text,
		       COALESCE(option_a, ''), COALESCE(option_b, ''),
		       COALESCE(option_c, ''), COALESCE(option_d, '')
		FROM questions WHERE quiz_id = ?
		ORDER BY id
	`, quizID)
	if err != nil {
		utils.LogError("GetQuizQuestions(%d) query failed: %v", quizID, err)
		return nil, err
	}
	defer rows.Close()

	questions := []models.PublicQuestion{}
	for rows.Next() {
		var q models.PublicQuestion
		if err := rows.Scan(&q.ID, &q.Text, &q.A, &q.B, &q.C, &q.D); err != nil {
			utils.LogError("Failed to scan question row: %v", err)
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	utils.LogDB("GetQuizQuestions(%d) completed: %d questions in %v", quizID, len(questions), time.Since(start))
	return questions, nil
}

// GetAnswerKey maps question id to correct option for one quiz. Questions
// whose correct option is NULL or empty are left out.
func (db *DB) GetAnswerKey(ctx context.Context, quizID int) (map[int]string, error) {
	utils.LogDB("Executing query: GetAnswerKey(%d)", quizID)

	rows, err := db.QueryContext(ctx, `
		SELECT id, correct_option FROM questions
		WHERE quiz_id = ? AND correct_option IS NOT NULL AND correct_option <> ''
	`, quizID)
	if err != nil {
		utils.LogError("GetAnswerKey(%d) query failed: %v", quizID, err)
		return nil, err
	}
	defer rows.Close()

	key := make(map[int]string)
	for rows.Next() {
		var id int
		var correct string
		if err := rows.Scan(&id, &correct); err != nil {
			utils.LogError("Failed to scan answer key row: %v", err)
			return nil, err
		}
		key[id] = correct
	}
	return key, rows.Err()
}

// CreateQuiz inserts a quiz and its questions in one transaction.
func (db *DB) CreateQuiz(ctx context.Context, title string, questions []models.Question) (*models.Quiz, error) {
	utils.LogDB("Creating quiz %q with %d questions", title, len(questions))
	start := time.Now()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	quizID, err := insertQuiz(ctx, tx, title, questions)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit quiz: %w", err)
	}

	utils.LogDB("Quiz created with ID %d in %v", quizID, time.Since(start))
	return db.GetQuiz(ctx, int(quizID))
}

// SeedQuizzes writes drafts in a single transaction. With reset, every
// existing quiz and question is removed first and ids restart at 1. On
// error nothing is changed.
func (db *DB) SeedQuizzes(ctx context.Context, drafts []models.QuizDraft, reset bool) ([]models.Quiz, error) {
	utils.LogDB("Seeding %d quizzes (reset=%t)", len(drafts), reset)
	start := time.Now()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if reset {
		for _, q := range []string{
			"DELETE FROM questions",
			"DELETE FROM quizzes",
			"DELETE FROM sqlite_sequence WHERE name IN ('questions', 'quizzes')",
		} {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return nil, fmt.Errorf("reset quizzes: %w", err)
			}
		}
	}

	ids := make([]int64, 0, len(drafts))
	for _, d := range drafts {
		id, err := insertQuiz(ctx, tx, d.Title, d.Questions)
		if err != nil {
			return nil, fmt.Errorf("quiz %q: %w", d.Title, err)
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit seed: %w", err)
	}
	utils.LogDB("Seeded %d quizzes in %v", len(ids), time.Since(start))

	quizzes := make([]models.Quiz, 0, len(ids))
	for _, id := range ids {
		z, err := db.GetQuiz(ctx, int(id))
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, *z)
	}
	return quizzes, nil
}

func insertQuiz(ctx context.Context, tx *sql.Tx, title string, questions []models.Question) (int64, error) {
	res, err := tx.ExecContext(ctx, `INSERT INTO quizzes (title) VALUES (?)`, title)
	if err != nil {
		return 0, fmt.Errorf("insert quiz: %w", err)
	}
	quizID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("quiz id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO questions (quiz_id, text, option_a, option_b, option_c, option_d, correct_option)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare question insert: %w", err)
	}
	defer stmt.Close()

	for i, q := range questions {
		if _, err := stmt.ExecContext(ctx, quizID, q.Text, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectOption); err != nil {
			return 0, fmt.Errorf("insert question %d: %w", i+1, err)
		}
	}
	return quizID, nil
}
