package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/adamspd/quizdesk/models"
	"github.com/adamspd/quizdesk/utils"
)

func (db *DB) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	utils.LogDB("Executing query: ListEmployees")
	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, email, position, created_at
		FROM employees ORDER BY id DESC
	`)
	if err != nil {
		utils.LogError("ListEmployees query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Position, &e.CreatedAt); err != nil {
			utils.LogError("Failed to scan employee row: %v", err)
			return nil, err
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	utils.LogDB("ListEmployees completed: %d employees in %v", len(employees), time.Since(start))
	return employees, nil
}

func (db *DB) GetEmployee(ctx context.Context, id int) (*models.Employee, error) {
	utils.LogDB("Executing query: GetEmployee(%d)", id)

	var e models.Employee
	err := db.QueryRowContext(ctx, `
		SELECT id, name, email, position, created_at FROM employees WHERE id = ?
	`, id).Scan(&e.ID, &e.Name, &e.Email, &e.Position, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		utils.LogDB("Employee ID %d not found", id)
		return nil, models.ErrNotFound
	}
	if err != nil {
		utils.LogError("GetEmployee(%d) failed: %v", id, err)
		return nil, err
	}
	return &e, nil
}

func (db *DB) CreateEmployee(ctx context.Context, req models.EmployeeRequest) (*models.Employee, error) {
	utils.LogDB("Creating employee %s", req.Email)
	start := time.Now()

	result, err := db.ExecContext(ctx, `
		INSERT INTO employees (name, email, position) VALUES (?, ?, ?)
	`, req.Name, req.Email, req.Position)
	if err != nil {
		if isUniqueViolation(err) {
			utils.LogDB("CreateEmployee: email %s already exists", req.Email)
			return nil, models.ErrDuplicateEmail
		}
		utils.LogError("CreateEmployee failed: %v", err)
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		utils.LogError("Failed to get LastInsertId: %v", err)
		return nil, err
	}

	utils.LogDB("Employee created with ID %d in %v", id, time.Since(start))
	return db.GetEmployee(ctx, int(id))
}

func (db *DB) UpdateEmployee(ctx context.Context, id int, req models.EmployeeRequest) (*models.Employee, error) {
	utils.LogDB("Updating employee ID %d", id)

	result, err := db.ExecContext(ctx, `
		UPDATE employees SET name = ?, email = ?, position = ? WHERE id = ?
	`, req.Name, req.Email, req.Position, id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateEmail
		}
		utils.LogError("UpdateEmployee(%d) failed: %v", id, err)
		return nil, err
	}

	if n, _ := result.RowsAffected(); n == 0 {
		utils.LogDB("UpdateEmployee(%d): no rows affected", id)
		return nil, models.ErrNotFound
	}

	return db.GetEmployee(ctx, id)
}

func (db *DB) DeleteEmployee(ctx context.Context, id int) error {
	utils.LogDB("Deleting employee ID %d", id)

	result, err := db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		utils.LogError("DeleteEmployee(%d) failed: %v", id, err)
		return err
	}

	if n, _ := result.RowsAffected(); n == 0 {
		utils.LogDB("DeleteEmployee(%d): no rows affected", id)
		return models.ErrNotFound
	}
	return nil
}

// InsertEmployeeIfAbsent is used by seeding; an existing email is skipped.
func (db *DB) InsertEmployeeIfAbsent(ctx context.Context, req models.EmployeeRequest) (bool, error) {
	result, err := db.ExecContext(ctx, `
		INSERT OR IGNORE INTO employees (name, email, position) VALUES (?, ?, ?)
	`, req.Name, req.Email, req.Position)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}
