package models

import (
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Employee represents a directory entry
type Employee struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Position  string    `json:"position"`
	CreatedAt time.Time `json:"-"`
}

// EmployeeRequest for creating/updating employees
type EmployeeRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Position string `json:"position"`
}

// IsValidEmail is a light RFC check: something@something.tld, no whitespace.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Validate checks required fields and the email format.
func (r EmployeeRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" {
		return NewValidationError("name and email required")
	}
	if !IsValidEmail(r.Email) {
		return NewValidationError("invalid email")
	}
	return nil
}

// DeleteResponse is returned by DELETE /api/employees/{id}.
type DeleteResponse struct {
	Success bool `json:"success"`
}
