package handlers

import (
	"context"
	"net/http"

	"github.com/adamspd/quizdesk/models"
	"github.com/adamspd/quizdesk/utils"
)

const maxEmployeeBytes = 64 << 10

// EmployeeStore is the persistence contract of the directory.
type EmployeeStore interface {
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id int) (*models.Employee, error)
	CreateEmployee(ctx context.Context, req models.EmployeeRequest) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id int, req models.EmployeeRequest) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id int) error
}

// Notifier is told about new employees. Failures are logged, never
// surfaced to the client.
type Notifier interface {
	EmployeeCreated(ctx context.Context, emp *models.Employee) error
}

type EmployeeHandlers struct {
	store    EmployeeStore
	notifier Notifier
}

func NewEmployeeHandlers(store EmployeeStore, notifier Notifier) *EmployeeHandlers {
	return &EmployeeHandlers{store: store, notifier: notifier}
}

func employeeIDFromPath(r *http.Request) (int, error) {
	id, ok := utils.ParsePositiveID(r.PathValue("id"))
	if !ok {
		return 0, models.ErrInvalidID
	}
	return id, nil
}

func decodeEmployee(w http.ResponseWriter, r *http.Request) (models.EmployeeRequest, error) {
	var req models.EmployeeRequest
	if err := readJSON(w, r, maxEmployeeBytes, &req); err != nil {
		return req, &apiError{Status: http.StatusBadRequest, Message: "invalid JSON", Err: err}
	}
	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

func (eh *EmployeeHandlers) List(w http.ResponseWriter, r *http.Request) {
	employees, err := eh.store.ListEmployees(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (eh *EmployeeHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := employeeIDFromPath(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	emp, err := eh.store.GetEmployee(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emp)
}

func (eh *EmployeeHandlers) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeEmployee(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	emp, err := eh.store.CreateEmployee(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.LogHTTP("Created employee ID %d (%s)", emp.ID, emp.Email)
	if eh.notifier != nil {
		if err := eh.notifier.EmployeeCreated(r.Context(), emp); err != nil {
			utils.LogError("Failed to queue welcome email for employee %d: %v", emp.ID, err)
		}
	}

	writeJSON(w, http.StatusCreated, emp)
}

func (eh *EmployeeHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := employeeIDFromPath(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	req, err := decodeEmployee(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	emp, err := eh.store.UpdateEmployee(r.Context(), id, req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.LogHTTP("Updated employee ID %d", id)
	writeJSON(w, http.StatusOK, emp)
}

func (eh *EmployeeHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := employeeIDFromPath(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := eh.store.DeleteEmployee(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	utils.LogHTTP("Deleted employee ID %d", id)
	writeJSON(w, http.StatusOK, models.DeleteResponse{Success: true})
}
