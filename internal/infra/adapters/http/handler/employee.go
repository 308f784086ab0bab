package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	appEmployee "github.com/ahrav/employee-hub/internal/application/employee"
	"github.com/ahrav/employee-hub/internal/domain/employee"
	"github.com/ahrav/employee-hub/pkg/common/logger"
)

// maxBodyBytes caps request bodies for create and update.
const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("request body must contain a single JSON value")

// Response messages.
const (
	msgMissingFields    = "Missing required fields"
	msgInvalidBody      = "Invalid request body"
	msgNotFound         = "Employee not found"
	msgDeleted          = "Employee deleted successfully"
	msgListFailed       = "Error retrieving employees"
	msgGetFailed        = "Error retrieving employee"
	msgCreateFailed     = "Error adding employee"
	msgUpdateFailed     = "Error updating employee"
	msgDeleteFailed     = "Error deleting employee"
	msgRouteNotFound    = "Not found"
	msgMethodNotAllowed = "Method not allowed"
)

// EmployeeHandler implements the employee API endpoints by translating HTTP
// requests to application service calls and mapping results back to HTTP.
type EmployeeHandler struct {
	service      *appEmployee.Service
	log          *logger.Logger
	exposeErrors bool
}

// Option configures an EmployeeHandler.
type Option func(*EmployeeHandler)

// WithStoreErrors controls whether 500 responses carry the store error text
// in their "error" field. It is on by default.
func WithStoreErrors(expose bool) Option {
	return func(h *EmployeeHandler) { h.exposeErrors = expose }
}

// NewEmployeeHandler creates a new employee handler backed by service.
func NewEmployeeHandler(service *appEmployee.Service, log *logger.Logger, opts ...Option) *EmployeeHandler {
	h := &EmployeeHandler{
		service:      service,
		log:          log.With("component", "employee_handler"),
		exposeErrors: true,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the employee routes on r. The collection is reachable with
// and without a trailing slash.
func (h *EmployeeHandler) Register(r *mux.Router) {
	for _, path := range []string{"/api/employees", "/api/employees/"} {
		r.HandleFunc(path, h.List).Methods(http.MethodGet)
		r.HandleFunc(path, h.Create).Methods(http.MethodPost)
	}

	r.HandleFunc("/api/employees/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/employees/{id}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/api/employees/{id}", h.Delete).Methods(http.MethodDelete)
}

// List returns every employee record.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(r.Context(), w, err, msgListFailed)
		return
	}

	writeJSON(w, http.StatusOK, appEmployee.NewEmployeeListResponse(employees))
}

// Get returns a single employee record.
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(r.Context(), w, err, msgGetFailed)
		return
	}

	writeJSON(w, http.StatusOK, appEmployee.NewEmployeeResponse(found))
}

// Create validates the submitted record and stores it.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, appEmployee.MessageResponse{Message: msgInvalidBody, Error: err.Error()})
		return
	}

	created, err := h.service.Create(r.Context(), req.Fields())
	if err != nil {
		h.respondError(r.Context(), w, err, msgCreateFailed)
		return
	}

	writeJSON(w, http.StatusCreated, appEmployee.NewEmployeeResponse(created))
}

// Update replaces every field of an existing record.
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, appEmployee.MessageResponse{Message: msgInvalidBody, Error: err.Error()})
		return
	}

	updated, err := h.service.Update(r.Context(), mux.Vars(r)["id"], req.Fields())
	if err != nil {
		h.respondError(r.Context(), w, err, msgUpdateFailed)
		return
	}

	writeJSON(w, http.StatusOK, appEmployee.NewEmployeeResponse(updated))
}

// Delete removes a record.
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.respondError(r.Context(), w, err, msgDeleteFailed)
		return
	}

	writeJSON(w, http.StatusOK, appEmployee.MessageResponse{Message: msgDeleted})
}

// NotFound answers requests that match no route.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, appEmployee.MessageResponse{Message: msgRouteNotFound})
}

// MethodNotAllowed answers requests whose path matches but method does not.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, appEmployee.MessageResponse{Message: msgMethodNotAllowed})
}

// respondError maps a service error to its HTTP response. failMsg is used for
// store failures.
func (h *EmployeeHandler) respondError(ctx context.Context, w http.ResponseWriter, err error, failMsg string) {
	switch {
	case errors.Is(err, employee.ErrMissingRequiredFields):
		writeJSON(w, http.StatusBadRequest, appEmployee.MessageResponse{Message: msgMissingFields})
	case errors.Is(err, employee.ErrEmployeeNotFound):
		writeJSON(w, http.StatusNotFound, appEmployee.MessageResponse{Message: msgNotFound})
	default:
		resp := appEmployee.MessageResponse{Message: failMsg}
		if h.exposeErrors {
			resp.Error = err.Error()
		}
		h.log.Debug(ctx, "responding with store failure", "message", failMsg, "error", err)
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}

// decodeRequest reads an employee body. An empty body decodes to a request
// with every field missing.
func decodeRequest(w http.ResponseWriter, r *http.Request) (appEmployee.EmployeeRequest, error) {
	var req appEmployee.EmployeeRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	switch err := dec.Decode(&req); {
	case errors.Is(err, io.EOF):
		return req, nil
	case err != nil:
		return appEmployee.EmployeeRequest{}, err
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return appEmployee.EmployeeRequest{}, errTrailingData
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(body)
}
