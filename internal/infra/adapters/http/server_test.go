package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace/noop"

	appEmployee "github.com/ahrav/employee-hub/internal/application/employee"
	"github.com/ahrav/employee-hub/internal/domain/employee"
	httpadapter "github.com/ahrav/employee-hub/internal/infra/adapters/http"
	handler "github.com/ahrav/employee-hub/internal/infra/adapters/http/handler"
	"github.com/ahrav/employee-hub/internal/infra/metrics"
	"github.com/ahrav/employee-hub/internal/infra/storage/employee/memory"
	"github.com/ahrav/employee-hub/pkg/common/logger"
)

// failingRepo fails every call with the same error.
type failingRepo struct{ err error }

func (f failingRepo) List(context.Context) ([]*employee.Employee, error) { return nil, f.err }
func (f failingRepo) FindByID(context.Context, string) (*employee.Employee, error) {
	return nil, f.err
}
func (f failingRepo) Create(context.Context, *employee.Employee) (*employee.Employee, error) {
	return nil, f.err
}
func (f failingRepo) Update(context.Context, *employee.Employee) (*employee.Employee, error) {
	return nil, f.err
}
func (f failingRepo) Delete(context.Context, string) error { return f.err }

type apiOptions struct {
	repo    employee.Repository
	policy  employee.RequiredFieldPolicy
	handler []handler.Option
}

func newAPI(t *testing.T, opts apiOptions) (http.Handler, *httpadapter.ServerAdapter) {
	t.Helper()

	if opts.repo == nil {
		opts.repo = memory.NewEmployeeStore()
	}
	if opts.policy == "" {
		opts.policy = employee.PolicyTruthy
	}

	validator, err := employee.NewValidator(opts.policy)
	require.NoError(t, err)

	reg, err := metrics.NewRegistry(metricnoop.NewMeterProvider())
	require.NoError(t, err)

	log := logger.Noop()
	svc := appEmployee.NewService(opts.repo, validator, reg.Employee, log, noop.NewTracerProvider().Tracer("test"))
	adapter := httpadapter.NewServerAdapter(handler.NewEmployeeHandler(svc, log, opts.handler...))

	return httpadapter.NewHTTPServer(adapter), adapter
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const anaBody = `{"name":"Ana","position":"Engineer","salary":90000,"department":"R&D"}`

func TestCreateEmployee(t *testing.T) {
	h, _ := newAPI(t, apiOptions{})

	rec := do(t, h, http.MethodPost, "/api/employees", anaBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	created := decode[appEmployee.EmployeeResponse](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ana", created.Name)
	assert.Equal(t, "Engineer", created.Position)
	assert.Equal(t, 90000.0, created.Salary)
	assert.Equal(t, "R&D", created.Department)
	assert.Contains(t, rec.Body.String(), `"department":"R&D"`, "markup characters are written unescaped")

	got := do(t, h, http.MethodGet, "/api/employees/"+created.ID, "")
	require.Equal(t, http.StatusOK, got.Code)
	assert.Equal(t, created, decode[appEmployee.EmployeeResponse](t, got))
}

func TestCreateEmployee_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		policy   employee.RequiredFieldPolicy
		body     string
		wantCode int
		wantMsg  string
	}{
		{
			name:     "missing department",
			body:     `{"name":"Ana","position":"Engineer","salary":90000}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Missing required fields",
		},
		{
			name:     "zero salary is falsy",
			body:     `{"name":"Ana","position":"Engineer","salary":0,"department":"R&D"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Missing required fields",
		},
		{
			name:     "empty name is falsy",
			body:     `{"name":"","position":"Engineer","salary":1,"department":"R&D"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Missing required fields",
		},
		{
			name:     "null field",
			body:     `{"name":null,"position":"Engineer","salary":1,"department":"R&D"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Missing required fields",
		},
		{
			name:     "empty body",
			wantCode: http.StatusBadRequest,
			wantMsg:  "Missing required fields",
		},
		{
			name:     "malformed json",
			body:     `{"name":`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Invalid request body",
		},
		{
			name:     "wrong type",
			body:     `{"name":"Ana","position":"Engineer","salary":"lots","department":"R&D"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Invalid request body",
		},
		{
			name:     "trailing data after object",
			body:     anaBody + ` garbage`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Invalid request body",
		},
		{
			name:     "second json value",
			body:     anaBody + anaBody,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Invalid request body",
		},
		{
			name:     "trailing whitespace is allowed",
			body:     anaBody + "\n\t ",
			wantCode: http.StatusCreated,
		},
		{
			name:     "presence policy still needs every field",
			policy:   employee.PolicyPresence,
			body:     `{"name":"Ana","salary":0,"department":"R&D"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Missing required fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newAPI(t, apiOptions{policy: tt.policy})

			rec := do(t, h, http.MethodPost, "/api/employees", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)

			list := do(t, h, http.MethodGet, "/api/employees", "")
			if tt.wantCode == http.StatusCreated {
				assert.Len(t, decode[[]appEmployee.EmployeeResponse](t, list), 1)
				return
			}
			assert.Equal(t, tt.wantMsg, decode[appEmployee.MessageResponse](t, rec).Message)
			assert.JSONEq(t, `[]`, list.Body.String(), "rejected requests must not create records")
		})
	}
}

func TestCreateEmployee_PresencePolicyAcceptsZero(t *testing.T) {
	h, _ := newAPI(t, apiOptions{policy: employee.PolicyPresence})

	rec := do(t, h, http.MethodPost, "/api/employees", `{"name":"Ana","position":"","salary":0,"department":"R&D"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 0.0, decode[appEmployee.EmployeeResponse](t, rec).Salary)
}

func TestListEmployees(t *testing.T) {
	h, _ := newAPI(t, apiOptions{})

	empty := do(t, h, http.MethodGet, "/api/employees", "")
	require.Equal(t, http.StatusOK, empty.Code)
	assert.JSONEq(t, `[]`, empty.Body.String())

	for _, name := range []string{"Ana", "Ben"} {
		body := strings.Replace(anaBody, "Ana", name, 1)
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/employees/", body).Code)
	}

	for _, path := range []string{"/api/employees", "/api/employees/"} {
		rec := do(t, h, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code)

		list := decode[[]appEmployee.EmployeeResponse](t, rec)
		require.Len(t, list, 2)
		assert.Equal(t, "Ana", list[0].Name)
		assert.Equal(t, "Ben", list[1].Name)
	}
}

func TestGetEmployee_NotFound(t *testing.T) {
	h, _ := newAPI(t, apiOptions{})

	for _, id := range []string{"6650a0e1c2f1a2b3c4d5e6f7", "not-an-id"} {
		rec := do(t, h, http.MethodGet, "/api/employees/"+id, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"Employee not found"}`, rec.Body.String())
	}
}

func TestUpdateEmployee(t *testing.T) {
	h, _ := newAPI(t, apiOptions{})

	created := decode[appEmployee.EmployeeResponse](t, do(t, h, http.MethodPost, "/api/employees", anaBody))

	replacement := `{"name":"Ana Lima","position":"Lead","salary":120000,"department":"Platform"}`
	rec := do(t, h, http.MethodPut, "/api/employees/"+created.ID, replacement)
	require.Equal(t, http.StatusOK, rec.Code)

	want := appEmployee.EmployeeResponse{
		ID:         created.ID,
		Name:       "Ana Lima",
		Position:   "Lead",
		Salary:     120000,
		Department: "Platform",
	}
	assert.Equal(t, want, decode[appEmployee.EmployeeResponse](t, rec))

	got := do(t, h, http.MethodGet, "/api/employees/"+created.ID, "")
	assert.Equal(t, want, decode[appEmployee.EmployeeResponse](t, got))
}

func TestUpdateEmployee_Errors(t *testing.T) {
	h, _ := newAPI(t, apiOptions{})

	created := decode[appEmployee.EmployeeResponse](t, do(t, h, http.MethodPost, "/api/employees", anaBody))

	t.Run("missing department", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/api/employees/"+created.ID, `{"name":"Ana","position":"Engineer","salary":1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"message":"Missing required fields"}`, rec.Body.String())

		got := decode[appEmployee.EmployeeResponse](t, do(t, h, http.MethodGet, "/api/employees/"+created.ID, ""))
		assert.Equal(t, created, got, "rejected update must not change the record")
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/api/employees/unknown", anaBody)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"Employee not found"}`, rec.Body.String())
	})

	t.Run("trailing data", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/api/employees/"+created.ID,
			`{"name":"Bo","position":"Lead","salary":1,"department":"Ops"} {}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", decode[appEmployee.MessageResponse](t, rec).Message)

		got := decode[appEmployee.EmployeeResponse](t, do(t, h, http.MethodGet, "/api/employees/"+created.ID, ""))
		assert.Equal(t, created, got, "rejected update must not change the record")
	})

	t.Run("validation runs before lookup", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/api/employees/unknown", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteEmployee(t *testing.T) {
	h, _ := newAPI(t, apiOptions{})

	created := decode[appEmployee.EmployeeResponse](t, do(t, h, http.MethodPost, "/api/employees", anaBody))

	rec := do(t, h, http.MethodDelete, "/api/employees/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Employee deleted successfully"}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/employees/"+created.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/employees/"+created.ID, "").Code)
}

func TestStoreFailures(t *testing.T) {
	storeErr := errors.New("connection refused")

	tests := []struct {
		method  string
		path    string
		body    string
		wantMsg string
	}{
		{http.MethodGet, "/api/employees", "", "Error retrieving employees"},
		{http.MethodGet, "/api/employees/abc", "", "Error retrieving employee"},
		{http.MethodPost, "/api/employees", anaBody, "Error adding employee"},
		{http.MethodPut, "/api/employees/abc", anaBody, "Error updating employee"},
		{http.MethodDelete, "/api/employees/abc", "", "Error deleting employee"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			h, _ := newAPI(t, apiOptions{repo: failingRepo{err: storeErr}})

			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t,
				appEmployee.MessageResponse{Message: tt.wantMsg, Error: "connection refused"},
				decode[appEmployee.MessageResponse](t, rec),
			)
		})
	}

	t.Run("error text hidden", func(t *testing.T) {
		h, _ := newAPI(t, apiOptions{
			repo:    failingRepo{err: storeErr},
			handler: []handler.Option{handler.WithStoreErrors(false)},
		})

		rec := do(t, h, http.MethodGet, "/api/employees", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"message":"Error retrieving employees"}`, rec.Body.String())
	})
}

func TestUnknownRoutes(t *testing.T) {
	h, _ := newAPI(t, apiOptions{})

	rec := do(t, h, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Not found"}`, rec.Body.String())

	rec = do(t, h, http.MethodPatch, "/api/employees/abc", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouteTemplate(t *testing.T) {
	_, adapter := newAPI(t, apiOptions{})

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/employees", "/api/employees"},
		{http.MethodPost, "/api/employees/", "/api/employees/"},
		{http.MethodGet, "/api/employees/123", "/api/employees/{id}"},
		{http.MethodDelete, "/api/employees/123", "/api/employees/{id}"},
		{http.MethodGet, "/favicon.ico", "unmatched"},
		{http.MethodPatch, "/api/employees/123", "unmatched"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, adapter.RouteTemplate(httptest.NewRequest(tt.method, tt.path, nil)))
		})
	}
}
