package employee

import "github.com/ahrav/employee-hub/internal/domain/employee"

// EmployeeRequest represents input for employee creation and replacement.
// Pointer fields distinguish an absent or null field from a zero value.
type EmployeeRequest struct {
	Name       *string  `json:"name"`
	Position   *string  `json:"position"`
	Salary     *float64 `json:"salary"`
	Department *string  `json:"department"`
}

// Fields converts the request into domain fields.
func (r EmployeeRequest) Fields() employee.Fields {
	return employee.Fields{
		Name:       r.Name,
		Position:   r.Position,
		Salary:     r.Salary,
		Department: r.Department,
	}
}

// EmployeeResponse represents a stored employee record.
type EmployeeResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	Salary     float64 `json:"salary"`
	Department string  `json:"department"`
}

// NewEmployeeResponse maps a domain employee to its response shape.
func NewEmployeeResponse(e *employee.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		Name:       e.Name,
		Position:   e.Position,
		Salary:     e.Salary,
		Department: e.Department,
	}
}

// NewEmployeeListResponse maps employees to response shapes. It never returns
// nil so an empty collection encodes as [].
func NewEmployeeListResponse(employees []*employee.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, NewEmployeeResponse(e))
	}
	return out
}

// MessageResponse carries a human readable message and, for failures, the
// underlying error text.
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
