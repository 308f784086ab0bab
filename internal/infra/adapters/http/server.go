// Package http provides HTTP server components for the employee-hub API.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	handler "github.com/ahrav/employee-hub/internal/infra/adapters/http/handler"
)

// unmatchedRoute labels requests that match no registered route.
const unmatchedRoute = "unmatched"

// ServerAdapter owns the API route table and delegates requests to the
// domain-specific handlers registered on it.
type ServerAdapter struct {
	router *mux.Router
}

// NewServerAdapter creates a new server adapter with the provided handlers.
// Unknown paths and methods are answered with JSON bodies.
func NewServerAdapter(employeeHandler *handler.EmployeeHandler) *ServerAdapter {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(handler.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(handler.MethodNotAllowed)

	employeeHandler.Register(router)

	return &ServerAdapter{router: router}
}

// RouteTemplate returns the path template of the route r matches, such as
// "/api/employees/{id}", or "unmatched".
func (a *ServerAdapter) RouteTemplate(r *http.Request) string {
	var match mux.RouteMatch
	if !a.router.Match(r, &match) || match.Route == nil {
		return unmatchedRoute
	}

	tpl, err := match.Route.GetPathTemplate()
	if err != nil {
		return unmatchedRoute
	}
	return tpl
}

// NewHTTPServer returns the routed API handler for the adapter.
func NewHTTPServer(serverAdapter *ServerAdapter) http.Handler {
	return serverAdapter.router
}
