// Package memory provides an in-process employee store. Records do not
// survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ahrav/employee-hub/internal/domain/employee"
)

var (
	_ employee.Repository = (*EmployeeStore)(nil)
	_ employee.Pinger     = (*EmployeeStore)(nil)
)

// EmployeeStore keeps employees in a map and remembers insertion order so
// List behaves like the database store.
type EmployeeStore struct {
	mu    sync.RWMutex
	byID  map[string]employee.Employee
	order []string
}

// NewEmployeeStore returns an empty store.
func NewEmployeeStore() *EmployeeStore {
	return &EmployeeStore{byID: make(map[string]employee.Employee)}
}

func (s *EmployeeStore) List(_ context.Context) ([]*employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*employee.Employee, 0, len(s.order))
	for _, id := range s.order {
		e := s.byID[id]
		out = append(out, &e)
	}
	return out, nil
}

func (s *EmployeeStore) FindByID(_ context.Context, id string) (*employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.byID[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return &e, nil
}

func (s *EmployeeStore) Create(_ context.Context, e *employee.Employee) (*employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *e
	stored.ID = uuid.NewString()
	s.byID[stored.ID] = stored
	s.order = append(s.order, stored.ID)

	return &stored, nil
}

func (s *EmployeeStore) Update(_ context.Context, e *employee.Employee) (*employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[e.ID]; !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	stored := *e
	s.byID[e.ID] = stored

	return &stored, nil
}

func (s *EmployeeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping always succeeds.
func (s *EmployeeStore) Ping(context.Context) error { return nil }
