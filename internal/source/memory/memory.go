// Package memory is the in-memory payroll source: the first revision
// of the dashboard shipped with its record set baked in, and the same
// store doubles as the test backend.
package memory

import (
	"context"
	"sync"

	"nomina/internal/source"
)

type Store struct {
	mu       sync.Mutex
	users    []source.UserRow
	invoices []source.InvoiceRow
}

func New(users []source.UserRow, invoices []source.InvoiceRow) *Store {
	return &Store{users: users, invoices: invoices}
}

// NewSeeded returns a store pre-loaded with a small demo record set,
// useful for local development and as a test fixture.
func NewSeeded() *Store {
	return New(seedUsers(), seedInvoices())
}

// ListUsers implements source.UserReader.
func (s *Store) ListUsers(_ context.Context) ([]source.UserRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]source.UserRow, len(s.users))
	copy(out, s.users)
	return out, nil
}

// ListInvoices implements source.InvoiceReader.
func (s *Store) ListInvoices(_ context.Context) ([]source.InvoiceRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]source.InvoiceRow, len(s.invoices))
	copy(out, s.invoices)
	return out, nil
}

func seedUsers() []source.UserRow {
	return []source.UserRow{
		{ID: "100", FullName: "Administrador", Username: "admin", Password: "admin123", Role: "Administrator"},
		{ID: "49", FullName: "Laura Lechuga", Username: "laura.lechuga", Password: "Laura@L2025!", Role: "Employee", Project: "Collections"},
		{ID: "50", FullName: "Diego Pedraza", Username: "diego.pedraza", Password: "Diego@P2025!", Role: "Employee", Project: "Collections"},
		{ID: "59", FullName: "Kevin Barros", Username: "kevin.barros", Password: "Kevin@B2025!", Role: "Employee"},
		{ID: "65", FullName: "Alina Ramírez", Username: "alina.ramirez", Password: "Alina@R2025!", Role: "Employee"},
	}
}

func seedInvoices() []source.InvoiceRow {
	return []source.InvoiceRow{
		{ID: "INV-2025-04-30-001", Date: "2025-04-30", EmployeeName: "Laura Lechuga", Salary: "600", Total: "600", Status: "Pagado"},
		{ID: "INV-2025-04-30-002", Date: "2025-04-30", EmployeeName: "Diego Pedraza", Salary: "600", Total: "600", Status: "Pagado"},
		{ID: "INV-2025-05-15-001", Date: "2025-05-15", EmployeeName: "Laura Lechuga", Salary: "600", Total: "600", Status: "Pagado"},
		{ID: "INV-2025-05-15-002", Date: "2025-05-15", EmployeeName: "Diego Pedraza", Salary: "600", Commission: "130", Total: "730", Status: "Pagado"},
		{ID: "INV-2025-06-15-001", Date: "2025-06-15", EmployeeName: "Alina Ramirez", Salary: "400", Total: "400", Status: "Pagado"},
		{ID: "INV-2025-06-15-002", Date: "2025-06-15", EmployeeName: "Kevin Barros", Salary: "700", Commission: "120", Total: "820", Status: "Pagado"},
	}
}
