package storage

import (
	"context"
	"path/filepath"
	"testing"

	"nomina/internal/source"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nomina.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestReplaceAndListUsers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := []source.UserRow{
		{ID: "1", FullName: "Ana Torres", Username: "ana", Password: "pw", Role: "Administrator", Project: "HQ"},
		{ID: "2", FullName: "Luis Vega", Username: "luis", Password: "pw2", Role: "Employee", Project: "Collections"},
	}
	if err := repo.ReplaceUsers(ctx, first); err != nil {
		t.Fatalf("ReplaceUsers: %v", err)
	}

	got, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0] != first[0] || got[1] != first[1] {
		t.Errorf("rows did not round-trip: %+v", got)
	}

	// A second replace must fully supersede the first snapshot.
	second := []source.UserRow{
		{ID: "9", FullName: "Kevin Mora", Username: "kevin", Password: "pw9", Role: "Employee", Project: "General"},
	}
	if err := repo.ReplaceUsers(ctx, second); err != nil {
		t.Fatalf("ReplaceUsers (second): %v", err)
	}
	got, err = repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers (second): %v", err)
	}
	if len(got) != 1 || got[0].Username != "kevin" {
		t.Errorf("expected only the second snapshot, got %+v", got)
	}
}

func TestReplaceAndListInvoices(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rows := []source.InvoiceRow{
		{ID: "INV-1", Owner: "luis", Date: "7/5/2025", EmployeeName: "Luis Vega", Salary: "$1,200.00", Commission: "$300.00", Total: "$1,500.00", Status: "Pagado"},
		{ID: "", Owner: "", Date: "2025-07-20", EmployeeName: "Ana Torres", Salary: "900", Commission: "0", Total: "900", Status: ""},
	}
	if err := repo.ReplaceInvoices(ctx, rows); err != nil {
		t.Fatalf("ReplaceInvoices: %v", err)
	}

	got, err := repo.ListInvoices(ctx)
	if err != nil {
		t.Fatalf("ListInvoices: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0] != rows[0] || got[1] != rows[1] {
		t.Errorf("rows did not round-trip: %+v", got)
	}
}

func TestListWhenEmpty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("expected no user rows, got %d", len(users))
	}

	invoices, err := repo.ListInvoices(ctx)
	if err != nil {
		t.Fatalf("ListInvoices: %v", err)
	}
	if len(invoices) != 0 {
		t.Errorf("expected no invoice rows, got %d", len(invoices))
	}
}

func TestLastSync(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ts, err := repo.LastSync(ctx)
	if err != nil {
		t.Fatalf("LastSync: %v", err)
	}
	if !ts.IsZero() {
		t.Errorf("expected zero time before any sync, got %v", ts)
	}

	if err := repo.ReplaceUsers(ctx, nil); err != nil {
		t.Fatalf("ReplaceUsers: %v", err)
	}
	ts, err = repo.LastSync(ctx)
	if err != nil {
		t.Fatalf("LastSync after replace: %v", err)
	}
	if ts.IsZero() {
		t.Error("expected last sync to be recorded after a replace")
	}
}
