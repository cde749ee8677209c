package services

import (
	"context"
	"errors"
	"testing"

	"nomina/internal/core"
	"nomina/internal/source"
	"nomina/internal/source/memory"
)

type failingReader struct{}

func (failingReader) ListUsers(ctx context.Context) ([]source.UserRow, error) {
	return nil, errors.New("upstream unavailable")
}

func (failingReader) ListInvoices(ctx context.Context) ([]source.InvoiceRow, error) {
	return nil, errors.New("upstream unavailable")
}

func newTestService(t *testing.T) *PayrollService {
	t.Helper()
	return NewPayrollService(memory.NewSeeded(), nil, "memory", "")
}

func TestLoadBuildsSnapshot(t *testing.T) {
	svc := newTestService(t)

	snap, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Users) == 0 || len(snap.Invoices) == 0 {
		t.Fatalf("expected a populated snapshot, got %d users, %d invoices", len(snap.Users), len(snap.Invoices))
	}
	if snap.FetchedAt.IsZero() {
		t.Error("FetchedAt should be set")
	}

	for _, inv := range snap.Invoices {
		if inv.ID == "" {
			t.Errorf("invoice without id: %+v", inv)
		}
		if inv.Status == "" {
			t.Errorf("invoice without status: %+v", inv)
		}
	}
}

func TestLoadPropagatesSourceErrors(t *testing.T) {
	svc := NewPayrollService(failingReader{}, nil, "broken", "")

	if _, err := svc.Load(context.Background()); err == nil {
		t.Fatal("expected an error from a failing source")
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !user.IsAdmin() {
		t.Errorf("expected an administrator, got role %q", user.Role)
	}

	if _, err := svc.Login(ctx, "admin", "wrong"); !errors.Is(err, core.ErrInvalidCredential) {
		t.Errorf("expected ErrInvalidCredential, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "x"); !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLoginMasterPassword(t *testing.T) {
	svc := NewPayrollService(memory.NewSeeded(), nil, "memory", "override-me")

	user, err := svc.Login(context.Background(), "laura.lechuga", "override-me")
	if err != nil {
		t.Fatalf("Login with master password: %v", err)
	}
	if user.Username != "laura.lechuga" {
		t.Errorf("expected laura.lechuga, got %q", user.Username)
	}
}

func TestVisibleInvoices(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	snap, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var admin, employee core.User
	for _, u := range snap.Users {
		if u.IsAdmin() {
			admin = u
		} else if employee.ID == 0 {
			employee = u
		}
	}

	all, _, err := svc.VisibleInvoices(ctx, admin.ID)
	if err != nil {
		t.Fatalf("VisibleInvoices (admin): %v", err)
	}
	if len(all) != len(snap.Invoices) {
		t.Errorf("admin should see all %d invoices, got %d", len(snap.Invoices), len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Date < all[i].Date {
			t.Errorf("invoices not sorted newest first: %q before %q", all[i-1].Date, all[i].Date)
		}
	}

	own, _, err := svc.VisibleInvoices(ctx, employee.ID)
	if err != nil {
		t.Fatalf("VisibleInvoices (employee): %v", err)
	}
	for _, inv := range own {
		if inv.OwnerID != employee.ID {
			t.Errorf("employee %d saw invoice owned by %d", employee.ID, inv.OwnerID)
		}
	}
}

func TestVisibleInvoicesUnknownRequester(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.VisibleInvoices(context.Background(), 424242)
	if !errors.Is(err, core.ErrUnknownRequester) {
		t.Errorf("expected ErrUnknownRequester, got %v", err)
	}
}
