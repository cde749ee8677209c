package records

import (
	"testing"

	"nomina/internal/core"
	"nomina/internal/source"
)

func TestBuildUser(t *testing.T) {
	u := BuildUser(source.UserRow{
		ID:       "59",
		FullName: " Kevin Barros ",
		Username: "kevin.barros",
		Password: "Kevin@B2025!",
		Role:     "Employee",
	}, 0)

	if u.ID != 59 || u.FullName != "Kevin Barros" || u.Role != core.RoleEmployee {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.Project != core.DefaultProject {
		t.Fatalf("empty project must default to %q, got %q", core.DefaultProject, u.Project)
	}
}

func TestBuildUserFallbacks(t *testing.T) {
	u := BuildUser(source.UserRow{FullName: "Sin Id", Role: "administrator"}, 4)
	if u.ID != 5 {
		t.Fatalf("expected positional id 5, got %d", u.ID)
	}
	if u.Role != core.RoleAdministrator {
		t.Fatalf("role matching must be case-insensitive, got %q", u.Role)
	}
}

func TestBuildInvoice(t *testing.T) {
	owner := &core.User{ID: 59, FullName: "Kevin Barros", Project: "Collections"}
	inv := BuildInvoice(source.InvoiceRow{
		ID:           "INV-2025-06-15-001",
		Date:         "6/15/2025",
		EmployeeName: "Kevin Barros",
		Salary:       "$700.00",
		Commission:   "120",
		Total:        "$820.00",
		Status:       "Pagado",
	}, 0, owner)

	if inv.OwnerID != 59 || inv.Project != "Collections" {
		t.Fatalf("owner linkage wrong: %+v", inv)
	}
	if inv.Date != "2025-06-15" {
		t.Fatalf("date = %q, want 2025-06-15", inv.Date)
	}
	if inv.Concept != "Payment June" {
		t.Fatalf("concept = %q", inv.Concept)
	}
	if len(inv.Items) != 2 {
		t.Fatalf("expected salary+commission items, got %+v", inv.Items)
	}
	if inv.Items[0].Description != core.ItemSalary || inv.Items[0].Amount.Cents != 70000 {
		t.Fatalf("salary item wrong: %+v", inv.Items[0])
	}
	if inv.Items[1].Description != core.ItemCommission || inv.Items[1].Amount.Cents != 12000 {
		t.Fatalf("commission item wrong: %+v", inv.Items[1])
	}
}

func TestBuildInvoiceAdjustmentFallback(t *testing.T) {
	inv := BuildInvoice(source.InvoiceRow{
		Date:  "2025-05-30",
		Total: "250",
	}, 3, nil)

	if len(inv.Items) != 1 {
		t.Fatalf("expected exactly one item, got %+v", inv.Items)
	}
	item := inv.Items[0]
	if item.Description != core.ItemAdjustment || item.Amount.Cents != 25000 {
		t.Fatalf("adjustment item wrong: %+v", item)
	}
}

func TestBuildInvoiceUnresolvedOwner(t *testing.T) {
	inv := BuildInvoice(source.InvoiceRow{
		Date:         "2025-05-30",
		EmployeeName: "Desconocido Total",
		Total:        "100",
	}, 7, nil)

	if inv.OwnerID != core.UnresolvedOwnerID {
		t.Fatalf("owner id = %d, want sentinel %d", inv.OwnerID, core.UnresolvedOwnerID)
	}
	if inv.Project != core.UnknownProject {
		t.Fatalf("project = %q, want %q", inv.Project, core.UnknownProject)
	}
	if inv.ID != "CSV-7" {
		t.Fatalf("synthesized id = %q, want CSV-7", inv.ID)
	}
	if inv.EmployeeName != "Desconocido Total" {
		t.Fatal("raw employee name must be retained for audit")
	}
}

func TestBuildInvoiceDefaults(t *testing.T) {
	inv := BuildInvoice(source.InvoiceRow{Date: "2025-01-01"}, 0, nil)
	if inv.Status != core.DefaultStatus {
		t.Fatalf("status = %q, want %q", inv.Status, core.DefaultStatus)
	}
	if !inv.Amount.IsZero() {
		t.Fatalf("unparsable total must degrade to zero, got %d", inv.Amount.Cents)
	}
	if len(inv.Items) != 0 {
		t.Fatalf("zero-total invoice keeps empty breakdown, got %+v", inv.Items)
	}
}
