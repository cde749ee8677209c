// Package source defines the ports between the payroll core and the
// transport adapters that feed it. Every adapter (in-memory mock,
// published CSV export, Google Sheets, SQLite snapshot) yields the
// same raw row tuples; all coercion and reconciliation happens
// downstream in the record builder.
package source

import "context"

type (
	// UserRow is an uncoerced row from the user sheet. All fields are
	// raw text exactly as the source delivered them.
	UserRow struct {
		ID       string
		FullName string
		Username string
		Password string
		Role     string
		Project  string
	}

	// InvoiceRow is an uncoerced row from the payments sheet, field
	// order as in the published export: identifier, owning-identity
	// hint, date, employee name, salary, commission, total, status.
	InvoiceRow struct {
		ID           string
		Owner        string
		Date         string
		EmployeeName string
		Salary       string
		Commission   string
		Total        string
		Status       string
	}
)

// Ports for inbound data adapters.
type (
	UserReader interface {
		ListUsers(ctx context.Context) ([]UserRow, error)
	}

	InvoiceReader interface {
		ListInvoices(ctx context.Context) ([]InvoiceRow, error)
	}

	// Reader is the full surface a payroll backend provides.
	Reader interface {
		UserReader
		InvoiceReader
	}
)
