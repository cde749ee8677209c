// Package records assembles normalized payroll entities from raw
// source rows plus reconciled user linkage.
package records

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"nomina/internal/core"
	"nomina/internal/source"
)

// BuildUser coerces a raw user row. The numeric identifier falls back
// to the 1-based row position when missing or unparsable; the role
// defaults to Employee and the project tag to the General sentinel.
func BuildUser(row source.UserRow, index int) core.User {
	id, err := strconv.ParseInt(strings.TrimSpace(row.ID), 10, 64)
	if err != nil {
		id = int64(index + 1)
	}

	role := core.RoleEmployee
	if strings.EqualFold(strings.TrimSpace(row.Role), string(core.RoleAdministrator)) {
		role = core.RoleAdministrator
	}

	project := strings.TrimSpace(row.Project)
	if project == "" {
		project = core.DefaultProject
	}

	return core.User{
		ID:       id,
		Username: strings.TrimSpace(row.Username),
		FullName: strings.TrimSpace(row.FullName),
		Password: row.Password,
		Role:     role,
		Project:  project,
	}
}

// BuildInvoice assembles an invoice from a raw row and the user the
// name reconciler resolved, or nil when reconciliation missed. The
// invoice is never mutated after this point.
func BuildInvoice(row source.InvoiceRow, index int, owner *core.User) core.Invoice {
	salary := core.ParseMoney(row.Salary)
	commission := core.ParseMoney(row.Commission)
	total := core.ParseMoney(row.Total)
	date := core.NormalizeDate(row.Date)

	id := strings.TrimSpace(row.ID)
	if id == "" {
		id = fmt.Sprintf("CSV-%d", index)
	}

	status := strings.TrimSpace(row.Status)
	if status == "" {
		status = core.DefaultStatus
	}

	ownerID := core.UnresolvedOwnerID
	project := core.UnknownProject
	if owner != nil {
		ownerID = owner.ID
		project = owner.Project
	}

	return core.Invoice{
		ID:           id,
		OwnerID:      ownerID,
		EmployeeName: strings.TrimSpace(row.EmployeeName),
		Project:      project,
		Date:         date,
		Concept:      conceptLabel(date),
		Salary:       salary,
		Commission:   commission,
		Amount:       total,
		Status:       status,
		Items:        lineItems(salary, commission, total),
	}
}

// lineItems derives the receipt breakdown. A row with no salary or
// commission columns but a positive total still needs something to
// render, so it gets a single adjustment item equal to the total.
func lineItems(salary, commission, total core.Money) []core.LineItem {
	var items []core.LineItem
	if salary.Positive() {
		items = append(items, core.LineItem{Description: core.ItemSalary, Amount: salary})
	}
	if commission.Positive() {
		items = append(items, core.LineItem{Description: core.ItemCommission, Amount: commission})
	}
	if len(items) == 0 && total.Positive() {
		items = append(items, core.LineItem{Description: core.ItemAdjustment, Amount: total})
	}
	return items
}

// conceptLabel builds the human label from the normalized date, e.g.
// "Payment June". Dates with an out-of-range month keep the bare
// label.
func conceptLabel(date string) string {
	inv := core.Invoice{Date: date}
	if _, m := inv.YearMonth(); m >= 1 && m <= 12 {
		return "Payment " + time.Month(m).String()
	}
	return "Payment"
}
