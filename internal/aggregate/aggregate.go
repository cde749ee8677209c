// Package aggregate computes the derived dashboard views over an
// access-filtered invoice sequence. Every function here is pure: it
// reads its input, mutates nothing, and returns the same result for
// the same input.
package aggregate

import (
	"math"
	"sort"
	"strings"
	"time"

	"nomina/internal/core"
)

// LeaderboardSize caps the commission ranking.
const LeaderboardSize = 5

type (
	// LeaderboardEntry ranks one raw employee-name group by summed
	// commission. Percent is the share of all commissions in the input
	// set, not just of the ranked entries.
	LeaderboardEntry struct {
		EmployeeName string     `json:"employee_name"`
		Commission   core.Money `json:"commission"`
		Percent      float64    `json:"percent"`
	}

	// ProjectSummary is the per-project portfolio rollup.
	ProjectSummary struct {
		Project     string     `json:"project"`
		Total       core.Money `json:"total"`
		Employees   int        `json:"employees"`
		PerEmployee core.Money `json:"per_employee"`
	}

	// DayBucket summarizes the payments that landed on one date.
	DayBucket struct {
		Count int        `json:"count"`
		Total core.Money `json:"total"`
	}
)

// TotalAmount sums invoice totals.
func TotalAmount(invoices []core.Invoice) core.Money {
	var sum core.Money
	for _, inv := range invoices {
		sum = sum.Add(inv.Amount)
	}
	return sum
}

// FilterMonth returns the invoices dated in the given calendar year
// and 1-based month. Equality is on the parsed date, not elapsed days.
func FilterMonth(invoices []core.Invoice, year, month int) []core.Invoice {
	var out []core.Invoice
	for _, inv := range invoices {
		if y, m := inv.YearMonth(); y == year && m == month {
			out = append(out, inv)
		}
	}
	return out
}

// MonthlyTotal sums invoice amounts for a calendar month.
func MonthlyTotal(invoices []core.Invoice, year, month int) core.Money {
	return TotalAmount(FilterMonth(invoices, year, month))
}

// AnnualProjection extrapolates the current year's run rate:
// (paid so far this year / months elapsed) * 12. Months elapsed is the
// current 1-based month, so January with no payments projects zero and
// seasonal patterns are deliberately not modeled.
func AnnualProjection(invoices []core.Invoice, now time.Time) core.Money {
	year := now.Year()
	months := int(now.Month())

	var yearTotal int64
	for _, inv := range invoices {
		if y, _ := inv.YearMonth(); y == year {
			yearTotal += inv.Amount.Cents
		}
	}
	projected := float64(yearTotal) / float64(months) * 12
	return core.Money{Cents: int64(math.Round(projected))}
}

// CommissionRatio returns commissions as a percentage of total
// compensation (salary + commission columns), 0 when the input has
// neither.
func CommissionRatio(invoices []core.Invoice) float64 {
	var salary, commission int64
	for _, inv := range invoices {
		salary += inv.Salary.Cents
		commission += inv.Commission.Cents
	}
	total := salary + commission
	if total == 0 {
		return 0
	}
	return float64(commission) / float64(total) * 100
}

// Leaderboard groups invoices by raw employee-name string, sums
// commission per group, and returns the top entries sorted
// non-increasing. Grouping is on the raw string rather than the
// reconciled id so unresolved rows still rank. Zero-commission groups
// are dropped even when they would otherwise make the cut, so fewer
// than LeaderboardSize entries may come back.
func Leaderboard(invoices []core.Invoice) []LeaderboardEntry {
	totals := make(map[string]int64)
	var order []string
	var grandTotal int64
	for _, inv := range invoices {
		if _, ok := totals[inv.EmployeeName]; !ok {
			order = append(order, inv.EmployeeName)
		}
		totals[inv.EmployeeName] += inv.Commission.Cents
		grandTotal += inv.Commission.Cents
	}

	entries := make([]LeaderboardEntry, 0, len(order))
	for _, name := range order {
		entries = append(entries, LeaderboardEntry{
			EmployeeName: name,
			Commission:   core.Money{Cents: totals[name]},
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Commission.Cents > entries[j].Commission.Cents
	})

	if len(entries) > LeaderboardSize {
		entries = entries[:LeaderboardSize]
	}

	out := entries[:0]
	for _, e := range entries {
		if e.Commission.Cents == 0 {
			continue
		}
		if grandTotal > 0 {
			e.Percent = float64(e.Commission.Cents) / float64(grandTotal) * 100
		}
		out = append(out, e)
	}
	return out
}

// PortfolioRollup groups invoice totals by project tag and divides by
// the number of non-administrator users assigned to that project.
// Projects without assigned employees report a zero average. Projects
// appear in first-seen invoice order.
func PortfolioRollup(invoices []core.Invoice, users []core.User) []ProjectSummary {
	totals := make(map[string]int64)
	var order []string
	for _, inv := range invoices {
		if _, ok := totals[inv.Project]; !ok {
			order = append(order, inv.Project)
		}
		totals[inv.Project] += inv.Amount.Cents
	}

	headcount := make(map[string]int)
	for _, u := range users {
		if u.IsAdmin() {
			continue
		}
		headcount[u.Project]++
	}

	out := make([]ProjectSummary, 0, len(order))
	for _, project := range order {
		s := ProjectSummary{
			Project:   project,
			Total:     core.Money{Cents: totals[project]},
			Employees: headcount[project],
		}
		if s.Employees > 0 {
			s.PerEmployee = core.Money{Cents: totals[project] / int64(s.Employees)}
		}
		out = append(out, s)
	}
	return out
}

// CalendarDays buckets invoices by exact date string. Days without
// payments have no entry at all, so callers can distinguish "no data"
// from a zero-amount payment.
func CalendarDays(invoices []core.Invoice) map[string]DayBucket {
	out := make(map[string]DayBucket)
	for _, inv := range invoices {
		b := out[inv.Date]
		b.Count++
		b.Total = b.Total.Add(inv.Amount)
		out[inv.Date] = b
	}
	return out
}

// MonthlyTrend returns a fixed 12-slot series of amounts indexed by
// calendar month (slot 0 = January) for the given year only. Invoices
// from other years are excluded entirely, not rolled into any bucket.
func MonthlyTrend(invoices []core.Invoice, year int) [12]core.Money {
	var series [12]core.Money
	for _, inv := range invoices {
		y, m := inv.YearMonth()
		if y != year || m < 1 || m > 12 {
			continue
		}
		series[m-1] = series[m-1].Add(inv.Amount)
	}
	return series
}

// ItemTotals splits the line-item breakdown into salary and commission
// sums, the two stat cards of the employee dashboard. Commission items
// are recognized by label in either language the sheet has used.
func ItemTotals(invoices []core.Invoice) (salary, commissions core.Money) {
	for _, inv := range invoices {
		for _, item := range inv.Items {
			switch {
			case item.Description == core.ItemSalary:
				salary = salary.Add(item.Amount)
			case strings.Contains(item.Description, "Commission") ||
				strings.Contains(item.Description, "Comisión"):
				commissions = commissions.Add(item.Amount)
			}
		}
	}
	return salary, commissions
}

// EmployeeCount counts users without the administrator role.
func EmployeeCount(users []core.User) int {
	n := 0
	for _, u := range users {
		if !u.IsAdmin() {
			n++
		}
	}
	return n
}
