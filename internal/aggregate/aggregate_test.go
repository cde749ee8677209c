package aggregate

import (
	"testing"
	"time"

	"nomina/internal/core"
)

func inv(date string, amountCents int64) core.Invoice {
	return core.Invoice{Date: date, Amount: core.Money{Cents: amountCents}}
}

func commInv(name string, commissionCents int64) core.Invoice {
	return core.Invoice{
		Date:         "2025-06-15",
		EmployeeName: name,
		Commission:   core.Money{Cents: commissionCents},
	}
}

func TestMonthlyTotal(t *testing.T) {
	invoices := []core.Invoice{
		inv("2025-06-01", 10000),
		inv("2025-06-15", 5000),
		inv("2025-07-01", 99900),
	}
	if got := MonthlyTotal(invoices, 2025, 6); got.Cents != 15000 {
		t.Fatalf("MonthlyTotal = %d cents, want 15000", got.Cents)
	}
	if got := MonthlyTotal(invoices, 2024, 6); !got.IsZero() {
		t.Fatalf("other year must not contribute, got %d", got.Cents)
	}
}

func TestAnnualProjection(t *testing.T) {
	// 600 paid by March (month 3): (600/3)*12 = 2400.
	now := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	invoices := []core.Invoice{
		inv("2025-01-15", 20000),
		inv("2025-02-15", 20000),
		inv("2025-03-15", 20000),
		inv("2024-12-15", 999900), // previous year, excluded
	}
	if got := AnnualProjection(invoices, now); got.Cents != 240000 {
		t.Fatalf("AnnualProjection = %d cents, want 240000", got.Cents)
	}
}

func TestAnnualProjectionEmptyJanuary(t *testing.T) {
	now := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	if got := AnnualProjection(nil, now); !got.IsZero() {
		t.Fatalf("no invoices in January must project 0, got %d", got.Cents)
	}
}

func TestCommissionRatio(t *testing.T) {
	invoices := []core.Invoice{
		{Salary: core.Money{Cents: 60000}, Commission: core.Money{Cents: 20000}},
		{Salary: core.Money{Cents: 20000}},
	}
	if got := CommissionRatio(invoices); got != 20.0 {
		t.Fatalf("CommissionRatio = %v, want 20", got)
	}
	if got := CommissionRatio(nil); got != 0 {
		t.Fatalf("empty input ratio = %v, want 0", got)
	}
}

func TestLeaderboard(t *testing.T) {
	invoices := []core.Invoice{
		commInv("Ana", 30000),
		commInv("Luis", 50000),
		commInv("Ana", 10000),
	}
	board := Leaderboard(invoices)
	if len(board) != 2 {
		t.Fatalf("expected 2 entries, got %+v", board)
	}
	if board[0].EmployeeName != "Luis" || board[0].Commission.Cents != 50000 {
		t.Fatalf("first entry wrong: %+v", board[0])
	}
	if board[1].EmployeeName != "Ana" || board[1].Commission.Cents != 40000 {
		t.Fatalf("second entry wrong: %+v", board[1])
	}
	// Shares of the full commission pool (900 total).
	if got := board[0].Percent; got < 55.5 || got > 55.6 {
		t.Fatalf("Luis percent = %v", got)
	}
}

func TestLeaderboardDropsZeroAndCaps(t *testing.T) {
	invoices := []core.Invoice{
		commInv("A", 600), commInv("B", 500), commInv("C", 400),
		commInv("D", 300), commInv("E", 0), commInv("F", 100),
		commInv("G", 200),
	}
	board := Leaderboard(invoices)
	if len(board) > LeaderboardSize {
		t.Fatalf("leaderboard exceeds cap: %d", len(board))
	}
	prev := int64(1 << 62)
	for _, e := range board {
		if e.Commission.Cents == 0 {
			t.Fatalf("zero-commission entry leaked: %+v", e)
		}
		if e.Commission.Cents > prev {
			t.Fatalf("not sorted non-increasing: %+v", board)
		}
		prev = e.Commission.Cents
	}
}

func TestLeaderboardZeroInsideTopFive(t *testing.T) {
	// Only zero groups: the zero entry occupies a slot, then drops, so
	// the result can be shorter than the cap even with few groups.
	board := Leaderboard([]core.Invoice{commInv("E", 0)})
	if len(board) != 0 {
		t.Fatalf("expected empty leaderboard, got %+v", board)
	}
}

func TestPortfolioRollup(t *testing.T) {
	users := []core.User{
		{ID: 1, Project: "Collections", Role: core.RoleEmployee},
		{ID: 2, Project: "Collections", Role: core.RoleEmployee},
		{ID: 3, Project: "Collections", Role: core.RoleAdministrator}, // admins excluded
		{ID: 4, Project: "Sales", Role: core.RoleEmployee},
	}
	invoices := []core.Invoice{
		{Project: "Collections", Amount: core.Money{Cents: 40000}},
		{Project: "Collections", Amount: core.Money{Cents: 20000}},
		{Project: core.UnknownProject, Amount: core.Money{Cents: 5000}},
	}

	rollup := PortfolioRollup(invoices, users)
	if len(rollup) != 2 {
		t.Fatalf("expected 2 projects, got %+v", rollup)
	}
	col := rollup[0]
	if col.Project != "Collections" || col.Total.Cents != 60000 || col.Employees != 2 || col.PerEmployee.Cents != 30000 {
		t.Fatalf("collections rollup wrong: %+v", col)
	}
	unk := rollup[1]
	if unk.Employees != 0 || !unk.PerEmployee.IsZero() {
		t.Fatalf("project without employees must average 0, got %+v", unk)
	}
}

func TestCalendarDays(t *testing.T) {
	invoices := []core.Invoice{
		inv("2025-06-15", 10000),
		inv("2025-06-15", 5000),
		inv("2025-06-30", 2000),
	}
	days := CalendarDays(invoices)
	if len(days) != 2 {
		t.Fatalf("expected 2 day buckets, got %+v", days)
	}
	if b := days["2025-06-15"]; b.Count != 2 || b.Total.Cents != 15000 {
		t.Fatalf("2025-06-15 bucket wrong: %+v", b)
	}
	if _, ok := days["2025-06-16"]; ok {
		t.Fatal("empty day must have no entry, not a zero entry")
	}
}

func TestMonthlyTrend(t *testing.T) {
	invoices := []core.Invoice{
		inv("2025-01-15", 100),
		inv("2025-01-30", 200),
		inv("2025-12-01", 700),
		inv("2024-06-01", 999999), // other year excluded entirely
		inv("2025-13-40", 50),     // invalid month excluded
	}
	series := MonthlyTrend(invoices, 2025)
	if series[0].Cents != 300 || series[11].Cents != 700 {
		t.Fatalf("series wrong: %+v", series)
	}
	var total int64
	for _, m := range series {
		total += m.Cents
	}
	if total != 1000 {
		t.Fatalf("out-of-year amounts leaked into trend: %d", total)
	}
}

func TestItemTotals(t *testing.T) {
	invoices := []core.Invoice{
		{Items: []core.LineItem{
			{Description: core.ItemSalary, Amount: core.Money{Cents: 70000}},
			{Description: core.ItemCommission, Amount: core.Money{Cents: 12000}},
		}},
		{Items: []core.LineItem{
			{Description: "Comisión extra", Amount: core.Money{Cents: 3000}},
		}},
	}
	salary, commissions := ItemTotals(invoices)
	if salary.Cents != 70000 {
		t.Fatalf("salary = %d", salary.Cents)
	}
	if commissions.Cents != 15000 {
		t.Fatalf("commissions = %d", commissions.Cents)
	}
}

func TestAggregationDoesNotMutateInput(t *testing.T) {
	invoices := []core.Invoice{
		commInv("B", 100),
		commInv("A", 200),
	}
	Leaderboard(invoices)
	if invoices[0].EmployeeName != "B" || invoices[1].EmployeeName != "A" {
		t.Fatal("input order mutated by aggregation")
	}
}
