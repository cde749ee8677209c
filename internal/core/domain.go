package core

import (
	"errors"
	"strconv"
	"strings"
)

const (
	RoleEmployee      Role = "Employee"
	RoleAdministrator Role = "Administrator"
)

// Sentinels used when reconciliation cannot resolve an owner.
const (
	UnresolvedOwnerID int64 = -1
	UnknownProject          = "Unknown"
)

// Defaults applied by the record builder.
const (
	DefaultProject = "General"
	DefaultStatus  = "Pagado"
)

// Line-item descriptions, matching the labels the receipts render.
const (
	ItemSalary     = "Bi-weekly Period"
	ItemCommission = "Commissions"
	ItemAdjustment = "Payment Adjustment"
)

type (
	Role string

	// User is a payroll identity loaded from the user source. Immutable
	// for the session.
	User struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		FullName string `json:"full_name"`
		Password string `json:"-"`
		Role     Role   `json:"role"`
		Project  string `json:"project"`
	}

	LineItem struct {
		Description string `json:"description"`
		Amount      Money  `json:"amount"`
	}

	// Invoice is a single payment record tied to a pay period. OwnerID is
	// a weak reference resolved by name reconciliation; UnresolvedOwnerID
	// means no user matched. EmployeeName keeps the raw source string for
	// audit and display. Amount is authoritative and is not required to
	// equal Salary+Commission.
	Invoice struct {
		ID           string     `json:"id"`
		OwnerID      int64      `json:"owner_id"`
		EmployeeName string     `json:"employee_name"`
		Project      string     `json:"project"`
		Date         string     `json:"date"` // YYYY-MM-DD
		Concept      string     `json:"concept"`
		Salary       Money      `json:"salary"`
		Commission   Money      `json:"commission"`
		Amount       Money      `json:"amount"`
		Status       string     `json:"status"`
		Items        []LineItem `json:"items"`
	}
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrUnknownRequester  = errors.New("unknown requester")
)

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdministrator
}

// YearMonth returns the calendar year and 1-based month encoded in the
// invoice date. Malformed dates yield zeros; dates are not range
// checked here because upstream normalization never is either.
func (inv Invoice) YearMonth() (year, month int) {
	parts := strings.SplitN(inv.Date, "-", 3)
	if len(parts) < 2 {
		return 0, 0
	}
	year, _ = strconv.Atoi(parts[0])
	month, _ = strconv.Atoi(parts[1])
	return year, month
}
