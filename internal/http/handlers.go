package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"nomina/internal/aggregate"
	"nomina/internal/core"
	"nomina/internal/log"
	"nomina/internal/services"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Project  string `json:"project"`
	IsAdmin  bool   `json:"is_admin"`
}

func toUserResponse(u core.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     string(u.Role),
		Project:  u.Project,
		IsAdmin:  u.IsAdmin(),
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := s.snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Login snapshot load failed", log.FieldError, err)
		writeError(w, http.StatusBadGateway, "record source unavailable")
		return
	}

	user, err := s.payroll.LoginFromSnapshot(snap, req.Username, req.Password)
	if err != nil {
		// Unknown handle and bad password look the same to callers.
		if errors.Is(err, core.ErrUserNotFound) || errors.Is(err, core.ErrInvalidCredential) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		slog.ErrorContext(r.Context(), "Login failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	slog.InfoContext(r.Context(), "Login succeeded",
		log.FieldUserID, user.ID, log.FieldUsername, user.Username, "role", user.Role)
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(user)})
}

type invoiceResponse struct {
	ID           string          `json:"id"`
	OwnerID      int64           `json:"owner_id"`
	EmployeeName string          `json:"employee_name"`
	Project      string          `json:"project"`
	Date         string          `json:"date"`
	Concept      string          `json:"concept"`
	Salary       core.Money      `json:"salary"`
	Commission   core.Money      `json:"commission"`
	Amount       core.Money      `json:"amount"`
	Formatted    string          `json:"formatted_amount"`
	Status       string          `json:"status"`
	Items        []core.LineItem `json:"items"`
}

func toInvoiceResponses(invoices []core.Invoice) []invoiceResponse {
	out := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		out[i] = invoiceResponse{
			ID:           inv.ID,
			OwnerID:      inv.OwnerID,
			EmployeeName: inv.EmployeeName,
			Project:      inv.Project,
			Date:         inv.Date,
			Concept:      inv.Concept,
			Salary:       inv.Salary,
			Commission:   inv.Commission,
			Amount:       inv.Amount,
			Formatted:    formatUSD(inv.Amount.Cents),
			Status:       inv.Status,
			Items:        inv.Items,
		}
	}
	return out
}

// visibleForRequest resolves the requester and their visible invoice
// set, writing the error response itself when something is off.
func (s *Server) visibleForRequest(w http.ResponseWriter, r *http.Request) (*services.Snapshot, []core.Invoice, bool) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, nil, false
	}

	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}

	snap, err := s.snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot load failed", log.FieldError, err)
		writeError(w, http.StatusBadGateway, "record source unavailable")
		return nil, nil, false
	}

	visible, err := s.payroll.VisibleFromSnapshot(snap, userID)
	if err != nil {
		if errors.Is(err, core.ErrUnknownRequester) {
			writeError(w, http.StatusNotFound, "unknown user")
			return nil, nil, false
		}
		slog.ErrorContext(r.Context(), "Visibility filter failed", log.FieldError, err, log.FieldUserID, userID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, nil, false
	}

	return snap, visible, true
}

func (s *Server) handleInvoices(w http.ResponseWriter, r *http.Request) {
	_, visible, ok := s.visibleForRequest(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"invoices": toInvoiceResponses(visible),
		"count":    len(visible),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	_, visible, ok := s.visibleForRequest(w, r)
	if !ok {
		return
	}

	salary, commissions := aggregate.ItemTotals(visible)
	total := aggregate.TotalAmount(visible)

	writeJSON(w, http.StatusOK, map[string]any{
		"salary":                salary,
		"commissions":           commissions,
		"total":                 total,
		"formatted_salary":      formatUSD(salary.Cents),
		"formatted_commissions": formatUSD(commissions.Cents),
		"formatted_total":       formatUSD(total.Cents),
		"invoice_count":         len(visible),
	})
}

// adminHandler receives the full snapshot once the requester has been
// verified as an administrator.
type adminHandler func(w http.ResponseWriter, r *http.Request, snap *services.Snapshot)

// requireAdmin verifies the user_id parameter names an administrator
// before delegating.
func (s *Server) requireAdmin(next adminHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		userID, err := parseUserID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		snap, err := s.snapshot(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Snapshot load failed", log.FieldError, err)
			writeError(w, http.StatusBadGateway, "record source unavailable")
			return
		}

		requester, err := s.payroll.Requester(snap, userID)
		if err != nil {
			writeError(w, http.StatusNotFound, "unknown user")
			return
		}
		if !requester.IsAdmin() {
			slog.WarnContext(r.Context(), "Admin endpoint denied",
				log.FieldUserID, userID, "role", requester.Role, "url", r.URL.Path)
			writeError(w, http.StatusForbidden, "administrator role required")
			return
		}

		next(w, r, snap)
	}
}

func (s *Server) handleAdminOverview(w http.ResponseWriter, r *http.Request, snap *services.Snapshot) {
	now := time.Now()
	year, month := parseYearMonth(r)

	monthTotal := aggregate.MonthlyTotal(snap.Invoices, year, month)
	projection := aggregate.AnnualProjection(snap.Invoices, now)
	ratio := aggregate.CommissionRatio(snap.Invoices)

	writeJSON(w, http.StatusOK, map[string]any{
		"year":                      year,
		"month":                     month,
		"month_total":               monthTotal,
		"formatted_month_total":     formatUSD(monthTotal.Cents),
		"annual_projection":         projection,
		"formatted_projection":      formatUSD(projection.Cents),
		"commission_ratio_percent":  ratio,
		"employee_count":            aggregate.EmployeeCount(snap.Users),
		"invoice_count":             len(snap.Invoices),
		"unresolved_employee_names": len(snap.Warnings),
	})
}

func (s *Server) handleAdminLeaderboard(w http.ResponseWriter, r *http.Request, snap *services.Snapshot) {
	year, month := parseYearMonth(r)
	entries := aggregate.Leaderboard(aggregate.FilterMonth(snap.Invoices, year, month))

	writeJSON(w, http.StatusOK, map[string]any{
		"year":    year,
		"month":   month,
		"entries": entries,
	})
}

func (s *Server) handleAdminCalendar(w http.ResponseWriter, r *http.Request, snap *services.Snapshot) {
	year, month := parseYearMonth(r)
	days := aggregate.CalendarDays(aggregate.FilterMonth(snap.Invoices, year, month))

	writeJSON(w, http.StatusOK, map[string]any{
		"year":  year,
		"month": month,
		"days":  days,
	})
}

func (s *Server) handleAdminTrend(w http.ResponseWriter, r *http.Request, snap *services.Snapshot) {
	year := parseYear(r)
	series := aggregate.MonthlyTrend(snap.Invoices, year)

	months := make([]core.Money, 12)
	copy(months, series[:])

	writeJSON(w, http.StatusOK, map[string]any{
		"year":   year,
		"months": months,
	})
}

func (s *Server) handleAdminPortfolio(w http.ResponseWriter, r *http.Request, snap *services.Snapshot) {
	projects := aggregate.PortfolioRollup(snap.Invoices, snap.Users)

	writeJSON(w, http.StatusOK, map[string]any{
		"projects": projects,
	})
}
