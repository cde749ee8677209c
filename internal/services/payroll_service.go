// Package services provides business logic and orchestration services.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"nomina/internal/access"
	"nomina/internal/amqp"
	"nomina/internal/auth"
	"nomina/internal/core"
	"nomina/internal/reconcile"
	"nomina/internal/records"
	"nomina/internal/source"

	"golang.org/x/sync/errgroup"
)

// Snapshot is one fully built view of the upstream record set.
type Snapshot struct {
	Users     []core.User
	Invoices  []core.Invoice
	Warnings  []reconcile.Warning
	FetchedAt time.Time
}

// PayrollService fetches the raw record set, reconciles invoice rows
// against the user roster, and answers login and visibility queries.
type PayrollService struct {
	users          source.UserReader
	invoices       source.InvoiceReader
	amqpClient     *amqp.Client
	sourceName     string
	masterPassword string
}

func NewPayrollService(reader source.Reader, amqpClient *amqp.Client, sourceName, masterPassword string) *PayrollService {
	return &PayrollService{
		users:          reader,
		invoices:       reader,
		amqpClient:     amqpClient,
		sourceName:     sourceName,
		masterPassword: masterPassword,
	}
}

// Load fetches users and invoices in parallel and builds a snapshot.
func (s *PayrollService) Load(ctx context.Context) (*Snapshot, error) {
	var userRows []source.UserRow
	var invoiceRows []source.InvoiceRow

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.users.ListUsers(gctx)
		if err != nil {
			return fmt.Errorf("fetch users: %w", err)
		}
		userRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.invoices.ListInvoices(gctx)
		if err != nil {
			return fmt.Errorf("fetch invoices: %w", err)
		}
		invoiceRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	users := make([]core.User, 0, len(userRows))
	for i, row := range userRows {
		users = append(users, records.BuildUser(row, i))
	}

	invoices := make([]core.Invoice, 0, len(invoiceRows))
	rawNames := make([]string, 0, len(invoiceRows))
	for i, row := range invoiceRows {
		rawNames = append(rawNames, row.EmployeeName)
		var owner *core.User
		if matched, ok := reconcile.Resolve(row.EmployeeName, users); ok {
			owner = &matched
		}
		invoices = append(invoices, records.BuildInvoice(row, i, owner))
	}

	warnings := reconcile.Audit(rawNames, users)
	for _, w := range warnings {
		slog.WarnContext(ctx, "Ambiguous employee name on payment rows",
			"raw_name", w.RawName,
			"matched", w.Matched,
			"also_matched", w.AlsoMatched)
	}

	snap := &Snapshot{
		Users:     users,
		Invoices:  invoices,
		Warnings:  warnings,
		FetchedAt: time.Now(),
	}

	slog.InfoContext(ctx, "Record set loaded",
		"source", s.sourceName,
		"users", len(users),
		"invoices", len(invoices),
		"warnings", len(warnings))

	// Best-effort notify: a failed publish never fails the load.
	if err := s.publishSyncMessage(ctx, snap); err != nil {
		slog.ErrorContext(ctx, "Failed to publish snapshot sync message", "error", err)
	}

	return snap, nil
}

// Login authenticates a handle and password against the roster.
func (s *PayrollService) Login(ctx context.Context, username, password string) (core.User, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return core.User{}, fmt.Errorf("load record set: %w", err)
	}
	user, err := s.LoginFromSnapshot(snap, username, password)
	if err != nil {
		return core.User{}, err
	}
	slog.InfoContext(ctx, "Login succeeded", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, nil
}

// LoginFromSnapshot authenticates against an already loaded snapshot.
func (s *PayrollService) LoginFromSnapshot(snap *Snapshot, username, password string) (core.User, error) {
	return auth.Authenticate(username, password, snap.Users, s.masterPassword)
}

// VisibleInvoices returns the invoices the requester may see, newest
// first. Administrators see everything including unresolved rows.
func (s *PayrollService) VisibleInvoices(ctx context.Context, requesterID int64) ([]core.Invoice, *Snapshot, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load record set: %w", err)
	}

	visible, err := s.VisibleFromSnapshot(snap, requesterID)
	if err != nil {
		return nil, nil, err
	}
	return visible, snap, nil
}

// VisibleFromSnapshot filters an already loaded snapshot for a
// requester, newest first.
func (s *PayrollService) VisibleFromSnapshot(snap *Snapshot, requesterID int64) ([]core.Invoice, error) {
	requester, ok := findUser(snap.Users, requesterID)
	if !ok {
		return nil, core.ErrUnknownRequester
	}

	visible := access.Filter(snap.Invoices, requester)
	// ISO dates sort correctly as strings.
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Date > visible[j].Date
	})
	return visible, nil
}

// Requester looks up a user by ID in a freshly loaded snapshot.
func (s *PayrollService) Requester(snap *Snapshot, requesterID int64) (core.User, error) {
	user, ok := findUser(snap.Users, requesterID)
	if !ok {
		return core.User{}, core.ErrUnknownRequester
	}
	return user, nil
}

func (s *PayrollService) publishSyncMessage(ctx context.Context, snap *Snapshot) error {
	if s.amqpClient == nil {
		return nil
	}
	return s.amqpClient.PublishSnapshotSync(ctx, s.sourceName, len(snap.Users), len(snap.Invoices), snap.FetchedAt)
}

func (s *PayrollService) Close() error {
	if s.amqpClient != nil {
		return s.amqpClient.Close()
	}
	return nil
}

func findUser(users []core.User, id int64) (core.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return core.User{}, false
}
