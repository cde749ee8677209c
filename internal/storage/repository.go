// Package storage persists the last known payroll record snapshot in
// a local SQLite database. Rows are stored as raw spreadsheet text so
// the same reconciliation and build path runs regardless of where the
// rows came from.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"nomina/internal/source"

	_ "modernc.org/sqlite"
)

const metaLastSync = "last_sync"

type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ source.UserReader    = (*SQLiteRepository)(nil)
	_ source.InvoiceReader = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceUsers swaps the stored user rows for a fresh upstream export.
// The replacement is transactional so readers never observe a half
// written snapshot.
func (r *SQLiteRepository) ReplaceUsers(ctx context.Context, rows []source.UserRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin users replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_rows`); err != nil {
		return fmt.Errorf("clear user rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO user_rows (position, id, full_name, username, password, role, project)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare user insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, i, row.ID, row.FullName, row.Username, row.Password, row.Role, row.Project); err != nil {
			return fmt.Errorf("insert user row %d: %w", i, err)
		}
	}

	if err := touchLastSync(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit users replace: %w", err)
	}

	slog.InfoContext(ctx, "User snapshot replaced", "rows", len(rows))
	return nil
}

// ReplaceInvoices swaps the stored invoice rows for a fresh upstream export.
func (r *SQLiteRepository) ReplaceInvoices(ctx context.Context, rows []source.InvoiceRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin invoices replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_rows`); err != nil {
		return fmt.Errorf("clear invoice rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO invoice_rows (position, id, owner, date, employee_name, salary, commission, total, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare invoice insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, i, row.ID, row.Owner, row.Date, row.EmployeeName, row.Salary, row.Commission, row.Total, row.Status); err != nil {
			return fmt.Errorf("insert invoice row %d: %w", i, err)
		}
	}

	if err := touchLastSync(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit invoices replace: %w", err)
	}

	slog.InfoContext(ctx, "Invoice snapshot replaced", "rows", len(rows))
	return nil
}

// ListUsers implements source.UserReader.
func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]source.UserRow, error) {
	dbRows, err := r.db.QueryContext(ctx, `
		SELECT id, full_name, username, password, role, project
		FROM user_rows ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query user rows: %w", err)
	}
	defer dbRows.Close()

	var rows []source.UserRow
	for dbRows.Next() {
		var row source.UserRow
		if err := dbRows.Scan(&row.ID, &row.FullName, &row.Username, &row.Password, &row.Role, &row.Project); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		rows = append(rows, row)
	}
	if err := dbRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}
	return rows, nil
}

// ListInvoices implements source.InvoiceReader.
func (r *SQLiteRepository) ListInvoices(ctx context.Context) ([]source.InvoiceRow, error) {
	dbRows, err := r.db.QueryContext(ctx, `
		SELECT id, owner, date, employee_name, salary, commission, total, status
		FROM invoice_rows ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query invoice rows: %w", err)
	}
	defer dbRows.Close()

	var rows []source.InvoiceRow
	for dbRows.Next() {
		var row source.InvoiceRow
		if err := dbRows.Scan(&row.ID, &row.Owner, &row.Date, &row.EmployeeName, &row.Salary, &row.Commission, &row.Total, &row.Status); err != nil {
			return nil, fmt.Errorf("scan invoice row: %w", err)
		}
		rows = append(rows, row)
	}
	if err := dbRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice rows: %w", err)
	}
	return rows, nil
}

// LastSync returns when the snapshot was last replaced, or the zero
// time when no sync has happened yet.
func (r *SQLiteRepository) LastSync(ctx context.Context) (time.Time, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM snapshot_meta WHERE key = ?`, metaLastSync).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query last sync: %w", err)
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last sync %q: %w", value, err)
	}
	return t, nil
}

func touchLastSync(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		metaLastSync, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("update last sync: %w", err)
	}
	return nil
}
