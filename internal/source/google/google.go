// Package google reads the payroll record set straight from the
// company spreadsheet through the Google Sheets API.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"nomina/internal/source"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	usersSheet    string
	paymentsSheet string
}

// Ensure interface conformance
var (
	_ source.UserReader    = (*Client)(nil)
	_ source.InvoiceReader = (*Client)(nil)
)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional sheet names: GOOGLE_USERS_SHEET_NAME (default "Users"),
// GOOGLE_PAYMENTS_SHEET_NAME (default "Payments").
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	usersSheet := strings.TrimSpace(os.Getenv("GOOGLE_USERS_SHEET_NAME"))
	if usersSheet == "" {
		usersSheet = "Users"
	}
	paymentsSheet := strings.TrimSpace(os.Getenv("GOOGLE_PAYMENTS_SHEET_NAME"))
	if paymentsSheet == "" {
		paymentsSheet = "Payments"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		usersSheet:    usersSheet,
		paymentsSheet: paymentsSheet,
	}, nil
}

// newSheetsService initializes a read-only Sheets Service using
// Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ListUsers implements source.UserReader.
func (c *Client) ListUsers(ctx context.Context) ([]source.UserRow, error) {
	values, err := c.readRange(ctx, c.usersSheet+"!A2:F")
	if err != nil {
		return nil, fmt.Errorf("read users sheet: %w", err)
	}
	rows := parseUserRows(values)
	slog.InfoContext(ctx, "Users sheet loaded", "rows", len(rows), "sheet", c.usersSheet)
	return rows, nil
}

// ListInvoices implements source.InvoiceReader.
func (c *Client) ListInvoices(ctx context.Context) ([]source.InvoiceRow, error) {
	values, err := c.readRange(ctx, c.paymentsSheet+"!A2:H")
	if err != nil {
		return nil, fmt.Errorf("read payments sheet: %w", err)
	}
	rows := parseInvoiceRows(values)
	slog.InfoContext(ctx, "Payments sheet loaded", "rows", len(rows), "sheet", c.paymentsSheet)
	return rows, nil
}

func (c *Client) readRange(ctx context.Context, readRange string) ([][]interface{}, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}
