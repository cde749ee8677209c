// Package csvhttp reads the payroll record set from published CSV
// exports over HTTP. Published spreadsheet exports sit behind
// inconsistent CORS and availability, so each fetch walks a fallback
// chain: the direct URL first, then each configured proxy prefix in
// order until one answers.
package csvhttp

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"nomina/internal/source"
)

type Client struct {
	httpClient  *http.Client
	usersURL    string
	invoicesURL string
	proxies     []string
}

// New creates a CSV source. proxies are URL prefixes the export URL is
// appended to (query-escaped) when the direct fetch fails; they may be
// empty.
func New(usersURL, invoicesURL string, proxies []string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		usersURL:    usersURL,
		invoicesURL: invoicesURL,
		proxies:     proxies,
	}
}

var (
	_ source.UserReader    = (*Client)(nil)
	_ source.InvoiceReader = (*Client)(nil)
)

// ListUsers implements source.UserReader.
func (c *Client) ListUsers(ctx context.Context) ([]source.UserRow, error) {
	records, err := c.fetchCSV(ctx, c.usersURL)
	if err != nil {
		return nil, fmt.Errorf("fetch users csv: %w", err)
	}
	rows := make([]source.UserRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, source.UserRow{
			ID:       field(rec, 0),
			FullName: field(rec, 1),
			Username: field(rec, 2),
			Password: field(rec, 3),
			Role:     field(rec, 4),
			Project:  field(rec, 5),
		})
	}
	return rows, nil
}

// ListInvoices implements source.InvoiceReader.
func (c *Client) ListInvoices(ctx context.Context) ([]source.InvoiceRow, error) {
	records, err := c.fetchCSV(ctx, c.invoicesURL)
	if err != nil {
		return nil, fmt.Errorf("fetch invoices csv: %w", err)
	}
	rows := make([]source.InvoiceRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, source.InvoiceRow{
			ID:           field(rec, 0),
			Owner:        field(rec, 1),
			Date:         field(rec, 2),
			EmployeeName: field(rec, 3),
			Salary:       field(rec, 4),
			Commission:   field(rec, 5),
			Total:        field(rec, 6),
			Status:       field(rec, 7),
		})
	}
	return rows, nil
}

// fetchCSV retrieves and parses one export, skipping the header row.
func (c *Client) fetchCSV(ctx context.Context, exportURL string) ([][]string, error) {
	body, err := c.fetch(ctx, exportURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1 // ragged rows are the norm in these exports
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}

// fetch walks the fallback chain. The transport failure of the last
// candidate is propagated unchanged when every candidate fails.
func (c *Client) fetch(ctx context.Context, exportURL string) (io.ReadCloser, error) {
	candidates := make([]string, 0, len(c.proxies)+1)
	candidates = append(candidates, exportURL)
	for _, p := range c.proxies {
		candidates = append(candidates, p+url.QueryEscape(exportURL))
	}

	var lastErr error
	for i, candidate := range candidates {
		body, err := c.get(ctx, candidate)
		if err == nil {
			if i > 0 {
				slog.InfoContext(ctx, "CSV fetched via proxy fallback",
					"attempt", i+1, "url", exportURL)
			}
			return body, nil
		}
		lastErr = err
		slog.WarnContext(ctx, "CSV fetch attempt failed",
			"attempt", i+1, "of", len(candidates), "error", err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (c *Client) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}
