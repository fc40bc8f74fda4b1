// Package google adapts the tabular port onto the Google Sheets v4 API.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/tabular"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Config carries everything the client needs up front. Missing fields fail
// construction, not the first request.
type Config struct {
	SpreadsheetID      string
	ServiceAccountJSON string // inline credentials, wins over the file
	ServiceAccountFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ tabular.Store = (*Client)(nil)

// a1Ranges maps logical range ids onto A1 notation. Data ranges start at
// row 2 to skip the header; monthly_stats keeps row 1 because the header
// carries the month labels.
var a1Ranges = map[string]string{
	tabular.RangeTransactions:   "raw_transactions!A2:J",
	tabular.RangeTransactionIDs: "raw_transactions!A2:A",
	tabular.RangeRules:          "lookup_map!A2:C",
	tabular.RangeBudget:         "budget!A2:B",
	tabular.RangeMonthlyStats:   "monthly_stats!A1:ZZ",
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, core.E(core.KindConfig, "sheets_client", "sheets", errors.New("missing spreadsheet id"))
	}

	credentialsJSON, err := loadCredentials(cfg)
	if err != nil {
		return nil, core.E(core.KindConfig, "sheets_client", "sheets", err)
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, core.E(core.KindStore, "sheets_client", "sheets", fmt.Errorf("create sheets service: %w", err))
	}

	slog.InfoContext(ctx, "Google Sheets client initialized", "spreadsheet_id", cfg.SpreadsheetID)
	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID}, nil
}

func loadCredentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.ServiceAccountJSON) != "":
		return []byte(cfg.ServiceAccountJSON), nil
	case strings.TrimSpace(cfg.ServiceAccountFile) != "":
		b, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials")
	}
}

func (c *Client) ReadRange(ctx context.Context, rangeID string) ([][]string, error) {
	a1, err := c.resolve(rangeID)
	if err != nil {
		return nil, err
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, a1).Context(ctx).Do()
	if err != nil {
		return nil, core.E(core.KindStore, "read_range", "sheets", fmt.Errorf("get %s: %w", a1, err))
	}
	return toStringRows(resp.Values), nil
}

func (c *Client) BatchRead(ctx context.Context, rangeIDs ...string) ([][][]string, error) {
	a1s := make([]string, len(rangeIDs))
	for i, id := range rangeIDs {
		a1, err := c.resolve(id)
		if err != nil {
			return nil, err
		}
		a1s[i] = a1
	}
	resp, err := c.svc.Spreadsheets.Values.BatchGet(c.spreadsheetID).Ranges(a1s...).Context(ctx).Do()
	if err != nil {
		return nil, core.E(core.KindStore, "batch_read", "sheets", fmt.Errorf("batch get %v: %w", a1s, err))
	}
	if len(resp.ValueRanges) != len(rangeIDs) {
		return nil, core.E(core.KindStore, "batch_read", "sheets",
			fmt.Errorf("asked for %d ranges, got %d", len(rangeIDs), len(resp.ValueRanges)))
	}
	out := make([][][]string, len(resp.ValueRanges))
	for i, vr := range resp.ValueRanges {
		out[i] = toStringRows(vr.Values)
	}
	return out, nil
}

func (c *Client) AppendRow(ctx context.Context, rangeID string, row []string) error {
	a1, err := c.resolve(rangeID)
	if err != nil {
		return err
	}
	values := make([]any, len(row))
	for i, cell := range row {
		values[i] = cell
	}
	vr := &gsheet.ValueRange{Values: [][]any{values}}
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, a1, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return core.E(core.KindStore, "append_row", "sheets", fmt.Errorf("append %s: %w", a1, err))
	}
	return nil
}

func (c *Client) resolve(rangeID string) (string, error) {
	a1, ok := a1Ranges[rangeID]
	if !ok {
		return "", core.E(core.KindStore, "resolve_range", "sheets", fmt.Errorf("unknown range %q", rangeID))
	}
	return a1, nil
}

func toStringRows(values [][]any) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = strings.TrimSpace(fmt.Sprint(v))
		}
		rows[i] = cells
	}
	return rows
}
