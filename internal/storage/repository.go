// Package storage implements the tabular port on a local SQLite database.
// It mirrors the spreadsheet's logical ranges one table each and serves as
// the offline/development backend; the Sheets adapter remains the source
// of truth in production.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/tabular"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type SQLiteStore struct {
	db *sql.DB
}

var _ tabular.Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
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
	if err := migrateRangeTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// migrateRangeTables brings the one-table-per-range schema up to date on
// the store's own connection.
func migrateRangeTables(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) ReadRange(ctx context.Context, rangeID string) ([][]string, error) {
	var (
		rows [][]string
		err  error
	)
	switch rangeID {
	case tabular.RangeTransactions:
		rows, err = s.query(ctx,
			`SELECT id, date, merchant, amount, category, sentiment, confidence, source, city, recorded_at
			 FROM raw_transactions ORDER BY seq`)
	case tabular.RangeTransactionIDs:
		rows, err = s.query(ctx, `SELECT id FROM raw_transactions ORDER BY seq`)
	case tabular.RangeRules:
		rows, err = s.query(ctx, `SELECT fragment, category, sentiment FROM lookup_map ORDER BY seq`)
	case tabular.RangeBudget:
		rows, err = s.query(ctx, `SELECT category, target FROM budget ORDER BY seq`)
	case tabular.RangeMonthlyStats:
		rows, err = s.readMonthlyStats(ctx)
	default:
		return nil, core.E(core.KindStore, "read_range", "sqlite", fmt.Errorf("unknown range %q", rangeID))
	}
	if err != nil {
		return nil, core.E(core.KindStore, "read_range", "sqlite", fmt.Errorf("range %s: %w", rangeID, err))
	}
	return rows, nil
}

func (s *SQLiteStore) BatchRead(ctx context.Context, rangeIDs ...string) ([][][]string, error) {
	out := make([][][]string, len(rangeIDs))
	for i, id := range rangeIDs {
		rows, err := s.ReadRange(ctx, id)
		if err != nil {
			return nil, err
		}
		out[i] = rows
	}
	return out, nil
}

func (s *SQLiteStore) AppendRow(ctx context.Context, rangeID string, row []string) error {
	var (
		stmt string
		want int
	)
	switch rangeID {
	case tabular.RangeTransactions:
		stmt = `INSERT INTO raw_transactions (id, date, merchant, amount, category, sentiment, confidence, source, city, recorded_at)
		        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		want = 10
	case tabular.RangeRules:
		stmt = `INSERT INTO lookup_map (fragment, category, sentiment) VALUES (?, ?, ?)`
		want = 3
	case tabular.RangeBudget:
		stmt = `INSERT INTO budget (category, target) VALUES (?, ?)`
		want = 2
	case tabular.RangeMonthlyStats:
		stmt = `INSERT INTO monthly_stats (category, month, amount) VALUES (?, ?, ?)`
		want = 3
	default:
		return core.E(core.KindStore, "append_row", "sqlite", fmt.Errorf("unknown range %q", rangeID))
	}
	if len(row) != want {
		return core.E(core.KindStore, "append_row", "sqlite",
			fmt.Errorf("range %s expects %d columns, got %d", rangeID, want, len(row)))
	}

	args := make([]any, len(row))
	for i, cell := range row {
		args[i] = cell
	}
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return core.E(core.KindStore, "append_row", "sqlite", fmt.Errorf("insert into %s: %w", rangeID, err))
	}
	slog.DebugContext(ctx, "Row appended", "component", "storage", "range", rangeID)
	return nil
}

func (s *SQLiteStore) query(ctx context.Context, stmt string) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out [][]string
	for rows.Next() {
		cells := make([]string, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

// readMonthlyStats pivots the (category, month, amount) rows into the wide
// layout the budget aggregator expects: a header of month labels followed
// by one row per category.
func (s *SQLiteStore) readMonthlyStats(ctx context.Context) ([][]string, error) {
	months, err := s.query(ctx, `SELECT DISTINCT month FROM monthly_stats ORDER BY month`)
	if err != nil {
		return nil, err
	}
	cats, err := s.query(ctx, `SELECT category, MIN(seq) AS first_seq FROM monthly_stats GROUP BY category ORDER BY first_seq`)
	if err != nil {
		return nil, err
	}

	header := []string{"Category"}
	for _, m := range months {
		header = append(header, m[0])
	}
	out := [][]string{header}

	cells, err := s.query(ctx, `SELECT category, month, amount FROM monthly_stats ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	amounts := make(map[string]map[string]string, len(cats))
	for _, c := range cells {
		if amounts[c[0]] == nil {
			amounts[c[0]] = make(map[string]string)
		}
		amounts[c[0]][c[1]] = c[2]
	}

	for _, c := range cats {
		row := []string{c[0]}
		for _, m := range months {
			row = append(row, amounts[c[0]][m[0]])
		}
		out = append(out, row)
	}
	return out, nil
}
