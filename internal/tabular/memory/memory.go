// Package memory is an in-process tabular store used by tests and the
// default development backend. Ranges are plain row slices behind a
// mutex; append order is preserved.
package memory

import (
	"context"
	"fmt"
	"sync"

	"budgetbuddy/internal/tabular"
)

type Store struct {
	mu     sync.Mutex
	ranges map[string][][]string
}

var _ tabular.Store = (*Store)(nil)

func New() *Store {
	return &Store{ranges: make(map[string][][]string)}
}

// Seed replaces the contents of a logical range. Intended for test setup
// and dev seeding; not part of the tabular port.
func (s *Store) Seed(rangeID string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([][]string, len(rows))
	for i, row := range rows {
		cp[i] = append([]string(nil), row...)
	}
	s.ranges[rangeID] = cp
}

func (s *Store) ReadRange(_ context.Context, rangeID string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(rangeID), nil
}

func (s *Store) BatchRead(_ context.Context, rangeIDs ...string) ([][][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][][]string, len(rangeIDs))
	for i, id := range rangeIDs {
		out[i] = s.snapshot(id)
	}
	return out, nil
}

func (s *Store) AppendRow(_ context.Context, rangeID string, row []string) error {
	if len(row) == 0 {
		return fmt.Errorf("append to %s: empty row", rangeID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ranges[rangeID] = append(s.ranges[rangeID], append([]string(nil), row...))
	return nil
}

// snapshot copies a range so callers cannot observe later appends.
// The id-column view is derived from the transaction log, mirroring how
// the spreadsheet exposes a single column of the same sheet.
func (s *Store) snapshot(rangeID string) [][]string {
	src := s.ranges[rangeID]
	if rangeID == tabular.RangeTransactionIDs {
		src = s.ranges[tabular.RangeTransactions]
		out := make([][]string, len(src))
		for i, row := range src {
			if len(row) > 0 {
				out[i] = []string{row[0]}
			} else {
				out[i] = []string{}
			}
		}
		return out
	}
	out := make([][]string, len(src))
	for i, row := range src {
		out[i] = append([]string(nil), row...)
	}
	return out
}
