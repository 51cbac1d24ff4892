package sqlite

import (
	"context"

	"github.com/fwojciec/docdex"
)

// Compile-time interface verification.
var _ docdex.StatsService = (*StatsService)(nil)

// StatsService implements docdex.StatsService using SQLite.
type StatsService struct {
	db *DB
}

// NewStatsService creates a new StatsService.
func NewStatsService(db *DB) *StatsService {
	return &StatsService{db: db}
}

// Stats counts documents and chunks.
func (s *StatsService) Stats(ctx context.Context) (*docdex.Stats, error) {
	var stats docdex.Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM documents), (SELECT COUNT(*) FROM chunks)
	`).Scan(&stats.Documents, &stats.Chunks)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
