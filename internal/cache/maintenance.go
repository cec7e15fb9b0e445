package cache

import (
	"context"
	"fmt"
	"time"
)

// Stats summarizes the current store contents.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	ctx = ensureContext(ctx)
	stats := &Stats{ByCategory: make(map[string]int)}

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(1) FROM classifications", &stats.Classifications},
		{"SELECT COUNT(1) FROM ai_results", &stats.AIResults},
		{"SELECT COUNT(1) FROM corrections", &stats.Corrections},
		{"SELECT COUNT(1) FROM corrections WHERE applied = 0", &stats.UnappliedCount},
		{"SELECT COUNT(1) FROM learning_patterns", &stats.LearningPatterns},
		{"SELECT COUNT(1) FROM tracking", &stats.TrackedFiles},
	}
	for _, count := range counts {
		if err := s.db.QueryRowContext(ctx, count.query).Scan(count.dest); err != nil {
			return nil, fmt.Errorf("count rows: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT classification, COUNT(1) FROM classifications GROUP BY classification")
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			category string
			count    int
		)
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		stats.ByCategory[category] = count
	}
	return stats, rows.Err()
}

// Cleanup removes classification, AI, and tracking entries older than
// the retention window. Corrections and learning patterns are operator
// state and never age out. Returns the number of rows removed.
func (s *Store) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	ctx = ensureContext(ctx)
	cutoff := formatTime(time.Now().Add(-retention))

	var removed int64
	for _, query := range []string{
		"DELETE FROM classifications WHERE created_at < ?",
		"DELETE FROM ai_results WHERE created_at < ?",
		"DELETE FROM tracking WHERE processed_at < ?",
	} {
		var affected int64
		err := retryOnBusy(ctx, func() error {
			res, execErr := s.db.ExecContext(ctx, query, cutoff)
			if execErr != nil {
				return execErr
			}
			affected, execErr = res.RowsAffected()
			return execErr
		})
		if err != nil {
			return removed, fmt.Errorf("cleanup: %w", err)
		}
		removed += affected
	}
	return removed, nil
}

// Clear drops every table's contents, including corrections. Used by
// the cache clear command after schema version bumps.
func (s *Store) Clear(ctx context.Context) error {
	ctx = ensureContext(ctx)
	for _, table := range []string{"classifications", "ai_results", "corrections", "learning_patterns", "tracking"} {
		if err := s.execWithRetry(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
