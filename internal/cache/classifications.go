package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveEntry inserts or replaces the classification for a name.
func (s *Store) SaveEntry(ctx context.Context, entry Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return s.execWithRetry(ctx, `
		INSERT INTO classifications (name, classification, source_path, dest_path, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			classification = excluded.classification,
			source_path = excluded.source_path,
			dest_path = COALESCE(excluded.dest_path, dest_path)`,
		entry.Name, entry.Classification,
		nullableString(entry.SourcePath), nullableString(entry.DestPath),
		formatTime(createdAt))
}

// Entry returns the cached classification for a name, if present.
func (s *Store) Entry(ctx context.Context, name string) (*Entry, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `
		SELECT name, classification, source_path, dest_path, created_at
		FROM classifications WHERE name = ?`, name)

	var (
		entry      Entry
		sourcePath sql.NullString
		destPath   sql.NullString
		createdRaw string
	)
	if err := row.Scan(&entry.Name, &entry.Classification, &sourcePath, &destPath, &createdRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan classification: %w", err)
	}
	entry.SourcePath = sourcePath.String
	entry.DestPath = destPath.String
	if created, err := parseTimeString(createdRaw); err == nil {
		entry.CreatedAt = created
	}
	return &entry, nil
}

// SetDestPath records the destination a name was materialized into.
func (s *Store) SetDestPath(ctx context.Context, name, destPath string) error {
	return s.execWithRetry(ctx,
		"UPDATE classifications SET dest_path = ? WHERE name = ?",
		nullableString(destPath), name)
}

// SaveAIResult inserts or replaces the AI verdict for a name.
func (s *Store) SaveAIResult(ctx context.Context, result AIResult) error {
	createdAt := result.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return s.execWithRetry(ctx, `
		INSERT INTO ai_results (name, label, confidence, reasoning, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			label = excluded.label,
			confidence = excluded.confidence,
			reasoning = excluded.reasoning`,
		result.Name, result.Label, result.Confidence,
		nullableString(result.Reasoning), formatTime(createdAt))
}

// AIResult returns the stored AI verdict for a name, if present.
func (s *Store) AIResult(ctx context.Context, name string) (*AIResult, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `
		SELECT name, label, confidence, reasoning, created_at
		FROM ai_results WHERE name = ?`, name)

	var (
		result     AIResult
		reasoning  sql.NullString
		createdRaw string
	)
	if err := row.Scan(&result.Name, &result.Label, &result.Confidence, &reasoning, &createdRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan ai result: %w", err)
	}
	result.Reasoning = reasoning.String
	if created, err := parseTimeString(createdRaw); err == nil {
		result.CreatedAt = created
	}
	return &result, nil
}

// MarkProcessed records a tracking entry for a source file.
func (s *Store) MarkProcessed(ctx context.Context, entry TrackingEntry) error {
	processedAt := entry.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now()
	}
	return s.execWithRetry(ctx, `
		INSERT INTO tracking (key, source_path, processed_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			source_path = excluded.source_path,
			processed_at = excluded.processed_at`,
		entry.Key, entry.SourcePath, formatTime(processedAt))
}

// IsProcessed reports whether a tracking key has been recorded.
func (s *Store) IsProcessed(ctx context.Context, key string) (bool, error) {
	ctx = ensureContext(ctx)
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM tracking WHERE key = ?", key).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check tracking: %w", err)
	}
	return count > 0, nil
}
