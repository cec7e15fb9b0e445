package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveCorrection inserts or replaces a manual correction. A replaced
// correction resets to unapplied so learning picks it up again.
func (s *Store) SaveCorrection(ctx context.Context, correction Correction) error {
	createdAt := correction.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return s.execWithRetry(ctx, `
		INSERT INTO corrections (name, original, correct, reason, tmdb_id, created_at, applied)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			original = excluded.original,
			correct = excluded.correct,
			reason = excluded.reason,
			tmdb_id = excluded.tmdb_id,
			applied = excluded.applied`,
		correction.Name, correction.Original, correction.Correct,
		nullableString(correction.Reason), nullableInt64(correction.TMDBID),
		formatTime(createdAt), boolToInt(correction.Applied))
}

// Correction returns the correction recorded for a name, if present.
func (s *Store) Correction(ctx context.Context, name string) (*Correction, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `
		SELECT name, original, correct, reason, tmdb_id, created_at, applied
		FROM corrections WHERE name = ?`, name)
	correction, err := scanCorrection(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan correction: %w", err)
	}
	return correction, nil
}

// Corrections returns every recorded correction ordered by recency.
func (s *Store) Corrections(ctx context.Context) ([]Correction, error) {
	return s.queryCorrections(ctx, `
		SELECT name, original, correct, reason, tmdb_id, created_at, applied
		FROM corrections ORDER BY created_at DESC`)
}

// UnappliedCorrections returns corrections not yet forwarded to learning.
func (s *Store) UnappliedCorrections(ctx context.Context) ([]Correction, error) {
	return s.queryCorrections(ctx, `
		SELECT name, original, correct, reason, tmdb_id, created_at, applied
		FROM corrections WHERE applied = 0 ORDER BY created_at`)
}

func (s *Store) queryCorrections(ctx context.Context, query string) ([]Correction, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query corrections: %w", err)
	}
	defer rows.Close()

	var corrections []Correction
	for rows.Next() {
		correction, err := scanCorrection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan correction: %w", err)
		}
		corrections = append(corrections, *correction)
	}
	return corrections, rows.Err()
}

func scanCorrection(scanner interface{ Scan(dest ...any) error }) (*Correction, error) {
	var (
		correction Correction
		reason     sql.NullString
		tmdbID     sql.NullInt64
		createdRaw string
		applied    int
	)
	if err := scanner.Scan(&correction.Name, &correction.Original, &correction.Correct,
		&reason, &tmdbID, &createdRaw, &applied); err != nil {
		return nil, err
	}
	correction.Reason = reason.String
	correction.TMDBID = tmdbID.Int64
	correction.Applied = applied != 0
	if created, err := parseTimeString(createdRaw); err == nil {
		correction.CreatedAt = created
	}
	return &correction, nil
}

// MarkCorrectionApplied flips a correction to applied. Idempotent;
// marking an already-applied or missing correction is a no-op.
func (s *Store) MarkCorrectionApplied(ctx context.Context, name string) error {
	return s.execWithRetry(ctx,
		"UPDATE corrections SET applied = 1 WHERE name = ?", name)
}

// SaveLearningPattern appends a pattern derived from a correction.
func (s *Store) SaveLearningPattern(ctx context.Context, pattern LearningPattern) error {
	createdAt := pattern.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return s.execWithRetry(ctx, `
		INSERT INTO learning_patterns
			(name, original, correct, code_prefix, name_length, has_digits, has_letters, has_special, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pattern.Name, pattern.Original, pattern.Correct,
		nullableString(pattern.CodePrefix), pattern.NameLength,
		boolToInt(pattern.HasDigits), boolToInt(pattern.HasLetters), boolToInt(pattern.HasSpecial),
		formatTime(createdAt))
}

// LearningPatterns returns all stored patterns.
func (s *Store) LearningPatterns(ctx context.Context) ([]LearningPattern, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, original, correct, code_prefix, name_length, has_digits, has_letters, has_special, created_at
		FROM learning_patterns ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query learning patterns: %w", err)
	}
	defer rows.Close()

	var patterns []LearningPattern
	for rows.Next() {
		var (
			pattern    LearningPattern
			codePrefix sql.NullString
			hasDigits  int
			hasLetters int
			hasSpecial int
			createdRaw string
		)
		if err := rows.Scan(&pattern.ID, &pattern.Name, &pattern.Original, &pattern.Correct,
			&codePrefix, &pattern.NameLength, &hasDigits, &hasLetters, &hasSpecial, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan learning pattern: %w", err)
		}
		pattern.CodePrefix = codePrefix.String
		pattern.HasDigits = hasDigits != 0
		pattern.HasLetters = hasLetters != 0
		pattern.HasSpecial = hasSpecial != 0
		if created, err := parseTimeString(createdRaw); err == nil {
			pattern.CreatedAt = created
		}
		patterns = append(patterns, pattern)
	}
	return patterns, rows.Err()
}
