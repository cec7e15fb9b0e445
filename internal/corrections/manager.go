package corrections

import (
	"context"
	"log/slog"

	"organizer/internal/cache"
	"organizer/internal/logging"
	"organizer/internal/services/tmdb"
)

// Learner receives recorded corrections so future AI prompts can cite
// them. Implemented by the AI classification client.
type Learner interface {
	Learn(name, original, correct string)
}

// Manager owns the correction store: recording operator overrides,
// deriving learning patterns, and applying metadata fixes.
type Manager struct {
	store    *cache.Store
	searcher tmdb.Searcher
	learner  Learner
	logger   *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithSearcher attaches the metadata collaborator used for by-id
// lookups during metadata corrections.
func WithSearcher(s tmdb.Searcher) Option {
	return func(m *Manager) { m.searcher = s }
}

// WithLearner attaches the AI collaborator's learning store.
func WithLearner(l Learner) Option {
	return func(m *Manager) { m.learner = l }
}

// WithLogger overrides the default component logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a correction manager over the given store.
func New(store *cache.Store, opts ...Option) *Manager {
	manager := &Manager{
		store:  store,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(manager)
	}
	return manager
}

// Record stores a manual correction, derives a learning pattern from
// the corrected name, and forwards the correction to the AI learner.
// The local writes are authoritative; learner forwarding is best-effort.
func (m *Manager) Record(ctx context.Context, name, original, correct, reason string, tmdbID int64) error {
	correction := cache.Correction{
		Name:     name,
		Original: original,
		Correct:  correct,
		Reason:   reason,
		TMDBID:   tmdbID,
	}
	if err := m.store.SaveCorrection(ctx, correction); err != nil {
		return err
	}
	if err := m.store.SaveLearningPattern(ctx, derivePattern(name, original, correct)); err != nil {
		return err
	}
	if m.learner != nil {
		m.learner.Learn(name, original, correct)
	}
	m.logger.Info("correction recorded",
		logging.String("name", name),
		logging.String("original", original),
		logging.String("correct", correct))
	return nil
}

// All returns every recorded correction.
func (m *Manager) All(ctx context.Context) ([]cache.Correction, error) {
	return m.store.Corrections(ctx)
}

// Unapplied returns corrections not yet applied to AI learning.
func (m *Manager) Unapplied(ctx context.Context) ([]cache.Correction, error) {
	return m.store.UnappliedCorrections(ctx)
}

// MarkApplied flips a correction's applied flag. Calling it twice for
// the same name is a no-op.
func (m *Manager) MarkApplied(ctx context.Context, name string) error {
	return m.store.MarkCorrectionApplied(ctx, name)
}

// ApplyAll marks every pending correction applied and returns how many
// were flipped.
func (m *Manager) ApplyAll(ctx context.Context) (int, error) {
	pending, err := m.store.UnappliedCorrections(ctx)
	if err != nil {
		return 0, err
	}
	for _, correction := range pending {
		if err := m.store.MarkCorrectionApplied(ctx, correction.Name); err != nil {
			return 0, err
		}
		m.logger.Info("correction applied", logging.String("name", correction.Name))
	}
	return len(pending), nil
}
