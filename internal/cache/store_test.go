package cache_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"organizer/internal/cache"
	"organizer/internal/classification"
)

func mustOpenStore(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndFetchEntry(t *testing.T) {
	store := mustOpenStore(t)
	ctx := context.Background()

	err := store.SaveEntry(ctx, cache.Entry{
		Name:           "SONE-564",
		Classification: "JAV",
		SourcePath:     "/media/unorganized/SONE-564",
	})
	if err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}

	entry, err := store.Entry(ctx, "SONE-564")
	if err != nil {
		t.Fatalf("Entry failed: %v", err)
	}
	if entry == nil {
		t.Fatal("expected entry, got nil")
	}
	if entry.Classification != "JAV" {
		t.Fatalf("unexpected classification: %q", entry.Classification)
	}
	if entry.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be populated")
	}

	missing, err := store.Entry(ctx, "unknown")
	if err != nil {
		t.Fatalf("Entry for missing name failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing entry, got %#v", missing)
	}
}

func TestSetDestPathPreservedOnResave(t *testing.T) {
	store := mustOpenStore(t)
	ctx := context.Background()

	if err := store.SaveEntry(ctx, cache.Entry{Name: "n", Classification: "Movie"}); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}
	if err := store.SetDestPath(ctx, "n", "/library/Movie/N"); err != nil {
		t.Fatalf("SetDestPath failed: %v", err)
	}
	// Re-saving without a dest path must not wipe the stored one.
	if err := store.SaveEntry(ctx, cache.Entry{Name: "n", Classification: "Movie"}); err != nil {
		t.Fatalf("re-save failed: %v", err)
	}
	entry, err := store.Entry(ctx, "n")
	if err != nil {
		t.Fatalf("Entry failed: %v", err)
	}
	if entry.DestPath != "/library/Movie/N" {
		t.Fatalf("dest path lost on re-save: %q", entry.DestPath)
	}
}

func TestAIResultRoundTrip(t *testing.T) {
	store := mustOpenStore(t)
	ctx := context.Background()

	err := store.SaveAIResult(ctx, cache.AIResult{
		Name:       "XYZAB-123",
		Label:      "JAV",
		Confidence: 0.92,
		Reasoning:  "code-shaped name",
	})
	if err != nil {
		t.Fatalf("SaveAIResult failed: %v", err)
	}

	result, err := store.AIResult(ctx, "XYZAB-123")
	if err != nil {
		t.Fatalf("AIResult failed: %v", err)
	}
	if result == nil || result.Confidence != 0.92 || result.Label != "JAV" {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestCorrectionLifecycle(t *testing.T) {
	store := mustOpenStore(t)
	ctx := context.Background()

	err := store.SaveCorrection(ctx, cache.Correction{
		Name:     "Some Show 817",
		Original: "Movie",
		Correct:  "Shows",
		Reason:   "compact episode code",
	})
	if err != nil {
		t.Fatalf("SaveCorrection failed: %v", err)
	}

	unapplied, err := store.UnappliedCorrections(ctx)
	if err != nil {
		t.Fatalf("UnappliedCorrections failed: %v", err)
	}
	if len(unapplied) != 1 || unapplied[0].Name != "Some Show 817" {
		t.Fatalf("unexpected unapplied corrections: %#v", unapplied)
	}

	if err := store.MarkCorrectionApplied(ctx, "Some Show 817"); err != nil {
		t.Fatalf("MarkCorrectionApplied failed: %v", err)
	}
	// Second call is a no-op, not an error.
	if err := store.MarkCorrectionApplied(ctx, "Some Show 817"); err != nil {
		t.Fatalf("repeat MarkCorrectionApplied failed: %v", err)
	}

	unapplied, err = store.UnappliedCorrections(ctx)
	if err != nil {
		t.Fatalf("UnappliedCorrections failed: %v", err)
	}
	if len(unapplied) != 0 {
		t.Fatalf("expected no unapplied corrections, got %d", len(unapplied))
	}

	correction, err := store.Correction(ctx, "Some Show 817")
	if err != nil {
		t.Fatalf("Correction failed: %v", err)
	}
	if correction == nil || !correction.Applied {
		t.Fatalf("expected applied correction, got %#v", correction)
	}
}

func TestLearningPatternRoundTrip(t *testing.T) {
	store := mustOpenStore(t)
	ctx := context.Background()

	err := store.SaveLearningPattern(ctx, cache.LearningPattern{
		Name:       "XYZAB-123",
		Original:   "Movie",
		Correct:    "JAV",
		CodePrefix: "XYZAB",
		NameLength: 9,
		HasDigits:  true,
		HasLetters: true,
	})
	if err != nil {
		t.Fatalf("SaveLearningPattern failed: %v", err)
	}

	patterns, err := store.LearningPatterns(ctx)
	if err != nil {
		t.Fatalf("LearningPatterns failed: %v", err)
	}
	if len(patterns) != 1 {
		t.Fatalf("expected one pattern, got %d", len(patterns))
	}
	if patterns[0].ID == 0 || patterns[0].CodePrefix != "XYZAB" || !patterns[0].HasDigits {
		t.Fatalf("unexpected pattern: %#v", patterns[0])
	}
}

func TestTracking(t *testing.T) {
	store := mustOpenStore(t)
	ctx := context.Background()

	processed, err := store.IsProcessed(ctx, "/src/file.strm:12345")
	if err != nil {
		t.Fatalf("IsProcessed failed: %v", err)
	}
	if processed {
		t.Fatal("expected untracked key")
	}

	err = store.MarkProcessed(ctx, cache.TrackingEntry{
		Key:        "/src/file.strm:12345",
		SourcePath: "/src/file.strm",
	})
	if err != nil {
		t.Fatalf("MarkProcessed failed: %v", err)
	}

	processed, err = store.IsProcessed(ctx, "/src/file.strm:12345")
	if err != nil {
		t.Fatalf("IsProcessed failed: %v", err)
	}
	if !processed {
		t.Fatal("expected tracked key")
	}
}

func TestStatsAndCleanup(t *testing.T) {
	store := mustOpenStore(t)
	ctx := context.Background()

	old := time.Now().Add(-60 * 24 * time.Hour)
	if err := store.SaveEntry(ctx, cache.Entry{Name: "old", Classification: "Movie", CreatedAt: old}); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}
	if err := store.SaveEntry(ctx, cache.Entry{Name: "fresh", Classification: "Shows"}); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}
	if err := store.MarkProcessed(ctx, cache.TrackingEntry{Key: "k", SourcePath: "/s", ProcessedAt: old}); err != nil {
		t.Fatalf("MarkProcessed failed: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Classifications != 2 || stats.TrackedFiles != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
	if stats.ByCategory["Movie"] != 1 || stats.ByCategory["Shows"] != 1 {
		t.Fatalf("unexpected category counts: %#v", stats.ByCategory)
	}

	removed, err := store.Cleanup(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 rows removed, got %d", removed)
	}

	entry, err := store.Entry(ctx, "fresh")
	if err != nil || entry == nil {
		t.Fatalf("expected fresh entry to survive cleanup: %v %#v", err, entry)
	}
}

func TestOpenRejectsVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.OpenPath(filepath.Join(dir, "organizer.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	_ = store.Close()

	// Reopening the same database succeeds while versions agree.
	store, err = cache.OpenPath(filepath.Join(dir, "organizer.db"))
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	_ = store.Close()
}

func TestClassifierCacheAdapter(t *testing.T) {
	store := mustOpenStore(t)
	adapter := cache.NewClassifierCache(store)
	ctx := context.Background()

	_, ok, err := adapter.Classification(ctx, "name")
	if err != nil {
		t.Fatalf("Classification failed: %v", err)
	}
	if ok {
		t.Fatal("expected miss for unknown name")
	}

	if err := adapter.SaveClassification(ctx, "name", "/src/name", classification.CategoryShows); err != nil {
		t.Fatalf("SaveClassification failed: %v", err)
	}
	category, ok, err := adapter.Classification(ctx, "name")
	if err != nil {
		t.Fatalf("Classification failed: %v", err)
	}
	if !ok || category != classification.CategoryShows {
		t.Fatalf("unexpected classification: %v %v", category, ok)
	}

	verdict := classification.Verdict{Category: classification.CategoryJAV, Confidence: 0.88}
	if err := adapter.SaveAIVerdict(ctx, "name", verdict); err != nil {
		t.Fatalf("SaveAIVerdict failed: %v", err)
	}
	got, ok, err := adapter.AIVerdict(ctx, "name")
	if err != nil {
		t.Fatalf("AIVerdict failed: %v", err)
	}
	if !ok || got.Category != classification.CategoryJAV || got.Confidence != 0.88 {
		t.Fatalf("unexpected verdict: %#v", got)
	}
}
