package corrections_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"organizer/internal/cache"
	"organizer/internal/corrections"
	"organizer/internal/services"
	"organizer/internal/services/tmdb"
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

type recordingLearner struct {
	calls []string
}

func (l *recordingLearner) Learn(name, original, correct string) {
	l.calls = append(l.calls, name+":"+original+"->"+correct)
}

type fakeSearcher struct {
	movie *tmdb.Result
	show  *tmdb.Result
}

func (f *fakeSearcher) SearchMovie(context.Context, string, int) (*tmdb.Response, error) {
	return &tmdb.Response{}, nil
}

func (f *fakeSearcher) SearchTV(context.Context, string, int) (*tmdb.Response, error) {
	return &tmdb.Response{}, nil
}

func (f *fakeSearcher) MovieByID(context.Context, int64) (*tmdb.Result, error) { return f.movie, nil }
func (f *fakeSearcher) TVByID(context.Context, int64) (*tmdb.Result, error)   { return f.show, nil }

func TestRecordStoresCorrectionPatternAndForwards(t *testing.T) {
	store := mustOpenStore(t)
	learner := &recordingLearner{}
	manager := corrections.New(store, corrections.WithLearner(learner))

	if err := manager.Record(t.Context(), "TYOD-190 Uncensored", "Movie", "JAV", "code prefix missed", 0); err != nil {
		t.Fatalf("Record: %v", err)
	}

	pending, err := manager.Unapplied(t.Context())
	if err != nil {
		t.Fatalf("Unapplied: %v", err)
	}
	if len(pending) != 1 || pending[0].Correct != "JAV" {
		t.Fatalf("pending = %+v", pending)
	}

	patterns, err := store.LearningPatterns(t.Context())
	if err != nil {
		t.Fatalf("LearningPatterns: %v", err)
	}
	if len(patterns) != 1 {
		t.Fatalf("got %d patterns", len(patterns))
	}
	if patterns[0].CodePrefix != "TYOD" {
		t.Errorf("code prefix = %q", patterns[0].CodePrefix)
	}
	if !patterns[0].HasDigits || !patterns[0].HasLetters || !patterns[0].HasSpecial {
		t.Errorf("feature flags = %+v", patterns[0])
	}

	if len(learner.calls) != 1 || learner.calls[0] != "TYOD-190 Uncensored:Movie->JAV" {
		t.Errorf("learner calls = %v", learner.calls)
	}
}

func TestApplyAllFlipsPendingOnce(t *testing.T) {
	store := mustOpenStore(t)
	manager := corrections.New(store)

	for _, name := range []string{"first", "second"} {
		if err := manager.Record(t.Context(), name, "Movie", "Shows", "", 0); err != nil {
			t.Fatalf("Record %s: %v", name, err)
		}
	}

	applied, err := manager.ApplyAll(t.Context())
	if err != nil {
		t.Fatalf("ApplyAll: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}

	applied, err = manager.ApplyAll(t.Context())
	if err != nil {
		t.Fatalf("ApplyAll again: %v", err)
	}
	if applied != 0 {
		t.Errorf("second pass applied = %d, want 0", applied)
	}
}

func TestMatchesWidensByCodePrefixAndShape(t *testing.T) {
	store := mustOpenStore(t)
	manager := corrections.New(store)

	if err := manager.Record(t.Context(), "ABCD-123 Some Release", "Movie", "JAV", "", 0); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if !manager.Matches(t.Context(), "ABCD-456 Another Release") {
		t.Error("expected match on shared code prefix")
	}
	if !manager.Matches(t.Context(), "Random Movie 2024") {
		t.Error("expected match on shared digit and letter shape")
	}
	if manager.Matches(t.Context(), "Plain Title Without Numbers") {
		t.Error("expected no match when digit shape differs")
	}
}

func TestMatchesEmptyStore(t *testing.T) {
	manager := corrections.New(mustOpenStore(t))
	if manager.Matches(t.Context(), "anything") {
		t.Error("expected no match with no learned patterns")
	}
}

func TestApplyMetadataRenamesMovieFolder(t *testing.T) {
	store := mustOpenStore(t)
	library := t.TempDir()
	oldDest := filepath.Join(library, "Movie", "Wrong Title (2020) {tmdb-1}")
	if err := os.MkdirAll(oldDest, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(oldDest, "Wrong Title (2020).strm"), []byte("https://host/d/x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := store.SaveEntry(t.Context(), cache.Entry{
		Name:           "wrong.title.2020.1080p",
		Classification: "Movie",
		SourcePath:     "/src/wrong.title.2020.1080p",
		DestPath:       oldDest,
	}); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}

	searcher := &fakeSearcher{movie: &tmdb.Result{ID: 27205, Title: "Inception", ReleaseDate: "2010-07-16"}}
	manager := corrections.New(store, corrections.WithSearcher(searcher))

	if err := manager.ApplyMetadata(t.Context(), "wrong.title.2020.1080p", 27205, "misidentified"); err != nil {
		t.Fatalf("ApplyMetadata: %v", err)
	}

	newDest := filepath.Join(library, "Movie", "Inception (2010) {tmdb-27205}")
	if _, err := os.Stat(newDest); err != nil {
		t.Fatalf("renamed folder missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(newDest, "Inception (2010).strm")); err != nil {
		t.Fatalf("renamed reference missing: %v", err)
	}
	if _, err := os.Stat(oldDest); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("old folder still present: %v", err)
	}

	entry, err := store.Entry(t.Context(), "wrong.title.2020.1080p")
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	if entry.DestPath != newDest {
		t.Errorf("dest path = %q, want %q", entry.DestPath, newDest)
	}
}

func TestApplyMetadataShowKeepsEpisodeMarkers(t *testing.T) {
	store := mustOpenStore(t)
	library := t.TempDir()
	oldDest := filepath.Join(library, "Shows", "Wrong Show {tmdb-2}")
	if err := os.MkdirAll(oldDest, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	for _, name := range []string{"Wrong Show S02E03.strm", "Wrong Show Special.strm"} {
		if err := os.WriteFile(filepath.Join(oldDest, name), []byte("link"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	if err := store.SaveEntry(t.Context(), cache.Entry{
		Name:           "wrong.show.s02",
		Classification: "Shows",
		SourcePath:     "/src/wrong.show.s02",
		DestPath:       oldDest,
	}); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}

	searcher := &fakeSearcher{show: &tmdb.Result{ID: 1396, Name: "Breaking Bad", FirstAirDate: "2008-01-20"}}
	manager := corrections.New(store, corrections.WithSearcher(searcher))

	if err := manager.ApplyMetadata(t.Context(), "wrong.show.s02", 1396, ""); err != nil {
		t.Fatalf("ApplyMetadata: %v", err)
	}

	newDest := filepath.Join(library, "Shows", "Breaking Bad (2008) {tmdb-1396}")
	for _, want := range []string{"Breaking Bad S02E03.strm", "Breaking Bad S01E01.strm"} {
		if _, err := os.Stat(filepath.Join(newDest, want)); err != nil {
			t.Errorf("missing %s: %v", want, err)
		}
	}
}

func TestApplyMetadataMissingFolderStillRecords(t *testing.T) {
	store := mustOpenStore(t)
	gone := filepath.Join(t.TempDir(), "vanished")
	if err := store.SaveEntry(t.Context(), cache.Entry{
		Name:           "vanished.movie",
		Classification: "Movie",
		SourcePath:     "/src/vanished.movie",
		DestPath:       gone,
	}); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}

	searcher := &fakeSearcher{movie: &tmdb.Result{ID: 5, Title: "Right Title", ReleaseDate: "2019-01-01"}}
	manager := corrections.New(store, corrections.WithSearcher(searcher))

	if err := manager.ApplyMetadata(t.Context(), "vanished.movie", 5, "folder gone"); err != nil {
		t.Fatalf("ApplyMetadata: %v", err)
	}

	pending, err := manager.Unapplied(t.Context())
	if err != nil {
		t.Fatalf("Unapplied: %v", err)
	}
	if len(pending) != 1 || pending[0].TMDBID != 5 {
		t.Fatalf("pending = %+v", pending)
	}
}

func TestApplyMetadataRejectsNonLibraryCategories(t *testing.T) {
	store := mustOpenStore(t)
	if err := store.SaveEntry(t.Context(), cache.Entry{
		Name:           "SONE-123",
		Classification: "JAV",
		SourcePath:     "/src/SONE-123",
		DestPath:       "/library/JAV/SONE-123",
	}); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}
	manager := corrections.New(store, corrections.WithSearcher(&fakeSearcher{}))

	err := manager.ApplyMetadata(t.Context(), "SONE-123", 9, "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	source := corrections.New(mustOpenStore(t))
	if err := source.Record(t.Context(), "Some.Show.S01", "Movie", "Shows", "episode markers", 0); err != nil {
		t.Fatalf("Record: %v", err)
	}

	var buf bytes.Buffer
	exported, err := source.Export(t.Context(), &buf)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if exported != 1 {
		t.Fatalf("exported = %d", exported)
	}
	if !strings.Contains(buf.String(), `"folder_name": "Some.Show.S01"`) {
		t.Errorf("export payload = %s", buf.String())
	}

	target := corrections.New(mustOpenStore(t))
	imported, err := target.Import(t.Context(), &buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if imported != 1 {
		t.Fatalf("imported = %d", imported)
	}
	pending, err := target.Unapplied(t.Context())
	if err != nil {
		t.Fatalf("Unapplied: %v", err)
	}
	if len(pending) != 1 || pending[0].Correct != "Shows" {
		t.Fatalf("pending = %+v", pending)
	}
}

func TestImportSkipsIncompleteRecords(t *testing.T) {
	manager := corrections.New(mustOpenStore(t))
	payload := `[{"folder_name":"","correct":"Shows"},{"folder_name":"ok.name","correct":"JAV"}]`
	imported, err := manager.Import(t.Context(), strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if imported != 1 {
		t.Fatalf("imported = %d, want 1", imported)
	}
}
