package services_test

import (
	"errors"
	"strings"
	"testing"

	"organizer/internal/services"
)

func TestWrapTagsMarkerAndDetail(t *testing.T) {
	base := errors.New("connection refused")
	err := services.Wrap(services.ErrTransient, "tmdb", "search movie", "query failed", base)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{"tmdb", "search movie", "query failed", "connection refused"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error message %q missing %q", msg, want)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "debrid", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient fallback, got %v", err)
	}
}

func TestDegradable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{services.Wrap(services.ErrConfiguration, "ai", "classify", "no api key", nil), true},
		{services.Wrap(services.ErrNotFound, "tmdb", "search", "", nil), true},
		{services.Wrap(services.ErrUnavailable, "ai", "classify", "", nil), true},
		{errors.New("disk full"), false},
	}
	for _, tc := range cases {
		if got := services.Degradable(tc.err); got != tc.want {
			t.Fatalf("Degradable(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
