package debrid

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"organizer/internal/services"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New("test-token", server.URL, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New("", "https://example.com"); err == nil {
		t.Fatal("expected error for empty api key")
	}
	if _, err := New("token", ""); err == nil {
		t.Fatal("expected error for empty base url")
	}
}

func TestUserSendsBearerToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/user" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(User{ID: 7, Username: "alice", Type: "premium"})
	}))

	user, err := client.User(t.Context())
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q", user.Username)
	}
}

func TestTorrentsPagesUntilShortPage(t *testing.T) {
	var pages []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		count := torrentsPageLimit
		if page == "2" {
			count = 3
		}
		batch := make([]Torrent, count)
		for i := range batch {
			batch[i] = Torrent{ID: fmt.Sprintf("p%s-%d", page, i), Status: "downloaded"}
		}
		json.NewEncoder(w).Encode(batch)
	}))

	torrents, err := client.Torrents(t.Context())
	if err != nil {
		t.Fatalf("Torrents: %v", err)
	}
	if len(torrents) != torrentsPageLimit+3 {
		t.Fatalf("got %d torrents, want %d", len(torrents), torrentsPageLimit+3)
	}
	if len(pages) != 2 || pages[0] != "1" || pages[1] != "2" {
		t.Errorf("pages requested = %v", pages)
	}
}

func TestDownloadsStopsOnNoContent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			batch := make([]Download, torrentsPageLimit)
			for i := range batch {
				batch[i] = Download{ID: fmt.Sprintf("d%d", i), Link: fmt.Sprintf("https://host/%d", i)}
			}
			json.NewEncoder(w).Encode(batch)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	downloads, err := client.Downloads(t.Context())
	if err != nil {
		t.Fatalf("Downloads: %v", err)
	}
	if len(downloads) != torrentsPageLimit {
		t.Fatalf("got %d downloads, want %d", len(downloads), torrentsPageLimit)
	}
}

func TestUnrestrictPostsLinkForm(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/unrestrict/link" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if got := r.PostFormValue("link"); got != "https://host/abc" {
			t.Errorf("link = %q", got)
		}
		json.NewEncoder(w).Encode(UnrestrictedLink{
			Filename: "Show.S01E01.mkv",
			Download: "https://direct/d/Show.S01E01.mkv",
		})
	}))

	link, err := client.Unrestrict(t.Context(), "https://host/abc")
	if err != nil {
		t.Fatalf("Unrestrict: %v", err)
	}
	if link.Download != "https://direct/d/Show.S01E01.mkv" {
		t.Errorf("download = %q", link.Download)
	}
}

func TestSelectFilesAcceptsNoContent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/torrents/selectFiles/abc123" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if got := r.PostFormValue("files"); got != "all" {
			t.Errorf("files = %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.SelectFiles(t.Context(), "abc123", "all"); err != nil {
		t.Fatalf("SelectFiles: %v", err)
	}
}

func TestWaitForTorrentReturnsWhenDownloaded(t *testing.T) {
	var polls int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		polls++
		status := "downloading"
		if polls >= 3 {
			status = "downloaded"
		}
		json.NewEncoder(w).Encode(TorrentInfo{ID: "abc123", Status: status, Links: []string{"https://host/1"}})
	}), WithPollInterval(time.Millisecond))

	info, err := client.WaitForTorrent(t.Context(), "abc123", time.Second)
	if err != nil {
		t.Fatalf("WaitForTorrent: %v", err)
	}
	if info.Status != "downloaded" {
		t.Errorf("status = %q", info.Status)
	}
	if polls < 3 {
		t.Errorf("polls = %d, want at least 3", polls)
	}
}

func TestWaitForTorrentFailsFastOnErrorStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(TorrentInfo{ID: "abc123", Status: "magnet_error"})
	}), WithPollInterval(time.Millisecond))

	_, err := client.WaitForTorrent(t.Context(), "abc123", time.Second)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestWaitForTorrentTimesOut(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(TorrentInfo{ID: "abc123", Status: "downloading"})
	}), WithPollInterval(time.Millisecond))

	_, err := client.WaitForTorrent(t.Context(), "abc123", 20*time.Millisecond)
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("err = %v, want timeout error", err)
	}
}

func TestUnauthorizedMapsToConfigurationError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.User(t.Context())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
}

func TestServerErrorMapsToTransient(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusBadGateway)
	}))

	_, err := client.Torrents(t.Context())
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("err = %v, want transient error", err)
	}
}
