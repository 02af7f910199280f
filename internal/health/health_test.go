package health

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"linkstash/internal/model"
)

func testChecker() *Checker {
	return &Checker{Concurrency: 4, Timeout: 2 * time.Second}
}

func bookmarkFor(id, url string) model.Bookmark {
	return model.Bookmark{
		ID:        id,
		Title:     id,
		URL:       url,
		Domain:    model.UnknownDomain,
		FolderID:  "f-inbox",
		CreatedAt: time.Now(),
	}
}

func TestCheck_Healthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	results := testChecker().Check([]model.Bookmark{bookmarkFor("b1", srv.URL)}, nil)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Status != Healthy {
		t.Errorf("expected Healthy, got %v (code %d, err %q)", results[0].Status, results[0].StatusCode, results[0].Error)
	}
	if results[0].StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", results[0].StatusCode)
	}
}

func TestCheck_Dead(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	results := testChecker().Check([]model.Bookmark{bookmarkFor("b1", srv.URL)}, nil)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Status != Dead {
		t.Errorf("expected Dead for 404, got %v", results[0].Status)
	}
}

func TestCheck_ServerErrorIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	results := testChecker().Check([]model.Bookmark{bookmarkFor("b1", srv.URL)}, nil)

	if results[0].Status != Unreachable {
		t.Errorf("expected Unreachable for 500, got %v", results[0].Status)
	}
}

func TestCheck_ConnectionRefused(t *testing.T) {
	// Grab a port that nothing listens on.
	srv := httptest.NewServer(http.NotFoundHandler())
	deadURL := srv.URL
	srv.Close()

	results := testChecker().Check([]model.Bookmark{bookmarkFor("b1", deadURL)}, nil)

	if results[0].Status != Unreachable {
		t.Errorf("expected Unreachable, got %v", results[0].Status)
	}
	if results[0].Error == "" {
		t.Error("expected error message for unreachable URL")
	}
}

func TestCheck_SkipsTrashedAndArchived(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	active := bookmarkFor("b1", srv.URL)
	trashed := bookmarkFor("b2", srv.URL)
	trashed.Trashed = true
	archived := bookmarkFor("b3", srv.URL)
	archived.Archived = true

	results := testChecker().Check([]model.Bookmark{active, trashed, archived}, nil)

	if len(results) != 1 {
		t.Fatalf("expected only the active bookmark to be checked, got %d results", len(results))
	}
	if results[0].Bookmark.ID != "b1" {
		t.Errorf("expected b1, got %s", results[0].Bookmark.ID)
	}
}

func TestCheck_ExcludedDomain404(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := testChecker()
	c.ExcludeDomains = []string{srv.Listener.Addr().String()}

	results := c.Check([]model.Bookmark{bookmarkFor("b1", srv.URL)}, nil)

	if results[0].Status != Unreachable {
		t.Errorf("expected excluded 404 to be Unreachable, got %v", results[0].Status)
	}
	if results[0].Error != "Possibly private (auth required)" {
		t.Errorf("unexpected error message: %q", results[0].Error)
	}
}

func TestCheck_Progress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	bookmarks := []model.Bookmark{
		bookmarkFor("b1", srv.URL),
		bookmarkFor("b2", srv.URL),
		bookmarkFor("b3", srv.URL),
	}

	var mu sync.Mutex
	var calls []int
	testChecker().Check(bookmarks, func(completed, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, completed)
		if total != 3 {
			t.Errorf("expected total 3, got %d", total)
		}
	})

	if len(calls) != 3 {
		t.Fatalf("expected 3 progress calls, got %d", len(calls))
	}
	if calls[len(calls)-1] != 3 {
		t.Errorf("expected final completed count 3, got %d", calls[len(calls)-1])
	}
}

func TestIsExcludedDomain(t *testing.T) {
	excludeMap := map[string]bool{"github.com": true}

	tests := []struct {
		url  string
		want bool
	}{
		{"https://github.com/user/repo", true},
		{"https://api.github.com/repos", true},
		{"https://gitlab.com/user/repo", false},
		{"https://notgithub.com", false},
	}

	for _, tt := range tests {
		if got := isExcludedDomain(tt.url, excludeMap); got != tt.want {
			t.Errorf("isExcludedDomain(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dial tcp: lookup missing.example: no such host", "DNS failure"},
		{"context deadline exceeded", "Timeout"},
		{"dial tcp 127.0.0.1:1: connect: connection refused", "Connection refused"},
		{"x509: certificate signed by unknown authority", "TLS/certificate error"},
		{"something else entirely", "something else entirely"},
	}

	for _, tt := range tests {
		if got := normalizeError(tt.in); got != tt.want {
			t.Errorf("normalizeError(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
