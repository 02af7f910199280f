package engine_test

import (
	"testing"

	"linkstash/internal/engine"
	"linkstash/internal/model"
)

func TestCreateBookmark_Defaults(t *testing.T) {
	e := newTestEngine()

	result, err := e.CreateBookmark(engine.CreateBookmarkParams{URL: "https://go.dev/blog"})
	if err != nil {
		t.Fatalf("failed to create bookmark: %v", err)
	}

	b := result.Bookmark
	if b.Domain != "go.dev" {
		t.Errorf("expected domain go.dev, got %q", b.Domain)
	}
	if b.Title != "https://go.dev/blog" {
		t.Errorf("expected URL as title fallback, got %q", b.Title)
	}
	if b.FolderID != e.Inbox().ID {
		t.Error("expected bookmark to default to Inbox")
	}
	if b.Trashed || b.Archived || b.Favorite || b.Read {
		t.Error("expected all lifecycle flags to start false")
	}
}

func TestCreateBookmark_DomainSentinel(t *testing.T) {
	e := newTestEngine()

	tests := []string{"not a url at all", "/relative/path", "::::"}
	for _, rawURL := range tests {
		result, err := e.CreateBookmark(engine.CreateBookmarkParams{URL: rawURL})
		if err != nil {
			t.Fatalf("CreateBookmark(%q) failed: %v", rawURL, err)
		}
		if result.Bookmark.Domain != model.UnknownDomain {
			t.Errorf("CreateBookmark(%q) domain = %q, want sentinel %q",
				rawURL, result.Bookmark.Domain, model.UnknownDomain)
		}
	}
}

func TestCreateBookmark_TagDeduplication(t *testing.T) {
	e := newTestEngine()

	folder, err := e.CreateFolder(engine.CreateFolderParams{Name: "Work"})
	if err != nil {
		t.Fatalf("failed to create folder: %v", err)
	}

	result, err := e.CreateBookmark(engine.CreateBookmarkParams{
		URL:      "https://react.dev",
		FolderID: stringPtr(folder.ID),
		Tags:     []string{"#react", "react"},
	})
	if err != nil {
		t.Fatalf("failed to create bookmark: %v", err)
	}

	if len(result.Bookmark.Tags) != 1 {
		t.Fatalf("expected exactly 1 tag after de-dup, got %v", result.Bookmark.Tags)
	}
	if result.Bookmark.Tags[0].Label != "#react" {
		t.Errorf("expected label #react, got %q", result.Bookmark.Tags[0].Label)
	}
}

func TestCreateBookmark_AutoCreatesTags(t *testing.T) {
	e := newTestEngine()

	_, err := e.CreateBookmark(engine.CreateBookmarkParams{
		URL:  "https://go.dev",
		Tags: []string{"go", "backend"},
	})
	if err != nil {
		t.Fatalf("failed to create bookmark: %v", err)
	}

	tags := e.Tags()
	if len(tags) != 2 {
		t.Fatalf("expected 2 auto-created tags, got %d", len(tags))
	}
}

func TestCreateBookmark_DroppedTagsAtCap(t *testing.T) {
	limits := engine.Limits{MaxTags: 1}
	e := engine.New(engine.Params{Limits: &limits})

	result, err := e.CreateBookmark(engine.CreateBookmarkParams{
		URL:  "https://go.dev",
		Tags: []string{"go", "backend"},
	})
	if err != nil {
		t.Fatalf("bookmark creation should survive the tag cap: %v", err)
	}

	if len(result.Bookmark.Tags) != 1 {
		t.Errorf("expected 1 attached tag, got %v", result.Bookmark.Tags)
	}
	if len(result.DroppedTags) != 1 || result.DroppedTags[0] != "#backend" {
		t.Errorf("expected #backend reported as dropped, got %v", result.DroppedTags)
	}
}

func TestUpdateBookmark_PreservesTagColors(t *testing.T) {
	e := newTestEngine()

	result, err := e.CreateBookmark(engine.CreateBookmarkParams{
		URL:  "https://react.dev",
		Tags: []string{"react", "frontend"},
	})
	if err != nil {
		t.Fatalf("failed to create bookmark: %v", err)
	}
	id := result.Bookmark.ID

	colorOf := func(label string) string {
		t.Helper()
		for _, b := range e.ActiveBookmarks() {
			if b.ID != id {
				continue
			}
			for _, ref := range b.Tags {
				if ref.Label == label {
					return ref.Color
				}
			}
		}
		t.Fatalf("label %q not found on bookmark", label)
		return ""
	}

	reactColor := colorOf("#react")

	// First edit: drop #frontend, add #hooks, keep #react
	tags := []string{"react", "hooks"}
	if err := e.UpdateBookmark(id, engine.UpdateBookmarkParams{Tags: &tags}); err != nil {
		t.Fatalf("failed to update: %v", err)
	}
	if colorOf("#react") != reactColor {
		t.Error("color of kept label changed on first edit")
	}
	hooksColor := colorOf("#hooks")

	// Second edit with overlapping labels: colors stay stable
	tags = []string{"hooks", "react", "state"}
	if err := e.UpdateBookmark(id, engine.UpdateBookmarkParams{Tags: &tags}); err != nil {
		t.Fatalf("failed to update: %v", err)
	}
	if colorOf("#react") != reactColor {
		t.Error("color of #react changed on second edit")
	}
	if colorOf("#hooks") != hooksColor {
		t.Error("color of #hooks changed on second edit")
	}
}

func TestUpdateBookmark_URLRederivesDomain(t *testing.T) {
	e := newTestEngine()

	result, _ := e.CreateBookmark(engine.CreateBookmarkParams{URL: "https://go.dev"})
	newURL := "https://pkg.go.dev/net/http"
	if err := e.UpdateBookmark(result.Bookmark.ID, engine.UpdateBookmarkParams{URL: &newURL}); err != nil {
		t.Fatalf("failed to update: %v", err)
	}

	updated := e.ActiveBookmarks()[0]
	if updated.Domain != "pkg.go.dev" {
		t.Errorf("expected re-derived domain pkg.go.dev, got %q", updated.Domain)
	}
}

func TestUpdateBookmark_NotFound(t *testing.T) {
	e := newTestEngine()
	title := "New"
	err := e.UpdateBookmark("missing", engine.UpdateBookmarkParams{Title: &title})
	if !engine.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestRemoveBookmark_ConfirmationGate(t *testing.T) {
	decline := engine.ConfirmerFunc(func(string, int) bool { return false })
	e := engine.New(engine.Params{Confirmer: decline})

	result, _ := e.CreateBookmark(engine.CreateBookmarkParams{URL: "https://example.com"})

	committed, err := e.RemoveBookmark(result.Bookmark.ID)
	if err != nil {
		t.Fatalf("declined remove should not error: %v", err)
	}
	if committed {
		t.Error("remove should not commit on decline")
	}
	if len(e.ActiveBookmarks()) != 1 {
		t.Error("bookmark should survive a declined remove")
	}

	approve := engine.ConfirmerFunc(func(string, int) bool { return true })
	e2 := engine.New(engine.Params{Store: e.Store(), Confirmer: approve})
	committed, err = e2.RemoveBookmark(result.Bookmark.ID)
	if err != nil || !committed {
		t.Fatalf("expected committed remove, got committed=%v err=%v", committed, err)
	}
	if len(e2.ActiveBookmarks()) != 0 {
		t.Error("bookmark should be gone after confirmed remove")
	}
}

func TestMoveMany_ValidatesFolder(t *testing.T) {
	e := newTestEngine()

	result, _ := e.CreateBookmark(engine.CreateBookmarkParams{URL: "https://example.com"})

	_, err := e.MoveMany([]string{result.Bookmark.ID}, "no-such-folder")
	if !engine.IsNotFound(err) {
		t.Errorf("expected not-found error for missing target folder, got %v", err)
	}

	folder, _ := e.CreateFolder(engine.CreateFolderParams{Name: "Work"})
	moved, err := e.MoveMany([]string{result.Bookmark.ID, "missing-id"}, folder.ID)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if moved != 1 {
		t.Errorf("expected 1 moved (missing id skipped), got %d", moved)
	}
}

func TestTrashMany_SkipsUnmatched(t *testing.T) {
	e := newTestEngine()

	b1, _ := e.CreateBookmark(engine.CreateBookmarkParams{URL: "https://one.example"})
	b2, _ := e.CreateBookmark(engine.CreateBookmarkParams{URL: "https://two.example"})

	affected := e.TrashMany([]string{b1.Bookmark.ID, "ghost", b2.Bookmark.ID})
	if affected != 2 {
		t.Errorf("expected 2 trashed, got %d", affected)
	}
	if len(e.ActiveBookmarks()) != 0 {
		t.Error("trashed bookmarks should leave the active library")
	}

	// Trashing again is a no-op
	if again := e.TrashMany([]string{b1.Bookmark.ID}); again != 0 {
		t.Errorf("expected 0 on re-trash, got %d", again)
	}
}

func TestQueryPrimitives_ExcludeTrashed(t *testing.T) {
	e := newTestEngine()

	folder, _ := e.CreateFolder(engine.CreateFolderParams{Name: "Work"})
	b1, _ := e.CreateBookmark(engine.CreateBookmarkParams{
		URL: "https://one.example", FolderID: stringPtr(folder.ID), Tags: []string{"go"},
	})
	_, _ = e.CreateBookmark(engine.CreateBookmarkParams{
		URL: "https://two.example", FolderID: stringPtr(folder.ID), Tags: []string{"go"},
	})

	e.TrashMany([]string{b1.Bookmark.ID})

	if got := e.CountInFolder(folder.ID); got != 1 {
		t.Errorf("CountInFolder = %d, want 1", got)
	}
	if got := len(e.ByFolder(folder.ID)); got != 1 {
		t.Errorf("ByFolder returned %d, want 1", got)
	}
	if got := len(e.ByTagLabel("go")); got != 1 {
		t.Errorf("ByTagLabel returned %d, want 1", got)
	}
}
