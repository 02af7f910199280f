package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"linkstash/internal/model"
	"linkstash/internal/storage"
)

func TestSQLiteStorage_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "bookmarks.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	archivedAt := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	work := "f-work"
	store := &model.Store{
		Folders: []model.Folder{
			{ID: "f-inbox", Name: "Inbox", Kind: model.FolderSystem, OrderIndex: 0},
			{ID: work, Name: "Work", Kind: model.FolderCustom, Color: "#ff0000", ParentID: nil, Pinned: true, OrderIndex: 1},
			{ID: "f-proj", Name: "Projects", Kind: model.FolderCustom, ParentID: &work, OrderIndex: 2},
		},
		Tags: []model.Tag{
			{ID: "t1", Name: "#golang", Color: "#00ADD8", Pinned: true},
			{ID: "t2", Name: "#reading", Color: "#888888"},
		},
		Bookmarks: []model.Bookmark{
			{
				ID:       "b1",
				Title:    "Go Blog",
				URL:      "https://go.dev/blog",
				Domain:   "go.dev",
				FolderID: work,
				Tags: []model.TagRef{
					{Label: "#golang", Color: "#00ADD8"},
				},
				Favorite:  true,
				Read:      true,
				CreatedAt: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
			},
			{
				ID:         "b2",
				Title:      "Old news",
				URL:        "https://example.com/news",
				Domain:     "example.com",
				FolderID:   "f-inbox",
				Archived:   true,
				ArchivedAt: &archivedAt,
				CreatedAt:  time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
			},
		},
	}

	if err := s.Save(store); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if len(loaded.Folders) != 3 {
		t.Fatalf("expected 3 folders, got %d", len(loaded.Folders))
	}
	if len(loaded.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(loaded.Tags))
	}
	if len(loaded.Bookmarks) != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", len(loaded.Bookmarks))
	}

	folder := loaded.GetFolderByID(work)
	if folder == nil {
		t.Fatal("folder f-work not found after load")
	}
	if folder.Kind != model.FolderCustom || folder.Color != "#ff0000" || !folder.Pinned {
		t.Errorf("folder fields not preserved: %+v", folder)
	}
	child := loaded.GetFolderByID("f-proj")
	if child == nil || child.ParentID == nil || *child.ParentID != work {
		t.Errorf("child folder parent not preserved: %+v", child)
	}

	tag := loaded.GetTagByID("t1")
	if tag == nil || tag.Color != "#00ADD8" || !tag.Pinned {
		t.Errorf("tag fields not preserved: %+v", tag)
	}

	b1 := loaded.GetBookmarkByID("b1")
	if b1 == nil {
		t.Fatal("bookmark b1 not found after load")
	}
	if b1.Domain != "go.dev" || !b1.Favorite || !b1.Read {
		t.Errorf("bookmark fields not preserved: %+v", b1)
	}
	if len(b1.Tags) != 1 || b1.Tags[0].Label != "#golang" || b1.Tags[0].Color != "#00ADD8" {
		t.Errorf("bookmark tag refs not preserved: %+v", b1.Tags)
	}
	if !b1.CreatedAt.Equal(store.Bookmarks[0].CreatedAt) {
		t.Errorf("created_at not preserved: got %v", b1.CreatedAt)
	}

	b2 := loaded.GetBookmarkByID("b2")
	if b2 == nil {
		t.Fatal("bookmark b2 not found after load")
	}
	if !b2.Archived || b2.ArchivedAt == nil || !b2.ArchivedAt.Equal(archivedAt) {
		t.Errorf("archived state not preserved: %+v", b2)
	}
}

func TestSQLiteStorage_NullableFields(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nulls.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	store := &model.Store{
		Folders: []model.Folder{
			{ID: "f1", Name: "Root", Kind: model.FolderCustom, ParentID: nil},
		},
		Bookmarks: []model.Bookmark{
			{
				ID:        "b1",
				Title:     "Plain",
				URL:       "https://plain.example.com",
				Domain:    "plain.example.com",
				FolderID:  "f1",
				Tags:      nil,
				CreatedAt: time.Now().UTC(),
			},
		},
	}

	if err := s.Save(store); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if loaded.Folders[0].ParentID != nil {
		t.Error("expected nil parent_id")
	}
	if loaded.Bookmarks[0].ArchivedAt != nil {
		t.Error("expected nil archived_at")
	}
	if loaded.Bookmarks[0].Tags == nil {
		t.Error("expected tags to be empty slice, not nil")
	}
}

func TestSQLiteStorage_SaveReplacesPrevious(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "replace.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	first := model.NewStore()
	first.AddFolder(model.Folder{ID: "f1", Name: "First", Kind: model.FolderCustom})
	first.AddBookmark(model.Bookmark{ID: "b1", Title: "One", URL: "https://one.test", Domain: "one.test", FolderID: "f1", CreatedAt: time.Now().UTC()})
	if err := s.Save(first); err != nil {
		t.Fatalf("failed to save first snapshot: %v", err)
	}

	second := model.NewStore()
	second.AddFolder(model.Folder{ID: "f2", Name: "Second", Kind: model.FolderCustom})
	if err := s.Save(second); err != nil {
		t.Fatalf("failed to save second snapshot: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if len(loaded.Folders) != 1 || loaded.Folders[0].ID != "f2" {
		t.Errorf("expected only second snapshot folders, got %+v", loaded.Folders)
	}
	if len(loaded.Bookmarks) != 0 {
		t.Errorf("expected no bookmarks after replace, got %d", len(loaded.Bookmarks))
	}
}

func TestSQLiteStorage_EmptyDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "empty.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load empty database: %v", err)
	}
	if len(loaded.Folders) != 0 || len(loaded.Tags) != 0 || len(loaded.Bookmarks) != 0 {
		t.Errorf("expected empty store, got %+v", loaded)
	}
}

func TestSQLiteStorage_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "dir", "bookmarks.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage in nested dir: %v", err)
	}
	defer s.Close()

	if err := s.Save(model.NewStore()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
}
