package storage

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"linkstash/internal/model"
)

const currentSchemaVersion = 1

// SQLiteStorage implements Storage using a SQLite database.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StoreError{Op: "mkdir", Err: err}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}

	// Enable foreign keys and set pragmas for performance
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, &StoreError{Op: "pragma", Err: err}
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, &StoreError{Op: "migrate", Err: err}
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// migrate runs database migrations.
func (s *SQLiteStorage) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS folders (
			id TEXT PRIMARY KEY NOT NULL,
			name TEXT NOT NULL,
			kind TEXT NOT NULL DEFAULT 'custom',
			color TEXT NOT NULL DEFAULT '',
			parent_id TEXT,
			pinned INTEGER NOT NULL DEFAULT 0,
			order_index INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (parent_id) REFERENCES folders(id) ON DELETE SET NULL
		);

		CREATE INDEX IF NOT EXISTS idx_folders_parent_id ON folders(parent_id);

		CREATE TABLE IF NOT EXISTS tags (
			id TEXT PRIMARY KEY NOT NULL,
			name TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT '',
			pinned INTEGER NOT NULL DEFAULT 0
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_tags_name ON tags(name COLLATE NOCASE);

		CREATE TABLE IF NOT EXISTS bookmarks (
			id TEXT PRIMARY KEY NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			domain TEXT NOT NULL DEFAULT '',
			folder_id TEXT NOT NULL,
			tags TEXT NOT NULL DEFAULT '[]',
			favorite INTEGER NOT NULL DEFAULT 0,
			read INTEGER NOT NULL DEFAULT 0,
			trashed INTEGER NOT NULL DEFAULT 0,
			archived INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			archived_at TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_bookmarks_folder_id ON bookmarks(folder_id);
		CREATE INDEX IF NOT EXISTS idx_bookmarks_url ON bookmarks(url);
		CREATE INDEX IF NOT EXISTS idx_bookmarks_domain ON bookmarks(domain);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads the store from the SQLite database.
func (s *SQLiteStorage) Load() (*model.Store, error) {
	store := model.NewStore()

	// Load folders
	rows, err := s.db.Query(`
		SELECT id, name, kind, color, parent_id, pinned, order_index
		FROM folders
		ORDER BY order_index, name
	`)
	if err != nil {
		return nil, &StoreError{Op: "read", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var f model.Folder
		var kind string
		var parentID sql.NullString
		var pinned int

		if err := rows.Scan(&f.ID, &f.Name, &kind, &f.Color, &parentID, &pinned, &f.OrderIndex); err != nil {
			return nil, &StoreError{Op: "read", Err: err}
		}

		f.Kind = model.FolderKind(kind)
		if parentID.Valid {
			f.ParentID = &parentID.String
		}
		f.Pinned = pinned == 1

		store.Folders = append(store.Folders, f)
	}

	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "read", Err: err}
	}

	// Load tags
	rows, err = s.db.Query(`SELECT id, name, color, pinned FROM tags ORDER BY name`)
	if err != nil {
		return nil, &StoreError{Op: "read", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var t model.Tag
		var pinned int

		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &pinned); err != nil {
			return nil, &StoreError{Op: "read", Err: err}
		}
		t.Pinned = pinned == 1

		store.Tags = append(store.Tags, t)
	}

	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "read", Err: err}
	}

	// Load bookmarks
	rows, err = s.db.Query(`
		SELECT id, title, url, domain, folder_id, tags,
		       favorite, read, trashed, archived, created_at, archived_at
		FROM bookmarks
		ORDER BY created_at
	`)
	if err != nil {
		return nil, &StoreError{Op: "read", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var b model.Bookmark
		var tagsJSON string
		var favorite, read, trashed, archived int
		var createdAtStr string
		var archivedAtStr sql.NullString

		if err := rows.Scan(
			&b.ID, &b.Title, &b.URL, &b.Domain, &b.FolderID, &tagsJSON,
			&favorite, &read, &trashed, &archived, &createdAtStr, &archivedAtStr,
		); err != nil {
			return nil, &StoreError{Op: "read", Err: err}
		}

		if err := json.Unmarshal([]byte(tagsJSON), &b.Tags); err != nil {
			b.Tags = []model.TagRef{}
		}

		b.Favorite = favorite == 1
		b.Read = read == 1
		b.Trashed = trashed == 1
		b.Archived = archived == 1

		b.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)

		if archivedAtStr.Valid {
			t, err := time.Parse(time.RFC3339, archivedAtStr.String)
			if err == nil {
				b.ArchivedAt = &t
			}
		}

		store.Bookmarks = append(store.Bookmarks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "read", Err: err}
	}

	return store, nil
}

// Save writes the store to the SQLite database.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(store *model.Store) error {
	// Temporarily disable foreign key checks for bulk insert
	// (folders may reference parents that haven't been inserted yet)
	// Note: PRAGMA foreign_keys cannot be changed inside a transaction
	if _, err := s.db.Exec("PRAGMA foreign_keys = OFF"); err != nil {
		return &StoreError{Op: "write", Err: err}
	}

	tx, err := s.db.Begin()
	if err != nil {
		s.db.Exec("PRAGMA foreign_keys = ON")
		return &StoreError{Op: "write", Err: err}
	}
	defer tx.Rollback()

	// Clear existing data
	for _, table := range []string{"bookmarks", "tags", "folders"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return &StoreError{Op: "write", Err: err}
		}
	}

	// Insert folders
	folderStmt, err := tx.Prepare(`
		INSERT INTO folders (id, name, kind, color, parent_id, pinned, order_index)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return &StoreError{Op: "write", Err: err}
	}
	defer folderStmt.Close()

	for _, f := range store.Folders {
		if _, err := folderStmt.Exec(
			f.ID, f.Name, string(f.Kind), f.Color, f.ParentID, boolToInt(f.Pinned), f.OrderIndex,
		); err != nil {
			return &StoreError{Op: "write", Err: err}
		}
	}

	// Insert tags
	tagStmt, err := tx.Prepare(`INSERT INTO tags (id, name, color, pinned) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return &StoreError{Op: "write", Err: err}
	}
	defer tagStmt.Close()

	for _, t := range store.Tags {
		if _, err := tagStmt.Exec(t.ID, t.Name, t.Color, boolToInt(t.Pinned)); err != nil {
			return &StoreError{Op: "write", Err: err}
		}
	}

	// Insert bookmarks
	bookmarkStmt, err := tx.Prepare(`
		INSERT INTO bookmarks (id, title, url, domain, folder_id, tags,
			favorite, read, trashed, archived, created_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return &StoreError{Op: "write", Err: err}
	}
	defer bookmarkStmt.Close()

	for _, b := range store.Bookmarks {
		tagsJSON, _ := json.Marshal(b.Tags)
		if b.Tags == nil {
			tagsJSON = []byte("[]")
		}

		var archivedAt *string
		if b.ArchivedAt != nil {
			v := b.ArchivedAt.Format(time.RFC3339)
			archivedAt = &v
		}

		if _, err := bookmarkStmt.Exec(
			b.ID, b.Title, b.URL, b.Domain, b.FolderID, string(tagsJSON),
			boolToInt(b.Favorite), boolToInt(b.Read), boolToInt(b.Trashed), boolToInt(b.Archived),
			b.CreatedAt.Format(time.RFC3339), archivedAt,
		); err != nil {
			return &StoreError{Op: "write", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StoreError{Op: "write", Err: err}
	}

	// Re-enable foreign key checks
	_, _ = s.db.Exec("PRAGMA foreign_keys = ON")

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// DefaultSQLitePath returns the default SQLite database path:
// ~/.config/linkstash/bookmarks.db
func DefaultSQLitePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "linkstash", "bookmarks.db"), nil
}
