package model

// Store is the local snapshot: three independent named collections,
// serialized verbatim with no schema version tag.
type Store struct {
	Folders   []Folder   `json:"folders"`
	Tags      []Tag      `json:"tags"`
	Bookmarks []Bookmark `json:"bookmarks"`
}

// NewStore creates an empty Store with initialized slices.
func NewStore() *Store {
	return &Store{
		Folders:   []Folder{},
		Tags:      []Tag{},
		Bookmarks: []Bookmark{},
	}
}

// AddFolder appends a folder to the store.
func (s *Store) AddFolder(f Folder) {
	s.Folders = append(s.Folders, f)
}

// AddTag appends a tag to the store.
func (s *Store) AddTag(t Tag) {
	s.Tags = append(s.Tags, t)
}

// AddBookmark appends a bookmark to the store.
func (s *Store) AddBookmark(b Bookmark) {
	s.Bookmarks = append(s.Bookmarks, b)
}

// GetFoldersInFolder returns folders with the given parent ID.
// Pass nil for root level folders.
func (s *Store) GetFoldersInFolder(parentID *string) []Folder {
	var result []Folder
	for _, f := range s.Folders {
		if ptrEqual(f.ParentID, parentID) {
			result = append(result, f)
		}
	}
	return result
}

// GetBookmarksInFolder returns non-trashed bookmarks in the given folder.
func (s *Store) GetBookmarksInFolder(folderID string) []Bookmark {
	var result []Bookmark
	for _, b := range s.Bookmarks {
		if b.FolderID == folderID && !b.Trashed {
			result = append(result, b)
		}
	}
	return result
}

// GetFolderByID finds a folder by ID, returns nil if not found.
func (s *Store) GetFolderByID(id string) *Folder {
	for i := range s.Folders {
		if s.Folders[i].ID == id {
			return &s.Folders[i]
		}
	}
	return nil
}

// GetTagByID finds a tag by ID, returns nil if not found.
func (s *Store) GetTagByID(id string) *Tag {
	for i := range s.Tags {
		if s.Tags[i].ID == id {
			return &s.Tags[i]
		}
	}
	return nil
}

// GetBookmarkByID finds a bookmark by ID, returns nil if not found.
func (s *Store) GetBookmarkByID(id string) *Bookmark {
	for i := range s.Bookmarks {
		if s.Bookmarks[i].ID == id {
			return &s.Bookmarks[i]
		}
	}
	return nil
}

// HasBookmarkURL reports whether any bookmark already stores the given URL.
// Used to skip duplicates on import.
func (s *Store) HasBookmarkURL(url string) bool {
	for i := range s.Bookmarks {
		if s.Bookmarks[i].URL == url {
			return true
		}
	}
	return false
}

// ptrEqual compares two string pointers for equality.
func ptrEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
