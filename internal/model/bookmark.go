package model

import (
	"strings"
	"time"
)

// UnknownDomain is the sentinel domain for URLs that fail to parse.
const UnknownDomain = "unknown"

// TagRef is a denormalized tag entry carried on a bookmark. The color is
// assigned once when the label is first attached and preserved across edits.
type TagRef struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Bookmark represents a saved URL with metadata and lifecycle flags.
// Trashed and Archived are independent: trashed records are hidden from
// every view, archived-but-not-trashed records only from the active library.
type Bookmark struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	Domain     string     `json:"domain"`
	FolderID   string     `json:"folderId"`
	Tags       []TagRef   `json:"tags"`
	Favorite   bool       `json:"favorite"`
	Read       bool       `json:"read"`
	Trashed    bool       `json:"trashed"`
	Archived   bool       `json:"archived"`
	CreatedAt  time.Time  `json:"createdAt"`
	ArchivedAt *time.Time `json:"archivedAt"` // nil until archived
}

// Active reports whether the bookmark belongs to the active library.
func (b *Bookmark) Active() bool {
	return !b.Trashed && !b.Archived
}

// HasTagLabel reports whether the bookmark carries a tag with the given
// label, compared case-insensitively.
func (b *Bookmark) HasTagLabel(label string) bool {
	for _, t := range b.Tags {
		if strings.EqualFold(t.Label, label) {
			return true
		}
	}
	return false
}

// NewBookmarkParams holds parameters for creating a new Bookmark.
type NewBookmarkParams struct {
	Title    string
	URL      string
	Domain   string
	FolderID string
	Tags     []TagRef
}

// NewBookmark creates a Bookmark with a generated UUID and timestamp.
func NewBookmark(params NewBookmarkParams) Bookmark {
	tags := params.Tags
	if tags == nil {
		tags = []TagRef{}
	}

	return Bookmark{
		ID:        GenerateUUID(),
		Title:     params.Title,
		URL:       params.URL,
		Domain:    params.Domain,
		FolderID:  params.FolderID,
		Tags:      tags,
		CreatedAt: time.Now(),
	}
}
