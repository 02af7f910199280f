package engine

import (
	"fmt"
	"net/url"
	"strings"

	"linkstash/internal/model"
)

// deriveDomain extracts the host from a raw URL, falling back to the
// sentinel when the URL does not parse or carries no host.
func deriveDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return model.UnknownDomain
	}
	return strings.ToLower(parsed.Hostname())
}

// CreateBookmarkParams holds parameters for CreateBookmark.
type CreateBookmarkParams struct {
	URL      string
	Title    string
	FolderID *string  // nil = Inbox
	Tags     []string // raw labels, normalized and de-duplicated
}

// CreateBookmarkResult reports the created record plus any tag labels that
// were dropped because tag auto-creation hit the plan cap. The bookmark is
// still created in that case; the drop is observable, not silent.
type CreateBookmarkResult struct {
	Bookmark    model.Bookmark
	DroppedTags []string
}

// CreateBookmark creates a bookmark. The domain is derived from the URL,
// the folder defaults to Inbox, and missing tags are auto-created through
// the tag registry.
func (e *Engine) CreateBookmark(params CreateBookmarkParams) (CreateBookmarkResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rawURL := strings.TrimSpace(params.URL)
	if rawURL == "" {
		return CreateBookmarkResult{}, newError(KindValidation, "bookmark URL is empty")
	}

	folderID := e.inbox().ID
	if params.FolderID != nil {
		if e.store.GetFolderByID(*params.FolderID) == nil {
			return CreateBookmarkResult{}, newError(KindNotFound, "folder %s not found", *params.FolderID)
		}
		folderID = *params.FolderID
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		title = rawURL
	}

	tags, dropped := e.resolveTagRefs(nil, params.Tags)

	bookmark := model.NewBookmark(model.NewBookmarkParams{
		Title:    title,
		URL:      rawURL,
		Domain:   deriveDomain(rawURL),
		FolderID: folderID,
		Tags:     tags,
	})
	bookmark.CreatedAt = e.now()
	e.store.AddBookmark(bookmark)

	return CreateBookmarkResult{Bookmark: bookmark, DroppedTags: dropped}, nil
}

// resolveTagRefs builds the denormalized tag list for a bookmark. Labels
// are normalized and de-duplicated case-insensitively. A label already in
// existing keeps its color; a new label takes the registry tag's color,
// auto-creating the tag when missing. Labels whose auto-creation hits the
// plan cap are dropped and returned.
func (e *Engine) resolveTagRefs(existing []model.TagRef, rawLabels []string) ([]model.TagRef, []string) {
	existingColors := make(map[string]string, len(existing))
	for _, ref := range existing {
		existingColors[strings.ToLower(ref.Label)] = ref.Color
	}

	seen := make(map[string]struct{}, len(rawLabels))
	tags := []model.TagRef{}
	var dropped []string

	for _, raw := range rawLabels {
		label := NormalizeLabel(raw)
		if label == "" {
			continue
		}
		key := strings.ToLower(label)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		if color, ok := existingColors[key]; ok {
			tags = append(tags, model.TagRef{Label: label, Color: color})
			continue
		}

		tag := e.tagByLabel(label)
		if tag == nil {
			created, err := e.createTag(label)
			if err != nil {
				if IsLimitReached(err) {
					dropped = append(dropped, label)
					continue
				}
				// Duplicate can't happen after the lookup above; an empty
				// label was filtered already. Skip anything unexpected.
				dropped = append(dropped, label)
				continue
			}
			tag = &created
		}
		tags = append(tags, model.TagRef{Label: label, Color: tag.Color})
	}

	return tags, dropped
}

// UpdateBookmarkParams holds a partial update. Nil fields are untouched.
type UpdateBookmarkParams struct {
	Title    *string
	URL      *string
	FolderID *string
	Tags     *[]string
}

// UpdateBookmark applies a partial update. A URL change re-derives the
// domain. A tag list diffs against the current one by normalized label:
// labels present in both keep their color, only new labels get a fresh one.
func (e *Engine) UpdateBookmark(id string, params UpdateBookmarkParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	bookmark := e.store.GetBookmarkByID(id)
	if bookmark == nil {
		return newError(KindNotFound, "bookmark %s not found", id)
	}

	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return newError(KindValidation, "bookmark title is empty")
		}
		bookmark.Title = title
	}

	if params.URL != nil {
		rawURL := strings.TrimSpace(*params.URL)
		if rawURL == "" {
			return newError(KindValidation, "bookmark URL is empty")
		}
		bookmark.URL = rawURL
		bookmark.Domain = deriveDomain(rawURL)
	}

	if params.FolderID != nil {
		if e.store.GetFolderByID(*params.FolderID) == nil {
			return newError(KindNotFound, "folder %s not found", *params.FolderID)
		}
		bookmark.FolderID = *params.FolderID
	}

	if params.Tags != nil {
		tags, _ := e.resolveTagRefs(bookmark.Tags, *params.Tags)
		bookmark.Tags = tags
	}

	return nil
}

// RemoveBookmark hard-deletes a single bookmark after the confirmation
// gate. This is irreversible; returns whether the delete was committed.
func (e *Engine) RemoveBookmark(id string) (bool, error) {
	e.mu.Lock()
	bookmark := e.store.GetBookmarkByID(id)
	if bookmark == nil {
		e.mu.Unlock()
		return false, newError(KindNotFound, "bookmark %s not found", id)
	}
	title := bookmark.Title
	e.mu.Unlock()

	if !e.confirmed(fmt.Sprintf("Permanently delete %q? This cannot be undone.", title), 1) {
		return false, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store.GetBookmarkByID(id) == nil {
		return false, newError(KindNotFound, "bookmark %s not found", id)
	}
	e.removeBookmarkByID(id)
	return true, nil
}

func (e *Engine) removeBookmarkByID(id string) {
	for i := range e.store.Bookmarks {
		if e.store.Bookmarks[i].ID == id {
			e.store.Bookmarks = append(e.store.Bookmarks[:i], e.store.Bookmarks[i+1:]...)
			return
		}
	}
}

// ToggleFavorite flips the favorite flag.
func (e *Engine) ToggleFavorite(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	bookmark := e.store.GetBookmarkByID(id)
	if bookmark == nil {
		return newError(KindNotFound, "bookmark %s not found", id)
	}
	bookmark.Favorite = !bookmark.Favorite
	return nil
}

// SetRead sets the read flag.
func (e *Engine) SetRead(id string, read bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	bookmark := e.store.GetBookmarkByID(id)
	if bookmark == nil {
		return newError(KindNotFound, "bookmark %s not found", id)
	}
	bookmark.Read = read
	return nil
}

// SetArchived sets the archived flag manually, recording the transition
// time so the sweep's purge rule can pick the record up later.
func (e *Engine) SetArchived(id string, archived bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	bookmark := e.store.GetBookmarkByID(id)
	if bookmark == nil {
		return newError(KindNotFound, "bookmark %s not found", id)
	}
	bookmark.Archived = archived
	if archived {
		at := e.now()
		bookmark.ArchivedAt = &at
	} else {
		bookmark.ArchivedAt = nil
	}
	return nil
}

// TrashMany sets trashed on every matched bookmark. Unmatched ids are
// skipped; the count of affected records is returned.
func (e *Engine) TrashMany(ids []string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.trashMany(ids)
}

func (e *Engine) trashMany(ids []string) int {
	affected := 0
	for _, id := range ids {
		if b := e.store.GetBookmarkByID(id); b != nil && !b.Trashed {
			b.Trashed = true
			affected++
		}
	}
	return affected
}

// MoveMany reassigns matched bookmarks to the given folder. The target
// folder must exist; moving into a missing folder is rejected rather than
// silently orphaning the records.
func (e *Engine) MoveMany(ids []string, folderID string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moveMany(ids, folderID)
}

func (e *Engine) moveMany(ids []string, folderID string) (int, error) {
	if e.store.GetFolderByID(folderID) == nil {
		return 0, newError(KindNotFound, "folder %s not found", folderID)
	}

	affected := 0
	for _, id := range ids {
		if b := e.store.GetBookmarkByID(id); b != nil {
			b.FolderID = folderID
			affected++
		}
	}
	return affected, nil
}

// StripLabels removes every matching tag entry from every bookmark.
func (e *Engine) StripLabels(labels []string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stripLabels(labels)
}

func (e *Engine) stripLabels(labels []string) int {
	drop := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		drop[strings.ToLower(NormalizeLabel(label))] = struct{}{}
	}

	affected := 0
	for i := range e.store.Bookmarks {
		b := &e.store.Bookmarks[i]
		kept := b.Tags[:0]
		changed := false
		for _, ref := range b.Tags {
			if _, ok := drop[strings.ToLower(ref.Label)]; ok {
				changed = true
				continue
			}
			kept = append(kept, ref)
		}
		if changed {
			b.Tags = kept
			affected++
		}
	}
	return affected
}

// SetReadMany sets the read flag on every matched bookmark.
func (e *Engine) SetReadMany(ids []string, read bool) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setReadMany(ids, read)
}

func (e *Engine) setReadMany(ids []string, read bool) int {
	affected := 0
	for _, id := range ids {
		if b := e.store.GetBookmarkByID(id); b != nil {
			b.Read = read
			affected++
		}
	}
	return affected
}

// ByFolder returns non-trashed bookmarks in a folder.
func (e *Engine) ByFolder(folderID string) []model.Bookmark {
	e.mu.Lock()
	defer e.mu.Unlock()

	var result []model.Bookmark
	for _, b := range e.store.Bookmarks {
		if b.FolderID == folderID && !b.Trashed {
			result = append(result, b)
		}
	}
	return result
}

// ByTagLabel returns non-trashed bookmarks carrying the given label.
func (e *Engine) ByTagLabel(label string) []model.Bookmark {
	e.mu.Lock()
	defer e.mu.Unlock()

	label = NormalizeLabel(label)
	var result []model.Bookmark
	for i := range e.store.Bookmarks {
		if !e.store.Bookmarks[i].Trashed && e.store.Bookmarks[i].HasTagLabel(label) {
			result = append(result, e.store.Bookmarks[i])
		}
	}
	return result
}

// CountInFolder counts non-trashed bookmarks in a folder.
func (e *Engine) CountInFolder(folderID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	for i := range e.store.Bookmarks {
		if e.store.Bookmarks[i].FolderID == folderID && !e.store.Bookmarks[i].Trashed {
			count++
		}
	}
	return count
}

// ActiveBookmarks returns the active library: neither trashed nor archived.
func (e *Engine) ActiveBookmarks() []model.Bookmark {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeBookmarks()
}

func (e *Engine) activeBookmarks() []model.Bookmark {
	var result []model.Bookmark
	for i := range e.store.Bookmarks {
		if e.store.Bookmarks[i].Active() {
			result = append(result, e.store.Bookmarks[i])
		}
	}
	return result
}

// ArchivedBookmarks returns archived-but-not-trashed records, the
// "Archives" view.
func (e *Engine) ArchivedBookmarks() []model.Bookmark {
	e.mu.Lock()
	defer e.mu.Unlock()

	var result []model.Bookmark
	for i := range e.store.Bookmarks {
		b := e.store.Bookmarks[i]
		if b.Archived && !b.Trashed {
			result = append(result, b)
		}
	}
	return result
}
