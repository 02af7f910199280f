package engine

import "fmt"

// Selection management. The selection set is ephemeral: it is never
// persisted and is cleared after every committed bulk action.

// Select adds a bookmark id to the selection.
func (e *Engine) Select(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection[id] = struct{}{}
}

// Deselect removes a bookmark id from the selection.
func (e *Engine) Deselect(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.selection, id)
}

// SelectAll replaces the selection with the given ids. The caller binds
// this to the current filtered result, not the whole library.
func (e *Engine) SelectAll(ids []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		e.selection[id] = struct{}{}
	}
}

// ClearSelection empties the selection set.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection = make(map[string]struct{})
}

// Selection returns the selected ids.
func (e *Engine) Selection() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, 0, len(e.selection))
	for id := range e.selection {
		ids = append(ids, id)
	}
	return ids
}

// Scope is the resolved target of a bulk operation: the explicit selection
// when one exists, otherwise the current filtered result.
type Scope struct {
	IDs   []string
	Label string // "selected" or "filtered"
}

// resolveScope picks the selection if non-empty, else the filtered ids.
// Destructive callers must surface the label and size before committing:
// the empty-selection fallback deliberately targets everything visible.
func (e *Engine) resolveScope(filtered []string) Scope {
	if len(e.selection) > 0 {
		ids := make([]string, 0, len(e.selection))
		for id := range e.selection {
			ids = append(ids, id)
		}
		return Scope{IDs: ids, Label: "selected"}
	}
	return Scope{IDs: filtered, Label: "filtered"}
}

// BulkResult reports a bulk operation's outcome. Committed is false when
// the confirmation gate declined; state is then unchanged.
type BulkResult struct {
	Affected  int
	Committed bool
}

// MarkRead marks the resolved scope read. Non-destructive, commits
// immediately without confirmation.
func (e *Engine) MarkRead(filtered []string) BulkResult {
	return e.setReadScope(filtered, true)
}

// MarkUnread marks the resolved scope unread.
func (e *Engine) MarkUnread(filtered []string) BulkResult {
	return e.setReadScope(filtered, false)
}

func (e *Engine) setReadScope(filtered []string, read bool) BulkResult {
	e.mu.Lock()
	scope := e.resolveScope(filtered)
	affected := e.setReadMany(scope.IDs, read)
	e.selection = make(map[string]struct{})
	e.mu.Unlock()

	word := "read"
	if !read {
		word = "unread"
	}
	e.notifyf(NotifySuccess, affected, fmt.Sprintf("Marked %d bookmarks %s", affected, word))
	return BulkResult{Affected: affected, Committed: true}
}

// MoveTo moves the resolved scope into a folder. Unmatched ids are
// skipped; a missing target folder fails the whole operation.
func (e *Engine) MoveTo(filtered []string, folderID string) (BulkResult, error) {
	e.mu.Lock()
	scope := e.resolveScope(filtered)
	affected, err := e.moveMany(scope.IDs, folderID)
	if err != nil {
		e.mu.Unlock()
		return BulkResult{}, err
	}
	e.selection = make(map[string]struct{})
	e.mu.Unlock()

	e.notifyf(NotifySuccess, affected, fmt.Sprintf("Moved %d bookmarks", affected))
	return BulkResult{Affected: affected, Committed: true}, nil
}

// DeleteRead trashes the read bookmarks in the resolved scope, gated by
// confirmation.
func (e *Engine) DeleteRead(filtered []string) BulkResult {
	return e.trashScope(filtered, func(read bool) bool { return read })
}

// DeleteUnread trashes the unread bookmarks in the resolved scope.
func (e *Engine) DeleteUnread(filtered []string) BulkResult {
	return e.trashScope(filtered, func(read bool) bool { return !read })
}

// DeleteAll trashes the entire resolved scope. With an empty selection
// this targets every currently visible item; the confirmation message
// states the resolved scope's label and size for exactly that reason.
func (e *Engine) DeleteAll(filtered []string) BulkResult {
	return e.trashScope(filtered, nil)
}

// trashScope trashes the scope members passing keep (nil = all), after
// confirmation. Declining leaves all state, including the selection,
// unchanged.
func (e *Engine) trashScope(filtered []string, keep func(read bool) bool) BulkResult {
	e.mu.Lock()
	scope := e.resolveScope(filtered)

	targets := make([]string, 0, len(scope.IDs))
	for _, id := range scope.IDs {
		b := e.store.GetBookmarkByID(id)
		if b == nil {
			continue
		}
		if keep != nil && !keep(b.Read) {
			continue
		}
		targets = append(targets, id)
	}
	e.mu.Unlock()

	// Prompt with the lock released; trashMany re-checks every id on
	// commit, so targets that vanished while the prompt was open are
	// simply skipped.
	message := fmt.Sprintf("Move %d %s bookmarks to trash?", len(targets), scope.Label)
	if !e.confirmed(message, len(targets)) {
		return BulkResult{}
	}

	e.mu.Lock()
	affected := e.trashMany(targets)
	e.selection = make(map[string]struct{})
	e.mu.Unlock()

	e.notifyf(NotifySuccess, affected, fmt.Sprintf("Moved %d bookmarks to trash", affected))
	return BulkResult{Affected: affected, Committed: true}
}

// DeleteTagsCascade removes tags from the registry and strips their labels
// from every bookmark, gated by confirmation. Returns the removed labels.
func (e *Engine) DeleteTagsCascade(ids []string) ([]string, bool) {
	e.mu.Lock()

	count := 0
	for _, id := range ids {
		if e.store.GetTagByID(id) != nil {
			count++
		}
	}
	e.mu.Unlock()

	message := fmt.Sprintf("Delete %d tags and remove them from all bookmarks?", count)
	if !e.confirmed(message, count) {
		return nil, false
	}

	e.mu.Lock()
	removed := e.deleteTags(ids)
	e.selection = make(map[string]struct{})
	e.mu.Unlock()

	e.notifyf(NotifySuccess, len(removed), fmt.Sprintf("Deleted %d tags", len(removed)))
	return removed, true
}
