package engine

import (
	"sort"
	"strings"

	"linkstash/internal/model"
)

// Inbox returns the system folder, creating it lazily on first access.
// Exactly one Inbox exists per store; it can never be deleted, renamed,
// recolored, or reparented.
func (e *Engine) Inbox() model.Folder {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.inbox()
}

func (e *Engine) inbox() *model.Folder {
	for i := range e.store.Folders {
		if e.store.Folders[i].IsSystem() {
			return &e.store.Folders[i]
		}
	}
	e.store.AddFolder(model.NewInbox())
	return &e.store.Folders[len(e.store.Folders)-1]
}

// CreateFolderParams holds parameters for CreateFolder.
type CreateFolderParams struct {
	Name     string
	Color    string
	ParentID *string
}

// CreateFolder creates a custom folder. The custom-folder cap is checked
// before name uniqueness, so a capped user gets a limit error even for a
// duplicate name.
func (e *Engine) CreateFolder(params CreateFolderParams) (model.Folder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return model.Folder{}, newError(KindValidation, "folder name is empty")
	}

	if e.limits.MaxCustomFolders > 0 && e.customFolderCount() >= e.limits.MaxCustomFolders {
		return model.Folder{}, newError(KindLimitReached, "folder limit of %d reached", e.limits.MaxCustomFolders)
	}

	if e.folderByName(name) != nil {
		return model.Folder{}, newError(KindValidation, "folder %q already exists", name)
	}

	if params.ParentID != nil && e.store.GetFolderByID(*params.ParentID) == nil {
		return model.Folder{}, newError(KindNotFound, "parent folder %s not found", *params.ParentID)
	}

	folder := model.NewFolder(model.NewFolderParams{
		Name:       name,
		Color:      params.Color,
		ParentID:   params.ParentID,
		OrderIndex: e.nextOrderIndex(),
	})
	e.store.AddFolder(folder)
	return folder, nil
}

// RenameFolder renames a custom folder, keeping names unique.
func (e *Engine) RenameFolder(id, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	folder := e.store.GetFolderByID(id)
	if folder == nil {
		return newError(KindNotFound, "folder %s not found", id)
	}
	if folder.IsSystem() {
		return newError(KindValidation, "the %s folder cannot be renamed", model.InboxName)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return newError(KindValidation, "folder name is empty")
	}
	if existing := e.folderByName(name); existing != nil && existing.ID != id {
		return newError(KindValidation, "folder %q already exists", name)
	}

	folder.Name = name
	return nil
}

// ReparentFolder moves a folder under a new parent (nil = root). Rejects
// self-parenting and any move that would make the folder its own ancestor.
func (e *Engine) ReparentFolder(id string, newParent *string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	folder := e.store.GetFolderByID(id)
	if folder == nil {
		return newError(KindNotFound, "folder %s not found", id)
	}
	if folder.IsSystem() {
		return newError(KindValidation, "the %s folder cannot be moved", model.InboxName)
	}

	if newParent != nil {
		if *newParent == id {
			return newError(KindValidation, "folder cannot be its own parent")
		}
		parent := e.store.GetFolderByID(*newParent)
		if parent == nil {
			return newError(KindNotFound, "parent folder %s not found", *newParent)
		}
		if e.isAncestor(id, *newParent) {
			return newError(KindValidation, "move would create a folder cycle")
		}
	}

	folder.ParentID = newParent
	return nil
}

// isAncestor walks the parent chain of folder `of` and reports whether
// `id` appears in it. The walk is bounded by the folder count, so an
// already-consistent forest terminates even if a stale snapshot slipped in.
func (e *Engine) isAncestor(id, of string) bool {
	current := e.store.GetFolderByID(of)
	for steps := 0; current != nil && steps <= len(e.store.Folders); steps++ {
		if current.ID == id {
			return true
		}
		if current.ParentID == nil {
			return false
		}
		current = e.store.GetFolderByID(*current.ParentID)
	}
	return false
}

// DeleteFolder removes a custom folder. Direct children are reparented to
// root first; bookmarks pointing at the folder keep their reference.
func (e *Engine) DeleteFolder(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	folder := e.store.GetFolderByID(id)
	if folder == nil {
		return newError(KindNotFound, "folder %s not found", id)
	}
	if folder.IsSystem() {
		return newError(KindValidation, "the %s folder cannot be deleted", model.InboxName)
	}

	for i := range e.store.Folders {
		if e.store.Folders[i].ParentID != nil && *e.store.Folders[i].ParentID == id {
			e.store.Folders[i].ParentID = nil
		}
	}

	for i := range e.store.Folders {
		if e.store.Folders[i].ID == id {
			e.store.Folders = append(e.store.Folders[:i], e.store.Folders[i+1:]...)
			break
		}
	}
	return nil
}

// ToggleFolderPin toggles the pinned flag. Rejected for the system folder.
func (e *Engine) ToggleFolderPin(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	folder := e.store.GetFolderByID(id)
	if folder == nil {
		return newError(KindNotFound, "folder %s not found", id)
	}
	if folder.IsSystem() {
		return newError(KindValidation, "the %s folder cannot be pinned", model.InboxName)
	}
	folder.Pinned = !folder.Pinned
	return nil
}

// SetFolderColor recolors a custom folder.
func (e *Engine) SetFolderColor(id, color string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	folder := e.store.GetFolderByID(id)
	if folder == nil {
		return newError(KindNotFound, "folder %s not found", id)
	}
	if folder.IsSystem() {
		return newError(KindValidation, "the %s folder cannot be recolored", model.InboxName)
	}
	folder.Color = color
	return nil
}

// Children returns the direct children of a folder, in canonical order.
func (e *Engine) Children(id string) []model.Folder {
	e.mu.Lock()
	defer e.mu.Unlock()

	var result []model.Folder
	for _, f := range e.store.Folders {
		if f.ParentID != nil && *f.ParentID == id {
			result = append(result, f)
		}
	}
	sortFolders(result)
	return result
}

// Folders returns every folder in canonical display order: pinned first,
// then system before custom, then order index, then name. The ordering is
// derived from the snapshot, never stored.
func (e *Engine) Folders() []model.Folder {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.inbox()
	result := make([]model.Folder, len(e.store.Folders))
	copy(result, e.store.Folders)
	sortFolders(result)
	return result
}

func sortFolders(folders []model.Folder) {
	sort.SliceStable(folders, func(i, j int) bool {
		a, b := folders[i], folders[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		if a.IsSystem() != b.IsSystem() {
			return a.IsSystem()
		}
		if a.OrderIndex != b.OrderIndex {
			return a.OrderIndex < b.OrderIndex
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

func (e *Engine) customFolderCount() int {
	count := 0
	for i := range e.store.Folders {
		if !e.store.Folders[i].IsSystem() {
			count++
		}
	}
	return count
}

func (e *Engine) folderByName(name string) *model.Folder {
	for i := range e.store.Folders {
		if strings.EqualFold(e.store.Folders[i].Name, name) {
			return &e.store.Folders[i]
		}
	}
	return nil
}

func (e *Engine) nextOrderIndex() int {
	next := 0
	for i := range e.store.Folders {
		if e.store.Folders[i].OrderIndex >= next {
			next = e.store.Folders[i].OrderIndex + 1
		}
	}
	return next
}
