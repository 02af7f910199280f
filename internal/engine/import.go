package engine

import (
	"strings"

	"linkstash/internal/model"
)

// ImportStats reports the outcome of an import merge.
type ImportStats struct {
	FoldersAdded   int
	BookmarksAdded int
	Skipped        int // duplicate URLs
}

// ImportMerge merges parsed folders and bookmarks into the store. Folders
// matching an existing folder by name (case-insensitive, same level) are
// reused and incoming references remapped; bookmarks whose URL already
// exists are skipped. Bookmarks without a folder land in Inbox. Incoming
// tag labels are resolved through the tag registry so they pick up
// registered colors or get registered themselves. Imports bypass the
// folder cap: rejecting half a browser export at the folder limit would
// lose data the user explicitly asked to bring in. Tag labels past the
// tag cap are dropped like any other tag creation.
func (e *Engine) ImportMerge(folders []model.Folder, bookmarks []model.Bookmark) ImportStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	var stats ImportStats
	idRemap := make(map[string]string, len(folders))

	for _, incoming := range folders {
		parentID := incoming.ParentID
		if parentID != nil {
			if mapped, ok := idRemap[*parentID]; ok {
				id := mapped
				parentID = &id
			}
		}

		if existing := e.folderAt(incoming.Name, parentID); existing != nil {
			idRemap[incoming.ID] = existing.ID
			continue
		}

		folder := model.NewFolder(model.NewFolderParams{
			Name:       incoming.Name,
			Color:      incoming.Color,
			ParentID:   parentID,
			OrderIndex: e.nextOrderIndex(),
		})
		e.store.AddFolder(folder)
		idRemap[incoming.ID] = folder.ID
		stats.FoldersAdded++
	}

	inboxID := e.inbox().ID
	for _, incoming := range bookmarks {
		if e.store.HasBookmarkURL(incoming.URL) {
			stats.Skipped++
			continue
		}

		folderID := inboxID
		if incoming.FolderID != "" {
			if mapped, ok := idRemap[incoming.FolderID]; ok {
				folderID = mapped
			} else if e.store.GetFolderByID(incoming.FolderID) != nil {
				folderID = incoming.FolderID
			}
		}

		domain := incoming.Domain
		if domain == "" {
			domain = deriveDomain(incoming.URL)
		}

		tags := []model.TagRef{}
		if len(incoming.Tags) > 0 {
			labels := make([]string, len(incoming.Tags))
			for i, ref := range incoming.Tags {
				labels[i] = ref.Label
			}
			tags, _ = e.resolveTagRefs(nil, labels)
		}

		b := incoming
		b.ID = model.GenerateUUID()
		b.FolderID = folderID
		b.Domain = domain
		b.Tags = tags
		e.store.AddBookmark(b)
		stats.BookmarksAdded++
	}

	return stats
}

// folderAt finds a folder by name under the given parent.
func (e *Engine) folderAt(name string, parentID *string) *model.Folder {
	for i := range e.store.Folders {
		f := &e.store.Folders[i]
		if !strings.EqualFold(f.Name, name) {
			continue
		}
		if (f.ParentID == nil) != (parentID == nil) {
			continue
		}
		if f.ParentID == nil || *f.ParentID == *parentID {
			return f
		}
	}
	return nil
}
