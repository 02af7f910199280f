package model

// FolderKind distinguishes the built-in Inbox from user-created folders.
type FolderKind string

const (
	FolderSystem FolderKind = "system"
	FolderCustom FolderKind = "custom"
)

// InboxName is the reserved name of the mandatory system folder.
const InboxName = "Inbox"

// Folder represents a container for bookmarks and other folders.
type Folder struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Kind       FolderKind `json:"kind"`
	Color      string     `json:"color,omitempty"`
	ParentID   *string    `json:"parentId"` // nil = root level
	Pinned     bool       `json:"pinned"`
	OrderIndex int        `json:"orderIndex"`
}

// IsSystem reports whether the folder is the immutable Inbox.
func (f *Folder) IsSystem() bool {
	return f.Kind == FolderSystem
}

// NewFolderParams holds parameters for creating a new custom Folder.
type NewFolderParams struct {
	Name       string
	Color      string
	ParentID   *string
	OrderIndex int
}

// NewFolder creates a custom Folder with a generated UUID.
func NewFolder(params NewFolderParams) Folder {
	return Folder{
		ID:         GenerateUUID(),
		Name:       params.Name,
		Kind:       FolderCustom,
		Color:      params.Color,
		ParentID:   params.ParentID,
		OrderIndex: params.OrderIndex,
	}
}

// NewInbox creates the system Inbox folder.
func NewInbox() Folder {
	return Folder{
		ID:   GenerateUUID(),
		Name: InboxName,
		Kind: FolderSystem,
	}
}
