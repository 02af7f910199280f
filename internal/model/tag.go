package model

// Tag is a registry entry. Its Name always begins with "#" and is unique
// case-insensitively among a user's tags.
type Tag struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Pinned bool   `json:"pinned"`
}

// NewTagParams holds parameters for creating a new Tag.
type NewTagParams struct {
	Name  string
	Color string
}

// NewTag creates a Tag with a generated UUID. Name is expected to be
// normalized already.
func NewTag(params NewTagParams) Tag {
	return Tag{
		ID:    GenerateUUID(),
		Name:  params.Name,
		Color: params.Color,
	}
}
