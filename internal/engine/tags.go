package engine

import (
	"sort"
	"strings"

	"linkstash/internal/model"
)

// NormalizeLabel trims a raw tag name and ensures a single leading "#".
// "react", " react " and "#react" all normalize to "#react". Case is
// preserved; comparisons are case-insensitive.
func NormalizeLabel(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "#")
	if s == "" {
		return ""
	}
	return "#" + s
}

// CreateTag registers a new tag. The name is normalized before the
// uniqueness check; the color is picked from a fixed palette.
func (e *Engine) CreateTag(rawName string) (model.Tag, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.createTag(rawName)
}

func (e *Engine) createTag(rawName string) (model.Tag, error) {
	name := NormalizeLabel(rawName)
	if name == "" {
		return model.Tag{}, newError(KindValidation, "tag name is empty")
	}

	if e.limits.MaxTags > 0 && len(e.store.Tags) >= e.limits.MaxTags {
		return model.Tag{}, newError(KindLimitReached, "tag limit of %d reached", e.limits.MaxTags)
	}

	if e.tagByLabel(name) != nil {
		return model.Tag{}, newError(KindValidation, "tag %q already exists", name)
	}

	tag := model.NewTag(model.NewTagParams{Name: name, Color: e.pickColor()})
	e.store.AddTag(tag)
	return tag, nil
}

// DeleteTags removes the given tags from the registry and strips their
// labels from every bookmark in the same logical transaction. Unmatched
// ids are skipped. Returns the normalized labels that were removed.
func (e *Engine) DeleteTags(ids []string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deleteTags(ids)
}

func (e *Engine) deleteTags(ids []string) []string {
	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	var removed []string
	kept := e.store.Tags[:0]
	for _, tag := range e.store.Tags {
		if _, ok := idSet[tag.ID]; ok {
			removed = append(removed, tag.Name)
			continue
		}
		kept = append(kept, tag)
	}
	e.store.Tags = kept

	if len(removed) > 0 {
		e.stripLabels(removed)
	}
	return removed
}

// ToggleTagPin toggles the pinned flag, rejecting a pin that would exceed
// the pinned-tag cap. Unpinning is always allowed.
func (e *Engine) ToggleTagPin(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tag := e.store.GetTagByID(id)
	if tag == nil {
		return newError(KindNotFound, "tag %s not found", id)
	}

	if !tag.Pinned && e.limits.MaxPinnedTags > 0 && e.pinnedTagCount() >= e.limits.MaxPinnedTags {
		return newError(KindLimitReached, "pinned tag limit of %d reached", e.limits.MaxPinnedTags)
	}

	tag.Pinned = !tag.Pinned
	return nil
}

// Tags returns all tags sorted by name, pinned first.
func (e *Engine) Tags() []model.Tag {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := make([]model.Tag, len(e.store.Tags))
	copy(result, e.store.Tags)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Pinned != result[j].Pinned {
			return result[i].Pinned
		}
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result
}

func (e *Engine) tagByLabel(label string) *model.Tag {
	for i := range e.store.Tags {
		if strings.EqualFold(e.store.Tags[i].Name, label) {
			return &e.store.Tags[i]
		}
	}
	return nil
}

func (e *Engine) pinnedTagCount() int {
	count := 0
	for i := range e.store.Tags {
		if e.store.Tags[i].Pinned {
			count++
		}
	}
	return count
}
