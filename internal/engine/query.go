package engine

import (
	"sort"
	"strings"
	"time"

	"linkstash/internal/model"
)

// DatePreset selects the date predicate of a filter.
type DatePreset string

const (
	DateAll       DatePreset = ""
	DateToday     DatePreset = "today"
	DateLast7     DatePreset = "last7"
	DateLast30    DatePreset = "last30"
	DateThisMonth DatePreset = "this_month"
	DateCustom    DatePreset = "custom"
)

// StatusFilter selects the status predicate of a filter.
type StatusFilter string

const (
	StatusAll      StatusFilter = ""
	StatusFavorite StatusFilter = "favorite"
	StatusRead     StatusFilter = "read"
	StatusUnread   StatusFilter = "unread"
)

// FilterState is the ephemeral view configuration. Zero values mean "all".
type FilterState struct {
	Search   string
	Date     DatePreset
	From     *time.Time // custom range start, inclusive
	To       *time.Time // custom range end, inclusive; nil = now
	FolderID string
	Tag      string // tag id or label
	Domain   string
	Status   StatusFilter
}

// Facets are the filter-dropdown vocabularies, always derived from the
// full active set so narrowing one filter never hides the others' options.
type Facets struct {
	Domains []string
	Tags    []model.TagRef
}

// View is a filtered, sorted projection of the active library.
type View struct {
	Items  []model.Bookmark
	Facets Facets
}

// PageSizes are the allowed pagination sizes.
var PageSizes = []int{12, 24, 48}

// DefaultPageSize is used when an unsupported page size is requested.
const DefaultPageSize = 24

// View builds the filtered, sorted view of the active library plus facets.
// It never mutates; pagination is applied separately with Paginate.
func (e *Engine) View(filters FilterState) View {
	e.mu.Lock()
	base := e.activeBookmarks()
	now := e.now()
	// Resolve a tag id to its label so the membership test can compare
	// denormalized entries.
	tagLabel := filters.Tag
	if tag := e.store.GetTagByID(filters.Tag); tag != nil {
		tagLabel = tag.Name
	}
	e.mu.Unlock()

	return buildView(base, filters, tagLabel, now)
}

func buildView(base []model.Bookmark, filters FilterState, tagLabel string, now time.Time) View {
	items := make([]model.Bookmark, 0, len(base))
	for _, b := range base {
		if !matchSearch(b, filters.Search) {
			continue
		}
		if !matchDate(b.CreatedAt, filters, now) {
			continue
		}
		if filters.FolderID != "" && b.FolderID != filters.FolderID {
			continue
		}
		if tagLabel != "" && !b.HasTagLabel(NormalizeLabel(tagLabel)) {
			continue
		}
		if filters.Domain != "" && !strings.EqualFold(b.Domain, filters.Domain) {
			continue
		}
		if !matchStatus(b, filters.Status) {
			continue
		}
		items = append(items, b)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	return View{Items: items, Facets: buildFacets(base)}
}

func matchSearch(b model.Bookmark, search string) bool {
	search = strings.TrimSpace(strings.ToLower(search))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(b.Title), search) ||
		strings.Contains(strings.ToLower(b.URL), search) ||
		strings.Contains(strings.ToLower(b.Domain), search)
}

func matchDate(createdAt time.Time, filters FilterState, now time.Time) bool {
	switch filters.Date {
	case DateAll:
		return true
	case DateToday:
		y1, m1, d1 := createdAt.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case DateLast7:
		return now.Sub(createdAt) <= 7*24*time.Hour
	case DateLast30:
		return now.Sub(createdAt) <= 30*24*time.Hour
	case DateThisMonth:
		y1, m1, _ := createdAt.Date()
		y2, m2, _ := now.Date()
		return y1 == y2 && m1 == m2
	case DateCustom:
		if filters.From != nil && createdAt.Before(*filters.From) {
			return false
		}
		to := now
		if filters.To != nil {
			to = *filters.To
		}
		return !createdAt.After(to)
	default:
		return true
	}
}

func matchStatus(b model.Bookmark, status StatusFilter) bool {
	switch status {
	case StatusFavorite:
		return b.Favorite
	case StatusRead:
		return b.Read
	case StatusUnread:
		return !b.Read
	default:
		return true
	}
}

// buildFacets derives the distinct domains and tags of the base set.
func buildFacets(base []model.Bookmark) Facets {
	domainSet := make(map[string]struct{})
	tagSet := make(map[string]model.TagRef)

	for _, b := range base {
		if b.Domain != "" {
			domainSet[b.Domain] = struct{}{}
		}
		for _, ref := range b.Tags {
			key := strings.ToLower(ref.Label)
			if _, ok := tagSet[key]; !ok {
				tagSet[key] = ref
			}
		}
	}

	domains := make([]string, 0, len(domainSet))
	for d := range domainSet {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	tags := make([]model.TagRef, 0, len(tagSet))
	for _, ref := range tagSet {
		tags = append(tags, ref)
	}
	sort.Slice(tags, func(i, j int) bool {
		return strings.ToLower(tags[i].Label) < strings.ToLower(tags[j].Label)
	})

	return Facets{Domains: domains, Tags: tags}
}

// Paginate slices a filtered result. Pages are 1-based; an unsupported
// page size falls back to the default.
func Paginate(items []model.Bookmark, page, pageSize int) []model.Bookmark {
	valid := false
	for _, s := range PageSizes {
		if s == pageSize {
			valid = true
			break
		}
	}
	if !valid {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	if start >= len(items) {
		return []model.Bookmark{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
