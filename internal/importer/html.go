package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"linkstash/internal/model"
)

// ParseHTMLBookmarks parses a Netscape bookmark export and returns the
// folder tree plus bookmarks. Bookmarks at the document root carry an
// empty FolderID; the merge step routes those into Inbox.
func ParseHTMLBookmarks(r io.Reader) ([]model.Folder, []model.Bookmark, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, nil, err
	}

	var folders []model.Folder
	var bookmarks []model.Bookmark

	// Track current folder stack for hierarchy
	var folderStack []string
	var pendingFolder *model.Folder // folder waiting to be pushed on next DL

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				// Folder definition - get name from text content
				name := getTextContent(n)
				if name != "" {
					var parentID *string
					if len(folderStack) > 0 {
						id := folderStack[len(folderStack)-1]
						parentID = &id
					}

					folder := model.NewFolder(model.NewFolderParams{
						Name:     name,
						ParentID: parentID,
					})
					folders = append(folders, folder)

					// Pushed onto the stack when the matching DL arrives
					pendingFolder = &folders[len(folders)-1]
				}
				return // Don't recurse into H3

			case "a":
				href := getAttr(n, "href")
				if href == "" {
					// Skip bookmarks without URL
					return
				}

				title := getTextContent(n)
				if title == "" {
					title = href
				}

				var folderID string
				if len(folderStack) > 0 {
					folderID = folderStack[len(folderStack)-1]
				}

				// Parse ADD_DATE timestamp
				createdAt := time.Now()
				if addDate := getAttr(n, "add_date"); addDate != "" {
					if ts, err := strconv.ParseInt(addDate, 10, 64); err == nil {
						createdAt = time.Unix(ts, 0)
					}
				}

				bookmarks = append(bookmarks, model.Bookmark{
					ID:        model.GenerateUUID(),
					Title:     title,
					URL:       href,
					FolderID:  folderID,
					Tags:      parseTags(getAttr(n, "tags")),
					CreatedAt: createdAt,
				})
				return // Don't recurse into A

			case "dl":
				// Definition list - marks folder contents
				pushedFolder := false
				if pendingFolder != nil {
					folderStack = append(folderStack, pendingFolder.ID)
					pendingFolder = nil
					pushedFolder = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushedFolder && len(folderStack) > 0 {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return // Children already handled
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return folders, bookmarks, nil
}

// parseTags splits a comma-separated TAGS attribute into label-only tag
// refs. Colors are assigned when the labels are registered on merge.
func parseTags(raw string) []model.TagRef {
	tags := []model.TagRef{}
	for _, label := range strings.Split(raw, ",") {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		tags = append(tags, model.TagRef{Label: label})
	}
	return tags
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
