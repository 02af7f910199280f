package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"linkstash/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bookmarks-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("bookmarks-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML renders the store as Netscape bookmark HTML. Trashed
// bookmarks are left out; archived ones are exported like any other.
func ExportHTML(store *model.Store) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	writeItems(&b, store, nil, 1)

	b.WriteString("</DL><p>\n")

	return b.String()
}

// writeItems recursively writes folders and bookmarks for a given parent.
func writeItems(b *strings.Builder, store *model.Store, parentID *string, indent int) {
	prefix := strings.Repeat("    ", indent)

	folders := store.GetFoldersInFolder(parentID)
	for _, folder := range folders {
		fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(folder.Name))
		fmt.Fprintf(b, "%s<DL><p>\n", prefix)

		folderID := folder.ID
		writeItems(b, store, &folderID, indent+1)

		bookmarks := store.GetBookmarksInFolder(folder.ID)
		for _, bookmark := range bookmarks {
			writeBookmark(b, prefix+"    ", bookmark)
		}

		fmt.Fprintf(b, "%s</DL><p>\n", prefix)
	}
}

func writeBookmark(b *strings.Builder, prefix string, bookmark model.Bookmark) {
	var tags string
	if len(bookmark.Tags) > 0 {
		labels := make([]string, len(bookmark.Tags))
		for i, t := range bookmark.Tags {
			labels[i] = strings.TrimPrefix(t.Label, "#")
		}
		tags = fmt.Sprintf(" TAGS=\"%s\"", html.EscapeString(strings.Join(labels, ",")))
	}
	fmt.Fprintf(b,
		"%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\"%s>%s</A>\n",
		prefix,
		html.EscapeString(bookmark.URL),
		bookmark.CreatedAt.Unix(),
		tags,
		html.EscapeString(bookmark.Title),
	)
}
