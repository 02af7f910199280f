package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"linkstash/internal/engine"
	"linkstash/internal/exporter"
	"linkstash/internal/health"
	"linkstash/internal/importer"
	"linkstash/internal/model"
	"linkstash/internal/picker"
	"linkstash/internal/prompt"
	"linkstash/internal/search"
	"linkstash/internal/storage"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "help", "--help", "-h":
		printHelp()
	case "add":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: linkstash add <url> [title] [#tag ...]\n")
			os.Exit(1)
		}
		runAdd(os.Args[2:])
	case "list":
		runList(os.Args[2:])
	case "sweep":
		runSweep()
	case "doctor":
		runDoctor()
	case "import":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: linkstash import <file.html>\n")
			os.Exit(1)
		}
		runImport(os.Args[2])
	case "export":
		var outputPath string
		if len(os.Args) >= 3 {
			outputPath = os.Args[2]
		}
		runExport(outputPath)
	default:
		// Treat as search query (join all remaining args)
		runQuickSearch(strings.Join(os.Args[1:], " "))
	}
}

func printHelp() {
	help := `linkstash - bookmark organizer

Usage:
  linkstash add <url> [title] [#tag ...]   Add a bookmark to Inbox
  linkstash list [folder|#tag|@domain]     List active bookmarks
  linkstash <query>                        Quick search → select → open
  linkstash sweep                          Archive stale bookmarks, purge old archives
  linkstash doctor                         Check bookmark URLs for dead links
  linkstash import <file>                  Import bookmarks from HTML
  linkstash export [path]                  Export bookmarks to HTML
  linkstash help                           Show this help

Data Storage:
  ~/.config/linkstash/bookmarks.json (or bookmarks.db)
`
	fmt.Print(help)
}

// session bundles the loaded state a subcommand works against.
type session struct {
	storage storage.Storage
	config  *storage.Config
	engine  *engine.Engine
}

func openSession() *session {
	backend, err := storage.OpenStorage()
	if err != nil {
		fatal("opening storage", err)
	}

	store, err := backend.Load()
	if err != nil {
		fatal("loading bookmarks", err)
	}

	configPath, err := storage.DefaultConfigFilePath()
	if err != nil {
		fatal("resolving config path", err)
	}
	config, err := storage.LoadConfig(configPath)
	if err != nil {
		fatal("loading config", err)
	}

	var limits *engine.Limits
	if config.Privileged {
		unlimited := engine.UnlimitedPlan()
		limits = &unlimited
	}

	eng := engine.New(engine.Params{
		Store:     store,
		Limits:    limits,
		Confirmer: prompt.Terminal{},
		Notifier:  engine.NotifierFunc(printNotification),
	})

	return &session{storage: backend, config: config, engine: eng}
}

func (s *session) save() {
	if err := s.storage.Save(s.engine.Store()); err != nil {
		fatal("saving bookmarks", err)
	}
}

func printNotification(n engine.Notification) {
	switch n.Kind {
	case engine.NotifySuccess:
		fmt.Println(successStyle.Render(n.Message))
	case engine.NotifyError:
		fmt.Fprintln(os.Stderr, errorStyle.Render(n.Message))
	default:
		fmt.Println(infoStyle.Render(n.Message))
	}
}

func fatal(context string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	os.Exit(1)
}

// runAdd adds a bookmark. Arguments after the URL are tags when they
// start with '#', otherwise they join the title.
func runAdd(args []string) {
	s := openSession()

	url := args[0]
	var titleWords, tags []string
	for _, arg := range args[1:] {
		if strings.HasPrefix(arg, "#") {
			tags = append(tags, arg)
		} else {
			titleWords = append(titleWords, arg)
		}
	}

	result, err := s.engine.CreateBookmark(engine.CreateBookmarkParams{
		URL:   url,
		Title: strings.Join(titleWords, " "),
		Tags:  tags,
	})
	if err != nil {
		fatal("adding bookmark", err)
	}
	s.save()

	fmt.Printf("Added %s (%s)\n", titleStyle.Render(result.Bookmark.Title), result.Bookmark.Domain)
	if len(result.DroppedTags) > 0 {
		fmt.Println(infoStyle.Render(fmt.Sprintf("Tag limit reached, dropped: %s", strings.Join(result.DroppedTags, ", "))))
	}
}

// runList prints the first page of the filtered view. A single filter
// argument is interpreted by shape: "#tag", "@domain", or folder name.
func runList(args []string) {
	s := openSession()

	var filters engine.FilterState
	if len(args) > 0 {
		arg := args[0]
		switch {
		case strings.HasPrefix(arg, "#"):
			filters.Tag = arg
		case strings.HasPrefix(arg, "@"):
			filters.Domain = strings.TrimPrefix(arg, "@")
		default:
			for _, f := range s.engine.Folders() {
				if strings.EqualFold(f.Name, arg) {
					filters.FolderID = f.ID
					break
				}
			}
			if filters.FolderID == "" {
				fmt.Fprintf(os.Stderr, "No folder named %q\n", arg)
				os.Exit(1)
			}
		}
	}

	view := s.engine.View(filters)
	page := engine.Paginate(view.Items, 1, s.config.PageSize)

	if len(page) == 0 {
		fmt.Println("No bookmarks.")
		return
	}

	for _, b := range page {
		var marks []string
		if b.Favorite {
			marks = append(marks, "★")
		}
		if !b.Read {
			marks = append(marks, "unread")
		}
		suffix := ""
		if len(marks) > 0 {
			suffix = infoStyle.Render(" [" + strings.Join(marks, " ") + "]")
		}
		fmt.Printf("%s%s\n  %s\n", titleStyle.Render(b.Title), suffix, infoStyle.Render(b.URL))
	}
	fmt.Println(infoStyle.Render(fmt.Sprintf("%d of %d shown", len(page), len(view.Items))))
}

// runQuickSearch performs a fuzzy search and opens the selected bookmark.
func runQuickSearch(query string) {
	s := openSession()

	results := search.Bookmarks(s.engine.Store(), query)
	if len(results) == 0 {
		fmt.Printf("No bookmarks found for '%s'\n", query)
		return
	}

	var selected *model.Bookmark
	if len(results) == 1 {
		selected = results[0].Bookmark
		fmt.Printf("Opening: %s\n", selected.Title)
	} else {
		p := picker.New(results, query)
		program := tea.NewProgram(p)
		finalModel, err := program.Run()
		if err != nil {
			fatal("running picker", err)
		}

		finalPicker := finalModel.(picker.Picker)
		if finalPicker.Cancelled() {
			return
		}
		selected = finalPicker.SelectedBookmark()
	}

	if selected == nil {
		return
	}

	if err := s.engine.SetRead(selected.ID, true); err == nil {
		s.save()
	}

	openURL(selected.URL)
}

// openURL opens a URL in the default browser.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	}
	if cmd != nil {
		_ = cmd.Start()
	}
}

// runSweep runs the lifecycle sweep once and persists the result.
func runSweep() {
	s := openSession()

	result := s.engine.Sweep()
	s.save()

	fmt.Printf("Archived %d, purged %d\n", result.Archived, result.Purged)
}

// runDoctor checks all active bookmark URLs and reports dead links.
func runDoctor() {
	s := openSession()

	checker := health.NewChecker(s.config.DoctorExcludeDomains)
	results := checker.Check(s.engine.Store().Bookmarks, func(completed, total int) {
		fmt.Fprintf(os.Stderr, "\rChecking %d/%d", completed, total)
	})
	fmt.Fprintln(os.Stderr)

	var dead, unreachable int
	for _, r := range results {
		switch r.Status {
		case health.Dead:
			dead++
			fmt.Printf("%s %s\n  %s\n", errorStyle.Render("DEAD"), r.Bookmark.Title, infoStyle.Render(r.Bookmark.URL))
		case health.Unreachable:
			unreachable++
			fmt.Printf("%s %s (%s)\n  %s\n", infoStyle.Render("??"), r.Bookmark.Title, r.Error, infoStyle.Render(r.Bookmark.URL))
		}
	}

	healthy := len(results) - dead - unreachable
	fmt.Printf("\n%d healthy, %d dead, %d unreachable\n", healthy, dead, unreachable)
}

// runImport handles the import subcommand.
func runImport(filePath string) {
	s := openSession()

	file, err := os.Open(filePath)
	if err != nil {
		fatal("opening file", err)
	}
	defer file.Close()

	folders, bookmarks, err := importer.ParseHTMLBookmarks(file)
	if err != nil {
		fatal("parsing HTML", err)
	}

	stats := s.engine.ImportMerge(folders, bookmarks)
	s.save()

	fmt.Printf("Imported %d bookmarks, %d folders", stats.BookmarksAdded, stats.FoldersAdded)
	if stats.Skipped > 0 {
		fmt.Printf(" (%d duplicates skipped)", stats.Skipped)
	}
	fmt.Println()
}

// runExport handles the export subcommand.
func runExport(outputPath string) {
	if outputPath == "" {
		var err error
		outputPath, err = exporter.DefaultExportPath()
		if err != nil {
			fatal("getting default export path", err)
		}
	}

	s := openSession()
	store := s.engine.Store()

	html := exporter.ExportHTML(store)

	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		fatal("writing file", err)
	}

	fmt.Printf("Exported %d bookmarks, %d folders to %s\n",
		len(store.Bookmarks), len(store.Folders), outputPath)
}
