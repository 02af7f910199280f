package health

import (
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"linkstash/internal/model"
)

// Status represents the health status of a bookmark URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, connection refused, etc.
)

// Result holds the check result for a single bookmark.
type Result struct {
	Bookmark   *model.Bookmark
	Status     Status
	StatusCode int    // HTTP status code (0 if connection failed)
	Error      string // Error message for unreachable URLs
}

// ProgressFunc is called after each URL is checked.
type ProgressFunc func(completed, total int)

// Checker probes bookmark URLs over HTTP.
type Checker struct {
	Concurrency    int
	Timeout        time.Duration
	ExcludeDomains []string // 404s on these domains count as "possibly private"
}

// NewChecker returns a Checker with sensible defaults.
func NewChecker(excludeDomains []string) *Checker {
	return &Checker{
		Concurrency:    10,
		Timeout:        10 * time.Second,
		ExcludeDomains: excludeDomains,
	}
}

// Check probes every active bookmark concurrently and returns the
// results. Trashed and archived bookmarks are skipped; they are out of
// circulation and a dead link there is not actionable.
func (c *Checker) Check(bookmarks []model.Bookmark, onProgress ProgressFunc) []Result {
	var targets []*model.Bookmark
	for i := range bookmarks {
		if bookmarks[i].Active() {
			targets = append(targets, &bookmarks[i])
		}
	}
	if len(targets) == 0 {
		return nil
	}

	// Suppress noisy HTTP client logging (protocol errors, unsolicited responses)
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	excludeMap := make(map[string]bool)
	for _, domain := range c.ExcludeDomains {
		excludeMap[strings.ToLower(domain)] = true
	}

	results := make([]Result, len(targets))
	jobs := make(chan int, len(targets))
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	client := &http.Client{
		Timeout: c.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	concurrency := c.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = checkURL(client, targets[idx], excludeMap)

				if onProgress != nil {
					progressMu.Lock()
					completed++
					onProgress(completed, len(targets))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range targets {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// checkURL checks a single URL and returns the result.
func checkURL(client *http.Client, bookmark *model.Bookmark, excludeMap map[string]bool) Result {
	result := Result{
		Bookmark: bookmark,
	}

	// Try HEAD first (faster, less bandwidth)
	resp, err := client.Head(bookmark.URL)
	if err != nil {
		// HEAD failed, try GET as fallback (some servers don't support HEAD)
		resp, err = client.Get(bookmark.URL)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			return result
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == 404 || resp.StatusCode == 410:
		if isExcludedDomain(bookmark.URL, excludeMap) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		// Other errors (500, 403, etc.) could be temporary server issues
		// or auth-required pages
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}

	return result
}

// isExcludedDomain checks if the URL's domain is in the exclude list.
func isExcludedDomain(rawURL string, excludeMap map[string]bool) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Host)
	if excludeMap[host] {
		return true
	}
	// "api.github.com" matches an excluded "github.com"
	for domain := range excludeMap {
		if strings.HasSuffix(host, "."+domain) || host == domain {
			return true
		}
	}
	return false
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}
