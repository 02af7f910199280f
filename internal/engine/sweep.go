package engine

import (
	"context"
	"fmt"
	"time"
)

const (
	// archiveAfter is how long an untouched active bookmark stays in the
	// library before the sweep archives it.
	archiveAfter = 30 * 24 * time.Hour
	// purgeAfter is how long an archived bookmark survives before the
	// sweep hard-removes it.
	purgeAfter = 30 * 24 * time.Hour
)

// SweepResult reports the transitions a sweep run applied.
type SweepResult struct {
	Archived int
	Purged   int
}

// Sweep applies the age-based lifecycle rules once per session: active
// bookmarks older than 30 days are archived, bookmarks archived more than
// a further 30 days ago are purged. The purge bypasses the confirmation
// gate; it is an automated background action, not a user request. Repeat
// invocations within a session are no-ops.
func (e *Engine) Sweep() SweepResult {
	e.mu.Lock()
	if e.swept {
		e.mu.Unlock()
		return SweepResult{}
	}
	e.swept = true

	now := e.now()
	var result SweepResult

	// Purge first so records archived in this same run get their full
	// grace period.
	kept := e.store.Bookmarks[:0]
	for _, b := range e.store.Bookmarks {
		if b.Archived && b.ArchivedAt != nil && now.Sub(*b.ArchivedAt) > purgeAfter {
			result.Purged++
			continue
		}
		kept = append(kept, b)
	}
	e.store.Bookmarks = kept

	for i := range e.store.Bookmarks {
		b := &e.store.Bookmarks[i]
		if !b.Trashed && !b.Archived && now.Sub(b.CreatedAt) > archiveAfter {
			b.Archived = true
			at := now
			b.ArchivedAt = &at
			result.Archived++
		}
	}
	e.mu.Unlock()

	if result.Archived > 0 || result.Purged > 0 {
		e.notifyf(NotifyInfo, result.Archived+result.Purged,
			fmt.Sprintf("Sweep archived %d and purged %d bookmarks", result.Archived, result.Purged))
	}
	return result
}

// ScheduleSweep runs Sweep once after the given delay. The timer is
// dropped when ctx is cancelled before it fires.
func (e *Engine) ScheduleSweep(ctx context.Context, delay time.Duration) {
	timer := time.NewTimer(delay)
	go func() {
		defer timer.Stop()
		select {
		case <-timer.C:
			e.Sweep()
		case <-ctx.Done():
		}
	}()
}
