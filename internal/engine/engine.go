// Package engine implements the bookmark organization core: the folder
// hierarchy, the tag registry, the bookmark store, the lifecycle sweep, the
// query pipeline, and the bulk-operation coordinator. An Engine owns its
// three collections outright; there is no ambient global state.
package engine

import (
	"math/rand"
	"sync"
	"time"

	"linkstash/internal/model"
)

// Limits holds the per-plan caps. A value <= 0 means unlimited.
type Limits struct {
	MaxCustomFolders int
	MaxTags          int
	MaxPinnedTags    int
}

// FreePlan returns the caps applied to non-privileged users.
func FreePlan() Limits {
	return Limits{
		MaxCustomFolders: 3,
		MaxTags:          10,
		MaxPinnedTags:    5,
	}
}

// UnlimitedPlan returns limits with every cap disabled.
func UnlimitedPlan() Limits {
	return Limits{}
}

// NotifyKind classifies notifications sent after committed mutations.
type NotifyKind string

const (
	NotifySuccess NotifyKind = "success"
	NotifyError   NotifyKind = "error"
	NotifyInfo    NotifyKind = "info"
)

// Notification is a fire-and-forget message to the host UI.
type Notification struct {
	Kind    NotifyKind
	Message string
	Count   int
}

// Notifier receives notifications after committed mutations and sweep runs.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Confirmer is the synchronous yes/no gate invoked before destructive
// operations. It receives a human-readable description and the affected
// item count; the engine proceeds only on true. The engine calls it with
// its internal lock released, so an implementation may read engine state
// while the prompt is open.
type Confirmer interface {
	Confirm(message string, count int) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(message string, count int) bool

func (f ConfirmerFunc) Confirm(message string, count int) bool { return f(message, count) }

// tagPalette is the fixed set of colors assigned to new tags.
var tagPalette = []string{
	"#e06c75",
	"#98c379",
	"#e5c07b",
	"#61afef",
	"#c678dd",
	"#56b6c2",
	"#d19a66",
}

// Engine owns the folder, tag, and bookmark collections and enforces their
// invariants. All methods are safe for concurrent use; each public call is
// a single atomic mutation of the in-memory snapshot.
type Engine struct {
	mu     sync.Mutex
	store  *model.Store
	limits Limits

	confirm Confirmer
	notify  Notifier

	now       func() time.Time
	pickColor func() string

	selection map[string]struct{}
	swept     bool
}

// Params holds construction parameters for an Engine.
type Params struct {
	Store     *model.Store // optional, empty store if nil
	Limits    *Limits      // optional, FreePlan if nil
	Confirmer Confirmer    // optional, nil approves everything
	Notifier  Notifier     // optional, nil discards
	Now       func() time.Time
}

// New creates an Engine for one user session.
func New(params Params) *Engine {
	store := params.Store
	if store == nil {
		store = model.NewStore()
	}

	limits := FreePlan()
	if params.Limits != nil {
		limits = *params.Limits
	}

	now := params.Now
	if now == nil {
		now = time.Now
	}

	return &Engine{
		store:     store,
		limits:    limits,
		confirm:   params.Confirmer,
		notify:    params.Notifier,
		now:       now,
		pickColor: func() string { return tagPalette[rand.Intn(len(tagPalette))] },
		selection: make(map[string]struct{}),
	}
}

// Store returns the underlying snapshot for persistence.
func (e *Engine) Store() *model.Store {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store
}

// confirmed asks the confirmation gate. A nil confirmer approves; the
// engine is then embedded in a host that takes responsibility itself.
func (e *Engine) confirmed(message string, count int) bool {
	if e.confirm == nil {
		return true
	}
	return e.confirm.Confirm(message, count)
}

// notifyf sends a notification if a notifier is attached.
func (e *Engine) notifyf(kind NotifyKind, count int, message string) {
	if e.notify == nil {
		return
	}
	e.notify.Notify(Notification{Kind: kind, Message: message, Count: count})
}
