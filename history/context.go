package history

import "github.com/chrisuehlinger/domundo/dom"

// Options are a Context's process-wide knobs (spec.md §6): a plain
// struct with defaulting in the constructor, the way the teacher
// configures subsystems (js/mutation_observer.go's
// MutationObserverOptions) rather than flag/env parsing — this is a
// library, not a CLI or daemon.
type Options struct {
	// NoMutationObserver forces the snapshot Observer variant even when
	// live mutation observation is available.
	NoMutationObserver bool
	// MaxCombineChars bounds typing coalescing: a new keystroke is
	// combined into the previous typing entry only while that entry's
	// text is shorter than MaxCombineChars. Defaults to 20.
	MaxCombineChars int
	// MaxHistory bounds how many change-sets are retained. Defaults to
	// 1000.
	MaxHistory int
}

func (o Options) withDefaults() Options {
	if o.MaxCombineChars <= 0 {
		o.MaxCombineChars = 20
	}
	if o.MaxHistory <= 0 {
		o.MaxHistory = 1000
	}
	return o
}

// Context is the undo/redo engine bound to a single root element
// (spec.md §3). It exclusively owns its frame stack, history, and
// observer; the root element is a back-reference the Context neither
// creates nor destroys.
type Context struct {
	Root *dom.Node

	observer Observer
	stack    []*Frame
	frame    *Frame // non-nil only while some frame (top-level or nested) is open
	lastTop  *Frame // most recent completed top-level frame, retained until AdvanceHistory drains it or a new top-level Enter supersedes it

	history      []ChangeSet
	historyIndex int

	opts        Options
	interrupted bool
}

// NewContext constructs a Context bound to root. Named NewContext
// rather than the spec's bare "Context" to avoid colliding with the
// type name, per Go constructor convention.
func NewContext(root *dom.Node, opts Options) *Context {
	opts = opts.withDefaults()
	var obs Observer
	if opts.NoMutationObserver {
		obs = newSnapshotObserver()
	} else {
		obs = newLiveObserver()
	}
	return &Context{Root: root, observer: obs, opts: opts}
}

// Close abandons any active frame: discards outstanding observer
// records, detaches the observer, and clears the current frame and
// stack. History is left intact (spec.md §4.H).
func (ctx *Context) Close() {
	if ctx.frame == nil {
		return
	}
	ctx.observer.DiscardChanges()
	ctx.observer.Disconnect()
	ctx.frame = nil
	ctx.lastTop = nil
	ctx.stack = nil
}

// History returns the current history slice and index, primarily for
// tests asserting invariants 7 and 8 from spec.md §8.
func (ctx *Context) History() ([]ChangeSet, int) {
	return ctx.history, ctx.historyIndex
}
