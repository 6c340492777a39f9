package history

import "github.com/chrisuehlinger/domundo/dom"

// AdvanceHistory implements spec.md §4.H. It requires the frame stack
// to be empty (top-level frame only) — called either while the
// top-level frame is still active (to advance mid-session, draining
// the observer without ending the enter/leave span) or right after its
// Leave (Leave nils ctx.frame, so AdvanceHistory then works on
// ctx.lastTop, the just-completed top-level frame). A call with neither
// an open nor a completed top-level frame is a no-op.
func AdvanceHistory(ctx *Context) {
	if len(ctx.stack) > 0 {
		panic(newContractViolation("advanceHistory: frame stack is not empty"))
	}
	f := ctx.frame
	if f == nil {
		f = ctx.lastTop
	}
	if f == nil {
		return
	}

	// Step 1 — take observer records into the current frame.
	if !f.Opts.NoObserve {
		if c := ctx.observer.TakeChanges(); len(c) > 0 {
			f.Records = append(f.Records, recordItem{Changes: c})
		}
	}

	// Step 2 — produce partitioned change-sets.
	newSets := partitionedChangeSetsFromFrame(f)
	f.Records = nil
	if len(newSets) == 0 {
		return
	}

	// Step 3 — truncate redoable entries.
	ctx.history = ctx.history[:ctx.historyIndex]

	// Step 4 — try to coalesce a single new typing change-set into the
	// last entry.
	if len(newSets) == 1 && len(ctx.history) > 0 && !ctx.interrupted {
		if combined, ok := combineChanges(ctx.history[len(ctx.history)-1], newSets[0], ctx.opts); ok {
			ctx.history = ctx.history[:len(ctx.history)-1]
			newSets = []ChangeSet{combined}
		}
	}

	// Step 5 — append, bound, advance the index.
	ctx.interrupted = false
	ctx.history = append(ctx.history, newSets...)
	if over := len(ctx.history) - ctx.opts.MaxHistory; over > 0 {
		ctx.history = ctx.history[over:]
	}
	ctx.historyIndex = len(ctx.history)
}

// InterruptTyping marks the context so the next AdvanceHistory cannot
// coalesce into the previous entry (spec.md §4.H).
func InterruptTyping(ctx *Context) {
	ctx.interrupted = true
}

// Undo implements spec.md §4.H: advances history first (flushing any
// pending edits), then, if there is an applied entry, inverts it and
// replays it off-the-record.
func Undo(ctx *Context, rng *dom.Range) {
	AdvanceHistory(ctx)
	if ctx.historyIndex <= 0 {
		return
	}
	ctx.historyIndex--
	cs := inverseChangeSet(ctx.history[ctx.historyIndex])
	CaptureOffTheRecord(ctx, EnterOpts{Meta: Meta{"type": "undo"}}, func() LeaveResult {
		applyChangeSet(ctx.Root, cs, rng)
		return LeaveResult{Changes: cs.Changes}
	})
}

// Redo implements spec.md §4.H: advances history first, then, if there
// is a redoable entry, replays it off-the-record and advances the
// index.
func Redo(ctx *Context, rng *dom.Range) {
	AdvanceHistory(ctx)
	if ctx.historyIndex >= len(ctx.history) {
		return
	}
	cs := ctx.history[ctx.historyIndex]
	CaptureOffTheRecord(ctx, EnterOpts{Meta: Meta{"type": "redo"}}, func() LeaveResult {
		applyChangeSet(ctx.Root, cs, rng)
		return LeaveResult{Changes: cs.Changes}
	})
	ctx.historyIndex++
}

// ApplyChangeSet is the public wrapper over applyChangeSet (spec.md
// §6): applies cs's changes against container, then, if rng is
// non-nil, applies cs's selection update.
func ApplyChangeSet(container *dom.Node, cs ChangeSet, rng *dom.Range) {
	applyChangeSet(container, cs, rng)
}

// combineChanges is the typing coalescer (spec.md §4.H, §9 Open
// Question i resolved as "both changes are insert"). It succeeds only
// when both change-sets are a single insert of a single text-node
// clone, their paths agree on every step but the final text step, the
// prior entry's text length is below maxCombineChars (the combined
// length is not checked — §9.ii), the prior step's offset plus its
// text length equals the new step's offset, and the meta sequence
// indicates continued typing.
func combineChanges(old, new ChangeSet, opts Options) (ChangeSet, bool) {
	if len(old.Changes) != 1 || len(new.Changes) != 1 {
		return ChangeSet{}, false
	}
	oc, nc := old.Changes[0], new.Changes[0]
	if oc.Kind != ChangeInsert || nc.Kind != ChangeInsert {
		return ChangeSet{}, false
	}
	if len(oc.Content) != 1 || len(nc.Content) != 1 {
		return ChangeSet{}, false
	}
	oldNode, newNode := oc.Content[0], nc.Content[0]
	if !dom.IsTextNode(oldNode) || !dom.IsTextNode(newNode) {
		return ChangeSet{}, false
	}
	if len(oc.Path) == 0 || len(oc.Path) != len(nc.Path) {
		return ChangeSet{}, false
	}
	for i := 0; i < len(oc.Path)-1; i++ {
		if oc.Path[i] != nc.Path[i] {
			return ChangeSet{}, false
		}
	}
	lastOld, lastNew := oc.Path[len(oc.Path)-1], nc.Path[len(nc.Path)-1]
	if lastOld.NodeName != "#text" || lastNew.NodeName != "#text" {
		return ChangeSet{}, false
	}
	oldText := oldNode.NodeValue()
	if len(oldText) >= opts.MaxCombineChars {
		return ChangeSet{}, false
	}
	if lastOld.Offset+len(oldText) != lastNew.Offset {
		return ChangeSet{}, false
	}
	if !((old.Meta.Type() == "typing" && new.Meta.Type() == "typing") ||
		(old.Meta.Type() == "enter" && new.Meta.Type() == "typing")) {
		return ChangeSet{}, false
	}

	combinedPath := append(Path{}, oc.Path[:len(oc.Path)-1]...)
	combinedPath = append(combinedPath, Step{Offset: lastOld.Offset, NodeName: "#text"})
	combined := MakeInsertChange(combinedPath, []*dom.Node{dom.NewTextNode(oldText + newNode.NodeValue())})

	return ChangeSet{
		Changes:   []Change{combined},
		Meta:      new.Meta,
		Selection: selectionChangeFromRange(selectionOldRange(old.Selection), selectionNewRange(new.Selection)),
	}, true
}

func selectionOldRange(c *Change) *RangeEndpoints {
	if c == nil {
		return nil
	}
	return c.OldRange
}

func selectionNewRange(c *Change) *RangeEndpoints {
	if c == nil {
		return nil
	}
	return c.NewRange
}
