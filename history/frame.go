package history

import "github.com/chrisuehlinger/domundo/dom"

// FrameOpts is the merged, resolved option set carried by a Frame once
// enter has applied inheritance (NoObserve inherits down the stack).
type FrameOpts struct {
	NoObserve        bool
	PartitionRecords bool
	Meta             Meta
}

// EnterOpts is what a caller passes to Enter (spec.md §6): a live
// OldRange, if given, is captured as a path pair immediately so it
// survives whatever mutations happen during the frame.
type EnterOpts struct {
	NoObserve        bool
	PartitionRecords bool
	Meta             Meta
	OldRange         *dom.Range
}

// LeaveResult is what a caller passes to Leave (spec.md §6). Changes is
// required for a noObserve frame and forbidden otherwise — Leave
// panics with a ContractViolation if that's violated.
type LeaveResult struct {
	Changes  []Change
	NewRange *dom.Range
}

// recordItem is a Frame's entry: either a leaf list of Changes observed
// directly, or a completed nested Frame.
type recordItem struct {
	Changes []Change
	Frame   *Frame
}

// Frame is a unit of grouped edits with its own options and captured
// pre/post selection ranges (spec.md §3).
type Frame struct {
	Opts     FrameOpts
	Records  []recordItem
	OldRange *RangeEndpoints
	NewRange *RangeEndpoints
	Parent   *Frame
}

func rangeEndpoints(root *dom.Node, r *dom.Range) *RangeEndpoints {
	if r == nil {
		return nil
	}
	return &RangeEndpoints{
		Start: PathFromBoundary(root, Start(r)),
		End:   PathFromBoundary(root, End(r)),
	}
}

// Enter pushes a new frame (spec.md §4.G). If a parent frame is active,
// NoObserve inherits down and, when this frame's effective regime
// crosses the parent's noObserve boundary or the parent asked to
// partition, the parent's own pending observed changes are flushed
// into the parent's records first so they don't later mix with what
// happens inside this frame. If there is no parent, this is a
// top-level enter: the observer attaches to the root element.
func Enter(ctx *Context, opts EnterOpts) {
	parent := ctx.frame
	f := &Frame{
		Opts: FrameOpts{
			NoObserve:        opts.NoObserve || (parent != nil && parent.Opts.NoObserve),
			PartitionRecords: opts.PartitionRecords,
			Meta:             opts.Meta,
		},
		Parent:   parent,
		OldRange: rangeEndpoints(ctx.Root, opts.OldRange),
	}

	if parent != nil {
		if crossesNoObserveBoundary(parent, f) || (parent.Opts.PartitionRecords && !parent.Opts.NoObserve) {
			takeRecordsInto(ctx, parent)
		}
		ctx.stack = append(ctx.stack, parent)
	} else if ctx.observer != nil {
		ctx.observer.ObserveAll(ctx.Root)
	}

	ctx.frame = f
}

func crossesNoObserveBoundary(parent, f *Frame) bool {
	return parent.Opts.NoObserve != f.Opts.NoObserve
}

// takeRecordsInto drains the observer's pending changes into f's own
// Records as a leaf entry, leaving f.Records empty-of-them if there was
// nothing pending.
func takeRecordsInto(ctx *Context, f *Frame) {
	if f.Opts.NoObserve {
		ctx.observer.DiscardChanges()
		return
	}
	if c := ctx.observer.TakeChanges(); len(c) > 0 {
		f.Records = append(f.Records, recordItem{Changes: c})
	}
}

// Leave pops the active frame (spec.md §4.G). A noObserve frame's
// leaf content always comes from result.Changes (the observer's own
// queue for that span is discarded, since mutations performed under
// noObserve are supplied explicitly by the caller instead); a
// non-noObserve frame must not supply result.Changes and instead has
// its content taken from the observer whenever this leave forces a
// partitioning take (top-level, a noObserve-boundary crossing, or a
// partitioning parent). Completed non-top-level frames are appended to
// the parent's Records as {Frame: f}.
func Leave(ctx *Context, result LeaveResult) *Frame {
	f := ctx.frame
	if f == nil {
		panic(newContractViolation("leave: no active frame"))
	}
	parent := f.Parent

	if f.Opts.NoObserve {
		ctx.observer.DiscardChanges()
		if len(result.Changes) > 0 {
			f.Records = append(f.Records, recordItem{Changes: result.Changes})
		}
	} else {
		if len(result.Changes) > 0 {
			panic(newContractViolation("leave: non-noObserve frame must not supply result.Changes"))
		}
		if parent == nil || crossesNoObserveBoundary(parent, f) || (parent.Opts.PartitionRecords && !parent.Opts.NoObserve) {
			takeRecordsInto(ctx, f)
		}
	}

	f.NewRange = rangeEndpoints(ctx.Root, result.NewRange)

	if parent == nil {
		ctx.observer.Disconnect()
		ctx.frame = nil
		ctx.lastTop = f
		return f
	}

	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	ctx.frame = parent
	parent.Records = append(parent.Records, recordItem{Frame: f})
	return f
}

// Capture runs fn between Enter and Leave, guaranteeing Leave executes
// even if fn panics (spec.md §5: scoped acquisition with guaranteed
// release on every exit path). The panic, if any, is re-raised after
// Leave completes rather than suppressed.
func Capture(ctx *Context, opts EnterOpts, fn func() LeaveResult) *Frame {
	Enter(ctx, opts)
	var result LeaveResult
	var caught interface{}
	func() {
		defer func() { caught = recover() }()
		result = fn()
	}()
	f := Leave(ctx, result)
	if caught != nil {
		panic(caught)
	}
	return f
}

// CaptureOffTheRecord runs fn with NoObserve forced on, then removes
// the completed frame from its parent's Records (if any) so undo/redo
// applications never re-enter history.
func CaptureOffTheRecord(ctx *Context, opts EnterOpts, fn func() LeaveResult) *Frame {
	opts.NoObserve = true
	f := Capture(ctx, opts, fn)
	if f.Parent != nil {
		if n := len(f.Parent.Records); n > 0 && f.Parent.Records[n-1].Frame == f {
			f.Parent.Records = f.Parent.Records[:n-1]
		}
	} else if ctx.lastTop == f {
		// A top-level off-the-record capture has no parent to detach
		// from; clear it from lastTop directly so the next
		// AdvanceHistory doesn't mistake it for a real pending edit.
		ctx.lastTop = nil
	}
	return f
}

// collectChanges flattens f's record tree depth-first into a flat
// change list, recursing into nested frames (spec.md §4.G).
func collectChanges(f *Frame) []Change {
	var out []Change
	for _, item := range f.Records {
		if item.Frame != nil {
			out = append(out, collectChanges(item.Frame)...)
		} else {
			out = append(out, item.Changes...)
		}
	}
	return out
}

func selectionChangeFromRange(oldR, newR *RangeEndpoints) *Change {
	if oldR == nil && newR == nil {
		return nil
	}
	c := makeUpdateRangeChange(oldR, newR)
	return &c
}

// ChangeSetFromFrame flattens f's entire record tree into a single
// ChangeSet carrying f's own selection range and meta (spec.md §6).
func ChangeSetFromFrame(f *Frame) ChangeSet {
	return ChangeSet{
		Changes:   collectChanges(f),
		Meta:      f.Opts.Meta,
		Selection: selectionChangeFromRange(f.OldRange, f.NewRange),
	}
}

// partitionedChangeSetsFromFrame produces one ChangeSet per top-level
// Records entry of f: a {Frame: …} entry contributes its own nested
// frame's ranges, a leaf {Changes: …} entry contributes f's own ranges
// (spec.md §4.G).
func partitionedChangeSetsFromFrame(f *Frame) []ChangeSet {
	var out []ChangeSet
	for _, item := range f.Records {
		if item.Frame != nil {
			out = append(out, ChangeSet{
				Changes:   collectChanges(item.Frame),
				Meta:      item.Frame.Opts.Meta,
				Selection: selectionChangeFromRange(item.Frame.OldRange, item.Frame.NewRange),
			})
		} else {
			out = append(out, ChangeSet{
				Changes:   item.Changes,
				Meta:      f.Opts.Meta,
				Selection: selectionChangeFromRange(f.OldRange, f.NewRange),
			})
		}
	}
	return out
}
