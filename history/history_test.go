package history

import (
	"testing"

	"github.com/chrisuehlinger/domundo/dom"
	"github.com/stretchr/testify/require"
)

func typeKey(ctx *Context, div *dom.Node, doc *dom.Document, path Path, text string) {
	Enter(ctx, EnterOpts{PartitionRecords: true, Meta: Meta{"type": "typing"}})
	dom.InsertNodeAtBoundary(doc.CreateTextNode(text), BoundaryFromPath(div, path), true)
	Leave(ctx, LeaveResult{})
	AdvanceHistory(ctx)
}

// TestTypingCoalesce is scenario S1: two single-character typing frames
// at adjacent text offsets coalesce into one history entry.
func TestTypingCoalesce(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div").AsNode()
	ctx := NewContext(div, Options{})

	typeKey(ctx, div, doc, Path{{Offset: 0, NodeName: "DIV"}}, "a")
	typeKey(ctx, div, doc, Path{{Offset: 1, NodeName: "#text"}}, "b")

	hist, idx := ctx.History()
	require.Len(t, hist, 1)
	require.Equal(t, 1, idx)
	require.Len(t, hist[0].Changes, 1)
	require.Equal(t, ChangeInsert, hist[0].Changes[0].Kind)
	require.Equal(t, "ab", hist[0].Changes[0].Content[0].NodeValue())
	last := hist[0].Changes[0].Path[len(hist[0].Changes[0].Path)-1]
	require.Equal(t, "#text", last.NodeName)
	require.Equal(t, 0, last.Offset)
}

// TestCoalesceLimit is scenario S2: with maxCombineChars=2, typing
// "a","b","c" across three frames yields two history entries: "ab"
// then "c".
func TestCoalesceLimit(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div").AsNode()
	ctx := NewContext(div, Options{MaxCombineChars: 2})

	typeKey(ctx, div, doc, Path{{Offset: 0, NodeName: "DIV"}}, "a")
	typeKey(ctx, div, doc, Path{{Offset: 1, NodeName: "#text"}}, "b")
	typeKey(ctx, div, doc, Path{{Offset: 2, NodeName: "#text"}}, "c")

	hist, _ := ctx.History()
	require.Len(t, hist, 2)
	require.Equal(t, "ab", hist[0].Changes[0].Content[0].NodeValue())
	require.Equal(t, "c", hist[1].Changes[0].Content[0].NodeValue())
}

// TestInterruptTyping is scenario S3: interrupting between two typing
// frames forces two separate history entries.
func TestInterruptTyping(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div").AsNode()
	ctx := NewContext(div, Options{})

	typeKey(ctx, div, doc, Path{{Offset: 0, NodeName: "DIV"}}, "a")
	InterruptTyping(ctx)
	typeKey(ctx, div, doc, Path{{Offset: 1, NodeName: "#text"}}, "b")

	hist, _ := ctx.History()
	require.Len(t, hist, 2)
}

// TestUndoRedoRestoresAttribute is scenario S5: undo restores a
// changed attribute and historyIndex, redo restores the new value.
func TestUndoRedoRestoresAttribute(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div").AsNode()
	a := doc.CreateElement("a")
	a.SetAttribute("href", "x")
	div.AppendChild(a.AsNode())

	ctx := NewContext(div, Options{})
	Enter(ctx, EnterOpts{Meta: Meta{"type": "typing"}})
	a.SetAttributeNS("", "href", "y")
	Leave(ctx, LeaveResult{})
	AdvanceHistory(ctx)

	_, idx := ctx.History()
	require.Equal(t, 1, idx)
	require.Equal(t, "y", a.GetAttribute("href"))

	Undo(ctx, nil)
	_, idx = ctx.History()
	require.Equal(t, 0, idx)
	require.Equal(t, "x", a.GetAttribute("href"))

	Redo(ctx, nil)
	_, idx = ctx.History()
	require.Equal(t, 1, idx)
	require.Equal(t, "y", a.GetAttribute("href"))
}

// TestUndoRedoNoopAtBoundaries checks spec.md §7: undo at index 0 and
// redo at the end are no-ops, not errors.
func TestUndoRedoNoopAtBoundaries(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div").AsNode()
	ctx := NewContext(div, Options{})

	require.NotPanics(t, func() { Undo(ctx, nil) })
	require.NotPanics(t, func() { Redo(ctx, nil) })
}

// TestHistoryBound checks invariant 7: history never exceeds
// maxHistory and historyIndex stays within bounds.
func TestHistoryBound(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div").AsNode()
	ctx := NewContext(div, Options{MaxHistory: 2})

	for i := 0; i < 5; i++ {
		Enter(ctx, EnterOpts{Meta: Meta{"type": "edit"}})
		div.AppendChild(doc.CreateElement("p").AsNode())
		Leave(ctx, LeaveResult{})
		AdvanceHistory(ctx)
		InterruptTyping(ctx)
	}

	hist, idx := ctx.History()
	require.LessOrEqual(t, len(hist), 2)
	require.GreaterOrEqual(t, idx, 0)
	require.LessOrEqual(t, idx, len(hist))
}

// TestTruncationOnBranch checks invariant 8: undo followed by a new
// edit discards the former redoable entry.
func TestTruncationOnBranch(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div").AsNode()
	ctx := NewContext(div, Options{})

	Enter(ctx, EnterOpts{Meta: Meta{"type": "edit"}})
	div.AppendChild(doc.CreateElement("p").AsNode())
	Leave(ctx, LeaveResult{})
	AdvanceHistory(ctx)
	InterruptTyping(ctx)

	Undo(ctx, nil)
	hist, idx := ctx.History()
	require.Len(t, hist, 1)
	require.Equal(t, 0, idx)

	Enter(ctx, EnterOpts{Meta: Meta{"type": "edit"}})
	div.AppendChild(doc.CreateElement("span").AsNode())
	Leave(ctx, LeaveResult{})
	AdvanceHistory(ctx)

	hist, idx = ctx.History()
	require.Len(t, hist, 1)
	require.Equal(t, 1, idx)
	require.Equal(t, "SPAN", hist[0].Changes[0].Content[0].NodeName())
}
