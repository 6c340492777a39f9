package history

import (
	"testing"

	"github.com/chrisuehlinger/domundo/dom"
	"github.com/stretchr/testify/require"
)

// TestNestedFrameMergesIntoParentByDefault checks that a plain nested
// Capture (no partitionRecords, no noObserve crossing) never forces a
// flush: both appends stay pending in the same observer window and
// get drained together on the outer Leave, so the generator's
// contiguous-sibling run merges them into one insert Change.
func TestNestedFrameMergesIntoParentByDefault(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div").AsNode()
	ctx := NewContext(div, Options{})

	Enter(ctx, EnterOpts{Meta: Meta{"type": "edit"}})
	div.AppendChild(doc.CreateElement("p").AsNode())

	Capture(ctx, EnterOpts{}, func() LeaveResult {
		div.AppendChild(doc.CreateElement("span").AsNode())
		return LeaveResult{}
	})

	f := Leave(ctx, LeaveResult{})
	cs := ChangeSetFromFrame(f)
	require.Len(t, cs.Changes, 1)
	require.Len(t, cs.Changes[0].Content, 2)
	require.Equal(t, "P", cs.Changes[0].Content[0].NodeName())
	require.Equal(t, "SPAN", cs.Changes[0].Content[1].NodeName())
}

// TestPartitionRecordsSplitsHistoryEntries checks that a parent frame
// with PartitionRecords set produces one ChangeSet per nested capture
// (and per directly-observed span) rather than one merged entry.
func TestPartitionRecordsSplitsHistoryEntries(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div").AsNode()
	ctx := NewContext(div, Options{})

	Enter(ctx, EnterOpts{PartitionRecords: true, Meta: Meta{"type": "batch"}})
	div.AppendChild(doc.CreateElement("p").AsNode())

	Capture(ctx, EnterOpts{Meta: Meta{"type": "nested"}}, func() LeaveResult {
		div.AppendChild(doc.CreateElement("span").AsNode())
		return LeaveResult{}
	})

	div.AppendChild(doc.CreateElement("b").AsNode())

	f := Leave(ctx, LeaveResult{})
	sets := partitionedChangeSetsFromFrame(f)
	require.Len(t, sets, 3)
	require.Equal(t, "P", sets[0].Changes[0].Content[0].NodeName())
	require.Equal(t, "SPAN", sets[1].Changes[0].Content[0].NodeName())
	require.Equal(t, "nested", sets[1].Meta.Type())
	require.Equal(t, "B", sets[2].Changes[0].Content[0].NodeName())
	require.Equal(t, "batch", sets[2].Meta.Type())
}

// TestNoObserveFrameSuppliesExplicitChanges checks that a noObserve
// capture's content comes only from result.Changes, never the
// observer, and that mutations performed inside it never surface via
// the parent's later TakeChanges.
func TestNoObserveFrameSuppliesExplicitChanges(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div").AsNode()
	ctx := NewContext(div, Options{})

	Enter(ctx, EnterOpts{Meta: Meta{"type": "edit"}})

	explicit := []Change{MakeInsertChange(Path{{Offset: 0, NodeName: "DIV"}}, []*dom.Node{doc.CreateElement("i").AsNode()})}
	Capture(ctx, EnterOpts{NoObserve: true}, func() LeaveResult {
		div.AppendChild(doc.CreateElement("p").AsNode())
		return LeaveResult{Changes: explicit}
	})

	div.AppendChild(doc.CreateElement("span").AsNode())

	f := Leave(ctx, LeaveResult{})
	cs := ChangeSetFromFrame(f)
	require.Len(t, cs.Changes, 2)
	require.Equal(t, "I", cs.Changes[0].Content[0].NodeName())
	require.Equal(t, "SPAN", cs.Changes[1].Content[0].NodeName())
}

// TestLeaveRejectsChangesOnObservedFrame checks the contract violation
// panic when a non-noObserve Leave supplies explicit Changes.
func TestLeaveRejectsChangesOnObservedFrame(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div").AsNode()
	ctx := NewContext(div, Options{})

	Enter(ctx, EnterOpts{})
	require.Panics(t, func() {
		Leave(ctx, LeaveResult{Changes: []Change{MakeInsertChange(nil, nil)}})
	})
}

// TestCaptureRunsLeaveOnPanic checks that Capture's Leave still runs
// (and the frame stack unwinds) when fn panics, with the panic
// re-raised afterward.
func TestCaptureRunsLeaveOnPanic(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div").AsNode()
	ctx := NewContext(div, Options{})

	Enter(ctx, EnterOpts{})
	require.Panics(t, func() {
		Capture(ctx, EnterOpts{}, func() LeaveResult {
			panic("boom")
		})
	})
	require.NotPanics(t, func() { Leave(ctx, LeaveResult{}) })
}
