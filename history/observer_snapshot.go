package history

import "github.com/chrisuehlinger/domundo/dom"

// snapshotObserver is the before/after Observer variant (spec.md
// §4.C): no live subscription, just a deep clone taken at ObserveAll
// and compared against the live element on TakeChanges. Grounded on
// dom.Node.CloneNode/IsEqualNode.
type snapshotObserver struct {
	root     *dom.Node
	snapshot *dom.Node
}

func newSnapshotObserver() *snapshotObserver {
	return &snapshotObserver{}
}

func (o *snapshotObserver) ObserveAll(elem *dom.Node) {
	if elem != nil && elem == o.root && o.snapshot != nil {
		return
	}
	o.root = elem
	if elem != nil {
		o.snapshot = elem.CloneNode(true)
	} else {
		o.snapshot = nil
	}
}

// TakeChanges reports no change if the live element still deep-equals
// the snapshot; otherwise it emits a delete of the snapshot's former
// children followed by an insert of the live element's current
// children, both at the root boundary, then refreshes the snapshot.
func (o *snapshotObserver) TakeChanges() []Change {
	if o.root == nil || o.snapshot == nil {
		return nil
	}
	if o.root.IsEqualNode(o.snapshot) {
		return nil
	}

	path := Path{{Offset: 0, NodeName: o.root.NodeName()}}

	var oldContent []*dom.Node
	for c := o.snapshot.FirstChild(); c != nil; c = c.NextSibling() {
		oldContent = append(oldContent, c)
	}
	var newContent []*dom.Node
	for c := o.root.FirstChild(); c != nil; c = c.NextSibling() {
		newContent = append(newContent, c.CloneNode(true))
	}

	changes := []Change{
		makeDeleteChange(path, oldContent),
		MakeInsertChange(path, newContent),
	}
	o.snapshot = o.root.CloneNode(true)
	return changes
}

// DiscardChanges refreshes the snapshot without emitting.
func (o *snapshotObserver) DiscardChanges() {
	if o.root != nil {
		o.snapshot = o.root.CloneNode(true)
	}
}

func (o *snapshotObserver) Disconnect() {
	o.root = nil
	o.snapshot = nil
}
