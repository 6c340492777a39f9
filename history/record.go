package history

import "github.com/chrisuehlinger/domundo/dom"

// rawMove is one raw INSERT or DELETE mutation record observed in a
// batch, in the form spec.md §3 describes: "Deletes additionally carry
// contained, updateAttr, updateText after consolidation" — that
// consolidated shape is deleteMember, built in stage 2 of the
// Normalizer; rawMove itself is the pre-consolidation shape the
// Observer hands in.
type rawMove struct {
	Insert      bool
	Node        *dom.Node
	Target      *dom.Node // DELETE only: node's original parent
	PrevSibling *dom.Node // DELETE only: node's original previous sibling, nil if it was the first child
}

// recordKind discriminates the normalized record tree's node types.
// Standalone DELETE never survives past Stage 2 of the Normalizer — it
// is always consolidated into a COMPOUND_DELETE, even a run of one.
type recordKind int

const (
	recInsert recordKind = iota
	recCompoundDelete
	recUpdateAttr
	recUpdateText
)

// deleteMember is one node consolidated into a COMPOUND_DELETE: its own
// pending attribute/text updates (consumed out of the batch's update
// maps so they are not double-counted as separate top-level records),
// and the subtree of records contained within it (built by Stage 3,
// since the node's own removal means the generator needs those records
// to reconstruct what was lost rather than being able to clone it from
// the still-live tree).
type deleteMember struct {
	Node       *dom.Node
	UpdateAttr map[string]attrUpdate
	UpdateText *string
	Contained  []*record
}

type attrUpdate struct {
	Name     string
	NS       string
	OldValue string
	NewValue string
}

// record is one node of the normalized record tree (spec.md §4.D's
// output). Exactly one of the field groups below is meaningful,
// selected by Kind:
//   - recInsert: Node.
//   - recCompoundDelete: Target, PrevSibling, Members.
//   - recUpdateAttr: Node, Attrs.
//   - recUpdateText: Node, OldValue.
type record struct {
	Kind recordKind

	Node *dom.Node

	Target      *dom.Node
	PrevSibling *dom.Node
	Members     []*deleteMember

	Attrs    map[string]attrUpdate
	OldValue string
}

// anchor returns the live node a record is positioned by: prevSibling
// (falling back to target) for a compound delete, node for everything
// else.
func (r *record) anchor() *dom.Node {
	if r.Kind == recCompoundDelete {
		if r.PrevSibling != nil {
			return r.PrevSibling
		}
		return r.Target
	}
	return r.Node
}
