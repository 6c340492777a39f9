package history

import (
	"sort"

	"github.com/chrisuehlinger/domundo/dom"
)

// attrUpdateEntry is one pending attribute-change record for a node,
// keyed by the node itself (not an expando id — unlike the insert/delete
// anchor maps below, attribute and text updates never need to survive a
// node moving to a different anchor within the batch, so pointer
// identity is sufficient).
type attrUpdateEntry struct {
	Node  *dom.Node
	Attrs map[string]attrUpdate
}

type textUpdateEntry struct {
	Node     *dom.Node
	OldValue string
}

// normalize implements spec.md §4.D: it turns a batch of raw INSERT/
// DELETE moves plus pending attribute/text updates into a sorted record
// tree, relative to container.
func normalize(container *dom.Node, moves []rawMove, attrUpdates []attrUpdateEntry, textUpdates []textUpdateEntry) []*record {
	inserted := map[uint64]*rawMove{}
	delsByPrevSibling := map[uint64][]*rawMove{}
	delsByTarget := map[uint64][]*rawMove{}

	// Stage 1 — pair insert/delete sequences preserving anchors.
	for i := range moves {
		mv := &moves[i]
		id := dom.EnsureExpandoID(mv.Node)

		if mv.Insert {
			if _, exists := inserted[id]; exists {
				panic(newContractViolation("normalize: duplicate INSERT for the same node within one batch"))
			}
			inserted[id] = mv
			continue
		}

		ref := mv.PrevSibling
		useTarget := ref == nil
		if useTarget {
			ref = mv.Target
		}
		refID := dom.EnsureExpandoID(ref)

		if _, ok := inserted[id]; ok {
			// insert(x); delete(x) in the same batch: vanish.
			delete(inserted, id)
		} else if useTarget {
			delsByTarget[refID] = append(delsByTarget[refID], mv)
		} else {
			delsByPrevSibling[refID] = append(delsByPrevSibling[refID], mv)
		}

		// A delete list keyed on this node (because some earlier-processed
		// delete used it as its own prevSibling anchor) is now stranded,
		// since this node itself just left the tree. Splice it onto the
		// anchor this delete just joined (or would have joined, had it
		// not been cancelled above) so it is not lost.
		strandedPS := delsByPrevSibling[id]
		strandedT := delsByTarget[id]
		if len(strandedPS) > 0 || len(strandedT) > 0 {
			delete(delsByPrevSibling, id)
			delete(delsByTarget, id)
			if useTarget {
				delsByTarget[refID] = append(delsByTarget[refID], strandedPS...)
				delsByTarget[refID] = append(delsByTarget[refID], strandedT...)
			} else {
				delsByPrevSibling[refID] = append(delsByPrevSibling[refID], strandedPS...)
				delsByPrevSibling[refID] = append(delsByPrevSibling[refID], strandedT...)
			}
		}
	}

	attrByNode := map[*dom.Node]map[string]attrUpdate{}
	for _, e := range attrUpdates {
		attrByNode[e.Node] = e.Attrs
	}
	textByNode := map[*dom.Node]string{}
	hasText := map[*dom.Node]bool{}
	for _, e := range textUpdates {
		textByNode[e.Node] = e.OldValue
		hasText[e.Node] = true
	}
	consumedAttr := map[*dom.Node]bool{}
	consumedText := map[*dom.Node]bool{}

	// Stage 2 — form compound deletes, consuming matching updates.
	var deletes []*record
	consolidate := func(byAnchor map[uint64][]*rawMove) {
		for _, list := range byAnchor {
			if len(list) == 0 {
				continue
			}
			first := list[0]
			rec := &record{Kind: recCompoundDelete, Target: first.Target, PrevSibling: first.PrevSibling}
			for _, mv := range list {
				member := &deleteMember{Node: mv.Node}
				if attrs, ok := attrByNode[mv.Node]; ok {
					member.UpdateAttr = attrs
					consumedAttr[mv.Node] = true
				}
				if hasText[mv.Node] {
					v := textByNode[mv.Node]
					member.UpdateText = &v
					consumedText[mv.Node] = true
				}
				rec.Members = append(rec.Members, member)
			}
			deletes = append(deletes, rec)
		}
	}
	consolidate(delsByPrevSibling)
	consolidate(delsByTarget)

	var inserts []*record
	emittedInsert := map[uint64]bool{}
	for i := range moves {
		mv := &moves[i]
		if !mv.Insert {
			continue
		}
		id := dom.EnsureExpandoID(mv.Node)
		if _, ok := inserted[id]; !ok || emittedInsert[id] {
			continue
		}
		emittedInsert[id] = true
		inserts = append(inserts, &record{Kind: recInsert, Node: mv.Node})
	}

	// Stage 3 — build the record tree.
	var tree []*record
	for _, d := range deletes {
		insertRecord(&tree, d)
	}
	for _, ins := range inserts {
		insertRecord(&tree, ins)
	}
	for _, e := range attrUpdates {
		if consumedAttr[e.Node] {
			continue
		}
		insertRecord(&tree, &record{Kind: recUpdateAttr, Node: e.Node, Attrs: e.Attrs})
	}
	for _, e := range textUpdates {
		if consumedText[e.Node] {
			continue
		}
		insertRecord(&tree, &record{Kind: recUpdateText, Node: e.Node, OldValue: e.OldValue})
	}

	var top []*record
	for _, r := range tree {
		if container.Contains(r.anchor()) {
			top = append(top, r)
		}
	}

	// Stage 4 — sort.
	sortRecordTree(top)
	return top
}

// insertRecord places x into the tree rooted at *tree, recursing into
// whichever already-placed delete's subtree contains x's anchor, or
// discarding x if an already-placed insert's subtree already covers it.
func insertRecord(tree *[]*record, x *record) {
	anchor := x.anchor()
	if m := findContainingMember(*tree, anchor); m != nil {
		insertRecord(&m.Contained, x)
		return
	}
	if insertContains(*tree, anchor) {
		return
	}
	placeAtLevel(tree, x)
}

func findContainingMember(level []*record, anchor *dom.Node) *deleteMember {
	for _, r := range level {
		if r.Kind != recCompoundDelete {
			continue
		}
		for _, m := range r.Members {
			if m.Node != anchor && m.Node.Contains(anchor) {
				if deeper := findContainingMember(m.Contained, anchor); deeper != nil {
					return deeper
				}
				return m
			}
		}
	}
	return nil
}

func insertContains(level []*record, anchor *dom.Node) bool {
	for _, r := range level {
		if r.Kind == recInsert && r.Node.Contains(anchor) {
			return true
		}
	}
	return false
}

func memberContaining(del *record, anchor *dom.Node) *deleteMember {
	for _, m := range del.Members {
		if m.Node.Contains(anchor) {
			return m
		}
	}
	return nil
}

func placeAtLevel(tree *[]*record, x *record) {
	switch x.Kind {
	case recCompoundDelete:
		var kept []*record
		for _, r := range *tree {
			if m := memberContaining(x, r.anchor()); m != nil {
				m.Contained = append(m.Contained, r)
				continue
			}
			kept = append(kept, r)
		}
		*tree = append(kept, x)
	case recInsert:
		// Strict containment here, deliberately: an already-placed
		// compound delete for this exact node (the delete half of a
		// delete(x); insert(x) move) must survive — only genuine
		// descendants of the freshly inserted subtree are redundant with
		// its cloned content.
		var kept []*record
		for _, r := range *tree {
			if ra := r.anchor(); ra != x.Node && x.Node.Contains(ra) {
				continue
			}
			kept = append(kept, r)
		}
		*tree = append(kept, x)
	default:
		*tree = append(*tree, x)
	}
}

func sortRecordTree(level []*record) {
	sort.SliceStable(level, func(i, j int) bool {
		a, b := level[i], level[j]
		ai, bi := a.anchor(), b.anchor()
		if ai == bi {
			if a.Kind == recCompoundDelete && b.Kind != recCompoundDelete {
				return true
			}
			return false
		}
		return dom.Precedes(ai, bi)
	})
	for _, r := range level {
		if r.Kind != recCompoundDelete {
			continue
		}
		for _, m := range r.Members {
			sortRecordTree(m.Contained)
		}
	}
}
