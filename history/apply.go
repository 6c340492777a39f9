package history

import "github.com/chrisuehlinger/domundo/dom"

// applyChange implements spec.md §4.F for a single Change: it resolves
// the change's Path against container into a live Boundary and mutates
// the tree accordingly. Text fragments produced or exposed along the
// way are appended to *textNodes, so applyChanges can re-coalesce them
// in one final pass instead of leaving the tree in a split state.
func applyChange(container *dom.Node, change Change, rng *dom.Range, textNodes *[]*dom.Node) {
	switch change.Kind {
	case ChangeUpdateAttr:
		b := BoundaryFromPath(container, change.Path)
		node := NodeAfter(b)
		if node == nil {
			panic(newContractViolation("applyChange: update-attr path resolved to no node"))
		}
		el := (*dom.Element)(node)
		for _, a := range change.Attrs {
			el.SetAttributeNS(a.NS, a.Name, a.NewValue)
		}

	case ChangeUpdateRange:
		if rng == nil {
			return
		}
		var start, end *dom.Boundary
		if change.NewRange != nil {
			s := BoundaryFromPath(container, change.NewRange.Start)
			e := BoundaryFromPath(container, change.NewRange.End)
			start, end = &s, &e
		}
		if err := dom.SetRangeFromBoundaries(rng, start, end); err != nil {
			panic(newContractViolation("applyChange: update-range failed: %v", err))
		}

	case ChangeInsert:
		b := BoundaryFromPath(container, change.Path)
		for _, n := range change.Content {
			clone := n.CloneNode(true)
			b = dom.InsertNodeAtBoundary(clone, b, true)
			if dom.IsTextNode(clone) {
				*textNodes = append(*textNodes, clone)
			}
		}

	case ChangeDelete:
		b := dom.SplitBoundary(BoundaryFromPath(container, change.Path))
		for _, n := range change.Content {
			if dom.IsTextNode(n) {
				applyTextDelete(b, n.NodeValue(), textNodes)
				continue
			}
			live := dom.NodeAtBoundary(b)
			if live == nil || live.NodeName() != n.NodeName() {
				panic(newContractViolation("applyChange: delete expected <%s>, found live %v", n.NodeName(), live))
			}
			dom.RemovePreservingRanges(live)
		}

	default:
		panic(newContractViolation("applyChange: unrecognized change kind %d", change.Kind))
	}
}

// applyTextDelete consumes need bytes of live text starting at b, which
// must sit on an element-level boundary pointing into a run of live
// text nodes. A live node shorter than what remains is wholly removed;
// a live node longer than what remains is split, its prefix removed,
// and its surviving suffix handed to textNodes for the final join pass
// (spec.md §4.F: "push the suffix to textNodes").
func applyTextDelete(b dom.Boundary, deleted string, textNodes *[]*dom.Node) {
	need := len(deleted)
	for need > 0 {
		live := dom.NodeAtBoundary(b)
		if live == nil || !dom.IsTextNode(live) {
			panic(newContractViolation("applyChange: delete expected a live text node, found %v", live))
		}
		liveLen := len(live.NodeValue())
		if liveLen > need {
			suffix := (*dom.Text)(live).SplitText(need)
			dom.RemovePreservingRanges(live)
			*textNodes = append(*textNodes, suffix.AsNode())
			return
		}
		dom.RemovePreservingRanges(live)
		need -= liveLen
	}
}

// applyChanges applies every change in changes, in order, against
// container, then re-joins every text node touched along the way so
// the tree is left in normalized-text form (spec.md §4.F).
func applyChanges(container *dom.Node, changes []Change, rng *dom.Range) {
	var textNodes []*dom.Node
	for _, c := range changes {
		applyChange(container, c, rng, &textNodes)
	}
	for _, n := range textNodes {
		if n.ParentNode() != nil {
			dom.JoinTextNode(n)
		}
	}
}

// applyChangeSet applies cs's changes and then, if rng is non-nil,
// applies its selection update.
func applyChangeSet(container *dom.Node, cs ChangeSet, rng *dom.Range) {
	applyChanges(container, cs.Changes, rng)
	if cs.Selection != nil {
		applyChange(container, *cs.Selection, rng, &[]*dom.Node{})
	}
}
