package history

import (
	"github.com/chrisuehlinger/domundo/dom"
)

// Start returns r's start boundary.
func Start(r *dom.Range) dom.Boundary {
	return dom.Boundary{Container: r.StartContainer(), Offset: r.StartOffset()}
}

// End returns r's end boundary.
func End(r *dom.Range) dom.Boundary {
	return dom.Boundary{Container: r.EndContainer(), Offset: r.EndOffset()}
}

// BeforeNode returns the boundary immediately preceding node among its
// siblings.
func BeforeNode(node *dom.Node) dom.Boundary {
	if node == nil {
		return dom.Boundary{}
	}
	parent := node.ParentNode()
	return dom.Boundary{Container: parent, Offset: dom.NodeIndex(node)}
}

// NodeBefore returns the node immediately preceding b, or nil if b is at
// the start of its container. For a boundary inside a text node's data
// (offset > 0), the text node itself is "before" the boundary.
func NodeBefore(b dom.Boundary) *dom.Node {
	if b.Container == nil {
		return nil
	}
	if dom.IsTextNode(b.Container) {
		if b.Offset > 0 {
			return b.Container
		}
		return b.Container.PreviousSibling()
	}
	return nthRealChild(b.Container, b.Offset-1)
}

// NodeAfter returns the node immediately following b, or nil if b is at
// the end of its container. For a boundary inside a text node's data
// (offset < length), the text node itself is "after" the boundary.
func NodeAfter(b dom.Boundary) *dom.Node {
	if b.Container == nil {
		return nil
	}
	if dom.IsTextNode(b.Container) {
		if b.Offset < len(b.Container.NodeValue()) {
			return b.Container
		}
		return b.Container.NextSibling()
	}
	return dom.NodeAtBoundary(b)
}

// PrecedingTextLength returns the number of characters of text
// immediately preceding b, within the maximal run of adjacent text
// nodes ending at b. Zero if b is not text-adjacent.
func PrecedingTextLength(b dom.Boundary) int {
	if b.Container == nil {
		return 0
	}
	if dom.IsTextNode(b.Container) {
		run, pos := textRunContaining(b.Container)
		length := b.Offset
		for _, n := range run[:pos] {
			length += len(n.NodeValue())
		}
		return length
	}
	prev := nthRealChild(b.Container, b.Offset-1)
	if prev == nil || !dom.IsTextNode(prev) || prev.NodeValue() == "" {
		return 0
	}
	run, _ := textRunEndingAt(prev)
	length := 0
	for _, n := range run {
		length += len(n.NodeValue())
	}
	return length
}

// AtEnd reports whether b is the final boundary of its container: no
// node and no character of text follows it.
func AtEnd(b dom.Boundary) bool {
	if b.Container == nil {
		return true
	}
	if dom.IsTextNode(b.Container) {
		if b.Offset < len(b.Container.NodeValue()) {
			return false
		}
		return b.Container.NextSibling() == nil
	}
	return b.Offset >= dom.NodeLength(b.Container)
}
