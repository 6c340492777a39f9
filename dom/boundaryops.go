package dom

// Boundary identifies a position between children of Container, or (when
// Container is a Text node) an offset within its data. It is the DOM-level
// half of the spec's Boundary concept; the Boundaries-module predicates
// (beforeNode, nodeAfter, atEnd, ...) live one layer up, in the history
// package, and are built out of the primitives below.
type Boundary struct {
	Container *Node
	Offset    int
}

// NormalizeBoundary canonicalizes a boundary whose container is an empty
// text node with a parent: it becomes the parent boundary just before
// that text node. A boundary inside a non-empty text node is left alone;
// a boundary at an element position is left alone, including one that
// sits between a text node and a following empty text node.
func NormalizeBoundary(b Boundary) Boundary {
	if b.Container == nil {
		return b
	}
	if !IsTextNode(b.Container) {
		return b
	}
	if b.Container.NodeValue() != "" {
		return b
	}
	// Empty text node: canonicalize to the equivalent parent boundary.
	parent := b.Container.parentNode
	if parent == nil {
		return b
	}
	return Boundary{Container: parent, Offset: indexOfChild(parent, b.Container)}
}

// NodeAtBoundary returns the node immediately after b, or nil if b is at
// the end of its container. For a text-node boundary this is nil (there
// is no "node after" inside character data).
func NodeAtBoundary(b Boundary) *Node {
	if b.Container == nil {
		return nil
	}
	if IsTextNode(b.Container) {
		return nil
	}
	c := b.Container.firstChild
	for i := 0; i < b.Offset && c != nil; i++ {
		c = c.nextSibling
	}
	return c
}

// InsertNodeAtBoundary inserts node at boundary b. When b sits inside a
// text node's data, the text is split first (mergeText controls whether
// a freshly inserted text node is instead merged into the surrounding
// text run rather than left as a separate node). Returns the boundary
// immediately after the inserted node, so callers can advance through a
// run of inserts.
//
// Ranges registered against b.Container's document (dom/range_mutations.go)
// adjust themselves automatically as a side effect of the InsertBefore
// call below; no explicit range bookkeeping is required here.
func InsertNodeAtBoundary(node *Node, b Boundary, mergeText bool) Boundary {
	if b.Container == nil || node == nil {
		return b
	}

	if IsTextNode(b.Container) {
		target, offset := b.Container, b.Offset
		if mergeText && IsTextNode(node) {
			data := node.NodeValue()
			current := target.NodeValue()
			(*Text)(target).SetData(current[:offset] + data + current[offset:])
			return Boundary{Container: target, Offset: offset + len(data)}
		}
		parent := target.parentNode
		ref := target
		if offset > 0 {
			suffix := (*Text)(target).SplitText(offset)
			ref = suffix.AsNode()
		}
		parent.InsertBefore(node, ref)
		return Boundary{Container: parent, Offset: indexOfChild(parent, node) + 1}
	}

	ref := NodeAtBoundary(b)
	b.Container.InsertBefore(node, ref)
	return Boundary{Container: b.Container, Offset: b.Offset + 1}
}

// SplitBoundary ensures b falls on a node boundary, splitting the text
// node it points into if necessary, and returns the resulting element-
// level boundary. If b is already at an element position it is returned
// unchanged.
func SplitBoundary(b Boundary) Boundary {
	if b.Container == nil || !IsTextNode(b.Container) {
		return b
	}
	parent := b.Container.parentNode
	if parent == nil {
		return b
	}
	if b.Offset <= 0 {
		return Boundary{Container: parent, Offset: indexOfChild(parent, b.Container)}
	}
	data := b.Container.NodeValue()
	if b.Offset >= len(data) {
		return Boundary{Container: parent, Offset: indexOfChild(parent, b.Container) + 1}
	}
	suffix := (*Text)(b.Container).SplitText(b.Offset)
	return Boundary{Container: parent, Offset: indexOfChild(parent, suffix.AsNode())}
}

// RemovePreservingRanges removes node from its parent. Live Ranges
// registered against the owning document adjust automatically via the
// OnChildListMutation notification RemoveChild already fires
// (dom/range_mutations.go); this wrapper exists so callers in the history
// package can name the contract the spec describes without reaching past
// the DOM package boundary.
func RemovePreservingRanges(node *Node) {
	if node == nil || node.parentNode == nil {
		return
	}
	node.parentNode.RemoveChild(node)
}

// JoinTextNode merges a text node with any adjacent text-node siblings
// into a single node, removing the now-redundant siblings. Returns the
// surviving node (the first of the run), or nil if textNode is not a
// text node.
func JoinTextNode(textNode *Node) *Node {
	if !IsTextNode(textNode) {
		return nil
	}
	first := textNode
	for first.prevSibling != nil && IsTextNode(first.prevSibling) {
		first = first.prevSibling
	}
	firstText := (*Text)(first)
	var sb []byte
	sb = append(sb, firstText.Data()...)
	next := first.nextSibling
	for next != nil && IsTextNode(next) {
		sb = append(sb, next.NodeValue()...)
		toRemove := next
		next = next.nextSibling
		RemovePreservingRanges(toRemove)
	}
	firstText.SetData(string(sb))
	if firstText.Data() == "" && first.parentNode != nil {
		RemovePreservingRanges(first)
		return nil
	}
	return first
}

// SetRangeFromBoundaries points r's start and end at the given
// boundaries. Passing a nil start or end leaves that side of r
// untouched.
func SetRangeFromBoundaries(r *Range, start, end *Boundary) error {
	if r == nil {
		return nil
	}
	if start != nil {
		if err := r.SetStart(start.Container, start.Offset); err != nil {
			return err
		}
	}
	if end != nil {
		if err := r.SetEnd(end.Container, end.Offset); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceShallow swaps oldNode's identity for newNode in the tree:
// oldNode's children are moved onto newNode one at a time with
// AppendChild (one child-list mutation per child), then newNode takes
// oldNode's position among its siblings via ReplaceChild. Used when a
// reconstructed node shell (fresh attributes, same descendants) takes
// the place of a live node.
func ReplaceShallow(oldNode, newNode *Node) {
	if oldNode == nil || newNode == nil || oldNode.parentNode == nil {
		return
	}
	parent := oldNode.parentNode
	for child := oldNode.firstChild; child != nil; {
		next := child.nextSibling
		newNode.AppendChild(child)
		child = next
	}
	parent.ReplaceChild(newNode, oldNode)
}
