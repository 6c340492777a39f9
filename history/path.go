package history

import (
	"github.com/chrisuehlinger/domundo/dom"
)

// Step is one hop of a Path: an offset within a container, and the name
// the container must carry for the step to still be meaningful. The
// final step of a Path may instead be a text step (NodeName "#text"),
// whose Offset is a character count rather than a child index.
type Step struct {
	Offset   int
	NodeName string
}

// Path is a normalized, container-relative route to a Boundary. Paths
// are stable across later mutations because they encode normalized
// child positions and, where text immediately surrounds the boundary,
// a character offset rather than a live node reference.
type Path []Step

// Equal reports whether p and other describe the same route.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// PathFromBoundary encodes b, relative to container, as a single-step
// Path. Callers building a multi-level path (the change generator,
// recursing into a record's contained subtree) prepend the steps
// accumulated for outer containers themselves; see generate.go.
//
// b must lie among container's direct children (or inside one of them,
// for a text boundary) — pathFromBoundary has no way to signal "b is not
// under container" beyond that contract, matching spec.md's own note
// that this case is "a contract, not runtime-checked".
func PathFromBoundary(container *dom.Node, b dom.Boundary) Path {
	nb := dom.NormalizeBoundary(b)
	return Path{stepFromBoundary(container, nb)}
}

// PathBeforeNode returns the path to the boundary immediately before
// node, relative to container (node's parent).
func PathBeforeNode(container *dom.Node, node *dom.Node) Path {
	return PathFromBoundary(container, BeforeNode(node))
}

func stepFromBoundary(container *dom.Node, nb dom.Boundary) Step {
	if dom.IsTextNode(nb.Container) {
		run, _ := textRunContaining(nb.Container)
		length := nb.Offset
		for _, n := range run {
			if n == nb.Container {
				break
			}
			length += len(n.NodeValue())
		}
		return Step{Offset: length, NodeName: "#text"}
	}

	// nb.Container is assumed to be container itself: an element-level
	// boundary at a real child offset.
	// Empty text nodes on either side of the boundary are skipped.
	realOffset := nb.Offset
	prev := nthRealChild(container, realOffset-1)
	for prev != nil && dom.IsEmptyTextNode(prev) {
		prev = prev.PreviousSibling()
	}
	if prev != nil && dom.IsTextNode(prev) {
		run, _ := textRunEndingAt(prev)
		length := 0
		for _, n := range run {
			length += len(n.NodeValue())
		}
		return Step{Offset: length, NodeName: "#text"}
	}

	node := nthRealChild(container, realOffset)
	for node != nil && dom.IsEmptyTextNode(node) {
		node = node.NextSibling()
	}
	if node == nil {
		return Step{Offset: dom.NormalizedNumChildren(container), NodeName: container.NodeName()}
	}
	return Step{Offset: dom.NormalizedNodeIndex(node), NodeName: container.NodeName()}
}

// BoundaryFromPath decodes path, relative to container, back into a
// live Boundary. Panics with a ContractViolation if a step's NodeName
// does not match the node it is being asserted against, or a non-final
// step's offset selects no child — both are programmer errors per
// spec.md §7.
func BoundaryFromPath(container *dom.Node, path Path) dom.Boundary {
	current := container
	for i, step := range path {
		last := i == len(path)-1
		if last && step.NodeName == "#text" {
			return boundaryFromTextStep(current, step.Offset)
		}
		assertNodeName(current, step.NodeName)
		if last {
			offset := dom.RealFromNormalizedIndex(current, step.Offset)
			if offset < 0 {
				offset = dom.NodeLength(current)
			}
			return dom.Boundary{Container: current, Offset: offset}
		}
		child := dom.NormalizedNthChild(current, step.Offset)
		if child == nil {
			panic(newContractViolation("boundaryFromPath: step offset %d selects no child of <%s>", step.Offset, current.NodeName()))
		}
		current = child
	}
	return dom.Boundary{Container: current, Offset: 0}
}

func boundaryFromTextStep(container *dom.Node, target int) dom.Boundary {
	if target < 0 {
		panic(newContractViolation("boundaryFromPath: text step offset %d is negative", target))
	}
	for _, run := range maximalTextRunsReverse(container) {
		total := 0
		for _, n := range run {
			total += len(n.NodeValue())
		}
		if target > total {
			continue
		}
		consumed := 0
		for _, n := range run {
			l := len(n.NodeValue())
			if target <= consumed+l {
				within := target - consumed
				if within == 0 {
					return dom.Boundary{Container: container, Offset: dom.NodeIndex(n)}
				}
				return dom.Boundary{Container: n, Offset: within}
			}
			consumed += l
		}
		last := run[len(run)-1]
		return dom.Boundary{Container: container, Offset: dom.NodeIndex(last) + 1}
	}
	if target == 0 {
		return dom.Boundary{Container: container, Offset: 0}
	}
	panic(newContractViolation("boundaryFromPath: no text run under <%s> of length %d", container.NodeName(), target))
}

func assertNodeName(node *dom.Node, name string) {
	if node.NodeName() != name {
		panic(newContractViolation("path step expected <%s>, found <%s>", name, node.NodeName()))
	}
}

// nthRealChild returns the child at the given real (un-normalized)
// index, or nil if out of range.
func nthRealChild(parent *dom.Node, index int) *dom.Node {
	if index < 0 {
		return nil
	}
	c := parent.FirstChild()
	for i := 0; c != nil && i < index; i++ {
		c = c.NextSibling()
	}
	return c
}

// textRunContaining returns the maximal run of non-empty adjacent text
// siblings that includes node, and node's position within that run.
func textRunContaining(node *dom.Node) ([]*dom.Node, int) {
	start := node
	for start.PreviousSibling() != nil && dom.IsTextNode(start.PreviousSibling()) && start.PreviousSibling().NodeValue() != "" {
		start = start.PreviousSibling()
	}
	var run []*dom.Node
	pos := 0
	for n := start; n != nil && dom.IsTextNode(n) && n.NodeValue() != ""; n = n.NextSibling() {
		if n == node {
			pos = len(run)
		}
		run = append(run, n)
	}
	return run, pos
}

// textRunEndingAt returns the maximal run of non-empty adjacent text
// siblings ending at (and including) node.
func textRunEndingAt(node *dom.Node) ([]*dom.Node, int) {
	run, _ := textRunContaining(node)
	return run, len(run) - 1
}

// maximalTextRuns returns every maximal run of non-empty adjacent text
// children of container, in document order.
func maximalTextRuns(container *dom.Node) [][]*dom.Node {
	var runs [][]*dom.Node
	var cur []*dom.Node
	flush := func() {
		if len(cur) > 0 {
			runs = append(runs, cur)
			cur = nil
		}
	}
	for c := container.FirstChild(); c != nil; c = c.NextSibling() {
		if dom.IsTextNode(c) {
			if c.NodeValue() == "" {
				continue
			}
			cur = append(cur, c)
			continue
		}
		flush()
	}
	flush()
	return runs
}

// maximalTextRunsReverse returns the same runs as maximalTextRuns but in
// reverse (rightmost first), since decode prefers the run closest to the
// end of the container when an offset is ambiguous between runs of
// equal length.
func maximalTextRunsReverse(container *dom.Node) [][]*dom.Node {
	runs := maximalTextRuns(container)
	out := make([][]*dom.Node, len(runs))
	for i, r := range runs {
		out[len(runs)-1-i] = r
	}
	return out
}
