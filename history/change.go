package history

import "github.com/chrisuehlinger/domundo/dom"

// ChangeKind discriminates Change's tagged variants. An explicit field,
// not a type hierarchy — matching spec.md §9's "tagged variants over
// inheritance".
type ChangeKind int

const (
	ChangeInsert ChangeKind = iota
	ChangeDelete
	ChangeUpdateAttr
	ChangeUpdateRange
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	case ChangeUpdateAttr:
		return "update-attr"
	case ChangeUpdateRange:
		return "update-range"
	default:
		return "unknown"
	}
}

// AttrChange records a single namespaced attribute's old and new value.
type AttrChange struct {
	Name     string
	NS       string
	OldValue string
	NewValue string
}

// RangeEndpoints is a range expressed as a pair of Paths, the form a
// selection takes once it has to survive past the edit that produced it.
type RangeEndpoints struct {
	Start Path
	End   Path
}

// Change is the tagged union described in spec.md §3: exactly one of the
// four kinds below is meaningful for a given value, selected by Kind.
//   - insert / delete: Path + Content.
//   - update-attr: Path + Attrs.
//   - update-range: OldRange + NewRange (each may be nil, meaning "no
//     selection").
type Change struct {
	Kind ChangeKind

	Path    Path
	Content []*dom.Node

	Attrs []AttrChange

	OldRange *RangeEndpoints
	NewRange *RangeEndpoints
}

// MakeInsertChange builds an insert Change, the one constructor the
// public surface exposes directly (spec.md §6).
func MakeInsertChange(path Path, content []*dom.Node) Change {
	return Change{Kind: ChangeInsert, Path: path, Content: content}
}

func makeDeleteChange(path Path, content []*dom.Node) Change {
	return Change{Kind: ChangeDelete, Path: path, Content: content}
}

func makeUpdateAttrChange(path Path, attrs []AttrChange) Change {
	return Change{Kind: ChangeUpdateAttr, Path: path, Attrs: attrs}
}

func makeUpdateRangeChange(oldRange, newRange *RangeEndpoints) Change {
	return Change{Kind: ChangeUpdateRange, OldRange: oldRange, NewRange: newRange}
}

// inverseChange swaps a Change's direction: insert/delete trade kinds,
// update-attr swaps each attribute's old/new value, and update-range
// swaps its two range endpoints. Content and Path are shared with the
// original rather than copied — callers must not mutate them in place.
func inverseChange(c Change) Change {
	switch c.Kind {
	case ChangeInsert:
		return Change{Kind: ChangeDelete, Path: c.Path, Content: c.Content}
	case ChangeDelete:
		return Change{Kind: ChangeInsert, Path: c.Path, Content: c.Content}
	case ChangeUpdateAttr:
		attrs := make([]AttrChange, len(c.Attrs))
		for i, a := range c.Attrs {
			attrs[i] = AttrChange{Name: a.Name, NS: a.NS, OldValue: a.NewValue, NewValue: a.OldValue}
		}
		return Change{Kind: ChangeUpdateAttr, Path: c.Path, Attrs: attrs}
	case ChangeUpdateRange:
		return Change{Kind: ChangeUpdateRange, OldRange: c.NewRange, NewRange: c.OldRange}
	default:
		panic(newContractViolation("inverseChange: unrecognized change kind %d", c.Kind))
	}
}
