package history

import "github.com/chrisuehlinger/domundo/dom"

// generate implements spec.md §4.E: it walks a sorted record tree and
// appends path-based Changes to changes, relative to prefix (the route
// already taken to reach container).
func generate(container *dom.Node, prefix Path, records []*record, changes *[]Change) {
	i := 0
	for i < len(records) {
		r := records[i]
		switch r.Kind {
		case recCompoundDelete:
			deletePath := append(Path{}, prefix...)
			deletePath = append(deletePath, deleteStep(r)...)

			content := make([]*dom.Node, len(r.Members))
			for mi, m := range r.Members {
				generate(m.Node, deletePath, m.Contained, changes)
				content[mi] = reconstructMember(m)
			}
			*changes = append(*changes, makeDeleteChange(deletePath, content))
			i++

		case recInsert:
			j := i + 1
			runEnd := r.Node
			for j < len(records) && records[j].Kind == recInsert && records[j].Node == runEnd.NextSibling() {
				runEnd = records[j].Node
				j++
			}
			path := PathBeforeNode(container, r.Node)
			content := make([]*dom.Node, 0, j-i)
			for k := i; k < j; k++ {
				content = append(content, records[k].Node.CloneNode(true))
			}
			*changes = append(*changes, MakeInsertChange(path, content))
			i = j

		case recUpdateAttr:
			path := PathBeforeNode(container, r.Node)
			attrs := make([]AttrChange, 0, len(r.Attrs))
			for _, a := range r.Attrs {
				attrs = append(attrs, AttrChange{Name: a.Name, NS: a.NS, OldValue: a.OldValue, NewValue: a.NewValue})
			}
			*changes = append(*changes, makeUpdateAttrChange(path, attrs))
			i++

		case recUpdateText:
			path := PathBeforeNode(container, r.Node)
			*changes = append(*changes, makeDeleteChange(path, []*dom.Node{dom.NewTextNode(r.OldValue)}))
			*changes = append(*changes, MakeInsertChange(path, []*dom.Node{r.Node.CloneNode(false)}))
			i++

		default:
			panic(newContractViolation("generate: unrecognized record kind %d", r.Kind))
		}
	}
}

// deleteStep computes the single path step that locates a compound
// delete's anchor: either right after its surviving previous sibling,
// or at the start of its (still-live) original parent.
func deleteStep(r *record) Path {
	if r.PrevSibling != nil {
		parent := r.PrevSibling.ParentNode()
		b := dom.Boundary{Container: parent, Offset: dom.NodeIndex(r.PrevSibling) + 1}
		return PathFromBoundary(parent, b)
	}
	return PathFromBoundary(r.Target, dom.Boundary{Container: r.Target, Offset: 0})
}

// reconstructMember rebuilds the node a deleted member's delete-change
// content should carry: a fresh text node holding the pre-edit value for
// text, or a deep clone with pre-edit attribute values restored for an
// element. Descendant edits that happened within the same batch are not
// folded in here — they are carried as the nested changes generate()
// emits from m.Contained, which patch the reconstructed node further
// once undo has re-inserted it.
func reconstructMember(m *deleteMember) *dom.Node {
	if dom.IsTextNode(m.Node) {
		value := m.Node.NodeValue()
		if m.UpdateText != nil {
			value = *m.UpdateText
		}
		return dom.NewTextNode(value)
	}
	clone := m.Node.CloneNode(true)
	if m.UpdateAttr != nil {
		el := (*dom.Element)(clone)
		for _, a := range m.UpdateAttr {
			el.SetAttributeNS(a.NS, a.Name, a.OldValue)
		}
	}
	return clone
}
