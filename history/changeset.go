package history

// Meta is the opaque, free-form change-set label spec.md §3 describes.
// The coalescer only ever looks at meta["type"], recognizing "typing"
// and "enter" (spec.md §4.H); everything else is carried through
// untouched.
type Meta map[string]interface{}

// Type returns meta["type"] as a string, or "" if absent or not a
// string.
func (m Meta) Type() string {
	if m == nil {
		return ""
	}
	t, _ := m["type"].(string)
	return t
}

// ChangeSet bundles an ordered list of Changes with a selection update
// and opaque metadata.
type ChangeSet struct {
	Changes   []Change
	Meta      Meta
	Selection *Change // always ChangeUpdateRange, or nil
}

// inverseChangeSet reverses cs's change order (so applying the inverse
// undoes later edits before earlier ones), inverts each change and the
// selection update, and preserves meta verbatim.
func inverseChangeSet(cs ChangeSet) ChangeSet {
	inverted := make([]Change, len(cs.Changes))
	for i, c := range cs.Changes {
		inverted[len(cs.Changes)-1-i] = inverseChange(c)
	}
	out := ChangeSet{Changes: inverted, Meta: cs.Meta}
	if cs.Selection != nil {
		sel := inverseChange(*cs.Selection)
		out.Selection = &sel
	}
	return out
}
