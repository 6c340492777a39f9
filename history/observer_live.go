package history

import "github.com/chrisuehlinger/domundo/dom"

// liveObserver is the live-mutation Observer variant (spec.md §4.C). It
// registers as a dom.MutationCallback on the observed element's owning
// document and accumulates raw moves plus pending attribute/text
// updates until TakeChanges runs them through the Normalizer (D) and
// Change generator (E).
//
// Grounded on js/mutation_observer.go's MutationRecord shape (target,
// added/removed nodes, previous/next sibling, attribute name/namespace/
// old value) — this is the teacher's own JS-facing MutationObserver
// binding; this type reuses its field names and "drain on take" idea
// but talks to dom.MutationCallback directly instead of round-tripping
// through goja, since this core has no JavaScript surface.
type liveObserver struct {
	root *dom.Node

	moves       []rawMove
	attrUpdates map[*dom.Node]*attrUpdateEntry
	attrOrder   []*dom.Node
	textUpdates map[*dom.Node]*textUpdateEntry
	textOrder   []*dom.Node
}

func newLiveObserver() *liveObserver {
	o := &liveObserver{}
	o.reset()
	return o
}

func (o *liveObserver) reset() {
	o.moves = nil
	o.attrUpdates = map[*dom.Node]*attrUpdateEntry{}
	o.attrOrder = nil
	o.textUpdates = map[*dom.Node]*textUpdateEntry{}
	o.textOrder = nil
}

func (o *liveObserver) ObserveAll(elem *dom.Node) {
	if o.root == elem {
		return
	}
	if o.root != nil {
		o.Disconnect()
	}
	o.root = elem
	o.reset()
	if elem != nil {
		dom.RegisterMutationCallback(elem.OwnerDocument(), o)
	}
}

func (o *liveObserver) TakeChanges() []Change {
	if o.root == nil {
		return nil
	}
	moves := o.moves
	var attrUpdates []attrUpdateEntry
	for _, n := range o.attrOrder {
		attrUpdates = append(attrUpdates, *o.attrUpdates[n])
	}
	var textUpdates []textUpdateEntry
	for _, n := range o.textOrder {
		textUpdates = append(textUpdates, *o.textUpdates[n])
	}
	root := o.root
	o.reset()

	if len(moves) == 0 && len(attrUpdates) == 0 && len(textUpdates) == 0 {
		return nil
	}
	records := normalize(root, moves, attrUpdates, textUpdates)
	var changes []Change
	generate(root, nil, records, &changes)
	return changes
}

func (o *liveObserver) DiscardChanges() {
	o.reset()
}

func (o *liveObserver) Disconnect() {
	if o.root == nil {
		return
	}
	dom.UnregisterMutationCallback(o.root.OwnerDocument(), o)
	root := o.root
	o.root = nil
	o.reset()
	_ = root
}

// OnChildListMutation implements dom.MutationCallback. addedNodes become
// one INSERT rawMove each; removedNodes become one DELETE rawMove each,
// chained so that a run of contiguous siblings removed in a single
// notification gets the correct per-node prevSibling (the notification
// itself only carries the run's leading previousSibling).
func (o *liveObserver) OnChildListMutation(target *dom.Node, addedNodes, removedNodes []*dom.Node, previousSibling, nextSibling *dom.Node) {
	if o.root == nil {
		return
	}
	for _, n := range addedNodes {
		o.moves = append(o.moves, rawMove{Insert: true, Node: n})
	}
	prev := previousSibling
	for _, n := range removedNodes {
		o.moves = append(o.moves, rawMove{Node: n, Target: target, PrevSibling: prev})
		prev = n
	}
}

// OnAttributeMutation implements dom.MutationCallback. It fires after
// the attribute has already been written, so the new value is read live
// off target; only the first oldValue seen for a given (node, name, ns)
// in this batch is kept, matching UPDATE_ATTR's single-oldValue shape.
func (o *liveObserver) OnAttributeMutation(target *dom.Node, name, ns, oldValue string) {
	if o.root == nil {
		return
	}
	e, ok := o.attrUpdates[target]
	if !ok {
		e = &attrUpdateEntry{Node: target, Attrs: map[string]attrUpdate{}}
		o.attrUpdates[target] = e
		o.attrOrder = append(o.attrOrder, target)
	}
	key := name + " " + ns
	newValue := (*dom.Element)(target).GetAttributeNS(ns, name)
	if existing, ok := e.Attrs[key]; ok {
		existing.NewValue = newValue
		e.Attrs[key] = existing
	} else {
		e.Attrs[key] = attrUpdate{Name: name, NS: ns, OldValue: oldValue, NewValue: newValue}
	}
}

// OnCharacterDataMutation implements dom.MutationCallback, for whole-
// value replacement (SetNodeValue).
func (o *liveObserver) OnCharacterDataMutation(target *dom.Node, oldValue string) {
	o.recordTextOldValue(target, oldValue)
}

// OnReplaceData implements dom.MutationCallback. It fires before the
// splice is applied (dom/text.go's replaceDataInternal notifies, then
// writes), so target's current value at call time already is the
// pre-splice value spec.md's UPDATE_TEXT wants.
func (o *liveObserver) OnReplaceData(target *dom.Node, offset, count int, data string) {
	o.recordTextOldValue(target, target.NodeValue())
}

func (o *liveObserver) recordTextOldValue(target *dom.Node, oldValue string) {
	if o.root == nil {
		return
	}
	if _, ok := o.textUpdates[target]; !ok {
		o.textUpdates[target] = &textUpdateEntry{Node: target, OldValue: oldValue}
		o.textOrder = append(o.textOrder, target)
	}
}
