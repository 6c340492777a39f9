package history

import "github.com/chrisuehlinger/domundo/dom"

// Observer is the uniform collaborator contract spec.md §4.C describes:
// two implementations (live mutation observation, before/after snapshot
// diff) behind one capability set, so nothing elsewhere in the core
// type-switches on which variant it has (spec.md §9, "no runtime type
// tests over observer variants").
type Observer interface {
	// ObserveAll starts observing elem. Re-attaching to the element
	// already being observed is a no-op.
	ObserveAll(elem *dom.Node)
	// TakeChanges drains whatever has accumulated since the last take
	// (or since ObserveAll), returning it as a path-based change list
	// relative to the observed element. Returns nil if nothing changed.
	TakeChanges() []Change
	// DiscardChanges drops whatever has accumulated since the last take
	// without producing changes.
	DiscardChanges()
	// Disconnect stops observing.
	Disconnect()
}
