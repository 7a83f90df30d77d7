package collide

import "github.com/ridgeline-phys/collide/narrowphase"

// ContactEvent reports a manifold transitioning to or from empty between two
// live objects, mirroring narrowphase.ContactEvent but over this package's
// public Handle instead of the internal narrowphase.ObjectId.
type ContactEvent struct {
	A, B    Handle
	Started bool
}

// ProximityEvent reports the discrete proximity value between two objects
// changing, mirroring narrowphase.ProximityEvent over public Handles.
type ProximityEvent struct {
	A, B     Handle
	Previous narrowphase.ProximityState
	Current  narrowphase.ProximityState
}

// Events is the world's event sink, one append-only slice per event kind: spec.md §5 step 5 asks
// for queues "appended to during step and may be drained by the client
// between steps. Clearing them is explicit." Grounded on teacher_trigger.go's
// Events (buffer + explicit flush), narrowed to the two event kinds spec.md
// §6 actually names (no listener-subscription map: spec.md §6 has clients
// pull contact_events()/proximity_events() rather than push via callbacks,
// so the teacher's per-EventType listener registry has no counterpart here).
type Events struct {
	contacts  []ContactEvent
	proximity []ProximityEvent
}

func newEvents() Events {
	return Events{
		contacts:  make([]ContactEvent, 0, 64),
		proximity: make([]ProximityEvent, 0, 64),
	}
}

func (e *Events) pushContact(ev ContactEvent)     { e.contacts = append(e.contacts, ev) }
func (e *Events) pushProximity(ev ProximityEvent) { e.proximity = append(e.proximity, ev) }

// ContactEvents returns the contact start/stop events accumulated since the
// last ClearEvents. The returned slice aliases internal storage; clients
// must not mutate it and must not retain it across ClearEvents.
func (e *Events) ContactEvents() []ContactEvent { return e.contacts }

// ProximityEvents returns the proximity-changed events accumulated since the
// last ClearEvents.
func (e *Events) ProximityEvents() []ProximityEvent { return e.proximity }

// ClearEvents drops every buffered event. spec.md §5: "Clearing them is
// explicit" — Update never does this implicitly, so a client that calls
// Update several times before draining still sees every event since its last
// clear.
func (e *Events) ClearEvents() {
	e.contacts = e.contacts[:0]
	e.proximity = e.proximity[:0]
}
