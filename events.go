package kumiai

// EntityCreated is published after CreateEntity has stored all initial
// components, before their ComponentAdded events.
type EntityCreated struct {
	Entity Entity
}

// EntityDestroyed is published after the removal events of a destroyed
// entity, while its record still exists.
type EntityDestroyed struct {
	Entity Entity
}

// ComponentAdded is published when an entity gains component T. Component
// points at the stored value.
type ComponentAdded[T any] struct {
	Entity    Entity
	Component *T
}

// ComponentRemoved is published just before component T is erased. Component
// is only valid for the duration of the handler call. The entity still has
// the component while handlers run; RemoveComponent[T] on it is a no-op
// returning false.
type ComponentRemoved[T any] struct {
	Entity    Entity
	Component *T
}

// TagAdded is published on a 0→1 transition of tag T.
type TagAdded[T any] struct {
	Entity Entity
}

// TagRemoved is published on a 1→0 transition of tag T, including when the
// entity is destroyed.
type TagRemoved[T any] struct {
	Entity Entity
}

// SetEventSink attaches bus; lifecycle events are published on it from now
// on. Passing nil detaches.
func (m *Manager) SetEventSink(bus *EventBus) {
	m.sink = bus
}

// ClearEventSink detaches the event bus.
func (m *Manager) ClearEventSink() {
	m.sink = nil
}

// EventSink returns the attached bus, or nil.
func (m *Manager) EventSink() *EventBus {
	return m.sink
}
