package kumiai

import "reflect"

// EventBus provides a simple, type-safe event bus. A Manager with an attached
// bus publishes its lifecycle events on it; applications may publish their
// own event types on the same bus.
//
// Handlers are called synchronously, in subscription order, on the
// publishing goroutine.
type EventBus struct {
	eventTypeMap map[reflect.Type]int
	handlers     [][]subscriber
	nextSubID    uint64
}

type subscriber struct {
	fn any
	id uint64
}

// Subscription is the handle returned by Subscribe. It can unsubscribe its
// handler exactly once.
type Subscription struct {
	bus    *EventBus
	typeID int
	id     uint64
	valid  bool
}

// Subscribe registers a handler function to be called when an event of type `T`
// is published.
//
// Parameters:
//   - bus: The EventBus instance to subscribe to.
//   - handler: A function that takes a single argument of type `T`.
//
// Returns:
//   - A Subscription that removes the handler when unsubscribed.
func Subscribe[T any](bus *EventBus, handler func(T)) *Subscription {
	id := bus.getEventTypeID(reflect.TypeFor[T]())
	sub := subscriber{fn: handler, id: bus.nextSubID}
	bus.nextSubID++
	if cap(bus.handlers[id]) == 0 {
		bus.handlers[id] = make([]subscriber, 0, 4)
	}
	bus.handlers[id] = append(bus.handlers[id], sub)
	return &Subscription{bus: bus, typeID: id, id: sub.id, valid: true}
}

// Publish broadcasts an event of type `T` to all registered handlers for that
// type. Publishing a type nobody subscribed to is a map lookup and nothing
// else.
//
// Parameters:
//   - bus: The EventBus instance to publish to.
//   - event: The event data of type `T` to be sent to handlers.
func Publish[T any](bus *EventBus, event T) {
	if id, ok := bus.eventTypeMap[reflect.TypeFor[T]()]; ok {
		hs := bus.handlers[id]
		for _, h := range hs {
			h.fn.(func(T))(event)
		}
	}
}

// HasSubscribers reports whether any handler is registered for T.
func HasSubscribers[T any](bus *EventBus) bool {
	id, ok := bus.eventTypeMap[reflect.TypeFor[T]()]
	return ok && len(bus.handlers[id]) > 0
}

// IsValid reports whether the subscription is still registered.
func (s *Subscription) IsValid() bool {
	return s != nil && s.valid
}

// Unsubscribe removes the handler. It returns false if the subscription was
// already removed.
func (s *Subscription) Unsubscribe() bool {
	if !s.IsValid() {
		return false
	}
	s.valid = false
	s.bus.remove(s.typeID, s.id)
	return true
}

// remove builds a fresh handler slice so a Publish currently ranging over the
// old one is unaffected.
func (bus *EventBus) remove(typeID int, subID uint64) {
	old := bus.handlers[typeID]
	hs := make([]subscriber, 0, len(old))
	for _, h := range old {
		if h.id != subID {
			hs = append(hs, h)
		}
	}
	bus.handlers[typeID] = hs
}

// getEventTypeID retrieves or assigns an ID for the event type.
func (bus *EventBus) getEventTypeID(t reflect.Type) int {
	if bus.eventTypeMap == nil {
		bus.eventTypeMap = make(map[reflect.Type]int)
	}
	if id, ok := bus.eventTypeMap[t]; ok {
		return id
	}
	id := len(bus.handlers)
	bus.handlers = append(bus.handlers, nil)
	bus.eventTypeMap[t] = id
	return id
}
