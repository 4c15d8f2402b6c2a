package kumiai

import "github.com/tidwall/btree"

// entityIndex provides type-erased operations over the per-type containers so
// the Manager can destroy entities and pick scan candidates without knowing
// the concrete type.
type entityIndex interface {
	// len returns the number of entities in this container.
	len() int

	// has reports whether the entity is in this container.
	has(id EntityID) bool

	// scan visits ids in ascending order until fn returns false.
	scan(fn func(id EntityID) bool)

	// erase removes the entity, a no-op if absent.
	erase(id EntityID)

	// publishRemoved broadcasts the typed removal event for e.
	publishRemoved(bus *EventBus, e Entity)
}

// componentStore is the ordered map from entity id to a value of type T. It
// contains an id iff T's bit is set in that entity's canonical record. Values
// are boxed so the pointers handed out stay put while the tree rebalances.
type componentStore[T any] struct {
	items btree.Map[EntityID, *T]
}

// insert stores an independent copy of val and returns its address.
func (s *componentStore[T]) insert(id EntityID, val T) *T {
	p := new(T)
	*p = val
	s.items.Set(id, p)
	return p
}

// get returns the stored value for id, or nil.
func (s *componentStore[T]) get(id EntityID) *T {
	p, _ := s.items.Get(id)
	return p
}

func (s *componentStore[T]) len() int { return s.items.Len() }

func (s *componentStore[T]) has(id EntityID) bool {
	_, ok := s.items.Get(id)
	return ok
}

func (s *componentStore[T]) scan(fn func(id EntityID) bool) {
	s.items.Scan(func(id EntityID, _ *T) bool {
		return fn(id)
	})
}

func (s *componentStore[T]) erase(id EntityID) {
	s.items.Delete(id)
}

func (s *componentStore[T]) publishRemoved(bus *EventBus, e Entity) {
	if p := s.get(e.id); p != nil {
		Publish(bus, ComponentRemoved[T]{Entity: e, Component: p})
	}
}

// tagIndex is the ordered set of entities carrying tag T. It backs tag-only
// queries the same way a componentStore's key set backs component queries.
type tagIndex[T any] struct {
	ids btree.Set[EntityID]
}

func (t *tagIndex[T]) insert(id EntityID) { t.ids.Insert(id) }

func (t *tagIndex[T]) len() int { return t.ids.Len() }

func (t *tagIndex[T]) has(id EntityID) bool { return t.ids.Contains(id) }

func (t *tagIndex[T]) scan(fn func(id EntityID) bool) {
	t.ids.Scan(fn)
}

func (t *tagIndex[T]) erase(id EntityID) {
	t.ids.Delete(id)
}

func (t *tagIndex[T]) publishRemoved(bus *EventBus, e Entity) {
	Publish(bus, TagRemoved[T]{Entity: e})
}
