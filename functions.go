package kumiai

import "reflect"

// storeOf returns the store and bit of component T. It panics if T is not a
// declared component.
func storeOf[T any](m *Manager) (*componentStore[T], uint8) {
	bit := m.componentBit(reflect.TypeFor[T]())
	return m.indexes[bit].(*componentStore[T]), bit
}

// AddComponent adds a component of type `T` to the entity referenced by e.
// The manager stores its own copy of val, so later changes to the caller's
// value are not observed.
//
// If the entity already has the component the existing value is returned
// untouched. Otherwise the component is stored, groupings are updated, e's
// snapshot is refreshed and ComponentAdded is published.
//
// Parameters:
//   - e: The handle to mutate through. It must be fresh.
//   - val: The component value.
//
// Returns:
//   - A pointer to the stored component.
//   - true if the component was added, false if it already existed.
func AddComponent[T any](e *Entity, val T) (*T, bool) {
	m := e.mgr
	if m == nil {
		failDetached(BadEntity, "add component")
	}
	s, bit := storeOf[T](m)
	rec := m.assertEntity(e, "add component")
	if rec.mask.containsBit(bit) {
		return s.get(e.id), false
	}
	p := s.insert(e.id, val)
	m.setBit(e.id, rec, bit)
	e.mask = rec.mask
	if bus := m.sink; bus != nil {
		Publish(bus, ComponentAdded[T]{Entity: *e, Component: p})
	}
	return p, true
}

// RemoveComponent removes component `T` from the entity referenced by e.
// ComponentRemoved is published with the value before it is erased. Removing
// the same component again from one of its handlers returns false.
//
// Returns:
//   - true if the component was removed, false if the entity did not have it
//     or its removal is already in progress.
func RemoveComponent[T any](e *Entity) bool {
	m := e.mgr
	if m == nil {
		failDetached(BadEntity, "remove component")
	}
	s, bit := storeOf[T](m)
	rec := m.assertEntity(e, "remove component")
	if !rec.mask.containsBit(bit) || rec.removing.containsBit(bit) {
		return false
	}
	if bus := m.sink; bus != nil {
		rec.removing.set(bit)
		func() {
			defer rec.removing.unset(bit)
			Publish(bus, ComponentRemoved[T]{Entity: *e, Component: s.get(e.id)})
		}()
	}
	m.clearBit(e.id, rec, bit)
	s.erase(e.id)
	e.mask = rec.mask
	return true
}

// GetComponent returns a pointer to component `T` of the entity referenced by
// e. It fails with ErrInvalidComponent unless the handle is fresh and has the
// component. The pointer stays valid until the component is removed.
func GetComponent[T any](e Entity) *T {
	m := e.mgr
	if m == nil {
		failDetached(InvalidComponent, "get component")
	}
	s, bit := storeOf[T](m)
	if st := m.Status(e); st != StatusOK {
		m.fail(InvalidComponent, "get %s: handle to entity %d is %s", reflect.TypeFor[T](), e.id, st)
	}
	if !e.mask.containsBit(bit) {
		m.fail(InvalidComponent, "get %s: entity %d does not have it", reflect.TypeFor[T](), e.id)
	}
	return s.get(e.id)
}

// TryGetComponent is GetComponent without the failure path: it returns
// (nil, false) where GetComponent would fail.
func TryGetComponent[T any](e Entity) (*T, bool) {
	m := e.mgr
	if m == nil {
		return nil, false
	}
	s, bit := storeOf[T](m)
	if m.Status(e) != StatusOK || !e.mask.containsBit(bit) {
		return nil, false
	}
	return s.get(e.id), true
}

// SetTag sets or clears tag `T` on the entity referenced by e. TagAdded or
// TagRemoved is published only on an actual transition.
//
// Returns:
//   - The previous value of the tag.
func SetTag[T any](e *Entity, set bool) bool {
	m := e.mgr
	if m == nil {
		failDetached(BadEntity, "set tag")
	}
	bit := m.tagBit(reflect.TypeFor[T]())
	rec := m.assertEntity(e, "set tag")
	prev := rec.mask.containsBit(bit)
	if prev == set {
		return prev
	}
	idx := m.indexes[bit].(*tagIndex[T])
	if set {
		idx.insert(e.id)
		m.setBit(e.id, rec, bit)
	} else {
		m.clearBit(e.id, rec, bit)
		idx.erase(e.id)
	}
	e.mask = rec.mask
	if bus := m.sink; bus != nil {
		if set {
			Publish(bus, TagAdded[T]{Entity: *e})
		} else {
			Publish(bus, TagRemoved[T]{Entity: *e})
		}
	}
	return prev
}
