package kumiai

import "reflect"

// EntityID is an opaque, monotonically increasing identifier. A Manager never
// reuses an id.
type EntityID uint64

// Status describes a handle relative to its manager's canonical record.
type Status uint8

const (
	// StatusUninitialized: the handle was never bound to a manager.
	StatusUninitialized Status = iota
	// StatusDeleted: the id existed but has been destroyed.
	StatusDeleted
	// StatusStale: the entity was mutated through another handle.
	StatusStale
	// StatusOK: the handle's snapshot matches the canonical record.
	StatusOK
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "UNINITIALIZED"
	case StatusDeleted:
		return "DELETED"
	case StatusStale:
		return "STALE"
	case StatusOK:
		return "OK"
	}
	return "UNKNOWN"
}

// Entity is a lightweight handle: a non-owning reference to its Manager, the
// entity id and a snapshot of the entity's bitset taken when this handle was
// last bound or mutated. Copies are independent handles; mutating through one
// copy makes the others STALE until they Sync.
//
// The zero Entity is UNINITIALIZED.
type Entity struct {
	mgr  *Manager
	id   EntityID
	mask bitmask256
}

// ID returns the entity id.
func (e Entity) ID() EntityID { return e.id }

// Manager returns the owning manager, or nil for an uninitialized handle.
func (e Entity) Manager() *Manager { return e.mgr }

// Status reports the handle's status against the canonical record.
func (e Entity) Status() Status {
	if e.mgr == nil {
		return StatusUninitialized
	}
	return e.mgr.Status(e)
}

// Sync refreshes the snapshot from the canonical record. It returns false,
// leaving the handle untouched, if the entity no longer exists.
func (e *Entity) Sync() bool {
	if e.mgr == nil {
		return false
	}
	return e.mgr.Sync(e)
}

// Destroy destroys the entity through this handle.
func (e *Entity) Destroy() {
	if e.mgr == nil {
		failDetached(BadEntity, "destroy")
	}
	e.mgr.DestroyEntity(e)
}

// Equal reports whether both handles refer to the same entity of the same
// manager, regardless of their snapshots.
func (e Entity) Equal(other Entity) bool {
	return e.mgr == other.mgr && e.id == other.id
}

// HasComponent reports whether the handle's snapshot has component T. It
// never fails: a stale or deleted handle answers from its snapshot.
func HasComponent[T any](e Entity) bool {
	if e.mgr == nil {
		return false
	}
	return e.mask.containsBit(e.mgr.componentBit(reflect.TypeFor[T]()))
}

// HasTag reports whether the handle's snapshot has tag T. Like HasComponent
// it reads only the snapshot.
func HasTag[T any](e Entity) bool {
	if e.mgr == nil {
		return false
	}
	return e.mask.containsBit(e.mgr.tagBit(reflect.TypeFor[T]()))
}
