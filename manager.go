package kumiai

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/btree"
)

// record is the canonical, manager-owned state of a live entity.
type record struct {
	mask bitmask256
	// dying is set while the removal events of a destroy are delivered.
	dying bool
	// removing holds the bits whose ComponentRemoved event is being delivered.
	removing bitmask256
}

// Manager owns all entity records, component stores and groupings. Handles
// (Entity values) refer back to it without owning anything.
//
// A Manager is not safe for concurrent use and must not be copied.
type Manager struct {
	log  zerolog.Logger
	sink *EventBus
	errs reporter

	types   typeTable
	indexes []entityIndex // per bit: componentStore[T] or tagIndex[T]
	records btree.Map[EntityID, *record]
	nextID  EntityID

	groupings      btree.Map[uint64, *grouping]
	byBit          [MaxTypes][]*grouping // groupings whose target includes the bit
	unfiltered     []*grouping           // groupings with an empty target
	nextGroupingID uint64

	iterating int // depth of running ForEach calls
	id        uuid.UUID
}

// NewManager creates a Manager indexing the types declared by schema. The
// type→bit table is fixed from here on.
//
// It panics if a type is declared twice or more than MaxTypes types are
// declared.
//
// Parameters:
//   - schema: The declared component and tag types.
//   - opts: Logging, error reporting and configuration options.
//
// Returns:
//   - The newly created Manager.
func NewManager(schema Schema, opts ...Option) *Manager {
	types, indexes := newTypeTable(schema)
	m := &Manager{
		id:      uuid.New(),
		types:   types,
		indexes: indexes,
		errs:    defaultReporter(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With().Str("manager", m.id.String()).Logger()
	m.log.Debug().
		Int("components", types.numComponents).
		Int("tags", len(types.infos)-types.numComponents).
		Msg("entity manager created")
	return m
}

// ID returns the manager's unique id, also used as its logger field.
func (m *Manager) ID() uuid.UUID {
	return m.id
}

// Len returns the number of live entities.
func (m *Manager) Len() int {
	return m.records.Len()
}

// Close destroys every live grouping and detaches the event sink. Handles and
// grouping tokens must not be used afterwards.
func (m *Manager) Close() {
	var ids []uint64
	m.groupings.Scan(func(id uint64, _ *grouping) bool {
		ids = append(ids, id)
		return true
	})
	for _, id := range ids {
		m.destroyGrouping(id)
	}
	m.sink = nil
	m.log.Debug().Int("entities", m.records.Len()).Msg("entity manager closed")
}

func (m *Manager) componentBit(t reflect.Type) uint8 {
	return m.types.bitOf(t, KindComponent)
}

func (m *Manager) tagBit(t reflect.Type) uint8 {
	return m.types.bitOf(t, KindTag)
}

// handle builds a fresh handle for a live record.
func (m *Manager) handle(id EntityID, rec *record) Entity {
	return Entity{mgr: m, id: id, mask: rec.mask}
}

// Status reports the status of e relative to this manager. A handle bound to
// another manager is UNINITIALIZED here.
func (m *Manager) Status(e Entity) Status {
	if e.mgr != m {
		return StatusUninitialized
	}
	rec, ok := m.records.Get(e.id)
	if !ok {
		if e.id < m.nextID {
			return StatusDeleted
		}
		return StatusUninitialized
	}
	if rec.mask != e.mask {
		return StatusStale
	}
	return StatusOK
}

// Sync overwrites the snapshot of e from the canonical record and returns
// true. It returns false if the entity does not exist.
func (m *Manager) Sync(e *Entity) bool {
	if e.mgr != m {
		return false
	}
	rec, ok := m.records.Get(e.id)
	if !ok {
		return false
	}
	e.mask = rec.mask
	return true
}

// assertMutable fails if a ForEach is running.
func (m *Manager) assertMutable(op string) {
	if m.iterating > 0 {
		m.fail(IterationMutation, "%s inside ForEach", op)
	}
}

// assertEntity validates a handle for a mutating call and returns its
// canonical record. Nothing has been modified when it fails.
func (m *Manager) assertEntity(e *Entity, op string) *record {
	m.assertMutable(op)
	if e.mgr != m {
		m.fail(BadEntity, "%s: entity %d is not bound to this manager", op, e.id)
	}
	rec, ok := m.records.Get(e.id)
	if !ok {
		m.fail(BadEntity, "%s: entity %d does not exist", op, e.id)
	}
	if rec.dying {
		m.fail(BadEntity, "%s: entity %d is being destroyed", op, e.id)
	}
	if rec.mask != e.mask {
		m.fail(BadEntity, "%s: handle to entity %d is stale", op, e.id)
	}
	return rec
}

// setBit records a 0→1 transition and inserts the entity into every grouping
// referencing the bit whose target is now satisfied.
func (m *Manager) setBit(id EntityID, rec *record, bit uint8) {
	rec.mask.set(bit)
	for _, g := range m.byBit[bit] {
		if rec.mask.contains(g.mask) {
			g.members.Insert(id)
		}
	}
}

// clearBit records a 1→0 transition. Losing a bit can only break containment
// for groupings requiring it.
func (m *Manager) clearBit(id EntityID, rec *record, bit uint8) {
	rec.mask.unset(bit)
	for _, g := range m.byBit[bit] {
		g.members.Delete(id)
	}
}

// Init is an initial component value for CreateEntity, built with With.
type Init struct {
	typ reflect.Type
	add func(m *Manager, id EntityID, rec *record, bit uint8) func(bus *EventBus, e Entity)
}

// With wraps an initial component value for CreateEntity. The manager stores
// its own copy of val.
func With[T any](val T) Init {
	return Init{
		typ: reflect.TypeFor[T](),
		add: func(m *Manager, id EntityID, rec *record, bit uint8) func(*EventBus, Entity) {
			p := m.indexes[bit].(*componentStore[T]).insert(id, val)
			m.setBit(id, rec, bit)
			return func(bus *EventBus, e Entity) {
				Publish(bus, ComponentAdded[T]{Entity: e, Component: p})
			}
		},
	}
}

// CreateEntity allocates the next id and attaches the initial components.
// Every init type is validated before anything is created. If a type is
// given twice the first value wins.
//
// With an event sink attached it publishes EntityCreated followed by one
// ComponentAdded per stored component.
//
// Parameters:
//   - inits: Initial component values, see With.
//
// Returns:
//   - A fresh handle whose snapshot equals the canonical bitset.
func (m *Manager) CreateEntity(inits ...Init) Entity {
	m.assertMutable("create entity")
	bits := make([]uint8, len(inits))
	for i, in := range inits {
		if in.add == nil {
			panic("kumiai: zero Init passed to CreateEntity, use With")
		}
		bits[i] = m.componentBit(in.typ)
	}

	id := m.nextID
	m.nextID++
	rec := &record{}
	m.records.Set(id, rec)
	for _, g := range m.unfiltered {
		g.members.Insert(id)
	}
	emit := make([]func(*EventBus, Entity), 0, len(inits))
	for i, in := range inits {
		if rec.mask.containsBit(bits[i]) {
			continue
		}
		emit = append(emit, in.add(m, id, rec, bits[i]))
	}

	e := m.handle(id, rec)
	m.log.Trace().Uint64("entity", uint64(id)).Int("components", len(emit)).Msg("entity created")
	if bus := m.sink; bus != nil {
		Publish(bus, EntityCreated{Entity: e})
		for _, fn := range emit {
			fn(bus, e)
		}
	}
	return e
}

// DestroyEntity destroys the entity referenced by e. It fails with
// ErrBadEntity if the handle is stale, dead or foreign, so destroying twice
// is an error.
//
// With an event sink attached it first publishes ComponentRemoved for every
// held component and TagRemoved for every set tag, both in declaration order,
// then EntityDestroyed. The entity cannot be mutated from those handlers.
func (m *Manager) DestroyEntity(e *Entity) {
	rec := m.assertEntity(e, "destroy entity")
	id := e.id
	if bus := m.sink; bus != nil {
		m.publishDestroy(bus, id, rec)
	}

	rec.mask.forEachSet(func(bit uint8) {
		m.indexes[bit].erase(id)
		for _, g := range m.byBit[bit] {
			g.members.Delete(id)
		}
	})
	for _, g := range m.unfiltered {
		g.members.Delete(id)
	}
	m.records.Delete(id)
	m.log.Trace().Uint64("entity", uint64(id)).Msg("entity destroyed")
}

// publishDestroy delivers the removal events of a destroy. If a handler
// panics the entity is left alive and mutable, as if the destroy had never
// been issued.
func (m *Manager) publishDestroy(bus *EventBus, id EntityID, rec *record) {
	rec.dying = true
	defer func() { rec.dying = false }()
	cur := m.handle(id, rec)
	rec.mask.forEachSet(func(bit uint8) {
		m.indexes[bit].publishRemoved(bus, cur)
	})
	Publish(bus, EntityDestroyed{Entity: cur})
}
