package kumiai

// findGrouping returns the oldest live grouping whose target equals mask.
func (m *Manager) findGrouping(mask bitmask256) *grouping {
	var found *grouping
	m.groupings.Scan(func(_ uint64, g *grouping) bool {
		if g.mask == mask {
			found = g
			return false
		}
		return true
	})
	return found
}

// smallestIndex returns the smallest backing container among the target's
// types, or nil for an empty target. Ties go to the lower bit, which is the
// earlier declaration.
func (m *Manager) smallestIndex(target bitmask256) entityIndex {
	var best entityIndex
	bestLen := 0
	target.forEachSet(func(bit uint8) {
		idx := m.indexes[bit]
		if n := idx.len(); best == nil || n < bestLen {
			best, bestLen = idx, n
		}
	})
	return best
}

// scan visits every live entity whose mask contains target, in ascending id
// order, until fn returns false. A grouping with exactly this target is
// iterated directly; otherwise the smallest backing container is scanned and
// every candidate is tested against the full mask.
func (m *Manager) scan(target bitmask256, fn func(id EntityID, rec *record) bool) {
	if g := m.findGrouping(target); g != nil {
		g.members.Scan(func(id EntityID) bool {
			rec, _ := m.records.Get(id)
			return fn(id, rec)
		})
		return
	}
	idx := m.smallestIndex(target)
	if idx == nil {
		m.records.Scan(fn)
		return
	}
	idx.scan(func(id EntityID) bool {
		rec, ok := m.records.Get(id)
		if !ok || !rec.mask.contains(target) {
			return true
		}
		return fn(id, rec)
	})
}

// GetEntities returns fresh handles to every entity that has all the given
// component and tag types, in ascending id order. With no types it returns
// every live entity. The slice is detached from the manager, so it is safe to
// mutate entities while walking it.
//
// Example:
//
//	movers := m.GetEntities(kumiai.TypeOf[Position](), kumiai.TypeOf[Velocity]())
//	for i := range movers {
//	    movers[i].Destroy()
//	}
func (m *Manager) GetEntities(types ...Type) []Entity {
	target := m.types.maskOf(types)
	out := make([]Entity, 0)
	m.scan(target, func(id EntityID, rec *record) bool {
		out = append(out, m.handle(id, rec))
		return true
	})
	return out
}

// Count returns the number of entities GetEntities would return without
// building the slice.
func (m *Manager) Count(types ...Type) int {
	target := m.types.maskOf(types)
	if g := m.findGrouping(target); g != nil {
		return g.members.Len()
	}
	if target.isZero() {
		return m.records.Len()
	}
	if target.count() == 1 {
		return m.smallestIndex(target).len()
	}
	n := 0
	m.scan(target, func(EntityID, *record) bool {
		n++
		return true
	})
	return n
}
