package kumiai

import "github.com/tidwall/btree"

// grouping is a target mask plus the set of live entities whose mask is a
// superset of it. The set is kept exact by setBit/clearBit, CreateEntity and
// DestroyEntity.
type grouping struct {
	members btree.Set[EntityID]
	id      uint64
	mask    bitmask256
}

// Grouping is the token returned by CreateGrouping. While it is valid, queries
// whose type set equals the grouping's exactly iterate its members instead of
// scanning.
type Grouping struct {
	mgr *Manager
	id  uint64
}

// CreateGrouping registers a grouping over the given component and tag types
// and seeds it with one full scan. More than one grouping may share a type
// set; queries use the oldest.
//
// Parameters:
//   - types: The types every member must have.
//
// Returns:
//   - A token that deregisters the grouping when destroyed.
func (m *Manager) CreateGrouping(types ...Type) *Grouping {
	mask := m.types.maskOf(types)
	g := &grouping{id: m.nextGroupingID, mask: mask}
	m.nextGroupingID++
	m.records.Scan(func(id EntityID, rec *record) bool {
		if rec.mask.contains(mask) {
			g.members.Insert(id)
		}
		return true
	})
	m.groupings.Set(g.id, g)
	if mask.isZero() {
		m.unfiltered = append(m.unfiltered, g)
	} else {
		mask.forEachSet(func(bit uint8) {
			m.byBit[bit] = append(m.byBit[bit], g)
		})
	}
	m.log.Debug().
		Uint64("grouping", g.id).
		Int("types", mask.count()).
		Int("members", g.members.Len()).
		Msg("grouping created")
	return &Grouping{mgr: m, id: g.id}
}

// destroyGrouping deregisters a grouping. The per-bit lists are rebuilt
// rather than edited in place since a maintenance loop may be ranging over
// them.
func (m *Manager) destroyGrouping(id uint64) bool {
	g, ok := m.groupings.Delete(id)
	if !ok {
		return false
	}
	if g.mask.isZero() {
		m.unfiltered = without(m.unfiltered, g)
	} else {
		g.mask.forEachSet(func(bit uint8) {
			m.byBit[bit] = without(m.byBit[bit], g)
		})
	}
	m.log.Debug().Uint64("grouping", id).Msg("grouping destroyed")
	return true
}

func without(gs []*grouping, g *grouping) []*grouping {
	out := make([]*grouping, 0, len(gs))
	for _, x := range gs {
		if x != g {
			out = append(out, x)
		}
	}
	return out
}

// lookup returns the live grouping behind the token, or nil.
func (g *Grouping) lookup() *grouping {
	if g == nil || g.mgr == nil {
		return nil
	}
	gr, _ := g.mgr.groupings.Get(g.id)
	return gr
}

// IsValid reports whether the grouping is still registered. It turns false
// after Destroy or after the manager is closed.
func (g *Grouping) IsValid() bool {
	return g.lookup() != nil
}

// Destroy deregisters the grouping. It returns false if the grouping was
// already gone.
func (g *Grouping) Destroy() bool {
	if !g.IsValid() {
		return false
	}
	ok := g.mgr.destroyGrouping(g.id)
	g.mgr = nil
	return ok
}

// Len returns the current member count, 0 for an invalid grouping.
func (g *Grouping) Len() int {
	gr := g.lookup()
	if gr == nil {
		return 0
	}
	return gr.members.Len()
}

// Entities returns fresh handles to the current members in id order.
func (g *Grouping) Entities() []Entity {
	gr := g.lookup()
	if gr == nil {
		return nil
	}
	out := make([]Entity, 0, gr.members.Len())
	gr.members.Scan(func(id EntityID) bool {
		rec, _ := g.mgr.records.Get(id)
		out = append(out, g.mgr.handle(id, rec))
		return true
	})
	return out
}
