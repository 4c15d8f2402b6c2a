package kumiai

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pos struct{ X, Y float64 }
type vel struct{ X, Y float64 }
type frozen struct{}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(Schema{
		Components: []Type{TypeOf[pos](), TypeOf[vel]()},
		Tags:       []Type{TypeOf[frozen]()},
	})
	t.Cleanup(m.Close)
	return m
}

// checkIndexes asserts that every per-type container holds exactly the
// entities whose canonical bitset has the type's bit.
func checkIndexes(t *testing.T, m *Manager) {
	t.Helper()
	for bit, idx := range m.indexes {
		want := 0
		m.records.Scan(func(id EntityID, rec *record) bool {
			has := rec.mask.containsBit(uint8(bit))
			assert.Equal(t, has, idx.has(id), "bit %d entity %d", bit, id)
			if has {
				want++
			}
			return true
		})
		assert.Equal(t, want, idx.len(), "bit %d", bit)
	}
}

// go test -run ^TestIndexesFollowRecords$ . -count 1
func TestIndexesFollowRecords(t *testing.T) {
	m := newTestManager(t)
	rng := rand.New(rand.NewSource(7))
	var live []Entity
	for step := 0; step < 500; step++ {
		if len(live) == 0 || rng.Intn(6) == 0 {
			live = append(live, m.CreateEntity(With(pos{X: 1})))
			continue
		}
		i := rng.Intn(len(live))
		e := &live[i]
		switch rng.Intn(5) {
		case 0:
			AddComponent(e, vel{})
		case 1:
			RemoveComponent[pos](e)
		case 2:
			SetTag[frozen](e, true)
		case 3:
			SetTag[frozen](e, false)
		case 4:
			e.Destroy()
			live = append(live[:i], live[i+1:]...)
		}
	}
	checkIndexes(t, m)
	assert.Equal(t, len(live), m.Len())
}

// go test -run ^TestBitAssignment$ . -count 1
func TestBitAssignment(t *testing.T) {
	m := newTestManager(t)
	assert.Equal(t, uint8(0), m.componentBit(TypeOf[pos]().typ))
	assert.Equal(t, uint8(1), m.componentBit(TypeOf[vel]().typ))
	assert.Equal(t, uint8(2), m.tagBit(TypeOf[frozen]().typ))
	assert.Panics(t, func() { m.tagBit(TypeOf[pos]().typ) })
	assert.Panics(t, func() { m.componentBit(TypeOf[frozen]().typ) })
}

// go test -run ^TestSmallestIndex$ . -count 1
func TestSmallestIndex(t *testing.T) {
	m := newTestManager(t)
	target := m.types.maskOf([]Type{TypeOf[pos](), TypeOf[vel]()})
	assert.Nil(t, m.smallestIndex(bitmask256{}))

	// tie on empty containers goes to the earlier declaration
	assert.Same(t, m.indexes[0], m.smallestIndex(target))

	for i := 0; i < 3; i++ {
		m.CreateEntity(With(pos{}))
	}
	m.CreateEntity(With(pos{}), With(vel{}))
	assert.Same(t, m.indexes[1], m.smallestIndex(target))

	m.CreateEntity(With(vel{}))
	m.CreateEntity(With(vel{}))
	m.CreateEntity(With(vel{}))
	assert.Same(t, m.indexes[0], m.smallestIndex(target))
	assert.Equal(t, 1, m.Count(TypeOf[pos](), TypeOf[vel]()))
}

// go test -run ^TestFindGroupingOldest$ . -count 1
func TestFindGroupingOldest(t *testing.T) {
	m := newTestManager(t)
	target := m.types.maskOf([]Type{TypeOf[pos]()})
	require.Nil(t, m.findGrouping(target))

	first := m.CreateGrouping(TypeOf[pos]())
	m.CreateGrouping(TypeOf[pos]())
	m.CreateGrouping(TypeOf[pos](), TypeOf[frozen]())
	assert.Equal(t, first.id, m.findGrouping(target).id)

	first.Destroy()
	assert.NotNil(t, m.findGrouping(target))
	assert.NotEqual(t, first.id, m.findGrouping(target).id)
}

// go test -run ^TestIterationCounterUnwinds$ . -count 1
func TestIterationCounterUnwinds(t *testing.T) {
	m := newTestManager(t)
	m.CreateEntity(With(pos{}))
	assert.Panics(t, func() {
		m.ForEach(func(Entity, *Control) { panic("boom") })
	})
	assert.Equal(t, 0, m.iterating)
}
