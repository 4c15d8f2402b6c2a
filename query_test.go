package kumiai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwinsyarief/kumiai"
)

// go test -run ^TestGetEntities$ . -count 1
func TestGetEntities(t *testing.T) {
	m := newManager(t)
	e1 := m.CreateEntity(kumiai.With(A{}))
	e2 := m.CreateEntity(kumiai.With(A{}), kumiai.With(B{}))
	e3 := m.CreateEntity(kumiai.With(B{}))
	kumiai.SetTag[TA](&e3, true)
	kumiai.SetTag[TA](&e2, true)

	tests := []struct {
		name  string
		types []kumiai.Type
		want  []kumiai.EntityID
	}{
		{"all", nil, []kumiai.EntityID{e1.ID(), e2.ID(), e3.ID()}},
		{"A", []kumiai.Type{kumiai.TypeOf[A]()}, []kumiai.EntityID{e1.ID(), e2.ID()}},
		{"B", []kumiai.Type{kumiai.TypeOf[B]()}, []kumiai.EntityID{e2.ID(), e3.ID()}},
		{"A and B", []kumiai.Type{kumiai.TypeOf[B](), kumiai.TypeOf[A]()}, []kumiai.EntityID{e2.ID()}},
		{"tag only", []kumiai.Type{kumiai.TypeOf[TA]()}, []kumiai.EntityID{e2.ID(), e3.ID()}},
		{"B and tag", []kumiai.Type{kumiai.TypeOf[B](), kumiai.TypeOf[TA]()}, []kumiai.EntityID{e2.ID(), e3.ID()}},
		{"nobody", []kumiai.Type{kumiai.TypeOf[C]()}, nil},
		{"unset tag", []kumiai.Type{kumiai.TypeOf[A](), kumiai.TypeOf[TB]()}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.GetEntities(tt.types...)
			require.NotNil(t, got)
			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, ids(got))
			}
			assert.Equal(t, len(got), m.Count(tt.types...))
			for _, e := range got {
				assert.Equal(t, kumiai.StatusOK, e.Status())
			}
		})
	}

	assert.Panics(t, func() { m.GetEntities(kumiai.TypeOf[Unused]()) })
}

// go test -run ^TestGetEntitiesThenMutate$ . -count 1
func TestGetEntitiesThenMutate(t *testing.T) {
	m := newManager(t)
	for i := 0; i < 10; i++ {
		m.CreateEntity(kumiai.With(A{X: i}))
	}
	es := m.GetEntities(kumiai.TypeOf[A]())
	for i := range es {
		if kumiai.GetComponent[A](es[i]).X%2 == 0 {
			es[i].Destroy()
		} else {
			kumiai.AddComponent(&es[i], B{})
		}
	}
	assert.Equal(t, 5, m.Len())
	assert.Equal(t, 5, m.Count(kumiai.TypeOf[A](), kumiai.TypeOf[B]()))
}

// go test -run ^TestForEach$ . -count 1
func TestForEach(t *testing.T) {
	m := newManager(t)
	called := false
	m.ForEach(func(kumiai.Entity, *kumiai.Control) { called = true })
	assert.False(t, called, "empty manager never calls back")

	for i := 0; i < 6; i++ {
		e := m.CreateEntity(kumiai.With(A{X: i}))
		if i%2 == 0 {
			kumiai.SetTag[TA](&e, true)
		}
	}

	var visited []kumiai.EntityID
	m.ForEach(func(e kumiai.Entity, _ *kumiai.Control) {
		assert.Equal(t, kumiai.StatusOK, e.Status())
		kumiai.GetComponent[A](e).X *= 10
		visited = append(visited, e.ID())
	}, kumiai.TypeOf[A](), kumiai.TypeOf[TA]())
	assert.Equal(t, []kumiai.EntityID{0, 2, 4}, visited)
	assert.Equal(t, 20, kumiai.GetComponent[A](m.GetEntities()[2]).X)

	n := 0
	m.ForEach(func(_ kumiai.Entity, ctl *kumiai.Control) {
		n++
		ctl.Breakout = n == 2
	})
	assert.Equal(t, 2, n)
}

// go test -run ^TestForEachTyped$ . -count 1
func TestForEachTyped(t *testing.T) {
	m := newManager(t)
	e := m.CreateEntity()
	pa, _ := kumiai.AddComponent(&e, A{X: 1})
	pb, _ := kumiai.AddComponent(&e, B{Name: "b"})
	pc, _ := kumiai.AddComponent(&e, C{V: 1})
	m.CreateEntity(kumiai.With(A{X: 2}), kumiai.With(B{}))
	kumiai.SetTag[TB](&e, true)

	calls := 0
	kumiai.ForEach3(m, func(got kumiai.Entity, a *A, b *B, c *C, _ *kumiai.Control) {
		calls++
		assert.True(t, got.Equal(e))
		assert.Same(t, pa, a)
		assert.Same(t, pb, b)
		assert.Same(t, pc, c)
	})
	assert.Equal(t, 1, calls)

	sum := 0
	kumiai.ForEach1(m, func(_ kumiai.Entity, a *A, _ *kumiai.Control) {
		sum += a.X
	})
	assert.Equal(t, 3, sum)

	sum = 0
	kumiai.ForEach2(m, func(_ kumiai.Entity, a *A, _ *B, _ *kumiai.Control) {
		sum += a.X
	}, kumiai.TypeOf[TB]())
	assert.Equal(t, 1, sum)

	calls = 0
	kumiai.ForEach1(m, func(_ kumiai.Entity, _ *C, ctl *kumiai.Control) {
		calls++
		ctl.Breakout = true
	}, kumiai.TypeOf[TA]())
	assert.Equal(t, 0, calls)

	assert.Panics(t, func() {
		kumiai.ForEach1(m, func(kumiai.Entity, *TA, *kumiai.Control) {})
	}, "tags carry no value")
}

// go test -run ^TestForEachMutation$ . -count 1
func TestForEachMutation(t *testing.T) {
	m := newManager(t)
	e := m.CreateEntity(kumiai.With(A{}))

	mutations := map[string]func(kumiai.Entity){
		"create":  func(kumiai.Entity) { m.CreateEntity() },
		"destroy": func(e kumiai.Entity) { e.Destroy() },
		"add":     func(e kumiai.Entity) { kumiai.AddComponent(&e, B{}) },
		"remove":  func(e kumiai.Entity) { kumiai.RemoveComponent[A](&e) },
		"tag":     func(e kumiai.Entity) { kumiai.SetTag[TA](&e, true) },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			err := catch(func() {
				m.ForEach(func(e kumiai.Entity, _ *kumiai.Control) { mutate(e) })
			})
			require.ErrorIs(t, err, kumiai.ErrIterationMutation)
			assert.Equal(t, 1, m.Len())
			assert.Equal(t, kumiai.StatusOK, e.Status())
		})
	}

	// the manager is usable again once the loop has unwound
	kumiai.SetTag[TA](&e, true)
	assert.Equal(t, 1, m.Count(kumiai.TypeOf[TA]()))

	t.Run("nested", func(t *testing.T) {
		inner := 0
		m.ForEach(func(kumiai.Entity, *kumiai.Control) {
			m.ForEach(func(kumiai.Entity, *kumiai.Control) { inner++ })
		})
		assert.Equal(t, 1, inner, "read-only nesting is allowed")
	})
}

// go test -run ^TestQueryUsesGrouping$ . -count 1
func TestQueryUsesGrouping(t *testing.T) {
	m := newManager(t)
	for i := 0; i < 20; i++ {
		e := m.CreateEntity(kumiai.With(A{X: i}))
		if i%4 == 0 {
			kumiai.AddComponent(&e, C{})
		}
	}
	before := ids(m.GetEntities(kumiai.TypeOf[A](), kumiai.TypeOf[C]()))
	g := m.CreateGrouping(kumiai.TypeOf[C](), kumiai.TypeOf[A]())
	assert.Equal(t, before, ids(m.GetEntities(kumiai.TypeOf[A](), kumiai.TypeOf[C]())))
	assert.Equal(t, 5, m.Count(kumiai.TypeOf[A](), kumiai.TypeOf[C]()))

	n := 0
	kumiai.ForEach2(m, func(kumiai.Entity, *A, *C, *kumiai.Control) { n++ })
	assert.Equal(t, g.Len(), n)
}

// go test -run ^TestForEachControlPerCall$ . -count 1
func TestForEachControlPerCall(t *testing.T) {
	m := newManager(t)
	for range 3 {
		m.CreateEntity()
	}
	outer, inner := 0, 0
	m.ForEach(func(_ kumiai.Entity, octl *kumiai.Control) {
		outer++
		m.ForEach(func(_ kumiai.Entity, ictl *kumiai.Control) {
			assert.NotSame(t, octl, ictl)
			inner++
			ictl.Breakout = true
		})
	})
	assert.Equal(t, 3, outer, "an inner breakout ends only the inner call")
	assert.Equal(t, 3, inner)
}
