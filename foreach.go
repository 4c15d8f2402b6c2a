package kumiai

// Control is handed to every ForEach callback. Each ForEach call allocates
// one Control and passes it to all of that call's callbacks; nested calls get
// their own.
type Control struct {
	// Breakout stops the iteration as soon as the callback returns.
	Breakout bool
}

// iterate runs fn over the matches of target with mutation detection armed.
// Any create, destroy, add, remove or set-tag call made on m while it runs
// fails with ErrIterationMutation.
func (m *Manager) iterate(target bitmask256, fn func(id EntityID, rec *record, ctl *Control)) {
	ctl := &Control{}
	m.iterating++
	defer func() { m.iterating-- }()
	m.scan(target, func(id EntityID, rec *record) bool {
		fn(id, rec, ctl)
		return !ctl.Breakout
	})
}

// ForEach calls fn for every entity that has all the given component and tag
// types. With no types it visits every live entity.
//
// The manager must not be mutated from fn; collect handles with GetEntities
// instead when the loop needs to create, destroy or restructure entities.
// Component values may be changed freely through GetComponent.
func (m *Manager) ForEach(fn func(e Entity, ctl *Control), types ...Type) {
	target := m.types.maskOf(types)
	m.iterate(target, func(id EntityID, rec *record, ctl *Control) {
		fn(m.handle(id, rec), ctl)
	})
}

// ForEach1 calls fn for every entity with component A and all the extra
// types, passing a pointer to its A. Extra types add no arguments, which is
// how tags are filtered on.
//
// Example:
//
//	kumiai.ForEach1(m, func(e kumiai.Entity, p *Position, _ *kumiai.Control) {
//	    p.X++
//	}, kumiai.TypeOf[Player]())
func ForEach1[A any](m *Manager, fn func(e Entity, a *A, ctl *Control), extra ...Type) {
	sa, bitA := storeOf[A](m)
	target := m.types.maskOf(extra)
	target.set(bitA)
	m.iterate(target, func(id EntityID, rec *record, ctl *Control) {
		fn(m.handle(id, rec), sa.get(id), ctl)
	})
}

// ForEach2 is ForEach1 for two components.
func ForEach2[A, B any](m *Manager, fn func(e Entity, a *A, b *B, ctl *Control), extra ...Type) {
	sa, bitA := storeOf[A](m)
	sb, bitB := storeOf[B](m)
	target := m.types.maskOf(extra)
	target.set(bitA)
	target.set(bitB)
	m.iterate(target, func(id EntityID, rec *record, ctl *Control) {
		fn(m.handle(id, rec), sa.get(id), sb.get(id), ctl)
	})
}

// ForEach3 is ForEach1 for three components.
func ForEach3[A, B, C any](m *Manager, fn func(e Entity, a *A, b *B, c *C, ctl *Control), extra ...Type) {
	sa, bitA := storeOf[A](m)
	sb, bitB := storeOf[B](m)
	sc, bitC := storeOf[C](m)
	target := m.types.maskOf(extra)
	target.set(bitA)
	target.set(bitB)
	target.set(bitC)
	m.iterate(target, func(id EntityID, rec *record, ctl *Control) {
		fn(m.handle(id, rec), sa.get(id), sb.get(id), sc.get(id), ctl)
	})
}

// ForEach4 is ForEach1 for four components.
func ForEach4[A, B, C, D any](m *Manager, fn func(e Entity, a *A, b *B, c *C, d *D, ctl *Control), extra ...Type) {
	sa, bitA := storeOf[A](m)
	sb, bitB := storeOf[B](m)
	sc, bitC := storeOf[C](m)
	sd, bitD := storeOf[D](m)
	target := m.types.maskOf(extra)
	target.set(bitA)
	target.set(bitB)
	target.set(bitC)
	target.set(bitD)
	m.iterate(target, func(id EntityID, rec *record, ctl *Control) {
		fn(m.handle(id, rec), sa.get(id), sb.get(id), sc.get(id), sd.get(id), ctl)
	})
}
