// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.pprof

package main

import (
	"github.com/edwinsyarief/kumiai"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

type comp3 struct {
	V int64
	W int64
}

type comp4 struct {
	V int64
	W int64
}

func main() {
	count := 10
	iters := 1000
	entities := 100000
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

// run iterates a four-component query, alternating between the scan path
// and a grouping over the same types.
func run(rounds, iters, numEntities int) {
	for round := range rounds {
		m := kumiai.NewManager(kumiai.Schema{
			Components: []kumiai.Type{
				kumiai.TypeOf[comp1](), kumiai.TypeOf[comp2](),
				kumiai.TypeOf[comp3](), kumiai.TypeOf[comp4](),
			},
		})
		for i := range numEntities {
			if i%2 == 0 {
				m.CreateEntity(kumiai.With(comp1{}), kumiai.With(comp2{V: 1}), kumiai.With(comp3{}), kumiai.With(comp4{}))
			} else {
				m.CreateEntity(kumiai.With(comp1{}), kumiai.With(comp2{V: 1}))
			}
		}
		if round%2 == 1 {
			m.CreateGrouping(kumiai.TypeOf[comp1](), kumiai.TypeOf[comp2](), kumiai.TypeOf[comp3](), kumiai.TypeOf[comp4]())
		}

		for range iters {
			kumiai.ForEach4(m, func(_ kumiai.Entity, c1 *comp1, c2 *comp2, _ *comp3, _ *comp4, _ *kumiai.Control) {
				c1.V += c2.V
				c1.W += c2.W
			})
		}
		m.Close()
	}
}
