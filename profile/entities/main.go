// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

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

type marked struct{}

func main() {
	count := 50
	iters := 1000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

// run churns entities: create with both components, iterate, tag, destroy.
func run(rounds, iters, numEntities int) {
	for range rounds {
		m := kumiai.NewManager(kumiai.Schema{
			Components: []kumiai.Type{kumiai.TypeOf[comp1](), kumiai.TypeOf[comp2]()},
			Tags:       []kumiai.Type{kumiai.TypeOf[marked]()},
		})
		m.CreateGrouping(kumiai.TypeOf[comp1](), kumiai.TypeOf[comp2]())

		for range iters {
			for range numEntities {
				m.CreateEntity(kumiai.With(comp1{}), kumiai.With(comp2{V: 1, W: 1}))
			}
			kumiai.ForEach2(m, func(_ kumiai.Entity, c1 *comp1, c2 *comp2, _ *kumiai.Control) {
				c1.V += c2.V
				c1.W += c2.W
			})
			entities := m.GetEntities(kumiai.TypeOf[comp1]())
			for i := range entities {
				kumiai.SetTag[marked](&entities[i], true)
				entities[i].Destroy()
			}
		}
		m.Close()
	}
}
