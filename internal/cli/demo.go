package cli

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/edwinsyarief/kumiai"
)

// Demo types.
type (
	Health struct{ HP int }
	Name   struct{ Name string }
	Player struct{}
)

// Attack is an application event published on the manager's bus.
type Attack struct {
	Attacker, Defender kumiai.Entity
	Damage             int
}

// DemoOptions holds flags for the demo command.
type DemoOptions struct {
	Entities int
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DemoOptions{}
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through entity lifecycle events",
		Long: `Creates a few entities and a player, lets the player attack, then
destroys everything. Every lifecycle event is logged as it is published.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(rootOpts, opts, cmd)
		},
	}
	cmd.Flags().IntVarP(&opts.Entities, "entities", "n", 3, "number of non-player entities")
	return cmd
}

func runDemo(rootOpts *RootOptions, opts *DemoOptions, cmd *cobra.Command) error {
	if opts.Entities < 0 {
		return eris.Errorf("invalid entity count %d", opts.Entities)
	}
	logger := newLogger(rootOpts, cmd.OutOrStdout())
	mopts, err := managerOptions(logger)
	if err != nil {
		return err
	}
	m := kumiai.NewManager(kumiai.Schema{
		Components: []kumiai.Type{kumiai.TypeOf[Health](), kumiai.TypeOf[Name]()},
		Tags:       []kumiai.Type{kumiai.TypeOf[Player]()},
	}, mopts...)
	defer m.Close()

	bus := &kumiai.EventBus{}
	m.SetEventSink(bus)

	kumiai.Subscribe(bus, func(ev kumiai.EntityCreated) {
		logger.Info().Uint64("entity", uint64(ev.Entity.ID())).Msg("entity created")
	})
	kumiai.Subscribe(bus, func(ev kumiai.ComponentAdded[Health]) {
		logger.Info().Uint64("entity", uint64(ev.Entity.ID())).Int("hp", ev.Component.HP).Msg("health added")
	})
	kumiai.Subscribe(bus, func(ev kumiai.TagAdded[Player]) {
		logger.Info().Uint64("entity", uint64(ev.Entity.ID())).Msg("player tagged")
	})
	kumiai.Subscribe(bus, func(ev kumiai.EntityDestroyed) {
		e := ev.Entity
		l := logger.Info().Uint64("entity", uint64(e.ID()))
		if h, ok := kumiai.TryGetComponent[Health](e); ok {
			l = l.Int("hp", h.HP)
		}
		if n, ok := kumiai.TryGetComponent[Name](e); ok {
			l = l.Str("name", n.Name)
		}
		l.Bool("player", kumiai.HasTag[Player](e)).Msg("entity destroyed")
	})
	kumiai.Subscribe(bus, func(ev Attack) {
		hp := kumiai.GetComponent[Health](ev.Defender)
		hp.HP -= ev.Damage
		logger.Info().
			Str("attacker", kumiai.GetComponent[Name](ev.Attacker).Name).
			Uint64("defender", uint64(ev.Defender.ID())).
			Int("hp", hp.HP).
			Msg("attack")
	})

	for i := range opts.Entities {
		m.CreateEntity(kumiai.With(Health{HP: 10 * (i + 1)}))
	}
	player := m.CreateEntity()
	kumiai.SetTag[Player](&player, true)
	kumiai.AddComponent(&player, Name{Name: "Player"})

	kumiai.ForEach1(m, func(target kumiai.Entity, _ *Health, _ *kumiai.Control) {
		kumiai.Publish(bus, Attack{Attacker: player, Defender: target, Damage: 5})
	})

	ents := m.GetEntities()
	for i := range ents {
		ents[i].Destroy()
	}
	logger.Info().Int("remaining", m.Len()).Msg("demo finished")
	return nil
}
