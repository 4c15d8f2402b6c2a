package cli

import (
	"time"

	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/edwinsyarief/kumiai"
)

type (
	Position struct{ X, Y float64 }
	Velocity struct{ X, Y float64 }
	Frozen   struct{}
)

// BenchOptions holds flags for the bench command.
type BenchOptions struct {
	Entities   int
	Rounds     int
	Grouped    bool
	Profile    string
	ProfileDir string
}

// BenchResult is one timed round.
type BenchResult struct {
	Create  time.Duration
	Iterate time.Duration
	Destroy time.Duration
	Moved   int
}

// NewBenchCommand creates the bench command.
func NewBenchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BenchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time entity churn and iteration",
		Long: `Creates entities with Position and Velocity, freezes one in three,
integrates the moving ones and destroys everything, once per round.

--profile cpu|mem writes a pprof file to --profile-dir.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(rootOpts, opts, cmd)
		},
	}
	cmd.Flags().IntVarP(&opts.Entities, "entities", "n", 10000, "entities per round")
	cmd.Flags().IntVarP(&opts.Rounds, "rounds", "r", 5, "number of rounds")
	cmd.Flags().BoolVar(&opts.Grouped, "grouped", false, "register a grouping for the movement query")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "profile mode (cpu|mem)")
	cmd.Flags().StringVar(&opts.ProfileDir, "profile-dir", ".", "directory for profile output")
	return cmd
}

func runBench(rootOpts *RootOptions, opts *BenchOptions, cmd *cobra.Command) error {
	if opts.Entities <= 0 || opts.Rounds <= 0 {
		return eris.Errorf("entities and rounds must be positive, got %d and %d", opts.Entities, opts.Rounds)
	}
	var mode func(*profile.Profile)
	switch opts.Profile {
	case "":
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfileAllocs
	default:
		return eris.Errorf("invalid profile mode %q: must be cpu or mem", opts.Profile)
	}

	logger := newLogger(rootOpts, cmd.OutOrStdout())
	mopts, err := managerOptions(logger)
	if err != nil {
		return err
	}

	if mode != nil {
		p := profile.Start(mode, profile.ProfilePath(opts.ProfileDir), profile.NoShutdownHook, profile.Quiet)
		defer p.Stop()
	}

	var total BenchResult
	for round := range opts.Rounds {
		res := benchRound(opts, mopts)
		logger.Info().
			Int("round", round).
			Dur("create", res.Create).
			Dur("iterate", res.Iterate).
			Dur("destroy", res.Destroy).
			Int("moved", res.Moved).
			Msg("round")
		total.Create += res.Create
		total.Iterate += res.Iterate
		total.Destroy += res.Destroy
		total.Moved += res.Moved
	}
	n := time.Duration(opts.Rounds)
	logger.Info().
		Int("entities", opts.Entities).
		Bool("grouped", opts.Grouped).
		Dur("create_avg", total.Create/n).
		Dur("iterate_avg", total.Iterate/n).
		Dur("destroy_avg", total.Destroy/n).
		Msg("bench finished")
	return nil
}

// benchRound runs one create/iterate/destroy cycle on a fresh manager.
func benchRound(opts *BenchOptions, mopts []kumiai.Option) BenchResult {
	var res BenchResult
	m := kumiai.NewManager(kumiai.Schema{
		Components: []kumiai.Type{kumiai.TypeOf[Position](), kumiai.TypeOf[Velocity]()},
		Tags:       []kumiai.Type{kumiai.TypeOf[Frozen]()},
	}, mopts...)
	defer m.Close()
	if opts.Grouped {
		m.CreateGrouping(kumiai.TypeOf[Position](), kumiai.TypeOf[Velocity]())
	}

	start := time.Now()
	for i := range opts.Entities {
		e := m.CreateEntity(kumiai.With(Position{}), kumiai.With(Velocity{X: 1, Y: 1}))
		if i%3 == 0 {
			kumiai.SetTag[Frozen](&e, true)
		}
	}
	res.Create = time.Since(start)

	start = time.Now()
	kumiai.ForEach2(m, func(e kumiai.Entity, p *Position, v *Velocity, _ *kumiai.Control) {
		if kumiai.HasTag[Frozen](e) {
			return
		}
		p.X += v.X
		p.Y += v.Y
		res.Moved++
	})
	res.Iterate = time.Since(start)

	start = time.Now()
	ents := m.GetEntities()
	for i := range ents {
		ents[i].Destroy()
	}
	res.Destroy = time.Since(start)
	return res
}
