package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/phanxgames/touchtable"
	"github.com/phanxgames/touchtable/ecs"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/yohamta/donburi"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Script   string
	Format   string // "text" | "json"
	MaxTicks int
	Tick     time.Duration
	Scene    SceneOptions
	gestures string
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Run an input script against a table without a window",
		Long: `Replay feeds a recorded input script through the gesture engine headlessly,
prints every gesture event and finishes with the pose of each part.

Examples:
  touchtable replay --script snap.yaml
  touchtable replay --script stroke.yaml --layout bench.yaml --gestures drag,duplicate
  touchtable replay --script snap.yaml --assembly stool.yaml --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.Script, "script", "s", "", "input script (required)")
	_ = cmd.MarkFlagRequired("script")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.Flags().IntVar(&opts.MaxTicks, "max-ticks", 100000, "give up after this many ticks")
	cmd.Flags().DurationVar(&opts.Tick, "tick", time.Second/60, "simulated time per tick")
	addSceneFlags(cmd, &opts.Scene, &opts.gestures)

	return cmd
}

func addSceneFlags(cmd *cobra.Command, s *SceneOptions, gestures *string) {
	cmd.Flags().StringVarP(&s.Layout, "layout", "l", "", "table layout file (default built-in table)")
	cmd.Flags().StringVarP(&s.Assembly, "assembly", "a", "", "assembly definition to validate snaps against")
	cmd.Flags().StringVarP(gestures, "gestures", "g", "drag,rotate", "recognizers per part, in arbitration order")
	cmd.Flags().Float64Var(&s.ViewHeight, "view", 4, "world units from the view center to its top edge")
}

func runReplay(opts *ReplayOptions, out io.Writer) error {
	if opts.Format != "text" && opts.Format != "json" {
		return fmt.Errorf("invalid format %q: must be text or json", opts.Format)
	}
	data, err := os.ReadFile(opts.Script)
	if err != nil {
		return fmt.Errorf("%w: %w", touchtable.ErrParseScript, err)
	}
	runner, err := touchtable.LoadScript(data)
	if err != nil {
		return err
	}

	report := reportLogger(out, opts.Format)
	world := donburi.NewWorld()
	tracker := ecs.NewTracker(world)
	names := map[string]string{}

	sink := touchtable.MultiSink{
		ecs.NewDonburiSink(world),
		touchtable.EventSinkFunc(func(ev touchtable.GestureEvent) {
			logEvent(report, ev, names)
		}),
	}

	opts.Scene.Gestures = parseGestures(opts.gestures)
	scene, err := BuildScene(opts.Config, runner.Source(), sink, opts.Scene, opts.Log)
	if err != nil {
		return err
	}
	indexNames(scene.Table, names)
	scene.Table.OnSpawn = func(p *touchtable.Part) { names[p.ID()] = p.Name() }
	runner.OnMark = func(label string) {
		report.Info().Str("mark", label).Dur("at", scene.Engine.Now()).Msg("mark")
	}
	scene.Engine.SetScriptRunner(runner)

	ticks := 0
	for !runner.Done() {
		if ticks >= opts.MaxTicks {
			return fmt.Errorf("script still running after %d ticks", ticks)
		}
		scene.Engine.Update(opts.Tick)
		ecs.GestureEventType.ProcessEvents(world)
		ticks++
	}

	scene.Table.Walk(func(p *touchtable.Part) {
		pose := p.Pose()
		e := report.Info().Str("part", p.Name()).
			Floats64("position", []float64{pose.Position.X, pose.Position.Y, pose.Position.Z}).
			Floats64("rotation", []float64{pose.Rotation.X, pose.Rotation.Y, pose.Rotation.Z, pose.Rotation.W})
		if d, ok := tracker.Data(p.ID()); ok {
			e = e.Int("events", d.Events).Int("clones", d.Clones)
			if d.Anchor != "" {
				e = e.Str("anchor", d.Anchor)
			}
		}
		e.Msg("final")
	})
	if v := scene.Validator; v != nil {
		report.Info().Int("step", v.Position()).Int("steps", len(v.Definition().Steps)).
			Bool("complete", v.Done()).Msg("assembly")
	}
	report.Info().Int("ticks", ticks).Int("interactions", scene.Interactions).
		Dur("elapsed", scene.Engine.Now()).Msg("replay finished")
	return nil
}

func reportLogger(out io.Writer, format string) zerolog.Logger {
	if format == "json" {
		return zerolog.New(out)
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:          out,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	})
}

func logEvent(l zerolog.Logger, ev touchtable.GestureEvent, names map[string]string) {
	e := l.Info().Str("event", ev.Type.String()).Dur("at", ev.At)
	if ev.Recognizer != "" {
		e = e.Str("recognizer", ev.Recognizer)
	}
	if ev.ObjectID != "" {
		e = e.Str("object", nameOf(names, ev.ObjectID))
	}
	if len(ev.Fingers) > 0 {
		e = e.Ints("fingers", ev.Fingers)
	}
	switch ev.Type {
	case touchtable.EventSnapped:
		e = e.Str("anchor", ev.Anchor)
	case touchtable.EventCloneSpawned:
		e = e.Str("clone", nameOf(names, ev.CloneID))
	case touchtable.EventRotated, touchtable.EventScaled:
		e = e.Float64("value", ev.Value)
	}
	e.Msg("gesture")
}

func indexNames(t *touchtable.Table, names map[string]string) {
	t.Walk(func(p *touchtable.Part) { names[p.ID()] = p.Name() })
}

func nameOf(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return id
}
