package cli

import (
	"context"
	"image/color"
	"time"

	"github.com/phanxgames/touchtable"
	"github.com/phanxgames/touchtable/ecs"
	"github.com/phanxgames/touchtable/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/yohamta/donburi"
)

// DemoOptions holds flags for the demo command.
type DemoOptions struct {
	*RootOptions
	Scene    SceneOptions
	gestures string
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DemoOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Open a window and manipulate the table with touch or mouse",
		Long: `Demo opens a window showing the table. One finger (or the left mouse
button) drags parts onto anchors; two fingers rotate; further gestures are
enabled with --gestures. Set metrics_addr in the config to expose Prometheus
metrics while it runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), opts)
		},
	}
	addSceneFlags(cmd, &opts.Scene, &opts.gestures)
	return cmd
}

func runDemo(ctx context.Context, opts *DemoOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := opts.Config
	world := donburi.NewWorld()
	sinks := touchtable.MultiSink{ecs.NewDonburiSink(world)}

	registry := prometheus.NewRegistry()
	if cfg.MetricsAddr != "" {
		sinks = append(sinks, metrics.NewSink(metrics.WithPrometheusRegistry(registry)))
	}

	ecs.GestureEventType.Subscribe(world, func(w donburi.World, ev touchtable.GestureEvent) {
		opts.Log.Debug().Str("event", ev.Type.String()).Str("recognizer", ev.Recognizer).Msg("gesture")
	})

	opts.Scene.Gestures = parseGestures(opts.gestures)
	scene, err := BuildScene(cfg, &touchtable.EbitenSource{}, sinks, opts.Scene, opts.Log)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		collector := metrics.NewRegistryCollector(scene.Engine.Registry(), "")
		registry.MustRegister(collector)
		scene.Engine.AddTicker(collector)
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, registry, opts.Log); err != nil {
				opts.Log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	defer scene.Engine.Shutdown()
	return touchtable.Run(scene.Engine, scene.Table, touchtable.RunConfig{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		ShowFPS:    cfg.Window.ShowFPS,
		Background: color.RGBA{R: 24, G: 26, B: 32, A: 255},
		OnUpdate: func(time.Duration) {
			ecs.GestureEventType.ProcessEvents(world)
		},
	})
}
