package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/phanxgames/touchtable"
	"github.com/phanxgames/touchtable/assembly"
	"github.com/phanxgames/touchtable/config"

	"github.com/rs/zerolog"
)

// defaultLayout is used when no --layout is given: a chassis with a loose
// wheel and an axle socket to fit it on.
const defaultLayout = `
parts:
  - name: chassis
    size: [4, 0.6, 2]
    position: [0, -1, 0]
    color: [120, 140, 170, 255]
  - name: wheel
    size: [1, 1, 0.4]
    position: [-3, 2, 0]
    tag: wheel
    color: [200, 120, 60, 255]
  - name: crate
    size: [0.8, 0.8, 0.8]
    position: [3, 2, 0]
    color: [150, 190, 110, 255]
anchors:
  - name: front-axle
    tag: wheel
    position: [1.5, -1, -1.2]
`

var highlightColor = [4]uint8{255, 220, 40, 255}

// SceneOptions selects what a scene is built from.
type SceneOptions struct {
	Layout     string   // layout file; empty uses the built-in table
	Assembly   string   // optional assembly definition
	Gestures   []string // recognizers attached to each root part, in arbitration order
	ViewHeight float64  // world units visible from the center to the top edge
}

// Scene is an engine wired to a table.
type Scene struct {
	Engine    *touchtable.Engine
	Table     *touchtable.Table
	Camera    *touchtable.Camera
	Anchors   *touchtable.AnchorSet
	Validator *assembly.Validator

	// Interactions counts activity notifications from every recognizer.
	Interactions int
}

// NotifyActivity implements touchtable.ActivityNotifier.
func (s *Scene) NotifyActivity() { s.Interactions++ }

// snapKeeper makes a snapped part's idle reset return to the anchor rather
// than to where the part started, then forwards the snap.
type snapKeeper struct {
	idles map[touchtable.Object]*touchtable.IdleReset
	next  touchtable.SnapListener
}

func (k *snapKeeper) OnSnapped(obj touchtable.Object, anchor *touchtable.Anchor) {
	if idle, ok := k.idles[obj]; ok {
		idle.SetOrigin(obj.Pose())
	}
	if k.next != nil {
		k.next.OnSnapped(obj, anchor)
	}
}

var knownGestures = map[string]bool{"drag": true, "rotate": true, "pinch": true, "duplicate": true}

// BuildScene loads the layout, creates an engine reading source and attaches
// the requested recognizers to every root part.
func BuildScene(cfg *config.Config, source touchtable.InputSource, sink touchtable.EventSink, opts SceneOptions, log zerolog.Logger) (*Scene, error) {
	layout, err := readLayout(opts.Layout)
	if err != nil {
		return nil, err
	}
	for _, g := range opts.Gestures {
		if !knownGestures[g] {
			return nil, fmt.Errorf("unknown gesture %q", g)
		}
	}

	view := opts.ViewHeight
	if view <= 0 {
		view = 4
	}
	cam := touchtable.NewOrthoCamera(touchtable.Rect{
		Width:  float64(cfg.Window.Width),
		Height: float64(cfg.Window.Height),
	}, view)
	cam.Eye = touchtable.Vec3{Z: -100}

	table := touchtable.NewTable(cam)
	anchors := layout.Build(table)

	engineOpts := []touchtable.EngineOption{
		touchtable.WithCamera(cam),
		touchtable.WithHitTester(table),
	}
	if sink != nil {
		engineOpts = append(engineOpts, touchtable.WithSink(sink))
	}
	engine := touchtable.NewEngine(source, engineOpts...)
	engine.AddTicker(cam)

	s := &Scene{Engine: engine, Table: table, Camera: cam, Anchors: anchors}

	keeper := &snapKeeper{idles: map[touchtable.Object]*touchtable.IdleReset{}}
	if opts.Assembly != "" {
		def, err := assembly.LoadFile(opts.Assembly)
		if err != nil {
			return nil, err
		}
		s.Validator = assembly.NewValidator(def, log)
		s.Validator.IndexTable(table)
		s.Validator.OnHighlight = highlighter()
		s.Validator.OnComplete = func() { log.Info().Str("assembly", def.Title).Msg("assembly complete") }
		keeper.next = s.Validator
	}

	for _, part := range table.Parts() {
		deps := engine.Deps()
		deps.Activity = s
		if cfg.IdleReset.Enabled {
			idle := touchtable.NewIdleReset(part, engine, cfg.IdleResetConfig())
			engine.AddTicker(idle)
			keeper.idles[part] = idle
			deps.Activity = touchtable.ActivityGroup{idle, s}
		}
		for _, g := range opts.Gestures {
			switch g {
			case "drag":
				engine.Add(touchtable.NewDragRecognizer(part, deps, anchors, keeper, cfg.DragConfig()))
			case "rotate":
				engine.Add(touchtable.NewRotateRecognizer(part, deps, cfg.RotateConfig()))
			case "pinch":
				engine.Add(touchtable.NewPinchRecognizer(part, deps, cfg.PinchConfig()))
			case "duplicate":
				engine.Add(touchtable.NewDuplicateRecognizer(part, deps, table, table, cfg.DuplicateConfig()))
			}
		}
	}

	if s.Validator != nil {
		s.Validator.Start()
	}
	log.Debug().Int("parts", len(table.Parts())).Int("anchors", len(anchors.Anchors())).
		Strs("gestures", opts.Gestures).Msg("scene built")
	return s, nil
}

func readLayout(path string) (*touchtable.Layout, error) {
	if path == "" {
		return touchtable.LoadLayout([]byte(defaultLayout))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", touchtable.ErrParseLayout, err)
	}
	return touchtable.LoadLayout(data)
}

// highlighter tints the current assembly target and restores the previous
// one's color.
func highlighter() func(next, prev touchtable.Object) {
	saved := map[*touchtable.Part][4]uint8{}
	return func(next, prev touchtable.Object) {
		if p, ok := prev.(*touchtable.Part); ok {
			if c, ok := saved[p]; ok {
				p.Color = c
				delete(saved, p)
			}
		}
		if p, ok := next.(*touchtable.Part); ok {
			saved[p] = p.Color
			p.Color = highlightColor
		}
	}
}

func parseGestures(s string) []string {
	var out []string
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}
