package touchtable

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	ShowFPS    bool
	Background color.RGBA
	// OnUpdate is called after every engine update.
	OnUpdate func(dt time.Duration)
}

// Run opens a window, feeds the engine from ebiten's input and draws the
// table as wireframe boxes. It blocks until the window closes.
func Run(engine *Engine, table *Table, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 800
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	return ebiten.RunGame(&viewer{engine: engine, table: table, cfg: cfg})
}

type viewer struct {
	engine *Engine
	table  *Table
	cfg    RunConfig
}

func (v *viewer) Update() error {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = 60
	}
	dt := time.Second / time.Duration(tps)
	v.engine.Update(dt)
	if v.cfg.OnUpdate != nil {
		v.cfg.OnUpdate(dt)
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(v.cfg.Background)
	cam := v.table.Camera()
	if cam == nil {
		return
	}
	v.table.Walk(func(p *Part) {
		if !p.Visible {
			return
		}
		c := p.Color
		DrawBox(screen, cam, p.Pose(), p.HalfExtents(), color.RGBA{c[0], c[1], c[2], c[3]})
	})
	for _, g := range v.table.Ghosts() {
		if !g.Visible() || g.Source == nil {
			continue
		}
		a := uint8(255 * g.Alpha())
		DrawBox(screen, cam, g.Pose(), g.Source.HalfExtents(), color.RGBA{a, a, a, a})
	}
	if v.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nFingers: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), len(v.engine.Normalizer().ActiveFingers())))
	}
}

func (v *viewer) Layout(int, int) (int, int) {
	return v.cfg.Width, v.cfg.Height
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// DrawBox strokes the edges of an oriented box. Edges with a corner behind
// the camera are skipped.
func DrawBox(dst *ebiten.Image, cam Projector, pose Pose, half Vec3, clr color.Color) {
	var pts [8]Vec2
	var ok [8]bool
	for i := 0; i < 8; i++ {
		corner := Vec3{half.X, half.Y, half.Z}
		if i&1 == 0 {
			corner.X = -corner.X
		}
		if i&2 == 0 {
			corner.Y = -corner.Y
		}
		if i&4 == 0 {
			corner.Z = -corner.Z
		}
		pts[i], ok[i] = cam.WorldToScreen(pose.Position.Add(pose.Rotation.Rotate(corner)))
	}
	for _, e := range boxEdges {
		a, b := e[0], e[1]
		if !ok[a] || !ok[b] {
			continue
		}
		vector.StrokeLine(dst, float32(pts[a].X), float32(pts[a].Y), float32(pts[b].X), float32(pts[b].Y), 2, clr, true)
	}
}
