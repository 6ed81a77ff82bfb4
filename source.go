package touchtable

import "github.com/hajimehoshi/ebiten/v2"

// EbitenSource reads touches and the mouse from ebiten's input state. It must
// be polled from within an ebiten Game.Update call.
type EbitenSource struct {
	ids []ebiten.TouchID
}

// AppendTouches implements InputSource.
func (s *EbitenSource) AppendTouches(dst []RawTouch) []RawTouch {
	s.ids = ebiten.AppendTouchIDs(s.ids[:0])
	for _, id := range s.ids {
		x, y := ebiten.TouchPosition(id)
		dst = append(dst, RawTouch{ID: int(id), Position: Vec2{X: float64(x), Y: float64(y)}})
	}
	return dst
}

// Mouse implements InputSource.
func (s *EbitenSource) Mouse() (Vec2, bool) {
	x, y := ebiten.CursorPosition()
	return Vec2{X: float64(x), Y: float64(y)}, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}
