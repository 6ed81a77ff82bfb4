package touchtable

import (
	"errors"
	"testing"
)

func TestLoadScript(t *testing.T) {
	data := []byte(`
steps:
  - action: down
    finger: 1
    x: 100
    y: 200
  - action: wait
    frames: 3
  - action: mark
    label: held
  - action: up
    finger: 1
`)
	runner, err := LoadScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.Steps() != 4 {
		t.Fatalf("Steps = %d, want 4", runner.Steps())
	}
	if st := runner.steps[0]; st.Action != "down" || st.Finger != 1 || st.X != 100 || st.Y != 200 {
		t.Errorf("step 0 mismatch: %+v", st)
	}
	if st := runner.steps[1]; st.Action != "wait" || st.Frames != 3 {
		t.Errorf("step 1 mismatch: %+v", st)
	}
}

func TestLoadScriptJSON(t *testing.T) {
	data := []byte(`{"steps": [{"action": "drag", "finger": 2, "fromX": 0, "fromY": 0, "toX": 10, "toY": 0, "frames": 4}]}`)
	runner, err := LoadScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st := runner.steps[0]; st.Action != "drag" || st.ToX != 10 || st.Frames != 4 {
		t.Errorf("step 0 mismatch: %+v", st)
	}
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid", "steps: [unterminated"},
		{"empty", "steps: []"},
		{"unknown action", "steps:\n  - action: click\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.data))
			if !errors.Is(err, ErrParseScript) {
				t.Errorf("err = %v, want ErrParseScript", err)
			}
		})
	}
}

func TestScriptRunnerDrivesEngine(t *testing.T) {
	r := newRig()
	data := []byte(`
steps:
  - action: down
    finger: 1
    x: 10
    y: 10
  - action: mark
    label: down
  - action: stroke
    frames: 3
    fingers:
      - {id: 2, fromX: 0, fromY: 0, toX: 20, toY: 0}
      - {id: 3, fromX: 0, fromY: 50, toX: 20, toY: 50}
  - action: up
    finger: 1
`)
	runner, err := LoadScript(data)
	if err != nil {
		t.Fatal(err)
	}
	var marks []string
	var fingersAtMark int
	runner.OnMark = func(label string) {
		marks = append(marks, label)
		fingersAtMark = len(r.engine.Normalizer().ActiveFingers())
	}
	r.engine.SetScriptRunner(runner)

	var began []int
	r.engine.Normalizer().Subscribe(func(ev TouchEvent) { began = append(began, ev.FingerID) }, nil, nil)

	for i := 0; i < 50 && !runner.Done(); i++ {
		r.engine.Update(tick)
	}
	if !runner.Done() {
		t.Fatal("runner did not finish")
	}
	if len(marks) != 1 || marks[0] != "down" {
		t.Errorf("marks = %v", marks)
	}
	if fingersAtMark != 1 {
		t.Errorf("fingers at mark = %d, want 1", fingersAtMark)
	}
	if len(began) != 3 {
		t.Errorf("began = %v, want three fingers", began)
	}
	r.run(1)
	if n := len(r.engine.Normalizer().ActiveFingers()); n != 0 {
		t.Errorf("active fingers after script = %d, want 0", n)
	}
}

func TestInjectStrokeFrames(t *testing.T) {
	src := NewInjectSource()
	src.Stroke([]int{1, 2}, []Vec2{{0, 0}, {0, 10}}, []Vec2{{10, 0}, {10, 10}}, 4)
	if src.Pending() != 4 {
		t.Fatalf("Pending = %d, want 4", src.Pending())
	}

	var got []RawTouch
	for i := 0; i < 3; i++ {
		got = src.AppendTouches(got[:0])
	}
	if len(got) != 2 || got[0].Position != (Vec2{10, 0}) || got[1].Position != (Vec2{10, 10}) {
		t.Errorf("after last move got %+v", got)
	}
	got = src.AppendTouches(got[:0])
	if len(got) != 0 || src.Down(1) || src.Down(2) {
		t.Errorf("fingers still down after release: %+v", got)
	}
}

func TestInjectHeldFingersPersist(t *testing.T) {
	src := NewInjectSource()
	src.Press(5, 1, 2)
	src.AppendTouches(nil)
	got := src.AppendTouches(nil) // empty queue keeps state
	if len(got) != 1 || got[0].ID != 5 {
		t.Errorf("got %+v, want finger 5 still held", got)
	}
}
