// Package touchtable arbitrates and recognizes multi-touch gestures on 3D
// objects viewed through a camera, for touch tables and tablets built on
// [Ebitengine].
//
// # Quick start
//
// An [Engine] reads raw pointer state from an [InputSource], normalizes it
// into per-finger events, and ticks every attached [Recognizer] once per
// update:
//
//	cam := touchtable.NewCamera(touchtable.Rect{Width: 1280, Height: 800})
//	table := touchtable.NewTable(cam)
//	engine := touchtable.NewEngine(&touchtable.EbitenSource{},
//		touchtable.WithCamera(cam),
//		touchtable.WithHitTester(table),
//	)
//
//	wheel := touchtable.NewPart("wheel", touchtable.Vec3{X: 1, Y: 1, Z: 0.3})
//	table.Add(wheel)
//
//	deps := engine.Deps()
//	engine.Add(
//		touchtable.NewDragRecognizer(wheel, deps, anchors, nil, touchtable.DefaultDragConfig()),
//		touchtable.NewRotateRecognizer(wheel, deps, touchtable.DefaultRotateConfig()),
//		touchtable.NewPinchRecognizer(wheel, deps, touchtable.DefaultPinchConfig()),
//	)
//
// Call [Engine.Update] from your game's Update with the frame time.
//
// # Arbitration
//
// Every finger has at most one owner. Recognizers claim fingers through the
// shared [Registry]; a refused claim leaves the finger with its current
// owner. Multi-finger recognizers remember fingers they lost and retry them
// every tick, so when a drag yields its finger to a second touch the
// rotation or pinch attached to the same object picks both up.
//
// Recognizers attached to the same object suspend each other while a
// multi-finger session runs, along with any behaviors the object hosts
// through [BehaviorHost].
//
// # Gestures
//
//   - [DragRecognizer]: one finger moves the object across a plane facing
//     the camera; releasing near a compatible [Anchor] snaps onto it.
//   - [RotateRecognizer]: a pivot finger holds still while the pilot twists
//     around it (yaw) or slides vertically (pitch) or horizontally (roll).
//   - [DuplicateRecognizer]: several fingers draw a line and copies of the
//     object are laid out along it, optionally with a ghost preview.
//   - [PinchRecognizer]: the spread of the fingers scales the object.
//   - [FingerCountActivator]: enables other behaviors only while a given
//     number of fingers rests on the object.
//
// [IdleReset] returns objects to their starting pose after a period with no
// gesture activity.
//
// # Scripted input
//
// [InjectSource] replays scripted touches frame by frame and [ScriptRunner]
// drives it from a YAML or JSON script, which makes gestures reproducible in
// tests:
//
//	runner, err := touchtable.LoadScript(data)
//	engine.SetScriptRunner(runner)
//	for !runner.Done() {
//		engine.Update(time.Second / 60)
//	}
//
// # Integrations
//
// The config subpackage loads tunables from YAML and the environment, the
// metrics subpackage exports Prometheus counters, the ecs subpackage mirrors
// gesture events into a Donburi world, and the assembly subpackage checks
// snaps against an ordered list of assembly steps.
//
// [Ebitengine]: https://ebitengine.org
package touchtable
