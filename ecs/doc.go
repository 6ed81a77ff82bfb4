// Package ecs provides ECS adapters for touchtable gesture events.
//
// [NewDonburiSink] bridges gesture events (sessions, snaps, clones,
// rotations, scaling) into a [Donburi] world as typed events. Subscribe to
// [GestureEventType] in your ECS systems to receive them, or attach a
// [Tracker] to keep one entity per manipulated object up to date.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	engine := touchtable.NewEngine(source, touchtable.WithSink(sink))
//	tracker := ecs.NewTracker(world)
//	// each frame:
//	ecs.GestureEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
