// Package ecs bridges orrery scene graph changes into a [Donburi] world.
//
// [NewDonburiSink] publishes every [orrery.SceneEvent] as a typed Donburi
// event. Subscribe to [SceneEventType] in your ECS systems to receive them.
// [NewMirror] additionally keeps one entity per live node, carrying a
// [NodeData] component that tracks the node's name, parent and components.
//
// Usage:
//
//	sink := ecs.NewMirror(world)
//	engine.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
