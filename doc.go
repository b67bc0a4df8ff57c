// Package orrery is a scripting runtime for planetarium scenes.
//
// An [Engine] owns a tree of [Node]s, a [Camera] and an [Animator]. Nodes
// carry a position, a rotation in degrees and a per-axis scale. World values
// compose per axis: positions and rotations add, scales multiply. Setting a
// world value derives the local one from the parent.
//
// Components attach engine-side behavior to nodes. Visual components such
// as [Planet], [Sun], [Constellation] and [Stars] store property values and
// forward them to a [Handle] resolved from an [EngineContext], but only the
// properties the handle advertises in its [CapabilitySet].
//
//	e := orrery.New(orrery.Config{Backend: orrery.NewMemoryBackend()})
//	earth := e.CreateObject("Earth")
//	earth.AddComponent(orrery.NewPlanet("Earth"))
//	earth.SetWorldPosition(orrery.V(10, 0, 0))
//
// # Recording and replay
//
// Every operation is also reachable by name through [Engine.Invoke], the
// closed dispatch surface described by [Facade]. A [Recorder] wraps a
// facade and captures mutating calls into a [CommandLog] instead of running
// them. A [Replayer] sends a log back through any facade, either in recorded
// order or grouped by camera, object, component and other operations.
// Logs persist as JSON or YAML documents with [SaveFile] and [LoadFile].
//
//	rec := orrery.NewRecorder(e)
//	rec.Start()
//	cmd := orrery.NewCommands(rec)
//	sun, _ := cmd.CreateObject("Sun")
//	sun.AddComponent("Sun", nil)
//	cmd.SetCameraPosition(orrery.V(0, 5, -20))
//	log, _ := rec.Stop()
//
//	orrery.NewReplayer().Parallel(log, e)
//
// A [Timeline] strings numbered frames and keyframes together; keyframes
// replay their instructions with camera moves tweened over a transition.
//
// Subpackages provide a Lua scripting surface (script), an ebiten preview
// window (preview) and a donburi event bridge (ecs).
package orrery
