package orrery

import "strings"

// Op is the name of a facade operation. Names are the wire names used in
// persisted command logs.
type Op string

// Object lifecycle.
const (
	OpCreateObject         Op = "create_object"
	OpDestroyObject        Op = "destroy_object"
	OpClearAllObjects      Op = "clear_all_objects"
	OpResetObjectIDCounter Op = "reset_object_id_counter"
)

// Node mutation. Target is the node.
const (
	OpSetObjectPosition      Op = "set_object_position"
	OpSetObjectRotation      Op = "set_object_rotation"
	OpSetObjectScale         Op = "set_object_scale"
	OpSetObjectLocalPosition Op = "set_object_local_position"
	OpSetObjectLocalRotation Op = "set_object_local_rotation"
	OpSetObjectLocalScale    Op = "set_object_local_scale"
	OpAddChild               Op = "add_child"
	OpRemoveChild            Op = "remove_child"
)

// Components. Target is the node.
const (
	OpAddComponent         Op = "add_component"
	OpRemoveComponent      Op = "remove_component"
	OpSetComponentProperty Op = "set_component_property"
)

// Camera.
const (
	OpSetCameraPosition    Op = "set_camera_position"
	OpSetCameraPositionLBR Op = "set_camera_position_lbr"
	OpSetCameraRotation    Op = "set_camera_rotation"
	OpSetCameraZoom        Op = "set_camera_zoom"
	OpSetCameraFOV         Op = "set_camera_fov"
	OpSetCameraFocus       Op = "set_camera_focus"
	OpMoveCamera           Op = "move_camera"
	OpRotateCamera         Op = "rotate_camera"
	OpZoomCamera           Op = "zoom_camera"
	OpLookAt               Op = "look_at"
	OpOrbitCamera          Op = "orbit_camera"
)

// Scene-wide.
const (
	OpUpdate                      Op = "update"
	OpSetAnimatorDuration         Op = "set_animator_duration"
	OpSetStarsIntensity           Op = "set_stars_intensity"
	OpSetAllConstellationLines    Op = "set_all_constellation_lines"
	OpSetAllConstellationArt      Op = "set_all_constellation_art"
	OpSetAllConstellationLabels   Op = "set_all_constellation_labels"
	OpSetAllConstellationBoundary Op = "set_all_constellation_boundaries"
)

// Queries. Never recorded.
const (
	OpGetObjectByName         Op = "get_object_by_name"
	OpGetObjectByID           Op = "get_object_by_id"
	OpGetAllObjectIDs         Op = "get_all_object_ids"
	OpGetObjectInfo           Op = "get_object_info"
	OpGetObjectsByComponent   Op = "get_objects_by_component"
	OpCountObjectsByComponent Op = "count_objects_by_component"
	OpGetCameraInfo           Op = "get_camera_info"
	OpGetComponent            Op = "get_component"
	OpUpdateObject            Op = "update_object"
)

// OpClass says how a recorder treats an operation.
type OpClass uint8

const (
	// ClassMutation operations are captured and not executed while recording.
	ClassMutation OpClass = iota
	// ClassFactory operations execute for real and are captured with the
	// created node as their target.
	ClassFactory
	// ClassQuery operations always pass through and are never captured.
	ClassQuery
)

func (c OpClass) String() string {
	switch c {
	case ClassMutation:
		return "mutation"
	case ClassFactory:
		return "factory"
	case ClassQuery:
		return "query"
	}
	return "unknown"
}

// OpInfo describes an operation.
type OpInfo struct {
	Class OpClass
	// Targeted operations act on Call.Target.
	Targeted bool
	// NodeArg is the index of a positional argument holding a node id, or -1.
	NodeArg int
}

var opTable = map[Op]OpInfo{
	OpCreateObject:         {Class: ClassFactory, NodeArg: -1},
	OpDestroyObject:        {Targeted: true, NodeArg: -1},
	OpClearAllObjects:      {NodeArg: -1},
	OpResetObjectIDCounter: {NodeArg: -1},

	OpSetObjectPosition:      {Targeted: true, NodeArg: -1},
	OpSetObjectRotation:      {Targeted: true, NodeArg: -1},
	OpSetObjectScale:         {Targeted: true, NodeArg: -1},
	OpSetObjectLocalPosition: {Targeted: true, NodeArg: -1},
	OpSetObjectLocalRotation: {Targeted: true, NodeArg: -1},
	OpSetObjectLocalScale:    {Targeted: true, NodeArg: -1},
	OpAddChild:               {Targeted: true, NodeArg: 0},
	OpRemoveChild:            {Targeted: true, NodeArg: 0},

	OpAddComponent:         {Targeted: true, NodeArg: -1},
	OpRemoveComponent:      {Targeted: true, NodeArg: -1},
	OpSetComponentProperty: {Targeted: true, NodeArg: -1},

	OpSetCameraPosition:    {NodeArg: -1},
	OpSetCameraPositionLBR: {NodeArg: -1},
	OpSetCameraRotation:    {NodeArg: -1},
	OpSetCameraZoom:        {NodeArg: -1},
	OpSetCameraFOV:         {NodeArg: -1},
	OpSetCameraFocus:       {NodeArg: -1},
	OpMoveCamera:           {NodeArg: -1},
	OpRotateCamera:         {NodeArg: -1},
	OpZoomCamera:           {NodeArg: -1},
	OpLookAt:               {NodeArg: -1},
	OpOrbitCamera:          {NodeArg: -1},

	OpUpdate:                      {NodeArg: -1},
	OpSetAnimatorDuration:         {NodeArg: -1},
	OpSetStarsIntensity:           {NodeArg: -1},
	OpSetAllConstellationLines:    {NodeArg: -1},
	OpSetAllConstellationArt:      {NodeArg: -1},
	OpSetAllConstellationLabels:   {NodeArg: -1},
	OpSetAllConstellationBoundary: {NodeArg: -1},

	OpGetObjectByName:         {Class: ClassQuery, NodeArg: -1},
	OpGetObjectByID:           {Class: ClassQuery, NodeArg: 0},
	OpGetAllObjectIDs:         {Class: ClassQuery, NodeArg: -1},
	OpGetObjectInfo:           {Class: ClassQuery, NodeArg: 0},
	OpGetObjectsByComponent:   {Class: ClassQuery, NodeArg: -1},
	OpCountObjectsByComponent: {Class: ClassQuery, NodeArg: -1},
	OpGetCameraInfo:           {Class: ClassQuery, NodeArg: -1},
	OpGetComponent:            {Class: ClassQuery, Targeted: true, NodeArg: -1},
	OpUpdateObject:            {Class: ClassQuery, Targeted: true, NodeArg: -1},
}

// LookupOp returns the description of op and whether it is dispatchable.
func LookupOp(op Op) (OpInfo, bool) {
	info, ok := opTable[op]
	return info, ok
}

// Bucket is the replay group an operation falls in under parallel replay.
type Bucket uint8

const (
	BucketCamera Bucket = iota
	BucketObject
	BucketComponent
	BucketOther
	numBuckets
)

func (b Bucket) String() string {
	switch b {
	case BucketCamera:
		return "camera"
	case BucketObject:
		return "object"
	case BucketComponent:
		return "component"
	}
	return "other"
}

// BucketOf classifies an operation name by prefix. Unknown names fall in
// BucketOther.
func BucketOf(op Op) Bucket {
	s := string(op)
	switch {
	case strings.HasPrefix(s, "set_camera_"),
		op == OpMoveCamera, op == OpRotateCamera, op == OpZoomCamera,
		op == OpLookAt, op == OpOrbitCamera:
		return BucketCamera
	case op == OpCreateObject, op == OpDestroyObject,
		strings.HasPrefix(s, "set_object_"):
		return BucketObject
	case op == OpAddComponent, op == OpRemoveComponent,
		strings.HasPrefix(s, "set_component_"):
		return BucketComponent
	}
	return BucketOther
}
