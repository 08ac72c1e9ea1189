package event

// Runtime lifecycle notifications. Handles are raw ecs.EntityID values so
// this package stays below ecs in the import graph.

type WorldPushed struct {
	Depth int
}

type WorldPopped struct {
	Depth int
	Freed int // entities finalized by the teardown
}

type EntityFreed struct {
	Depth  int
	Handle uint64
	ID     string
}
