package mandelbulb

import (
	"reflect"
)

// Queries iterate entities of one world. They are built from either a
// *Commands (simulation world) or a *RenderCommands (render world), so a
// system can only query the world its stage belongs to.
//
// To get more arities: copy QueryN-1 and identifyComponentsN-1 and extend
// them according to the existing ones.
type Query1[A any] struct{ world *World }
type Query2[A, B any] struct{ world *World }
type Query3[A, B, C any] struct{ world *World }

// worldSource is implemented by Commands and RenderCommands.
type worldSource interface {
	queryWorld() *World
}

func MakeQuery1[A any](src worldSource) Query1[A] { return Query1[A]{world: src.queryWorld()} }
func MakeQuery2[A, B any](src worldSource) Query2[A, B] {
	return Query2[A, B]{world: src.queryWorld()}
}
func MakeQuery3[A, B, C any](src worldSource) Query3[A, B, C] {
	return Query3[A, B, C]{world: src.queryWorld()}
}

// Map calls m for every entity carrying all required components, until m
// returns false.
func (q Query1[A]) Map(m func(EntityId, *A) bool) {
	id1 := identifyComponents1[A](q.world)

	for _, arch := range q.world.archetypes {
		arg1CompData, ok := arch.componentData[id1]
		if !ok {
			continue
		}
		comps1 := arg1CompData.([]A)

		for entityId, row := range arch.entities {
			if !m(entityId, &comps1[row]) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool) {
	id1, id2 := identifyComponents2[A, B](q.world)

	for _, arch := range q.world.archetypes {
		arg1CompData, ok := arch.componentData[id1]
		if !ok {
			continue
		}
		arg2CompData, ok := arch.componentData[id2]
		if !ok {
			continue
		}
		comps1 := arg1CompData.([]A)
		comps2 := arg2CompData.([]B)

		for entityId, row := range arch.entities {
			if !m(entityId, &comps1[row], &comps2[row]) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool) {
	id1, id2, id3 := identifyComponents3[A, B, C](q.world)

	for _, arch := range q.world.archetypes {
		arg1CompData, ok := arch.componentData[id1]
		if !ok {
			continue
		}
		arg2CompData, ok := arch.componentData[id2]
		if !ok {
			continue
		}
		arg3CompData, ok := arch.componentData[id3]
		if !ok {
			continue
		}
		comps1 := arg1CompData.([]A)
		comps2 := arg2CompData.([]B)
		comps3 := arg3CompData.([]C)

		for entityId, row := range arch.entities {
			if !m(entityId, &comps1[row], &comps2[row], &comps3[row]) {
				return
			}
		}
	}
}

func identifyComponents1[A any](w *World) componentId {
	var a A
	return w.getComponentId(reflect.TypeOf(a))
}

func identifyComponents2[A, B any](w *World) (componentId, componentId) {
	var a A
	var b B
	return w.getComponentId(reflect.TypeOf(a)), w.getComponentId(reflect.TypeOf(b))
}

func identifyComponents3[A, B, C any](w *World) (componentId, componentId, componentId) {
	var a A
	var b B
	var c C
	return w.getComponentId(reflect.TypeOf(a)), w.getComponentId(reflect.TypeOf(b)), w.getComponentId(reflect.TypeOf(c))
}
