package mandelbulb

import (
	"reflect"
	"testing"
)

func TestWorld_MakeWorld(t *testing.T) {
	world := MakeWorld()

	if len(world.archetypes) != 0 {
		t.Errorf("Expected archetypes to be empty, got %v", world.archetypes)
	}

	if len(world.entityIndex) != 0 {
		t.Errorf("Expected entityIndex to be empty, got %v", world.entityIndex)
	}

	if world.entityIdCounter != 0 {
		t.Errorf("Expected entityIdCounter to be 0, got %v", world.entityIdCounter)
	}

	if world.componentIdCounter != 0 {
		t.Errorf("Expected componentIdCounter to be 0, got %v", world.componentIdCounter)
	}
}

func TestWorld_AddEntity(t *testing.T) {
	world := MakeWorld()

	entityId := world.addEntity()

	if _, ok := world.entityIndex[entityId]; !ok {
		t.Errorf("Expected entityId %v to be in entityIndex", entityId)
	}

	type TestComponent struct {
		x string
	}
	testComp := TestComponent{
		x: "test",
	}

	entityId2 := world.addEntity(testComp)
	if _, ok := world.entityIndex[entityId2]; !ok {
		t.Errorf("Expected entityId %v to be in entityIndex", entityId2)
	}

	archId1 := world.entityIndex[entityId]
	archId2 := world.entityIndex[entityId2]
	if archId1 == archId2 {
		t.Errorf("Entities with different components ended up in the same Archetype")
	}
}

func TestWorld_InsertEntityPreservesIdentity(t *testing.T) {
	type Marker struct{ v int }

	world := MakeWorld()
	id := EntityId(42)

	got := world.insertEntity(id, Marker{v: 1})
	if got != id {
		t.Errorf("Expected insertEntity to keep id %v, got %v", id, got)
	}
	if _, ok := world.entityIndex[id]; !ok {
		t.Errorf("Expected entityId %v to be in entityIndex", id)
	}
}

func TestWorld_ReinsertReplacesComponents(t *testing.T) {
	type Comp1 struct{ a int }
	type Comp2 struct{ b int }

	world := MakeWorld()
	id := EntityId(7)

	world.insertEntity(id, Comp1{a: 1}, Comp2{b: 2})
	world.insertEntity(id, Comp1{a: 3})

	arch := world.archetypes[world.entityIndex[id]]
	if len(arch.key) != 1 {
		t.Errorf("Re-insert should have replaced the component set, archetype has %d components", len(arch.key))
	}
	if world.entityCount() != 1 {
		t.Errorf("Expected a single entity, got %d", world.entityCount())
	}
}

func TestWorld_AddComponents(t *testing.T) {
	type TestComponent0 struct{ a int }
	type TestComponent1 struct{ x string }
	type TestComponent2 struct{ y string }
	type TestComponent3 struct{ z string }

	world := MakeWorld()

	entityId := world.addEntity(TestComponent0{a: 1337})

	world.addComponents(entityId, TestComponent1{x: "test"}, TestComponent2{y: "hello"})

	// Pointers work too
	world.addComponents(entityId, &TestComponent3{z: "test-2"})

	archId := world.entityIndex[entityId]
	arch := world.archetypes[archId]
	if 4 != len(arch.componentData) {
		t.Errorf("Should have ended up in an Archetype with 4 components")
	}
}

func TestWorld_Reset(t *testing.T) {
	type Comp struct{ a int }

	world := MakeWorld()
	world.addEntity(Comp{a: 1})
	world.addEntity(Comp{a: 2})

	compId := world.getComponentId(reflect.TypeOf(Comp{}))

	world.reset()

	if world.entityCount() != 0 {
		t.Errorf("Expected no entities after reset, got %d", world.entityCount())
	}
	if got := world.getComponentId(reflect.TypeOf(Comp{})); got != compId {
		t.Errorf("Component ids must survive reset, expected %v got %v", compId, got)
	}
}

func TestWorld_AddInvalidComponentShouldPanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic on invalid component type")
		}
	}()

	world := MakeWorld()
	world.addEntity(123) // invalid component
}

func TestWorld_ComponentRegistration(t *testing.T) {
	type Position struct{ x, y float64 }

	world := MakeWorld()
	id1 := world.getComponentId(reflect.TypeOf(Position{}))
	id2 := world.getComponentId(reflect.TypeOf(Position{}))

	if id1 != id2 {
		t.Errorf("expected component IDs to be equal")
	}

	tp := world.getComponentType(id1)
	if tp != reflect.TypeOf(Position{}) {
		t.Errorf("expected Position type, got %s", tp.Name())
	}
}

func TestWorld_ArchetypeKeyExtension(t *testing.T) {
	key := dedupAndSortArchetypeKey([]componentId{3, 1, 2, 1, 3})
	expected := archetypeKey{1, 2, 3}

	for i, v := range key {
		if v != expected[i] {
			t.Errorf("dedup: expected %v, got %v", expected, key)
		}
	}

	key = combineArchetypeKeys([]componentId{1, 2, 3}, []componentId{4, 3, 2, 1})
	expected = archetypeKey{1, 2, 3, 4}

	for i, v := range key {
		if v != expected[i] {
			t.Errorf("combine: expected %v, got %v", expected, key)
		}
	}
}

func TestWorld_RemoveEntity(t *testing.T) {
	type Position struct{ X, Y float64 }

	world := MakeWorld()
	id := world.addEntity(Position{1, 2})
	world.removeEntity(id)

	if _, ok := world.entityIndex[id]; ok {
		t.Errorf("entity not removed")
	}
}
