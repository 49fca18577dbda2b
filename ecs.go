package mandelbulb

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"reflect"
	"slices"
	"sync"
)

type EntityId uint64
type archetypeId uint64
type archetypeKey []componentId
type componentId uint32
type row int
type set[T comparable] = map[T]struct{}

// World is an archetype-based component store. The App owns two of them:
// the simulation world and the render world (see app.go).
type World struct {
	archetypes  map[archetypeId]*archetype
	entityIndex map[EntityId]archetypeId

	idGeneratorLock sync.Mutex
	entityIdCounter EntityId

	componentIdCounterLock sync.Mutex
	componentIdCounter     componentId
	componentTypeIdMap     map[reflect.Type]componentId
	componentIdTypeMap     map[componentId]reflect.Type
}

func MakeWorld() World {
	return World{
		archetypes:         make(map[archetypeId]*archetype),
		entityIndex:        make(map[EntityId]archetypeId),
		entityIdCounter:    EntityId(0),
		componentIdCounter: componentId(0),
		componentTypeIdMap: make(map[reflect.Type]componentId),
		componentIdTypeMap: make(map[componentId]reflect.Type),
	}
}

type archetype struct {
	id            archetypeId
	key           archetypeKey
	entities      map[EntityId]row
	componentData map[componentId]any // typed slices via reflection
	recycled      []row
}

func (w *World) addEntity(components ...any) EntityId {
	entityId := w.nextEntityId()
	return w.insertEntity(entityId, components...)
}

// insertEntity places components under an explicit id. The render world uses
// this to mirror simulation entities while preserving their identity.
// Re-inserting an existing id replaces its component set wholesale.
func (w *World) insertEntity(entityId EntityId, components ...any) EntityId {
	if _, ok := w.entityIndex[entityId]; ok {
		w.recycleEntity(entityId)
	}

	archId, _, arch := w.archetypeFromComponents(components...)

	row := w.archetypeReserveRow(arch)
	arch.entities[entityId] = row
	for _, component := range components {
		w.writeComponent(arch, row, component)
	}

	w.entityIndex[entityId] = archId

	return entityId
}

func (w *World) removeEntity(entityId EntityId) {
	w.recycleEntity(entityId)
}

func (w *World) addComponents(entityId EntityId, components ...any) {
	srcArchId := w.entityIndex[entityId]
	srcArch := w.archetypes[srcArchId]
	srcRow := srcArch.entities[entityId]

	dstArchId, _, dstArch := w.archetypeFromExtraComponents(srcArch, components...)
	dstRow := w.archetypeReserveRow(dstArch)

	w.moveComponents(srcArch, srcRow, dstArch, dstRow)
	for _, component := range components {
		w.writeComponent(dstArch, dstRow, component)
	}

	w.recycleEntity(entityId)

	dstArch.entities[entityId] = dstRow
	w.entityIndex[entityId] = dstArchId
}

// reset drops every entity but keeps the component type registry, so
// component ids stay stable across frames. The render world is reset before
// each extraction; its entities never survive a frame.
func (w *World) reset() {
	w.archetypes = make(map[archetypeId]*archetype)
	w.entityIndex = make(map[EntityId]archetypeId)
}

func (w *World) entityCount() int {
	return len(w.entityIndex)
}

func (w *World) moveComponents(srcArch *archetype, srcRow row, dstArch *archetype, dstRow row) {
	// Copy only the smallest common subset of components.
	var key archetypeKey
	if len(srcArch.key) <= len(dstArch.key) {
		key = srcArch.key
	} else {
		key = dstArch.key
	}

	for _, componentId := range key {
		srcValue := reflectSliceGet(srcArch.componentData[componentId], int(srcRow))
		reflectSliceSet(dstArch.componentData[componentId], int(dstRow), srcValue)
	}
}

func (w *World) writeComponent(dstArch *archetype, dstRow row, component any) {
	componentType := reflect.TypeOf(component)
	if componentType.Kind() != reflect.Struct && componentType.Kind() == reflect.Pointer && componentType.Elem().Kind() != reflect.Struct {
		panic(fmt.Errorf("expected Component to be a struct or a pointer to a struct, got %s", componentType.Kind()))
	}

	reflectValue := reflect.ValueOf(component)
	if componentType.Kind() == reflect.Pointer {
		componentType = componentType.Elem()
		reflectValue = reflectValue.Elem()
	}

	componentId := w.getComponentId(componentType)
	reflectSliceSet(dstArch.componentData[componentId], int(dstRow), reflectValue)
}

func (w *World) recycleEntity(entityId EntityId) {
	archId := w.entityIndex[entityId]
	arch := w.archetypes[archId]

	row := arch.entities[entityId]
	arch.recycled = append(arch.recycled, row)

	delete(arch.entities, entityId)
	delete(w.entityIndex, entityId)
}

func (w *World) archetypeFromComponents(components ...any) (archetypeId, archetypeKey, *archetype) {
	archKey := w.getArchetypeKey(components...)
	archId, arch := w.getOrMakeArchetype(archKey)
	return archId, archKey, arch
}

func (w *World) archetypeFromExtraComponents(srcArch *archetype, components ...any) (archetypeId, archetypeKey, *archetype) {
	dstArchKey := combineArchetypeKeys(
		srcArch.key,
		w.getArchetypeKey(components...),
	)

	dstArchId, dstArch := w.getOrMakeArchetype(dstArchKey)
	return dstArchId, dstArchKey, dstArch
}

func (w *World) getOrMakeArchetype(key archetypeKey) (archetypeId, *archetype) {
	id := getArchetypeId(key)

	if arch, ok := w.archetypes[id]; ok {
		return id, arch
	}

	arch := &archetype{
		id:            id,
		key:           key,
		entities:      make(map[EntityId]row),
		componentData: make(map[componentId]any),
		recycled:      make([]row, 0),
	}
	for _, componentId := range arch.key {
		arch.componentData[componentId] = reflectSliceMake(
			w.componentIdTypeMap[componentId],
		)
	}

	w.archetypes[id] = arch
	return id, arch
}

func (w *World) archetypeReserveRow(arch *archetype) row {
	if len(arch.recycled) > 0 {
		row := arch.recycled[len(arch.recycled)-1]
		arch.recycled = arch.recycled[:len(arch.recycled)-1]
		return row
	}

	row := row(len(arch.entities))
	for _, componentId := range arch.key {
		arch.componentData[componentId] = reflectSliceAppend(
			arch.componentData[componentId],
			reflect.Zero(w.componentIdTypeMap[componentId]),
		)
	}
	return row
}

// An archetype's canonical key is the sorted, deduplicated list of component
// ids that make it up; the archetypeId is an fnv hash of the key, cheaper to
// look up and compare than the key itself.
func (w *World) getArchetypeKey(components ...any) archetypeKey {
	var res archetypeKey

	for _, component := range components {
		compType := reflect.TypeOf(component)
		if compType.Kind() == reflect.Pointer {
			compType = compType.Elem()
		}
		if compType.Kind() != reflect.Struct {
			panic("component should be a struct")
		}

		res = append(res, w.getComponentId(compType))
	}

	return dedupAndSortArchetypeKey(res)
}

func combineArchetypeKeys(a archetypeKey, b archetypeKey) archetypeKey {
	return dedupAndSortArchetypeKey(append(a, b...))
}

func dedupAndSortArchetypeKey(key archetypeKey) archetypeKey {
	dedup := make(set[componentId])

	for _, v := range key {
		dedup[v] = struct{}{}
	}

	res := make(archetypeKey, 0, len(dedup))
	for k := range dedup {
		res = append(res, k)
	}

	slices.Sort(res)
	return res
}

func getArchetypeId(key archetypeKey) archetypeId {
	hash := fnv.New64a()
	for _, componentId := range key {
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(componentId))
		hash.Write(b)
	}
	return archetypeId(hash.Sum64())
}

func (w *World) nextEntityId() EntityId {
	w.idGeneratorLock.Lock()
	defer w.idGeneratorLock.Unlock()

	id := w.entityIdCounter
	w.entityIdCounter += 1

	return id
}

func (w *World) getComponentId(componentType reflect.Type) componentId {
	w.componentIdCounterLock.Lock()
	defer w.componentIdCounterLock.Unlock()

	if id, ok := w.componentTypeIdMap[componentType]; ok {
		return id
	}

	id := w.componentIdCounter
	w.componentIdCounter += 1

	w.componentTypeIdMap[componentType] = id
	w.componentIdTypeMap[id] = componentType

	return id
}

func (w *World) getComponentType(componentId componentId) reflect.Type {
	if t, ok := w.componentIdTypeMap[componentId]; ok {
		return t
	}
	panic("ComponentID not registered")
}
