package mandelbulb

// Commands mutates the simulation world. Entity operations are buffered and
// applied when the current stage flushes, so systems can issue them while
// iterating a query.
type Commands struct {
	app *App
}

func (cmd *Commands) queryWorld() *World { return cmd.app.world }

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) AddEntity(components ...any) EntityId {
	eid := cmd.app.world.nextEntityId()
	cmd.app.pendingAdditions = append(cmd.app.pendingAdditions, pendingAdd{
		eid:        eid,
		components: components,
	})
	return eid
}

func (cmd *Commands) AddComponents(entityId EntityId, components ...any) {
	cmd.app.pendingCompAdds = append(cmd.app.pendingCompAdds, pendingCompAdd{
		eid:        entityId,
		components: components,
	})
}

func (cmd *Commands) RemoveEntity(entityId EntityId) {
	cmd.app.pendingRemovals = append(cmd.app.pendingRemovals, entityId)
}

func (cmd *Commands) GetAllComponents(entityId EntityId) []any {
	world := cmd.app.world
	archId := world.entityIndex[entityId]
	arch := world.archetypes[archId]

	row := arch.entities[entityId]

	var res []any
	for _, componentsSlice := range arch.componentData {
		val := reflectSliceGet(componentsSlice, int(row))
		res = append(res, val.Interface())
	}
	return res
}

// RenderCommands mutates the render world. It is handed to Extract-stage
// systems to build the per-frame mirror, and to render-stage systems for
// resource access. It offers no way to touch the simulation world.
type RenderCommands struct {
	app *App
}

func (cmd *RenderCommands) queryWorld() *World { return cmd.app.renderWorld }

// InsertMirrorEntity queues a render-world entity under the same id as its
// simulation counterpart, replacing whatever components a previous insert
// left there this frame.
func (cmd *RenderCommands) InsertMirrorEntity(eid EntityId, components ...any) {
	cmd.app.pendingMirrors = append(cmd.app.pendingMirrors, pendingAdd{
		eid:        eid,
		components: components,
	})
}

func (cmd *RenderCommands) AddResources(resources ...any) *RenderCommands {
	cmd.app.addRenderResources(resources...)
	return cmd
}

// ReplaceResource overwrites a render-world resource wholesale, creating it
// if absent. Extraction uses this to publish the current frame's snapshot.
func (cmd *RenderCommands) ReplaceResource(resource any) *RenderCommands {
	t := resourceType(resource)
	cmd.app.renderResources[t] = resource
	return cmd
}
