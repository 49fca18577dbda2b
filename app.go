package mandelbulb

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module installs systems and resources into the App.
type Module interface {
	Install(app *App, cmd *Commands)
}

// AppControl lets systems request an orderly shutdown of the Run loop.
type AppControl struct {
	Quit bool
}

// App drives the frame loop over two isolated worlds: the simulation world,
// mutated by gameplay systems, and the render world, rebuilt every frame
// from an extracted snapshot. Systems never hold references across the
// boundary; the Extract stage is the only place data crosses it, and only
// in the simulation-to-render direction.
type App struct {
	stages  []Stage
	systems map[string][]systemFn

	world       *World
	renderWorld *World

	resources       map[reflect.Type]any
	renderResources map[reflect.Type]any

	// Command buffering, simulation world
	pendingAdditions []pendingAdd
	pendingRemovals  []EntityId
	pendingCompAdds  []pendingCompAdd

	// Command buffering, render world mirror insertions
	pendingMirrors []pendingAdd
}

type pendingAdd struct {
	eid        EntityId
	components []any
}

type pendingCompAdd struct {
	eid        EntityId
	components []any
}

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

func (app *App) RenderCommands() *RenderCommands {
	return &RenderCommands{app: app}
}

// Step runs one full frame tick: every stage in order, commands flushed
// after each stage. Right before the Extract stage the render world's
// entities from the previous frame are dropped; extraction then rebuilds
// the mirror from the current simulation state.
func (app *App) Step() {
	for _, stage := range app.stages {
		if stage.World == extractionStage {
			app.renderWorld.reset()
		}
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system, stage)
		}
		app.flushCommands()
	}
}

func (app *App) Run() {
	control := app.control()
	for !control.Quit {
		app.Step()
	}
}

func (app *App) control() *AppControl {
	t := reflect.TypeOf(AppControl{})
	if res, ok := app.resources[t]; ok {
		return res.(*AppControl)
	}
	panic("AppControl resource missing; App must be created via NewAppBuilder")
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

func (app *App) addRenderResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.renderResources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in render resources", resourceType))
		}

		app.renderResources[resourceType.Elem()] = resource
	}
	return app
}

// Resource looks up a simulation-world resource by type, for wiring done
// outside of systems (startup code, tests). Panics when absent.
func Resource[T any](app *App) *T {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if res, ok := app.resources[t]; ok {
		return res.(*T)
	}
	panic(fmt.Sprintf("no resource of type %s", t))
}

func resourceType(resource any) reflect.Type {
	t := reflect.TypeOf(resource)
	if t.Kind() != reflect.Pointer {
		panic(fmt.Sprintf("resources must be pointers, got %s", t))
	}
	return t.Elem()
}

var typeOfCommands = reflect.TypeOf(Commands{})
var typeOfRenderCommands = reflect.TypeOf(RenderCommands{})

// callSystem resolves a system's arguments by type against the world the
// stage belongs to. Simulation stages see simulation resources and
// *Commands; render stages see render resources and *RenderCommands; the
// Extract stage reads simulation resources and may additionally take a
// *RenderCommands to write the mirror.
func (app *App) callSystem(system systemFn, stage Stage) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		underlyingType := argType.Elem()

		switch {
		case underlyingType == typeOfCommands:
			if stage.World == renderStage {
				app.failSystemArg(systemValue, systemType, argType, "simulation Commands are not available in render stages")
			}
			args[i] = reflect.ValueOf(&Commands{app: app})

		case underlyingType == typeOfRenderCommands:
			if stage.World == simulationStage {
				app.failSystemArg(systemValue, systemType, argType, "RenderCommands are not available in simulation stages")
			}
			args[i] = reflect.ValueOf(&RenderCommands{app: app})

		default:
			pool := app.resources
			if stage.World == renderStage {
				pool = app.renderResources
			}
			resource, argIsResource := pool[underlyingType]
			if !argIsResource {
				app.failSystemArg(systemValue, systemType, argType, "no such resource in this stage's world")
			}
			resourceVal := reflect.ValueOf(resource)
			args[i] = reflect.NewAt(underlyingType, resourceVal.UnsafePointer())
		}
	}
	systemValue.Call(args)
}

func (app *App) failSystemArg(systemValue reflect.Value, systemType reflect.Type, argType reflect.Type, reason string) {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s\nReason: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
		reason,
	)
	panic(msg)
}

func (app *App) flushCommands() {
	// Removals first so we don't add to dead entities.
	for _, eid := range app.pendingRemovals {
		app.world.removeEntity(eid)
	}
	app.pendingRemovals = app.pendingRemovals[:0]

	for _, add := range app.pendingAdditions {
		app.world.insertEntity(add.eid, add.components...)
	}
	app.pendingAdditions = app.pendingAdditions[:0]

	for _, add := range app.pendingCompAdds {
		app.world.addComponents(add.eid, add.components...)
	}
	app.pendingCompAdds = app.pendingCompAdds[:0]

	for _, add := range app.pendingMirrors {
		app.renderWorld.insertEntity(add.eid, add.components...)
	}
	app.pendingMirrors = app.pendingMirrors[:0]
}
