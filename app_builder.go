package mandelbulb

import (
	"reflect"
)

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	world := MakeWorld()
	renderWorld := MakeWorld()

	app := &App{
		stages:          defaultStages(),
		systems:         make(map[string][]systemFn),
		world:           &world,
		renderWorld:     &renderWorld,
		resources:       make(map[reflect.Type]any),
		renderResources: make(map[reflect.Type]any),
	}
	for _, stage := range app.stages {
		app.systems[stage.Name] = make([]systemFn, 0)
	}
	app.addResources(&AppControl{})

	return &AppBuilder{app: app}
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

func (b *AppBuilder) Build() *App {
	app := b.app
	commands := &Commands{app: app}

	for _, module := range b.modules {
		module.Install(app, commands)
	}

	return app
}
