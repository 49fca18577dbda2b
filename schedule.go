package mandelbulb

// stageWorld says which world a stage's systems run against. Extraction is
// the one stage that straddles both: it reads the simulation world and
// writes the render world.
type stageWorld int

const (
	simulationStage stageWorld = iota
	extractionStage
	renderStage
)

type Stage struct {
	Name  string
	World stageWorld
}

// Frame order. Extract is the simulation/render boundary: the render world's
// entities are cleared right before it runs, and everything after it only
// sees the render world.
var (
	Prelude    = Stage{Name: "Prelude", World: simulationStage}
	Update     = Stage{Name: "Update", World: simulationStage}
	PostUpdate = Stage{Name: "PostUpdate", World: simulationStage}
	Extract    = Stage{Name: "Extract", World: extractionStage}
	Prepare    = Stage{Name: "Prepare", World: renderStage}
	Render     = Stage{Name: "Render", World: renderStage}
	Finale     = Stage{Name: "Finale", World: renderStage}
)

func defaultStages() []Stage {
	return []Stage{Prelude, Update, PostUpdate, Extract, Prepare, Render, Finale}
}

type systemScheduleBuilder struct {
	inStage Stage
	system  systemFn
}

func System(system systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  system,
		inStage: Update,
	}
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  sched.system,
		inStage: s,
	}
}

// UseSystem registers a system into its stage. Systems within one stage run
// in registration order.
func (app *App) UseSystem(system systemScheduleBuilder) *App {
	if _, ok := app.systems[system.inStage.Name]; !ok {
		panic("Stage " + system.inStage.Name + " doesn't exist")
	}
	app.systems[system.inStage.Name] = append(app.systems[system.inStage.Name], system.system)
	return app
}
