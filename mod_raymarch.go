package mandelbulb

// FractalParams is the Parameter Store for the mandelbulb: process-wide
// fractal rendering parameters, owned by the App as a simulation-world
// resource and mutated by gameplay systems between frames. No validation is
// applied; out-of-range values travel to the shader unchanged. Single
// writer per frame by contract, read once per frame by extraction.
type FractalParams struct {
	Power         float32
	MaxIterations uint32
	Bailout       float32
	NumSteps      uint32
	MinDist       float32
	MaxDist       float32
	Zoom          float32
}

// Snapshot returns a value copy; the caller owns it outright.
func (p *FractalParams) Snapshot() FractalParams {
	return *p
}

// Set overwrites the stored parameters wholesale.
func (p *FractalParams) Set(v FractalParams) {
	*p = v
}

// ViewParams carries the view-dependent parameters, kept in sync with the
// window by the client module.
type ViewParams struct {
	AspectRatio float32
}

func (p *ViewParams) Snapshot() ViewParams {
	return *p
}

func (p *ViewParams) Set(v ViewParams) {
	*p = v
}

// extractedParams is the render world's snapshot of the Parameter Store,
// replaced wholesale by extraction every frame. Render-stage systems read
// this, never the simulation-side resources.
type extractedParams struct {
	fractal FractalParams
	view    ViewParams
}

// RayMarchingModule wires the mandelbulb material pipeline: the Parameter
// Store resources on the simulation side, the extraction system at the
// world boundary and the buffer preparation system in the render world.
// Pair it with ClientModule for an actual window and GPU; without it the
// pipeline still runs and queues writes, which is how the tests drive it.
type RayMarchingModule struct{}

func (RayMarchingModule) Install(app *App, cmd *Commands) {
	defaults := NewRayMarchingMaterial()

	cmd.AddResources(
		&FractalParams{
			Power:         defaults.Power,
			MaxIterations: defaults.MaxIterations,
			Bailout:       defaults.Bailout,
			NumSteps:      defaults.NumSteps,
			MinDist:       defaults.MinDist,
			MaxDist:       defaults.MaxDist,
			Zoom:          defaults.Zoom,
		},
		&ViewParams{AspectRatio: defaults.AspectRatio},
	)

	app.RenderCommands().AddResources(
		&RenderMaterials{prepared: make(map[AssetId]*PreparedMaterial)},
		&WriteQueue{},
		&extractedParams{},
	)

	app.UseSystem(
		System(extractRayMarchingSystem).
			InStage(Extract),
	)
	app.UseSystem(
		System(prepareRayMarchingSystem).
			InStage(Prepare),
	)
}
