package main

import (
	"math"

	mandelbulb "github.com/gekko3d/mandelbulb"
	"github.com/go-gl/mathgl/mgl32"
)

type orbitComponent struct {
	angle  float32
	radius float32
}

type demoControls struct {
	animatePower bool
}

func main() {
	app := mandelbulb.NewAppBuilder().
		UseModule(
			mandelbulb.LoggingModule{Prefix: "mandelbulb"},
			mandelbulb.TimeModule{},
			mandelbulb.AssetServerModule{},
			mandelbulb.ClientModule{
				WindowWidth:  1280,
				WindowHeight: 720,
				WindowTitle:  "Mandelbulb",
			},
			mandelbulb.InputModule{},
			mandelbulb.RayMarchingModule{},
		).
		Build()

	assets := mandelbulb.Resource[mandelbulb.AssetServer](app)
	material, err := assets.LoadRayMarchingMaterial(mandelbulb.NewRayMarchingMaterial())
	if err != nil {
		panic(err)
	}

	cmd := app.Commands()
	cmd.AddResources(&demoControls{animatePower: true})
	cmd.AddEntity(material)

	camera := mandelbulb.NewTransform()
	camera.Position = mgl32.Vec3{0, 0.6, 2.5}
	cmd.AddEntity(
		mandelbulb.CameraComponent{Primary: true},
		camera,
		orbitComponent{radius: 2.5},
	)

	app.UseSystem(
		mandelbulb.System(orbitCameraSystem).
			InStage(mandelbulb.Update),
	)
	app.UseSystem(
		mandelbulb.System(animatePowerSystem).
			InStage(mandelbulb.Update),
	)
	app.UseSystem(
		mandelbulb.System(hotkeySystem).
			InStage(mandelbulb.Update),
	)

	app.Run()
}

func orbitCameraSystem(time *mandelbulb.Time, cmd *mandelbulb.Commands) {
	dt := float32(time.Dt.Seconds())
	if dt <= 0 {
		return
	}

	mandelbulb.MakeQuery2[orbitComponent, mandelbulb.TransformComponent](cmd).Map(
		func(eid mandelbulb.EntityId, orbit *orbitComponent, tr *mandelbulb.TransformComponent) bool {
			orbit.angle += 0.2 * dt

			tr.Position = mgl32.Vec3{
				orbit.radius * float32(math.Sin(float64(orbit.angle))),
				0.6,
				orbit.radius * float32(math.Cos(float64(orbit.angle))),
			}
			tr.Rotation = mgl32.QuatLookAtV(tr.Position, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
			return true
		})
}

// animatePowerSystem drives the fractal's power through the Parameter
// Store, the same way any gameplay system would tweak it.
func animatePowerSystem(time *mandelbulb.Time, params *mandelbulb.FractalParams, controls *demoControls) {
	if !controls.animatePower {
		return
	}
	phase := float64(time.Time.UnixNano()) / float64(8e9)
	next := params.Snapshot()
	next.Power = 8.0 + 4.0*float32(math.Sin(phase))
	params.Set(next)
}

// Space pauses the power animation, up/down change the march step count,
// plus/minus change the fractal iterations, left/right zoom, escape quits.
func hotkeySystem(input *mandelbulb.Input, params *mandelbulb.FractalParams, controls *demoControls, control *mandelbulb.AppControl) {
	if input.JustPressed[mandelbulb.KeyEscape] {
		control.Quit = true
		return
	}
	if input.JustPressed[mandelbulb.KeySpace] {
		controls.animatePower = !controls.animatePower
	}

	next := params.Snapshot()

	if input.JustPressed[mandelbulb.KeyUp] {
		next.NumSteps += 16
	}
	if input.JustPressed[mandelbulb.KeyDown] && next.NumSteps > 16 {
		next.NumSteps -= 16
	}

	if input.JustPressed[mandelbulb.KeyEqual] || input.JustPressed[mandelbulb.KeyKPPlus] {
		next.MaxIterations += 1
	}
	if (input.JustPressed[mandelbulb.KeyMinus] || input.JustPressed[mandelbulb.KeyKPMinus]) && next.MaxIterations > 1 {
		next.MaxIterations -= 1
	}

	if input.JustPressed[mandelbulb.KeyRight] {
		next.Zoom *= 1.25
	}
	if input.JustPressed[mandelbulb.KeyLeft] {
		next.Zoom /= 1.25
	}

	params.Set(next)
}
