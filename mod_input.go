package mandelbulb

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeySpace int = iota
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyMinus
	KeyEqual
	KeyKPPlus
	KeyKPMinus
	numKeys
)

var keyToGlfw = map[int]glfw.Key{
	KeySpace:   glfw.KeySpace,
	KeyEscape:  glfw.KeyEscape,
	KeyUp:      glfw.KeyUp,
	KeyDown:    glfw.KeyDown,
	KeyLeft:    glfw.KeyLeft,
	KeyRight:   glfw.KeyRight,
	KeyMinus:   glfw.KeyMinus,
	KeyEqual:   glfw.KeyEqual,
	KeyKPPlus:  glfw.KeyKPAdd,
	KeyKPMinus: glfw.KeyKPSubtract,
}

// Input exposes per-frame keyboard state as a simulation resource.
// JustPressed fires on the frame a key goes down and nowhere else, which is
// what parameter hotkeys want.
type Input struct {
	Pressed      [numKeys]bool
	JustPressed  [numKeys]bool
	JustReleased [numKeys]bool
}

// InputModule polls the window's keyboard every frame. Requires
// ClientModule for the WindowState; install it after.
type InputModule struct{}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputSystem).
			InStage(Prelude),
	)
}

func inputSystem(s *WindowState, input *Input) {
	for key, glfwKey := range keyToGlfw {
		action := s.windowGlfw.GetKey(glfwKey)

		input.JustPressed[key] = false
		input.JustReleased[key] = false

		if glfw.Press == action {
			if !input.Pressed[key] {
				input.JustPressed[key] = true
			}
			input.Pressed[key] = true
		} else if glfw.Release == action {
			if input.Pressed[key] {
				input.JustReleased[key] = true
			}
			input.Pressed[key] = false
		}
	}
}
