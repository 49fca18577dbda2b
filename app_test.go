package mandelbulb

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)

	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	// Expect panic when trying to add the same type of resource again
	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)

	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")
}

func TestApp_addRenderResources(t *testing.T) {
	app := &App{
		resources:       make(map[reflect.Type]any),
		renderResources: make(map[reflect.Type]any),
	}

	// The same type can live in both worlds without clashing.
	app.addResources(NewMockResource1("sim"))
	app.addRenderResources(NewMockResource1("render"))

	simRes := app.resources[reflect.TypeOf(MockResource1{})].(*MockResource1)
	renderRes := app.renderResources[reflect.TypeOf(MockResource1{})].(*MockResource1)

	if simRes.name != "sim" {
		t.Errorf("Expected simulation resource name 'sim', got %v", simRes.name)
	}
	if renderRes.name != "render" {
		t.Errorf("Expected render resource name 'render', got %v", renderRes.name)
	}
}

func TestApp_SystemResourceInjection(t *testing.T) {
	app := NewAppBuilder().Build()
	app.Commands().AddResources(NewMockResource1("injected"))

	called := false
	app.UseSystem(System(func(res *MockResource1) {
		called = true
		if res.name != "injected" {
			t.Errorf("Expected injected resource, got %v", res.name)
		}
		res.name = "mutated"
	}).InStage(Update))

	app.Step()

	if !called {
		t.Errorf("Expected the system to run during Step")
	}

	if got := Resource[MockResource1](app).name; got != "mutated" {
		t.Errorf("Expected mutation through the injected pointer to persist, got %v", got)
	}
}

func TestApp_RenderStageSeesRenderResources(t *testing.T) {
	app := NewAppBuilder().Build()
	app.Commands().AddResources(NewMockResource1("sim"))
	app.RenderCommands().AddResources(NewMockResource1("render"))

	var seen string
	app.UseSystem(System(func(res *MockResource1) {
		seen = res.name
	}).InStage(Prepare))

	app.Step()

	if seen != "render" {
		t.Errorf("Render-stage system should resolve against render resources, got %v", seen)
	}
}

func TestApp_CommandsForbiddenInRenderStage(t *testing.T) {
	app := NewAppBuilder().Build()
	app.UseSystem(System(func(cmd *Commands) {}).InStage(Render))

	require.Panics(t, func() {
		app.Step()
	})
}

func TestApp_RenderCommandsForbiddenInSimulationStage(t *testing.T) {
	app := NewAppBuilder().Build()
	app.UseSystem(System(func(rcmd *RenderCommands) {}).InStage(Update))

	require.Panics(t, func() {
		app.Step()
	})
}

func TestApp_UseSystemUnknownStagePanics(t *testing.T) {
	app := NewAppBuilder().Build()

	require.Panics(t, func() {
		app.UseSystem(System(func() {}).InStage(Stage{Name: "NoSuchStage"}))
	})
}

func TestApp_StepRebuildsRenderWorld(t *testing.T) {
	type mirrored struct{ frame int }

	app := NewAppBuilder().Build()
	eid := app.Commands().AddEntity()
	app.flushCommands()

	frame := 0
	app.UseSystem(System(func(rcmd *RenderCommands) {
		rcmd.InsertMirrorEntity(eid, mirrored{frame: frame})
	}).InStage(Extract))

	for frame = 1; frame <= 3; frame++ {
		app.Step()

		if app.renderWorld.entityCount() != 1 {
			t.Fatalf("Frame %v: expected exactly 1 mirror entity, got %v", frame, app.renderWorld.entityCount())
		}

		query := MakeQuery1[mirrored](app.RenderCommands())
		query.Map(func(got EntityId, m *mirrored) bool {
			if got != eid {
				t.Errorf("Frame %v: mirror entity id %v, expected %v", frame, got, eid)
			}
			if m.frame != frame {
				t.Errorf("Frame %v: stale mirror data from frame %v", frame, m.frame)
			}
			return true
		})
	}
}

func TestApp_StagesRunInOrder(t *testing.T) {
	app := NewAppBuilder().Build()

	var order []string
	record := func(name string, stage Stage) {
		app.UseSystem(System(func() {
			order = append(order, name)
		}).InStage(stage))
	}
	record("prelude", Prelude)
	record("update", Update)
	record("extract", Extract)
	record("prepare", Prepare)
	record("render", Render)

	app.Step()

	expected := []string{"prelude", "update", "extract", "prepare", "render"}
	if len(order) != len(expected) {
		t.Fatalf("Expected %v systems to run, got %v", len(expected), len(order))
	}
	for i, name := range expected {
		if order[i] != name {
			t.Errorf("Unexpected stage order at position %v, expected %v got %v", i, name, order[i])
		}
	}
}

func TestApp_RunUntilQuit(t *testing.T) {
	app := NewAppBuilder().Build()

	frames := 0
	app.UseSystem(System(func(control *AppControl) {
		frames += 1
		if frames == 3 {
			control.Quit = true
		}
	}).InStage(Update))

	app.Run()

	if frames != 3 {
		t.Errorf("Expected Run to stop after 3 frames, got %v", frames)
	}
}
