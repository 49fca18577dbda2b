package mandelbulb

import (
	"testing"
	"time"
)

func TestTimeModule_AdvancesEachFrame(t *testing.T) {
	app := NewAppBuilder().
		UseModule(TimeModule{}).
		Build()

	before := Resource[Time](app).Time

	time.Sleep(time.Millisecond)
	app.Step()

	clock := Resource[Time](app)
	if !clock.Time.After(before) {
		t.Errorf("Expected the clock to advance past %v, got %v", before, clock.Time)
	}
	if clock.Dt <= 0 {
		t.Errorf("Expected a positive frame delta, got %v", clock.Dt)
	}
}
