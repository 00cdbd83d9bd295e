package scrollscene

import (
	"time"
)

// Clock is the frame clock. Elapsed is monotonic seconds since the App
// started and Delta the difference to the previous frame.
type Clock struct {
	Elapsed float64
	Delta   float64
	source  func() float64
}

func NewClock() *Clock {
	start := time.Now()
	return NewClockFrom(func() float64 { return time.Since(start).Seconds() })
}

// NewClockFrom builds a Clock reading elapsed seconds from source.
func NewClockFrom(source func() float64) *Clock {
	return &Clock{source: source}
}

func (c *Clock) Tick() {
	elapsed := c.source()
	c.Delta = elapsed - c.Elapsed
	c.Elapsed = elapsed
}

type TimeModule struct {
	// Source overrides the wall clock, mostly for tests and fixed-step runs.
	Source func() float64
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	clock := NewClock()
	if mod.Source != nil {
		clock = NewClockFrom(mod.Source)
	}
	cmd.AddResources(clock)
	app.UseSystem(
		System(clockSystem).
			InStage(Prelude).
			RunAlways(),
	)
}

func clockSystem(clock *Clock) {
	clock.Tick()
}
