package mode

// Config holds controller tuning.
type Config struct {
	// Threshold is the pointer Y that draw and erase must exceed.
	Threshold int
	// Cooldown is the number of frames a pick blocks further picks.
	Cooldown int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Threshold: 80,
		Cooldown:  15,
	}
}

// Transition describes a mode change and the effects it triggers.
type Transition struct {
	From    Mode
	To      Mode
	Effects []Effect
}

// Output is the controller's verdict for one frame.
type Output struct {
	Mode Mode
	// Transition is nil while the mode is sustained.
	Transition *Transition
	Action     Action
}

// Controller owns the current mode and the selection cooldown.
type Controller struct {
	config   Config
	mode     Mode
	cooldown int
}

// NewController creates a Controller in Idle.
func NewController(config Config) *Controller {
	return &Controller{config: config}
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Cooldown returns the remaining cooldown frames.
func (c *Controller) Cooldown() int {
	return c.cooldown
}

// Step advances the controller by one frame. The cooldown is decremented
// after the transition is decided.
func (c *Controller) Step(in Input) Output {
	next := Next(in, c.config.Threshold, c.cooldown)

	out := Output{Mode: next, Action: Act(next)}
	if next != c.mode {
		out.Transition = &Transition{From: c.mode, To: next, Effects: Entry(next)}
		c.mode = next
	}

	if c.cooldown > 0 {
		c.cooldown--
	}
	return out
}

// StartCooldown blocks selection for the configured number of frames.
// Call it after Step in the frame where a pick was accepted.
func (c *Controller) StartCooldown() {
	c.cooldown = c.config.Cooldown
}

// Reset returns to Idle without clearing the cooldown. The returned
// transition is nil when the controller was already idle.
func (c *Controller) Reset() *Transition {
	if c.mode == Idle {
		return nil
	}
	t := &Transition{From: c.mode, To: Idle, Effects: Entry(Idle)}
	c.mode = Idle
	return t
}
