package services

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"classroom-live/internal/sound"
)

// Countdown is the classroom timer widget. While active it decrements
// once per second; on reaching zero it deactivates and rings the bell,
// unless it was never given a duration.
type Countdown struct {
	mu    sync.Mutex
	clock clock.Clock
	cues  CuePlayer

	// onChange publishes the remaining time to displays. May be nil.
	onChange func(timeLeft int, active bool)

	timeLeft    int
	initialTime int
	active      bool
	timer       *clock.Timer
}

// NewCountdown creates a stopped countdown at zero.
func NewCountdown(clk clock.Clock, cues CuePlayer, onChange func(int, bool)) *Countdown {
	if cues == nil {
		cues = noopCues{}
	}
	return &Countdown{
		clock:    clk,
		cues:     cues,
		onChange: onChange,
	}
}

// SetDuration sets both the initial and remaining time in seconds,
// force-stopping any running countdown first. Negative durations are
// refused silently.
func (c *Countdown) SetDuration(seconds int) {
	if seconds < 0 {
		return
	}

	c.mu.Lock()
	c.stopLocked()
	c.initialTime = seconds
	c.timeLeft = seconds
	c.mu.Unlock()

	c.notifyChange()
}

// SetPresetMinutes sets the timer to a whole number of minutes.
func (c *Countdown) SetPresetMinutes(minutes int) {
	c.SetDuration(minutes * 60)
}

// Start activates the countdown. Starting with no time left is a
// no-op rather than an error.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.active || c.timeLeft <= 0 {
		c.mu.Unlock()
		return
	}
	c.active = true
	c.timer = c.clock.AfterFunc(time.Second, c.tick)
	c.mu.Unlock()

	c.notifyChange()
}

// tick decrements once and either reschedules or terminates.
func (c *Countdown) tick() {
	c.mu.Lock()

	if !c.active {
		c.mu.Unlock()
		return
	}

	c.timeLeft--
	ringBell := false
	if c.timeLeft <= 0 {
		c.timeLeft = 0
		c.active = false
		c.timer = nil
		// A freshly-reset zero timer must not ring.
		ringBell = c.initialTime > 0
	} else {
		c.timer = c.clock.AfterFunc(time.Second, c.tick)
	}

	c.mu.Unlock()

	if ringBell {
		c.cues.Play(sound.CueBell)
	}
	c.notifyChange()
}

// Stop deactivates the countdown without touching the remaining time.
func (c *Countdown) Stop() {
	c.mu.Lock()
	c.stopLocked()
	c.mu.Unlock()

	c.notifyChange()
}

// Reset stops the countdown and restores the remaining time to the
// initial duration.
func (c *Countdown) Reset() {
	c.mu.Lock()
	c.stopLocked()
	c.timeLeft = c.initialTime
	c.mu.Unlock()

	c.notifyChange()
}

func (c *Countdown) stopLocked() {
	c.active = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// State returns the remaining seconds, the initial duration, and
// whether the countdown is running.
func (c *Countdown) State() (timeLeft, initialTime int, active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeLeft, c.initialTime, c.active
}

func (c *Countdown) notifyChange() {
	if c.onChange == nil {
		return
	}
	timeLeft, _, active := c.State()
	c.onChange(timeLeft, active)
}
