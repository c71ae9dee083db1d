package services

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"classroom-live/internal/sound"
)

// ErrNoStudents is returned when a spin is requested with nobody
// present to pick from.
var ErrNoStudents = errors.New("picker: no students to pick from")

// ErrAlreadyRolling is returned when a spin is requested mid-roll.
var ErrAlreadyRolling = errors.New("picker: already rolling")

const (
	rollTick     = 100 * time.Millisecond
	rollDuration = 3 * time.Second
)

// Picker is the random-name widget. A spin runs a rolling animation
// that re-samples a displayed name each tick for a fixed duration,
// then lands on an independently drawn winner.
//
// The final draw is deliberately independent of the last displayed
// tick, so the name on screen when the roll stops is not guaranteed to
// be the announced winner. That two-draw behavior is preserved as the
// product defined it.
type Picker struct {
	mu    sync.Mutex
	clock clock.Clock
	cues  CuePlayer

	// onTick publishes the rolling display name; onWinner announces
	// the final selection. Both may be nil.
	onTick   func(name string)
	onWinner func(name string)

	students []string
	rolling  bool
	display  string
	winner   string

	tickTimer *clock.Timer
	endTimer  *clock.Timer
}

// NewPicker creates a picker using the given clock for its animation.
func NewPicker(clk clock.Clock, cues CuePlayer, onTick, onWinner func(string)) *Picker {
	if cues == nil {
		cues = noopCues{}
	}
	return &Picker{
		clock:    clk,
		cues:     cues,
		onTick:   onTick,
		onWinner: onWinner,
	}
}

// Spin starts the rolling animation over the given present-student
// names. Refused when the list is empty or a roll is in progress.
func (p *Picker) Spin(students []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(students) == 0 {
		return ErrNoStudents
	}
	if p.rolling {
		return ErrAlreadyRolling
	}

	p.students = append([]string(nil), students...)
	p.rolling = true
	p.winner = ""

	p.tickTimer = p.clock.AfterFunc(rollTick, p.tick)
	p.endTimer = p.clock.AfterFunc(rollDuration, p.finish)
	return nil
}

// tick re-samples the displayed name and schedules the next tick.
func (p *Picker) tick() {
	p.mu.Lock()

	if !p.rolling {
		p.mu.Unlock()
		return
	}
	p.display = p.students[rand.Intn(len(p.students))]
	name := p.display
	p.tickTimer = p.clock.AfterFunc(rollTick, p.tick)
	notify := p.onTick

	p.mu.Unlock()

	if notify != nil {
		notify(name)
	}
}

// finish force-resolves the roll: one final independent uniform draw
// becomes the winner, the "correct" cue plays, and the roll stops.
func (p *Picker) finish() {
	p.mu.Lock()

	if !p.rolling {
		p.mu.Unlock()
		return
	}
	p.stopLocked()
	p.winner = p.students[rand.Intn(len(p.students))]
	p.display = p.winner
	winner := p.winner
	notify := p.onWinner

	p.mu.Unlock()

	p.cues.Play(sound.CueCorrect)
	if notify != nil {
		notify(winner)
	}
}

// Stop cancels any in-flight roll. Safe to call on teardown; no timer
// survives it.
func (p *Picker) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Picker) stopLocked() {
	p.rolling = false
	if p.tickTimer != nil {
		p.tickTimer.Stop()
		p.tickTimer = nil
	}
	if p.endTimer != nil {
		p.endTimer.Stop()
		p.endTimer = nil
	}
}

// Rolling reports whether a roll is in progress.
func (p *Picker) Rolling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rolling
}

// Winner returns the last announced winner, or "" while rolling or
// before any spin.
func (p *Picker) Winner() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.winner
}

// Display returns the name currently shown on the roll.
func (p *Picker) Display() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.display
}
