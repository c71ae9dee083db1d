package services

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom-live/internal/sound"
)

func countdownState(t *testing.T, c *Countdown) (int, int, bool) {
	t.Helper()
	timeLeft, initialTime, active := c.State()
	return timeLeft, initialTime, active
}

func TestCountdownTicksDown(t *testing.T) {
	mock := clock.NewMock()
	countdown := NewCountdown(mock, nil, nil)

	countdown.SetDuration(5)
	countdown.Start()

	mock.Add(2 * time.Second)
	timeLeft, initialTime, active := countdownState(t, countdown)
	assert.Equal(t, 3, timeLeft)
	assert.Equal(t, 5, initialTime)
	assert.True(t, active)
}

func TestCountdownRingsBellOnceAtZero(t *testing.T) {
	mock := clock.NewMock()
	cues := &recordingCues{}
	countdown := NewCountdown(mock, cues, nil)

	countdown.SetDuration(3)
	countdown.Start()

	mock.Add(3 * time.Second)
	timeLeft, _, active := countdownState(t, countdown)
	assert.Equal(t, 0, timeLeft)
	assert.False(t, active)
	assert.Equal(t, 1, cues.count(sound.CueBell))

	// Expired means expired: more time ringing nothing.
	mock.Add(10 * time.Second)
	assert.Equal(t, 1, cues.count(sound.CueBell))
}

func TestCountdownStartPreconditions(t *testing.T) {
	mock := clock.NewMock()
	countdown := NewCountdown(mock, nil, nil)

	// Starting at zero is a silent no-op.
	countdown.Start()
	_, _, active := countdownState(t, countdown)
	assert.False(t, active)

	countdown.SetDuration(10)
	countdown.Start()
	countdown.Start() // double start must not double the tick rate
	mock.Add(4 * time.Second)
	timeLeft, _, _ := countdownState(t, countdown)
	assert.Equal(t, 6, timeLeft)
}

func TestCountdownStopFreezesTime(t *testing.T) {
	mock := clock.NewMock()
	countdown := NewCountdown(mock, nil, nil)

	countdown.SetDuration(10)
	countdown.Start()
	mock.Add(3 * time.Second)

	countdown.Stop()
	mock.Add(5 * time.Second)

	timeLeft, _, active := countdownState(t, countdown)
	assert.Equal(t, 7, timeLeft)
	assert.False(t, active)
}

func TestCountdownReset(t *testing.T) {
	mock := clock.NewMock()
	countdown := NewCountdown(mock, nil, nil)

	countdown.SetDuration(10)
	countdown.Start()
	mock.Add(4 * time.Second)

	countdown.Reset()
	timeLeft, initialTime, active := countdownState(t, countdown)
	assert.Equal(t, 10, timeLeft)
	assert.Equal(t, 10, initialTime)
	assert.False(t, active)
}

func TestSetDurationForceStopsRunningTimer(t *testing.T) {
	mock := clock.NewMock()
	countdown := NewCountdown(mock, nil, nil)

	countdown.SetDuration(10)
	countdown.Start()
	mock.Add(2 * time.Second)

	countdown.SetDuration(30)
	_, _, active := countdownState(t, countdown)
	require.False(t, active)

	// The old tick chain is dead.
	mock.Add(5 * time.Second)
	timeLeft, _, _ := countdownState(t, countdown)
	assert.Equal(t, 30, timeLeft)
}

func TestSetDurationRejectsNegative(t *testing.T) {
	mock := clock.NewMock()
	countdown := NewCountdown(mock, nil, nil)

	countdown.SetDuration(15)
	countdown.SetDuration(-1)
	timeLeft, _, _ := countdownState(t, countdown)
	assert.Equal(t, 15, timeLeft)
}

func TestSetPresetMinutes(t *testing.T) {
	mock := clock.NewMock()
	countdown := NewCountdown(mock, nil, nil)

	countdown.SetPresetMinutes(5)
	timeLeft, initialTime, _ := countdownState(t, countdown)
	assert.Equal(t, 300, timeLeft)
	assert.Equal(t, 300, initialTime)
}
