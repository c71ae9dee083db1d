package services

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom-live/internal/sound"
)

func TestSpinRollsAndLandsOnWinner(t *testing.T) {
	mock := clock.NewMock()
	cues := &recordingCues{}

	var mu sync.Mutex
	var ticks []string
	winner := ""
	picker := NewPicker(mock, cues,
		func(name string) {
			mu.Lock()
			ticks = append(ticks, name)
			mu.Unlock()
		},
		func(name string) {
			mu.Lock()
			winner = name
			mu.Unlock()
		})

	students := []string{"Amal", "Badr", "Celine"}
	require.NoError(t, picker.Spin(students))
	assert.True(t, picker.Rolling())
	assert.Empty(t, picker.Winner())

	mock.Add(rollDuration)

	assert.False(t, picker.Rolling())
	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, ticks, "the roll must animate before landing")
	assert.Contains(t, students, winner)
	assert.Equal(t, winner, picker.Winner())
	assert.Equal(t, winner, picker.Display())
	assert.Equal(t, 1, cues.count(sound.CueCorrect))
}

func TestSpinPreconditions(t *testing.T) {
	mock := clock.NewMock()
	picker := NewPicker(mock, nil, nil, nil)

	assert.ErrorIs(t, picker.Spin(nil), ErrNoStudents)

	require.NoError(t, picker.Spin([]string{"Amal"}))
	assert.ErrorIs(t, picker.Spin([]string{"Amal"}), ErrAlreadyRolling)

	// After the roll resolves a new spin is allowed again.
	mock.Add(rollDuration)
	require.NoError(t, picker.Spin([]string{"Amal"}))
}

func TestStopCancelsTheRoll(t *testing.T) {
	mock := clock.NewMock()
	cues := &recordingCues{}
	picker := NewPicker(mock, cues, nil, nil)

	require.NoError(t, picker.Spin([]string{"Amal", "Badr"}))
	mock.Add(rollTick * 5)
	picker.Stop()

	assert.False(t, picker.Rolling())
	assert.Empty(t, picker.Winner())

	// No timer survives the stop: time passing changes nothing.
	mock.Add(rollDuration)
	assert.Empty(t, picker.Winner())
	assert.Zero(t, cues.count(sound.CueCorrect))
}

func TestSingleStudentAlwaysWins(t *testing.T) {
	mock := clock.NewMock()
	picker := NewPicker(mock, nil, nil, nil)

	require.NoError(t, picker.Spin([]string{"Amal"}))
	mock.Add(rollDuration)
	assert.Equal(t, "Amal", picker.Winner())
}

func TestWinnerDrawIsRoughlyUniform(t *testing.T) {
	students := []string{"Amal", "Badr", "Celine", "Dina"}
	wins := make(map[string]int)

	for i := 0; i < 400; i++ {
		mock := clock.NewMock()
		picker := NewPicker(mock, nil, nil, nil)
		require.NoError(t, picker.Spin(students))
		mock.Add(3 * time.Second)
		wins[picker.Winner()]++
	}

	// Expected 100 wins each; a wide tolerance keeps this stable.
	for _, name := range students {
		assert.Greater(t, wins[name], 40, "%s wins too rarely: %v", name, wins)
	}
}
