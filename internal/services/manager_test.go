package services

import (
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom-live/internal/models"
)

func TestManagerReusesSessionPerClass(t *testing.T) {
	manager := NewSessionManager(clock.NewMock(), newMemoryStore(), nil, nil, nil)
	defer manager.CloseAll()

	first := manager.Get("class-1")
	assert.Same(t, first, manager.Get("class-1"))
	assert.NotSame(t, first, manager.Get("class-2"))
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	manager := NewSessionManager(clock.NewMock(), newMemoryStore(), nil, nil, nil)
	defer manager.CloseAll()

	a := manager.Get("class-a")
	b := manager.Get("class-b")

	require.NoError(t, a.SetRoster([]*models.Student{{ID: "s1", Name: "Amal"}}))
	assert.Empty(t, b.Roster())

	a.Overlay().Toggle(ToolTimer)
	assert.Equal(t, ToolNone, b.Overlay().Active())
}

func TestManagerCloseAllStopsTimers(t *testing.T) {
	mock := clock.NewMock()
	manager := NewSessionManager(mock, newMemoryStore(), nil, nil, nil)

	session := manager.Get("class-1")
	require.NoError(t, session.SetRoster([]*models.Student{{ID: "s1", Name: "Amal"}}))
	require.NoError(t, session.SpinPicker())

	manager.CloseAll()

	mock.Add(rollDuration)
	assert.Empty(t, session.Picker().Winner(), "no timer survives teardown")

	// Get after CloseAll builds a fresh session.
	assert.NotSame(t, session, manager.Get("class-1"))
}
