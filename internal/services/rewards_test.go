package services

import (
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom-live/internal/models"
	"classroom-live/internal/sound"
)

func TestAwardIncrementsAndPersists(t *testing.T) {
	mock := clock.NewMock()
	cues := &recordingCues{}
	store := newMemoryStore()
	ledger := NewRewardsLedger(mock, cues, store, nil)

	student := &models.Student{ID: "s1", Name: "Amal", ClassID: "class-1"}
	require.NoError(t, ledger.Award(student, "2026-03-02"))
	require.NoError(t, ledger.Award(student, "2026-03-02"))

	assert.Equal(t, 2, ledger.Points("s1"))
	assert.Equal(t, 2, cues.count(sound.CueClap))

	records, err := store.PositiveRecordsForDate("2026-03-02")
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, "s1", record.StudentID)
		assert.Equal(t, "class-1", record.ClassID)
		assert.Equal(t, models.AttendancePresent, record.Status)
		assert.Equal(t, models.BehaviorPositive, record.BehaviorStatus)
		assert.NotEmpty(t, record.ID)
		assert.NotEmpty(t, record.Note)
	}
}

func TestCelebrationExpires(t *testing.T) {
	mock := clock.NewMock()
	ledger := NewRewardsLedger(mock, nil, nil, nil)

	student := &models.Student{ID: "s1", Name: "Amal"}
	require.NoError(t, ledger.Award(student, "2026-03-02"))
	assert.Equal(t, "s1", ledger.Celebrating())

	mock.Add(celebrationDuration)
	assert.Empty(t, ledger.Celebrating())
}

func TestBackToBackAwardsExtendCelebration(t *testing.T) {
	mock := clock.NewMock()
	ledger := NewRewardsLedger(mock, nil, nil, nil)

	require.NoError(t, ledger.Award(&models.Student{ID: "s1"}, "2026-03-02"))
	mock.Add(celebrationDuration / 2)
	require.NoError(t, ledger.Award(&models.Student{ID: "s2"}, "2026-03-02"))

	// The first award's timer was replaced, not left to fire early.
	mock.Add(celebrationDuration / 2)
	assert.Equal(t, "s2", ledger.Celebrating())

	mock.Add(celebrationDuration / 2)
	assert.Empty(t, ledger.Celebrating())
}

func TestAwardNilStudent(t *testing.T) {
	ledger := NewRewardsLedger(clock.NewMock(), nil, nil, nil)
	assert.Error(t, ledger.Award(nil, "2026-03-02"))
}

func TestReseedCountsOnlyPositiveRecords(t *testing.T) {
	ledger := NewRewardsLedger(clock.NewMock(), nil, nil, nil)
	ledger.Award(&models.Student{ID: "stale"}, "2026-03-01")

	ledger.Reseed([]*models.BehaviorRecord{
		{ID: "r1", StudentID: "s1", BehaviorStatus: models.BehaviorPositive},
		{ID: "r2", StudentID: "s1", BehaviorStatus: models.BehaviorPositive},
		{ID: "r3", StudentID: "s1", BehaviorStatus: models.BehaviorNegative},
		{ID: "r4", StudentID: "s2", BehaviorStatus: models.BehaviorNeutral},
	})

	assert.Equal(t, 2, ledger.Points("s1"))
	assert.Zero(t, ledger.Points("s2"))
	assert.Zero(t, ledger.Points("stale"), "reseed replaces prior counters")
	assert.Equal(t, map[string]int{"s1": 2}, ledger.All())
}
