package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"classroom-live/internal/models"
	"classroom-live/internal/sound"
)

// Award notes are written in the classroom's language.
const rewardNote = "نقطة تميز"

const celebrationDuration = 3 * time.Second

// RecordSaver is the slice of the persistence collaborator the ledger
// emits award records through.
type RecordSaver interface {
	SaveBehaviorRecords(records []*models.BehaviorRecord) error
}

// RewardsLedger tracks per-student reward points for the current day.
// The in-memory counters derive from persisted history: Reseed rebuilds
// them from the store's positive records whenever the roster or
// attendance source changes, and every award emits one persisted record.
type RewardsLedger struct {
	mu    sync.Mutex
	clock clock.Clock
	cues  CuePlayer
	store RecordSaver

	// onChange publishes ledger updates to displays. May be nil.
	onChange func()

	points      map[string]int
	celebrating string
	celebTimer  *clock.Timer
}

// NewRewardsLedger creates an empty ledger.
func NewRewardsLedger(clk clock.Clock, cues CuePlayer, store RecordSaver, onChange func()) *RewardsLedger {
	if cues == nil {
		cues = noopCues{}
	}
	return &RewardsLedger{
		clock:    clk,
		cues:     cues,
		store:    store,
		onChange: onChange,
		points:   make(map[string]int),
	}
}

// Reseed rebuilds the counters from persisted positive records for
// today. Ledger state is a projection of history, not a source of
// truth.
func (l *RewardsLedger) Reseed(records []*models.BehaviorRecord) {
	l.mu.Lock()
	l.points = make(map[string]int)
	for _, record := range records {
		if record.BehaviorStatus == models.BehaviorPositive {
			l.points[record.StudentID]++
		}
	}
	l.mu.Unlock()

	l.notifyChange()
}

// Award grants one point: the counter increments, a celebration flag
// raises for a bounded duration, and one positive behavior record is
// emitted to the store.
func (l *RewardsLedger) Award(student *models.Student, date string) error {
	if student == nil {
		return fmt.Errorf("rewards: no student selected")
	}

	l.mu.Lock()
	l.points[student.ID]++
	l.celebrating = student.ID
	if l.celebTimer != nil {
		l.celebTimer.Stop()
	}
	l.celebTimer = l.clock.AfterFunc(celebrationDuration, l.endCelebration)
	l.mu.Unlock()

	l.cues.Play(sound.CueClap)

	record := &models.BehaviorRecord{
		ID:             uuid.NewString(),
		StudentID:      student.ID,
		ClassID:        student.ClassID,
		Date:           date,
		Status:         models.AttendancePresent,
		BehaviorStatus: models.BehaviorPositive,
		Note:           rewardNote,
		CreatedAt:      l.clock.Now(),
	}
	if l.store != nil {
		if err := l.store.SaveBehaviorRecords([]*models.BehaviorRecord{record}); err != nil {
			return fmt.Errorf("rewards: saving award record: %w", err)
		}
	}

	l.notifyChange()
	return nil
}

// endCelebration auto-clears the celebration flag.
func (l *RewardsLedger) endCelebration() {
	l.mu.Lock()
	l.celebrating = ""
	l.celebTimer = nil
	l.mu.Unlock()

	l.notifyChange()
}

// Points returns the day's point count for one student.
func (l *RewardsLedger) Points(studentID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.points[studentID]
}

// All returns a copy of the full ledger.
func (l *RewardsLedger) All() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]int, len(l.points))
	for id, count := range l.points {
		out[id] = count
	}
	return out
}

// Celebrating returns the student id with an active celebration, or "".
func (l *RewardsLedger) Celebrating() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.celebrating
}

// Stop cancels the celebration timer on teardown.
func (l *RewardsLedger) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.celebTimer != nil {
		l.celebTimer.Stop()
		l.celebTimer = nil
	}
}

func (l *RewardsLedger) notifyChange() {
	if l.onChange != nil {
		l.onChange()
	}
}
