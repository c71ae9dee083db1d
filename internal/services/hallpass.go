package services

import (
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"classroom-live/internal/models"
)

// HallPassTracker keeps the outstanding hall-pass tickets for one
// session. Tickets are purely session-scoped and nothing is persisted.
type HallPassTracker struct {
	mu     sync.Mutex
	clock  clock.Clock
	passes []*models.HallPass
}

// NewHallPassTracker creates an empty tracker.
func NewHallPassTracker(clk clock.Clock) *HallPassTracker {
	return &HallPassTracker{clock: clk}
}

// Issue creates a ticket for the named student.
func (t *HallPassTracker) Issue(studentName string) *models.HallPass {
	pass := &models.HallPass{
		ID:          uuid.NewString(),
		StudentName: studentName,
		IssuedAt:    t.clock.Now(),
	}

	t.mu.Lock()
	t.passes = append(t.passes, pass)
	t.mu.Unlock()

	return pass
}

// Return removes the ticket with the given id. Reports whether a
// ticket was actually outstanding.
func (t *HallPassTracker) Return(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, pass := range t.passes {
		if pass.ID == id {
			t.passes = append(t.passes[:i], t.passes[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the outstanding tickets, oldest first.
func (t *HallPassTracker) Active() []*models.HallPass {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*models.HallPass(nil), t.passes...)
}

// Count returns the number of outstanding tickets.
func (t *HallPassTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.passes)
}
