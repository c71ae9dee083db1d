package services

import (
	"fmt"
	"sync"
)

// PollOptions is the fixed option set for a quick class poll.
var PollOptions = []string{"A", "B", "C", "D"}

// Poll tallies votes across the fixed A–D options. Tallies survive
// toggling the overlay away and back; only an explicit Reset zeroes
// them.
type Poll struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewPoll creates a poll with all counters at zero.
func NewPoll() *Poll {
	return &Poll{counts: zeroCounts()}
}

func zeroCounts() map[string]int {
	counts := make(map[string]int, len(PollOptions))
	for _, option := range PollOptions {
		counts[option] = 0
	}
	return counts
}

// Vote increments one option's counter.
func (p *Poll) Vote(option string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.counts[option]; !ok {
		return fmt.Errorf("invalid poll option: %q", option)
	}
	p.counts[option]++
	return nil
}

// Reset zeroes every counter.
func (p *Poll) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts = zeroCounts()
}

// Counts returns a copy of the tallies.
func (p *Poll) Counts() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]int, len(p.counts))
	for option, count := range p.counts {
		out[option] = count
	}
	return out
}
