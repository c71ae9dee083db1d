package services

import (
	"fmt"
	"sync"
)

// ExitTicket poses one question at the end of class and tallies
// per-student answers against the fixed A–D options.
type ExitTicket struct {
	mu       sync.Mutex
	question string
	answers  map[string]string // studentID -> option
}

// NewExitTicket creates a ticket with no question set.
func NewExitTicket() *ExitTicket {
	return &ExitTicket{answers: make(map[string]string)}
}

// SetQuestion replaces the question and clears prior answers.
func (e *ExitTicket) SetQuestion(question string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.question = question
	e.answers = make(map[string]string)
}

// Answer records one student's option. A student answering twice
// replaces their previous answer.
func (e *ExitTicket) Answer(studentID, option string) error {
	valid := false
	for _, o := range PollOptions {
		if o == option {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid exit ticket option: %q", option)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.answers[studentID] = option
	return nil
}

// Results returns the question and the tally per option.
func (e *ExitTicket) Results() (string, map[string]int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	counts := zeroCounts()
	for _, option := range e.answers {
		counts[option]++
	}
	return e.question, counts
}
