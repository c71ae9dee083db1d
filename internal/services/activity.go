package services

import (
	"context"
	"log"
	"sync"

	"classroom-live/internal/ai"
	"classroom-live/internal/models"
)

// ActivityState is the panic-button overlay's phase.
type ActivityState string

const (
	ActivityIdle      ActivityState = "idle"
	ActivityLoading   ActivityState = "loading"
	ActivitySuggested ActivityState = "suggested"
)

const activitySystemPrompt = "You suggest one quick classroom activity a teacher can run " +
	"right now with no preparation. Respond only with a JSON object shaped " +
	`{"title": string, "description": string, "minutes": number}.`

// ActivityOverlay drives the panic-button flow: idle -> loading ->
// suggested, with "ask again" returning to idle. Failure always
// resolves the state; stale responses are dropped by generation token.
type ActivityOverlay struct {
	mu     sync.Mutex
	client *ai.Client

	onChange func()

	state      ActivityState
	suggestion *models.ActivitySuggestion
	lastError  string
	gen        uint64
}

// NewActivityOverlay creates the overlay in the idle state.
func NewActivityOverlay(client *ai.Client, onChange func()) *ActivityOverlay {
	return &ActivityOverlay{
		client:   client,
		onChange: onChange,
		state:    ActivityIdle,
	}
}

// Suggest asks the collaborator for a quick activity for the given
// subject. Refused while a request is already loading.
func (a *ActivityOverlay) Suggest(subject string) error {
	a.mu.Lock()
	if a.state == ActivityLoading {
		a.mu.Unlock()
		return nil
	}
	a.state = ActivityLoading
	a.lastError = ""
	a.gen++
	token := a.gen
	a.mu.Unlock()

	a.notifyChange()

	go a.run(token, subject)
	return nil
}

func (a *ActivityOverlay) run(token uint64, subject string) {
	ctx, cancel := context.WithTimeout(context.Background(), aiCallTimeout)
	defer cancel()

	prompt := "Suggest a quick activity for a class that finished early."
	if subject != "" {
		prompt = "Suggest a quick activity for a " + subject + " class that finished early."
	}

	response, err := a.client.Complete(ctx, ai.Request{
		Prompt:   prompt,
		System:   activitySystemPrompt,
		JSONMode: true,
	})

	a.mu.Lock()
	defer a.mu.Unlock()

	if token != a.gen {
		log.Printf("Discarding stale activity suggestion")
		return
	}

	if err != nil {
		log.Printf("Activity suggestion failed: %v", err)
		a.state = ActivityIdle
		a.lastError = "could not suggest an activity"
		go a.notifyChange()
		return
	}

	var suggestion models.ActivitySuggestion
	if decodeErr := ai.DecodeJSON(response.Text, &suggestion); decodeErr != nil || suggestion.Title == "" {
		log.Printf("Activity response was not parseable")
		a.state = ActivityIdle
		a.lastError = "could not suggest an activity"
		go a.notifyChange()
		return
	}

	a.suggestion = &suggestion
	a.state = ActivitySuggested
	go a.notifyChange()
}

// AskAgain returns to idle; the prior suggestion is retained until the
// next one lands.
func (a *ActivityOverlay) AskAgain() {
	a.mu.Lock()
	a.gen++
	a.state = ActivityIdle
	a.lastError = ""
	a.mu.Unlock()

	a.notifyChange()
}

// ActivityStatus is a read snapshot of the overlay.
type ActivityStatus struct {
	State      ActivityState              `json:"state"`
	Suggestion *models.ActivitySuggestion `json:"suggestion,omitempty"`
	Error      string                     `json:"error,omitempty"`
}

// Status returns the current flow state.
func (a *ActivityOverlay) Status() ActivityStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return ActivityStatus{
		State:      a.state,
		Suggestion: a.suggestion,
		Error:      a.lastError,
	}
}

func (a *ActivityOverlay) notifyChange() {
	if a.onChange != nil {
		a.onChange()
	}
}
