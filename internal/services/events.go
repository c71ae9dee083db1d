package services

import "classroom-live/internal/sound"

// Event is one live-screen update pushed to connected displays.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Notifier delivers events to every display watching a class session.
type Notifier interface {
	Broadcast(classID string, event Event)
}

// CuePlayer triggers a feedback sound on the displays. Implementations
// must swallow every failure; a missing audio backend degrades to
// silence, never to an error.
type CuePlayer interface {
	Play(cue sound.Cue)
}

// noopCues is the fallback when no playback path is wired.
type noopCues struct{}

func (noopCues) Play(sound.Cue) {}

// eventCues plays cues by broadcasting a sound event for the class.
type eventCues struct {
	classID  string
	notifier Notifier
}

func (c *eventCues) Play(cue sound.Cue) {
	if c.notifier == nil {
		return
	}
	c.notifier.Broadcast(c.classID, Event{Type: "sound", Payload: map[string]string{"cue": string(cue)}})
}
