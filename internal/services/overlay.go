package services

import (
	"fmt"
	"sync"
)

// OverlayTool identifies one of the floating widgets layered above the
// slide deck.
type OverlayTool string

const (
	ToolNone         OverlayTool = "none"
	ToolPicker       OverlayTool = "picker"
	ToolTimer        OverlayTool = "timer"
	ToolGroups       OverlayTool = "groups"
	ToolRewards      OverlayTool = "rewards"
	ToolHallPass     OverlayTool = "hallpass"
	ToolTrafficLight OverlayTool = "trafficlight"
	ToolPoll         OverlayTool = "poll"
	ToolSoundBoard   OverlayTool = "soundboard"
	ToolNote         OverlayTool = "note"
	ToolAIQuiz       OverlayTool = "aiquiz"
	ToolPanic        OverlayTool = "panic"
	ToolExitTicket   OverlayTool = "exitticket"
)

var knownTools = map[OverlayTool]bool{
	ToolPicker:       true,
	ToolTimer:        true,
	ToolGroups:       true,
	ToolRewards:      true,
	ToolHallPass:     true,
	ToolTrafficLight: true,
	ToolPoll:         true,
	ToolSoundBoard:   true,
	ToolNote:         true,
	ToolAIQuiz:       true,
	ToolPanic:        true,
	ToolExitTicket:   true,
}

// Overlay tracks which floating tool is active. At most one overlay
// tool is selected at a time; the pen and laser-pointer flags are
// independent and may coexist with any tool or with none. Deactivating
// a tool never resets its internal state; the widgets themselves live
// on the session and survive toggling.
type Overlay struct {
	mu     sync.Mutex
	active OverlayTool
	pen    bool
	laser  bool

	// trafficLight keeps the traffic-light widget's color across
	// toggles. It has no other state, so it lives here.
	trafficLight string
}

// NewOverlay creates an overlay with no tool selected.
func NewOverlay() *Overlay {
	return &Overlay{
		active:       ToolNone,
		trafficLight: "green",
	}
}

// Toggle selects tool if it is not active, or deselects back to none
// if it is. Returns the resulting active tool.
func (o *Overlay) Toggle(tool OverlayTool) (OverlayTool, error) {
	if !knownTools[tool] {
		return ToolNone, fmt.Errorf("unknown overlay tool: %q", tool)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.active == tool {
		o.active = ToolNone
	} else {
		o.active = tool
	}
	return o.active, nil
}

// Close deselects whatever tool is active. Always succeeds, since every
// overlay must be escapable regardless of its internal state.
func (o *Overlay) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = ToolNone
}

// Active returns the currently selected tool.
func (o *Overlay) Active() OverlayTool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// TogglePen flips the pen flag and returns the new value. The overlay
// tool selection is unaffected.
func (o *Overlay) TogglePen() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pen = !o.pen
	return o.pen
}

// ToggleLaser flips the laser-pointer flag and returns the new value.
func (o *Overlay) ToggleLaser() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.laser = !o.laser
	return o.laser
}

// PenActive reports whether pen mode is on.
func (o *Overlay) PenActive() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pen
}

// LaserActive reports whether the laser pointer is on.
func (o *Overlay) LaserActive() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.laser
}

// SetTrafficLight sets the traffic-light widget color.
func (o *Overlay) SetTrafficLight(color string) error {
	switch color {
	case "red", "yellow", "green":
	default:
		return fmt.Errorf("invalid traffic light color: %q", color)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.trafficLight = color
	return nil
}

// TrafficLight returns the traffic-light widget color.
func (o *Overlay) TrafficLight() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.trafficLight
}
