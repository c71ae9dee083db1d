package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"classroom-live/internal/sound"
)

// SoundHandler serves the synthesized cue audio that display clients
// fetch and play.
type SoundHandler struct {
	engine sound.Engine
}

// NewSoundHandler creates a sound handler over an engine.
func NewSoundHandler(engine sound.Engine) *SoundHandler {
	return &SoundHandler{engine: engine}
}

// GetCue returns the rendered WAV for a cue name
// GET /api/sound/{cue}
func (h *SoundHandler) GetCue(w http.ResponseWriter, r *http.Request) {
	cue := sound.Cue(mux.Vars(r)["cue"])

	data := sound.Render(h.engine, cue)
	if data == nil {
		http.Error(w, "Unknown sound cue", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	// Cues are deterministic, so displays may cache them.
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}
