package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"classroom-live/internal/models"
	"classroom-live/internal/services"
)

// StoreHandler serves the school-level reference data the live screen
// reads but does not own.
type StoreHandler struct {
	store *services.RecordStore
}

// NewStoreHandler creates a store handler.
func NewStoreHandler(store *services.RecordStore) *StoreHandler {
	return &StoreHandler{store: store}
}

// GetSchedules returns the weekly timetable
// GET /api/schedules
func (h *StoreHandler) GetSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.store.LoadSchedules()
	if err != nil {
		log.Printf("Failed to load schedules: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if schedules == nil {
		schedules = []*models.ScheduleEntry{}
	}
	writeJSON(w, schedules)
}

// GetAssignments returns the teacher duty assignments
// GET /api/assignments
func (h *StoreHandler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.store.LoadTeacherAssignments()
	if err != nil {
		log.Printf("Failed to load assignments: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if assignments == nil {
		assignments = []*models.TeacherAssignment{}
	}
	writeJSON(w, assignments)
}

// GetLessonLinks returns the saved lesson resource links
// GET /api/lesson-links
func (h *StoreHandler) GetLessonLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.store.LoadLessonLinks()
	if err != nil {
		log.Printf("Failed to load lesson links: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if links == nil {
		links = []*models.LessonLink{}
	}
	writeJSON(w, links)
}

// SaveLessonLinks replaces the saved lesson resource links
// PUT /api/lesson-links
func (h *StoreHandler) SaveLessonLinks(w http.ResponseWriter, r *http.Request) {
	var links []*models.LessonLink
	if err := json.NewDecoder(r.Body).Decode(&links); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.store.SaveLessonLinks(links); err != nil {
		log.Printf("Failed to save lesson links: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, links)
}
