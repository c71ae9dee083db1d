package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"classroom-live/internal/canvas"
	"classroom-live/internal/models"
	"classroom-live/internal/services"
)

// SessionHandler handles HTTP requests driving a class's live screen.
type SessionHandler struct {
	manager  *services.SessionManager
	validate *validator.Validate
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(manager *services.SessionManager) *SessionHandler {
	return &SessionHandler{
		manager:  manager,
		validate: validator.New(),
	}
}

// session resolves the class session for a request.
func (h *SessionHandler) session(r *http.Request) *services.Session {
	return h.manager.Get(mux.Vars(r)["classID"])
}

// decode parses and validates a JSON request body.
func (h *SessionHandler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// SessionState is the composite read model for the live screen.
type SessionState struct {
	Deck         *models.DeckSnapshot    `json:"deck"`
	ActiveTool   services.OverlayTool    `json:"activeTool"`
	PenActive    bool                    `json:"penActive"`
	LaserActive  bool                    `json:"laserActive"`
	TrafficLight string                  `json:"trafficLight"`
	Rewards      map[string]int          `json:"rewards"`
	HallPasses   []*models.HallPass      `json:"hallPasses"`
	PollCounts   map[string]int          `json:"pollCounts"`
	Quiz         services.QuizStatus     `json:"quiz"`
	Activity     services.ActivityStatus `json:"activity"`
}

// GetState returns the full session state
// GET /api/classes/{classID}/state
func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	overlay := session.Overlay()

	writeJSON(w, SessionState{
		Deck:         session.DeckState(),
		ActiveTool:   overlay.Active(),
		PenActive:    overlay.PenActive(),
		LaserActive:  overlay.LaserActive(),
		TrafficLight: overlay.TrafficLight(),
		Rewards:      session.Rewards().All(),
		HallPasses:   session.HallPasses().Active(),
		PollCounts:   session.Poll().Counts(),
		Quiz:         session.Quiz().Status(),
		Activity:     session.Activity().Status(),
	})
}

// RosterRequest carries a roster replacement.
type RosterRequest struct {
	Students []*models.Student `json:"students" validate:"required,dive,required"`
}

// SetRoster replaces the class roster
// PUT /api/classes/{classID}/roster
func (h *SessionHandler) SetRoster(w http.ResponseWriter, r *http.Request) {
	var req RosterRequest
	if !h.decode(w, r, &req) {
		return
	}

	session := h.session(r)
	if err := session.SetRoster(req.Students); err != nil {
		log.Printf("Failed to set roster: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, session.Roster())
}

// GetPresent returns today's present-student subset
// GET /api/classes/{classID}/present
func (h *SessionHandler) GetPresent(w http.ResponseWriter, r *http.Request) {
	present := h.session(r).PresentStudents()
	if present == nil {
		present = []*models.Student{}
	}
	writeJSON(w, present)
}

// AddPage appends an empty page and navigates to it
// POST /api/classes/{classID}/deck/pages
func (h *SessionHandler) AddPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.session(r).AddPage())
}

// DeletePage removes the page at an index
// DELETE /api/classes/{classID}/deck/pages/{index}
func (h *SessionHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "Invalid page index", http.StatusBadRequest)
		return
	}

	session := h.session(r)
	session.DeletePage(index)
	writeJSON(w, session.DeckState())
}

// GoToRequest carries a navigation target.
type GoToRequest struct {
	Index int `json:"index"`
}

// GoToPage navigates the deck, clamping the index
// POST /api/classes/{classID}/deck/goto
func (h *SessionHandler) GoToPage(w http.ResponseWriter, r *http.Request) {
	var req GoToRequest
	if !h.decode(w, r, &req) {
		return
	}

	current := h.session(r).GoTo(req.Index)
	writeJSON(w, map[string]int{"currentIndex": current})
}

// ContentRequest carries a content replacement for the current page.
type ContentRequest struct {
	Kind models.ContentKind `json:"kind" validate:"required,oneof=empty frame image document"`
	Ref  string             `json:"ref"`
}

// SetContent replaces the current page's content
// PUT /api/classes/{classID}/deck/content
func (h *SessionHandler) SetContent(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest
	if !h.decode(w, r, &req) {
		return
	}

	session := h.session(r)
	session.SetContent(req.Kind, req.Ref)
	writeJSON(w, session.DeckState())
}

// StrokeBeginRequest starts a freehand stroke.
type StrokeBeginRequest struct {
	Point canvas.Point `json:"point"`
	Tool  canvas.Tool  `json:"tool"`
}

// BeginStroke starts a stroke (pen mode required)
// POST /api/classes/{classID}/stroke/begin
func (h *SessionHandler) BeginStroke(w http.ResponseWriter, r *http.Request) {
	var req StrokeBeginRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.session(r).BeginStroke(req.Point, req.Tool)
	w.WriteHeader(http.StatusNoContent)
}

// StrokeExtendRequest appends a segment to the active stroke.
type StrokeExtendRequest struct {
	Point canvas.Point `json:"point"`
}

// ExtendStroke appends to the active stroke
// POST /api/classes/{classID}/stroke/extend
func (h *SessionHandler) ExtendStroke(w http.ResponseWriter, r *http.Request) {
	var req StrokeExtendRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.session(r).ExtendStroke(req.Point)
	w.WriteHeader(http.StatusNoContent)
}

// EndStroke commits the stroke snapshot to the current page
// POST /api/classes/{classID}/stroke/end
func (h *SessionHandler) EndStroke(w http.ResponseWriter, r *http.Request) {
	h.session(r).EndStroke()
	w.WriteHeader(http.StatusNoContent)
}

// ClearAnnotation blanks the current page's ink
// POST /api/classes/{classID}/annotation/clear
func (h *SessionHandler) ClearAnnotation(w http.ResponseWriter, r *http.Request) {
	h.session(r).ClearAnnotation()
	w.WriteHeader(http.StatusNoContent)
}

// ResizeRequest carries new surface dimensions.
type ResizeRequest struct {
	Width  int `json:"width" validate:"gt=0"`
	Height int `json:"height" validate:"gt=0"`
}

// ResizeSurface re-stretches the annotation raster
// POST /api/classes/{classID}/surface/resize
func (h *SessionHandler) ResizeSurface(w http.ResponseWriter, r *http.Request) {
	var req ResizeRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.session(r).ResizeSurface(req.Width, req.Height)
	w.WriteHeader(http.StatusNoContent)
}

// ToggleRequest selects or deselects an overlay tool.
type ToggleRequest struct {
	Tool services.OverlayTool `json:"tool" validate:"required"`
}

// ToggleTool toggles an overlay tool (single active at a time)
// POST /api/classes/{classID}/overlay/toggle
func (h *SessionHandler) ToggleTool(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if !h.decode(w, r, &req) {
		return
	}

	active, err := h.session(r).Overlay().Toggle(req.Tool)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]services.OverlayTool{"activeTool": active})
}

// CloseOverlay deselects whatever tool is active
// POST /api/classes/{classID}/overlay/close
func (h *SessionHandler) CloseOverlay(w http.ResponseWriter, r *http.Request) {
	h.session(r).Overlay().Close()
	w.WriteHeader(http.StatusNoContent)
}

// TogglePen flips pen mode, independent of the overlay selection
// POST /api/classes/{classID}/overlay/pen
func (h *SessionHandler) TogglePen(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]bool{"penActive": h.session(r).Overlay().TogglePen()})
}

// ToggleLaser flips the laser pointer
// POST /api/classes/{classID}/overlay/laser
func (h *SessionHandler) ToggleLaser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]bool{"laserActive": h.session(r).Overlay().ToggleLaser()})
}

// TrafficLightRequest sets the traffic light color.
type TrafficLightRequest struct {
	Color string `json:"color" validate:"required,oneof=red yellow green"`
}

// SetTrafficLight sets the traffic-light widget color
// POST /api/classes/{classID}/trafficlight
func (h *SessionHandler) SetTrafficLight(w http.ResponseWriter, r *http.Request) {
	var req TrafficLightRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.session(r).Overlay().SetTrafficLight(req.Color); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SpinPicker starts the random-name roll
// POST /api/classes/{classID}/picker/spin
func (h *SessionHandler) SpinPicker(w http.ResponseWriter, r *http.Request) {
	if err := h.session(r).SpinPicker(); err != nil {
		if errors.Is(err, services.ErrNoStudents) || errors.Is(err, services.ErrAlreadyRolling) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// StopPicker cancels an in-flight roll
// POST /api/classes/{classID}/picker/stop
func (h *SessionHandler) StopPicker(w http.ResponseWriter, r *http.Request) {
	h.session(r).Picker().Stop()
	w.WriteHeader(http.StatusNoContent)
}

// GetPicker returns the picker's state
// GET /api/classes/{classID}/picker
func (h *SessionHandler) GetPicker(w http.ResponseWriter, r *http.Request) {
	picker := h.session(r).Picker()
	writeJSON(w, map[string]any{
		"rolling": picker.Rolling(),
		"display": picker.Display(),
		"winner":  picker.Winner(),
	})
}

// TimerRequest sets the countdown duration.
type TimerRequest struct {
	Seconds *int `json:"seconds" validate:"omitempty,gte=0"`
	Minutes *int `json:"minutes" validate:"omitempty,gte=0"`
}

// SetTimer sets the countdown duration (seconds, or a minutes preset),
// force-stopping any running countdown
// PUT /api/classes/{classID}/timer
func (h *SessionHandler) SetTimer(w http.ResponseWriter, r *http.Request) {
	var req TimerRequest
	if !h.decode(w, r, &req) {
		return
	}

	countdown := h.session(r).Countdown()
	switch {
	case req.Minutes != nil:
		countdown.SetPresetMinutes(*req.Minutes)
	case req.Seconds != nil:
		countdown.SetDuration(*req.Seconds)
	default:
		http.Error(w, "seconds or minutes is required", http.StatusBadRequest)
		return
	}
	h.writeTimer(w, countdown)
}

// StartTimer activates the countdown
// POST /api/classes/{classID}/timer/start
func (h *SessionHandler) StartTimer(w http.ResponseWriter, r *http.Request) {
	countdown := h.session(r).Countdown()
	countdown.Start()
	h.writeTimer(w, countdown)
}

// StopTimer deactivates the countdown
// POST /api/classes/{classID}/timer/stop
func (h *SessionHandler) StopTimer(w http.ResponseWriter, r *http.Request) {
	countdown := h.session(r).Countdown()
	countdown.Stop()
	h.writeTimer(w, countdown)
}

// ResetTimer restores the countdown to its initial duration
// POST /api/classes/{classID}/timer/reset
func (h *SessionHandler) ResetTimer(w http.ResponseWriter, r *http.Request) {
	countdown := h.session(r).Countdown()
	countdown.Reset()
	h.writeTimer(w, countdown)
}

// GetTimer returns the countdown state
// GET /api/classes/{classID}/timer
func (h *SessionHandler) GetTimer(w http.ResponseWriter, r *http.Request) {
	h.writeTimer(w, h.session(r).Countdown())
}

func (h *SessionHandler) writeTimer(w http.ResponseWriter, countdown *services.Countdown) {
	timeLeft, initialTime, active := countdown.State()
	writeJSON(w, map[string]any{
		"timeLeft":    timeLeft,
		"initialTime": initialTime,
		"active":      active,
	})
}

// GroupsRequest carries the requested group count.
type GroupsRequest struct {
	Count int `json:"count" validate:"gte=2,lte=10"`
}

// GenerateGroups partitions the present students
// POST /api/classes/{classID}/groups
func (h *SessionHandler) GenerateGroups(w http.ResponseWriter, r *http.Request) {
	var req GroupsRequest
	if !h.decode(w, r, &req) {
		return
	}

	groups := h.session(r).GenerateGroups(req.Count)
	if groups == nil {
		groups = [][]*models.Student{}
	}
	writeJSON(w, groups)
}

// GetGroups returns the last generated partition
// GET /api/classes/{classID}/groups
func (h *SessionHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	groups := h.session(r).Groups()
	if groups == nil {
		groups = [][]*models.Student{}
	}
	writeJSON(w, groups)
}

// AwardPoint grants one reward point to a student
// POST /api/classes/{classID}/rewards/{studentID}
func (h *SessionHandler) AwardPoint(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentID"]

	session := h.session(r)
	if err := session.AwardPoint(studentID); err != nil {
		log.Printf("Failed to award point: %v", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, map[string]int{"points": session.Rewards().Points(studentID)})
}

// GetRewards returns the day's point ledger
// GET /api/classes/{classID}/rewards
func (h *SessionHandler) GetRewards(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	writeJSON(w, map[string]any{
		"points":      session.Rewards().All(),
		"celebrating": session.Rewards().Celebrating(),
	})
}

// HallPassRequest issues a ticket.
type HallPassRequest struct {
	StudentName string `json:"studentName" validate:"required"`
}

// IssueHallPass creates a hall-pass ticket
// POST /api/classes/{classID}/hallpass
func (h *SessionHandler) IssueHallPass(w http.ResponseWriter, r *http.Request) {
	var req HallPassRequest
	if !h.decode(w, r, &req) {
		return
	}
	writeJSON(w, h.session(r).HallPasses().Issue(req.StudentName))
}

// ReturnHallPass closes a ticket
// DELETE /api/classes/{classID}/hallpass/{id}
func (h *SessionHandler) ReturnHallPass(w http.ResponseWriter, r *http.Request) {
	if !h.session(r).HallPasses().Return(mux.Vars(r)["id"]) {
		http.Error(w, "Hall pass not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHallPasses returns the outstanding tickets
// GET /api/classes/{classID}/hallpass
func (h *SessionHandler) GetHallPasses(w http.ResponseWriter, r *http.Request) {
	passes := h.session(r).HallPasses().Active()
	if passes == nil {
		passes = []*models.HallPass{}
	}
	writeJSON(w, passes)
}

// VoteRequest casts one poll vote.
type VoteRequest struct {
	Option string `json:"option" validate:"required,oneof=A B C D"`
}

// VotePoll increments one option's tally
// POST /api/classes/{classID}/poll/vote
func (h *SessionHandler) VotePoll(w http.ResponseWriter, r *http.Request) {
	var req VoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	session := h.session(r)
	if err := session.Poll().Vote(req.Option); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, session.Poll().Counts())
}

// ResetPoll zeroes every tally
// POST /api/classes/{classID}/poll/reset
func (h *SessionHandler) ResetPoll(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	session.Poll().Reset()
	writeJSON(w, session.Poll().Counts())
}

// GetPoll returns the tallies
// GET /api/classes/{classID}/poll
func (h *SessionHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.session(r).Poll().Counts())
}

// ExitTicketRequest sets the closing question.
type ExitTicketRequest struct {
	Question string `json:"question" validate:"required"`
}

// SetExitTicket poses the closing question and clears prior answers
// POST /api/classes/{classID}/exitticket
func (h *SessionHandler) SetExitTicket(w http.ResponseWriter, r *http.Request) {
	var req ExitTicketRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.session(r).ExitTicket().SetQuestion(req.Question)
	w.WriteHeader(http.StatusNoContent)
}

// ExitAnswerRequest records one student's answer.
type ExitAnswerRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	Option    string `json:"option" validate:"required,oneof=A B C D"`
}

// AnswerExitTicket records a student's answer
// POST /api/classes/{classID}/exitticket/answer
func (h *SessionHandler) AnswerExitTicket(w http.ResponseWriter, r *http.Request) {
	var req ExitAnswerRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.session(r).ExitTicket().Answer(req.StudentID, req.Option); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetExitTicket returns the question and tallies
// GET /api/classes/{classID}/exitticket
func (h *SessionHandler) GetExitTicket(w http.ResponseWriter, r *http.Request) {
	question, counts := h.session(r).ExitTicket().Results()
	writeJSON(w, map[string]any{"question": question, "counts": counts})
}

// QuizRequest starts a quiz generation.
type QuizRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count" validate:"omitempty,gte=1,lte=10"`
}

// GenerateQuiz starts AI quiz generation for the topic or current slide
// POST /api/classes/{classID}/quiz
func (h *SessionHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req QuizRequest
	if !h.decode(w, r, &req) {
		return
	}

	session := h.session(r)
	if err := session.GenerateQuiz(req.Topic, req.Count); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, session.Quiz().Status())
}

// NewQuiz returns the quiz overlay to awaiting input
// POST /api/classes/{classID}/quiz/new
func (h *SessionHandler) NewQuiz(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	session.Quiz().NewQuiz()
	writeJSON(w, session.Quiz().Status())
}

// GetQuiz returns the quiz overlay state
// GET /api/classes/{classID}/quiz
func (h *SessionHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.session(r).Quiz().Status())
}

// ActivityRequest asks for a quick activity.
type ActivityRequest struct {
	Subject string `json:"subject"`
}

// SuggestActivity asks the collaborator for a quick activity
// POST /api/classes/{classID}/activity
func (h *SessionHandler) SuggestActivity(w http.ResponseWriter, r *http.Request) {
	var req ActivityRequest
	if !h.decode(w, r, &req) {
		return
	}

	session := h.session(r)
	if err := session.SuggestActivity(req.Subject); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, session.Activity().Status())
}

// ActivityAgain returns the panic overlay to idle
// POST /api/classes/{classID}/activity/again
func (h *SessionHandler) ActivityAgain(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	session.Activity().AskAgain()
	writeJSON(w, session.Activity().Status())
}

// GetActivity returns the panic overlay state
// GET /api/classes/{classID}/activity
func (h *SessionHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.session(r).Activity().Status())
}

// NoteRequest saves a sticky note.
type NoteRequest struct {
	Text string `json:"text" validate:"required"`
}

// SaveNote persists a sticky note
// POST /api/classes/{classID}/notes
func (h *SessionHandler) SaveNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	note, err := h.session(r).SaveNote(req.Text)
	if err != nil {
		log.Printf("Failed to save note: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, note)
}

// GetNotes returns the saved notes for a class
// GET /api/classes/{classID}/notes
func (h *SessionHandler) GetNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.session(r).Notes()
	if err != nil {
		log.Printf("Failed to load notes: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if notes == nil {
		notes = []*models.StickyNote{}
	}
	writeJSON(w, notes)
}

// SoundBoardRequest plays a cue on the displays.
type SoundBoardRequest struct {
	Cue string `json:"cue" validate:"required,oneof=correct wrong bell drum clap quiet"`
}

// PlaySound triggers a sound-board cue on the displays
// POST /api/classes/{classID}/sound
func (h *SessionHandler) PlaySound(w http.ResponseWriter, r *http.Request) {
	var req SoundBoardRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.session(r).PlayCue(req.Cue)
	w.WriteHeader(http.StatusNoContent)
}
