package services

import (
	"fmt"
	"log"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"classroom-live/internal/ai"
	"classroom-live/internal/canvas"
	"classroom-live/internal/models"
	"classroom-live/internal/sound"
)

// SessionStore is the slice of the persistence collaborator a session
// reads and writes.
type SessionStore interface {
	RecordSaver
	PositiveRecordsForDate(date string) ([]*models.BehaviorRecord, error)
	AttendanceForDate(classID, date string) ([]*models.BehaviorRecord, error)
	LoadStudentsByClass(classID string) ([]*models.Student, error)
	SaveStudents(students []*models.Student) error
	SaveNote(note *models.StickyNote) error
	LoadNotes(classID string) ([]*models.StickyNote, error)
}

// DeckPersister persists deck snapshots between restarts.
type DeckPersister interface {
	SaveDeck(snapshot *models.DeckSnapshot) error
	GetDeck(classID string) (*models.DeckSnapshot, bool)
}

// Session is one class's live classroom screen: the slide deck, the
// annotation surface for the current page, the floating tool overlay,
// and every utility widget. All deck and annotation mutation goes
// through the session's lock.
type Session struct {
	mu      sync.Mutex
	classID string
	clock   clock.Clock

	store     SessionStore
	deckStore DeckPersister
	notifier  Notifier
	cues      CuePlayer

	roster  []*models.Student
	deck    *Deck
	surface *canvas.Surface
	overlay *Overlay

	picker     *Picker
	countdown  *Countdown
	rewards    *RewardsLedger
	hallPasses *HallPassTracker
	poll       *Poll
	exitTicket *ExitTicket
	quiz       *QuizOverlay
	activity   *ActivityOverlay

	groups [][]*models.Student
}

// NewSession builds a session for a class: the persisted deck and
// roster are restored, widgets are wired to the live-screen broadcast,
// and the rewards ledger reseeds from today's persisted records.
func NewSession(classID string, clk clock.Clock, store SessionStore, deckStore DeckPersister,
	notifier Notifier, aiClient *ai.Client) *Session {

	session := &Session{
		classID:    classID,
		clock:      clk,
		store:      store,
		deckStore:  deckStore,
		notifier:   notifier,
		cues:       &eventCues{classID: classID, notifier: notifier},
		deck:       NewDeck(),
		surface:    canvas.NewSurface(1280, 720),
		overlay:    NewOverlay(),
		poll:       NewPoll(),
		exitTicket: NewExitTicket(),
		hallPasses: NewHallPassTracker(clk),
	}

	if deckStore != nil {
		if snapshot, ok := deckStore.GetDeck(classID); ok {
			session.deck = RestoreDeck(snapshot)
		}
	}

	session.picker = NewPicker(clk, session.cues,
		func(name string) {
			session.broadcast(Event{Type: "picker.tick", Payload: map[string]string{"name": name}})
		},
		func(name string) {
			session.broadcast(Event{Type: "picker.winner", Payload: map[string]string{"name": name}})
		})

	session.countdown = NewCountdown(clk, session.cues, func(timeLeft int, active bool) {
		session.broadcast(Event{Type: "timer.state", Payload: map[string]any{
			"timeLeft": timeLeft,
			"active":   active,
		}})
	})

	session.rewards = NewRewardsLedger(clk, session.cues, store, func() {
		session.broadcast(Event{Type: "rewards.changed"})
	})

	session.quiz = NewQuizOverlay(aiClient, nil, func() {
		session.broadcast(Event{Type: "quiz.changed"})
	})

	session.activity = NewActivityOverlay(aiClient, func() {
		session.broadcast(Event{Type: "activity.changed"})
	})

	if store != nil {
		if roster, err := store.LoadStudentsByClass(classID); err == nil {
			session.roster = roster
		} else {
			log.Printf("Failed to load roster for class %s: %v", classID, err)
		}
	}

	session.ReseedRewards()
	session.loadAnnotation()

	return session
}

// ClassID returns the class this session belongs to.
func (s *Session) ClassID() string {
	return s.classID
}

func (s *Session) broadcast(event Event) {
	if s.notifier != nil {
		s.notifier.Broadcast(s.classID, event)
	}
}

func (s *Session) today() string {
	return s.clock.Now().Format("2006-01-02")
}

// Roster returns the full class roster.
func (s *Session) Roster() []*models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Student(nil), s.roster...)
}

// SetRoster replaces the class roster, persists it, and reseeds the
// rewards ledger. Ledger state derives from history, not memory.
func (s *Session) SetRoster(students []*models.Student) error {
	for _, student := range students {
		if student.ID == "" {
			student.ID = uuid.NewString()
		}
		student.ClassID = s.classID
	}

	s.mu.Lock()
	s.roster = students
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SaveStudents(students); err != nil {
			return fmt.Errorf("failed to persist roster: %w", err)
		}
	}

	s.ReseedRewards()
	s.broadcast(Event{Type: "roster.changed"})
	return nil
}

// PresentStudents returns the roster minus students recorded absent
// today.
func (s *Session) PresentStudents() []*models.Student {
	absent := make(map[string]bool)
	if s.store != nil {
		records, err := s.store.AttendanceForDate(s.classID, s.today())
		if err != nil {
			log.Printf("Failed to load attendance for class %s: %v", s.classID, err)
		}
		for _, record := range records {
			if record.Status == models.AttendanceAbsent {
				absent[record.StudentID] = true
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var present []*models.Student
	for _, student := range s.roster {
		if !absent[student.ID] {
			present = append(present, student)
		}
	}
	return present
}

// ReseedRewards rebuilds the ledger from today's persisted positive
// records for students on this roster.
func (s *Session) ReseedRewards() {
	if s.store == nil {
		return
	}

	records, err := s.store.PositiveRecordsForDate(s.today())
	if err != nil {
		log.Printf("Failed to reseed rewards for class %s: %v", s.classID, err)
		return
	}

	s.mu.Lock()
	onRoster := make(map[string]bool, len(s.roster))
	for _, student := range s.roster {
		onRoster[student.ID] = true
	}
	s.mu.Unlock()

	var relevant []*models.BehaviorRecord
	for _, record := range records {
		if onRoster[record.StudentID] {
			relevant = append(relevant, record)
		}
	}
	s.rewards.Reseed(relevant)
}

// --- deck and annotation ---

// AddPage appends an empty page and navigates to it.
func (s *Session) AddPage() *models.Page {
	s.mu.Lock()
	page := s.deck.AddPage()
	s.loadAnnotationLocked()
	s.persistDeckLocked()
	s.mu.Unlock()

	s.broadcast(Event{Type: "deck.changed"})
	return page
}

// DeletePage removes (or, for the last page, clears) the page at index.
func (s *Session) DeletePage(index int) {
	s.mu.Lock()
	s.deck.DeletePage(index)
	s.loadAnnotationLocked()
	s.persistDeckLocked()
	s.mu.Unlock()

	s.broadcast(Event{Type: "deck.changed"})
}

// GoTo navigates to a page, clamping the index, and restores that
// page's annotation onto the surface.
func (s *Session) GoTo(index int) int {
	s.mu.Lock()
	current := s.deck.GoTo(index)
	s.loadAnnotationLocked()
	s.persistDeckLocked()
	s.mu.Unlock()

	s.broadcast(Event{Type: "deck.changed"})
	return current
}

// SetContent replaces the current page's content. Its annotation is
// untouched.
func (s *Session) SetContent(kind models.ContentKind, ref string) {
	s.mu.Lock()
	s.deck.SetCurrentContent(kind, ref)
	s.persistDeckLocked()
	s.mu.Unlock()

	s.broadcast(Event{Type: "deck.changed"})
}

// DeckState returns the pages and current index for rendering.
func (s *Session) DeckState() *models.DeckSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deck.Snapshot(s.classID)
}

func (s *Session) loadAnnotation() {
	s.mu.Lock()
	s.loadAnnotationLocked()
	s.mu.Unlock()
}

// loadAnnotationLocked blanks the surface and restores the current
// page's snapshot asynchronously. The decode races navigation by
// design; the surface discards completions for abandoned pages.
func (s *Session) loadAnnotationLocked() {
	token := s.surface.StartLoad()
	snapshot := s.deck.CurrentPage().Annotation
	surface := s.surface

	go func() {
		decoded := canvas.DecodeSnapshot(snapshot)
		surface.FinishLoad(token, decoded)
	}()
}

func (s *Session) persistDeckLocked() {
	if s.deckStore == nil {
		return
	}
	if err := s.deckStore.SaveDeck(s.deck.Snapshot(s.classID)); err != nil {
		log.Printf("Failed to persist deck for class %s: %v", s.classID, err)
	}
}

// BeginStroke starts a freehand stroke. Pen mode is a precondition;
// without it the action is refused silently.
func (s *Session) BeginStroke(p canvas.Point, tool canvas.Tool) {
	if !s.overlay.PenActive() {
		return
	}
	s.surface.BeginStroke(p, tool)
}

// ExtendStroke appends a segment to the active stroke.
func (s *Session) ExtendStroke(p canvas.Point) {
	s.surface.ExtendStroke(p)
}

// EndStroke finalizes the stroke and commits the snapshot onto the
// current page. This is the only point a stroke persists.
func (s *Session) EndStroke() {
	snapshot, committed := s.surface.EndStroke()
	if !committed {
		return
	}

	s.mu.Lock()
	s.deck.CommitAnnotation(snapshot)
	s.persistDeckLocked()
	s.mu.Unlock()
}

// ClearAnnotation blanks the surface and commits an empty snapshot.
func (s *Session) ClearAnnotation() {
	empty := s.surface.Clear()

	s.mu.Lock()
	s.deck.CommitAnnotation(empty)
	s.persistDeckLocked()
	s.mu.Unlock()

	s.broadcast(Event{Type: "annotation.cleared"})
}

// ResizeSurface re-stretches the annotation raster to new dimensions.
func (s *Session) ResizeSurface(width, height int) {
	s.surface.Resize(width, height)
}

// Surface exposes the annotation surface for reads.
func (s *Session) Surface() *canvas.Surface {
	return s.surface
}

// --- overlay and widgets ---

// Overlay exposes the floating-tool state machine.
func (s *Session) Overlay() *Overlay { return s.overlay }

// Picker exposes the random-name widget.
func (s *Session) Picker() *Picker { return s.picker }

// Countdown exposes the timer widget.
func (s *Session) Countdown() *Countdown { return s.countdown }

// Rewards exposes the points ledger.
func (s *Session) Rewards() *RewardsLedger { return s.rewards }

// HallPasses exposes the hall-pass tracker.
func (s *Session) HallPasses() *HallPassTracker { return s.hallPasses }

// Poll exposes the quick poll widget.
func (s *Session) Poll() *Poll { return s.poll }

// ExitTicket exposes the exit-ticket widget.
func (s *Session) ExitTicket() *ExitTicket { return s.exitTicket }

// Quiz exposes the AI quiz overlay.
func (s *Session) Quiz() *QuizOverlay { return s.quiz }

// Activity exposes the panic-button overlay.
func (s *Session) Activity() *ActivityOverlay { return s.activity }

// SpinPicker rolls the picker over today's present students.
func (s *Session) SpinPicker() error {
	present := s.PresentStudents()
	names := make([]string, len(present))
	for i, student := range present {
		names[i] = student.Name
	}
	return s.picker.Spin(names)
}

// GenerateGroups partitions the present students and keeps the result
// for re-display when the overlay is toggled back.
func (s *Session) GenerateGroups(count int) [][]*models.Student {
	groups := GenerateGroups(s.PresentStudents(), count, s.cues)

	s.mu.Lock()
	s.groups = groups
	s.mu.Unlock()

	s.broadcast(Event{Type: "groups.changed"})
	return groups
}

// Groups returns the last generated partition.
func (s *Session) Groups() [][]*models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groups
}

// AwardPoint grants a reward point to a roster student.
func (s *Session) AwardPoint(studentID string) error {
	s.mu.Lock()
	var target *models.Student
	for _, student := range s.roster {
		if student.ID == studentID {
			target = student
			break
		}
	}
	s.mu.Unlock()

	if target == nil {
		return fmt.Errorf("student %s is not on this roster", studentID)
	}
	return s.rewards.Award(target, s.today())
}

// GenerateQuiz starts AI quiz generation. Image slides are sent as an
// embedded payload; the topic is ignored for them.
func (s *Session) GenerateQuiz(topic string, count int) error {
	s.mu.Lock()
	page := s.deck.CurrentPage()
	imageRef := ""
	if page.ContentKind == models.ContentImage {
		imageRef = page.ContentRef
	}
	s.mu.Unlock()

	return s.quiz.Generate(topic, imageRef, count)
}

// SuggestActivity asks the collaborator for a quick activity.
func (s *Session) SuggestActivity(subject string) error {
	return s.activity.Suggest(subject)
}

// SaveNote persists a sticky note for this class.
func (s *Session) SaveNote(text string) (*models.StickyNote, error) {
	note := &models.StickyNote{
		ID:        uuid.NewString(),
		ClassID:   s.classID,
		Text:      text,
		CreatedAt: s.clock.Now(),
	}
	if s.store != nil {
		if err := s.store.SaveNote(note); err != nil {
			return nil, fmt.Errorf("failed to save note: %w", err)
		}
	}
	return note, nil
}

// Notes returns the saved sticky notes for this class.
func (s *Session) Notes() ([]*models.StickyNote, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.LoadNotes(s.classID)
}

// PlayCue triggers a sound-board cue on the displays. Unknown cue
// names degrade to silence.
func (s *Session) PlayCue(cue string) {
	s.cues.Play(sound.Cue(cue))
}

// Close cancels every pending timer. Called on session teardown; no
// recurring timer survives it.
func (s *Session) Close() {
	s.picker.Stop()
	s.countdown.Stop()
	s.rewards.Stop()
}
