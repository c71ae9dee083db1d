package services

import (
	"sync"

	"classroom-live/internal/models"
	"classroom-live/internal/sound"
)

// recordingCues captures every played cue for assertions.
type recordingCues struct {
	mu   sync.Mutex
	cues []sound.Cue
}

func (r *recordingCues) Play(cue sound.Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, cue)
}

func (r *recordingCues) played() []sound.Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sound.Cue(nil), r.cues...)
}

func (r *recordingCues) count(cue sound.Cue) int {
	n := 0
	for _, c := range r.played() {
		if c == cue {
			n++
		}
	}
	return n
}

// recordingNotifier captures broadcast events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingNotifier) Broadcast(classID string, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, event := range r.events {
		types[i] = event.Type
	}
	return types
}

// memoryStore is an in-memory SessionStore for tests that do not need
// SQLite.
type memoryStore struct {
	mu       sync.Mutex
	records  map[string]*models.BehaviorRecord
	students map[string]*models.Student
	notes    []*models.StickyNote
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		records:  make(map[string]*models.BehaviorRecord),
		students: make(map[string]*models.Student),
	}
}

func (s *memoryStore) SaveBehaviorRecords(records []*models.BehaviorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		s.records[record.ID] = record
	}
	return nil
}

func (s *memoryStore) PositiveRecordsForDate(date string) ([]*models.BehaviorRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.BehaviorRecord
	for _, record := range s.records {
		if record.Date == date && record.BehaviorStatus == models.BehaviorPositive {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *memoryStore) AttendanceForDate(classID, date string) ([]*models.BehaviorRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.BehaviorRecord
	for _, record := range s.records {
		if record.ClassID == classID && record.Date == date {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *memoryStore) SaveStudents(students []*models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, student := range students {
		s.students[student.ID] = student
	}
	return nil
}

func (s *memoryStore) LoadStudentsByClass(classID string) ([]*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Student
	for _, student := range s.students {
		if student.ClassID == classID {
			out = append(out, student)
		}
	}
	return out, nil
}

func (s *memoryStore) SaveNote(note *models.StickyNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, note)
	return nil
}

func (s *memoryStore) LoadNotes(classID string) ([]*models.StickyNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.StickyNote
	for _, note := range s.notes {
		if note.ClassID == classID {
			out = append(out, note)
		}
	}
	return out, nil
}
