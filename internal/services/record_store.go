package services

import (
	"database/sql"
	"fmt"

	"classroom-live/internal/models"
)

// RecordStore is the SQLite-backed persistence collaborator: rosters,
// schedules, lesson links, behavior records, and sticky notes. Saves
// are idempotent by id, last write wins per key.
type RecordStore struct {
	database *sql.DB
}

// NewRecordStore creates a record store over an open database.
func NewRecordStore(database *sql.DB) *RecordStore {
	return &RecordStore{database: database}
}

// SaveBehaviorRecords persists one or more records, keyed by id.
func (rs *RecordStore) SaveBehaviorRecords(records []*models.BehaviorRecord) error {
	query := `INSERT OR REPLACE INTO behavior_records
		(id, student_id, class_id, date, status, behavior_status, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for _, record := range records {
		_, err := rs.database.Exec(query,
			record.ID,
			record.StudentID,
			record.ClassID,
			record.Date,
			record.Status,
			record.BehaviorStatus,
			record.Note,
			record.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save behavior record %s: %w", record.ID, err)
		}
	}
	return nil
}

// PositiveRecordsForDate returns every positive behavior record for a
// date (YYYY-MM-DD). The rewards ledger reseeds from this.
func (rs *RecordStore) PositiveRecordsForDate(date string) ([]*models.BehaviorRecord, error) {
	query := `SELECT id, student_id, class_id, date, status, behavior_status, note, created_at
		FROM behavior_records WHERE date = ? AND behavior_status = ?`
	return rs.queryRecords(query, date, models.BehaviorPositive)
}

// AttendanceForDate returns every behavior record for a class on a
// date. The session derives its present-student subset from these.
func (rs *RecordStore) AttendanceForDate(classID, date string) ([]*models.BehaviorRecord, error) {
	query := `SELECT id, student_id, class_id, date, status, behavior_status, note, created_at
		FROM behavior_records WHERE class_id = ? AND date = ?`
	return rs.queryRecords(query, classID, date)
}

func (rs *RecordStore) queryRecords(query string, args ...any) ([]*models.BehaviorRecord, error) {
	rows, err := rs.database.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query behavior records: %w", err)
	}
	defer rows.Close()

	var records []*models.BehaviorRecord
	for rows.Next() {
		var record models.BehaviorRecord
		err := rows.Scan(
			&record.ID,
			&record.StudentID,
			&record.ClassID,
			&record.Date,
			&record.Status,
			&record.BehaviorStatus,
			&record.Note,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan behavior record: %w", err)
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}

// SaveStudents replaces persisted roster entries, keyed by id.
func (rs *RecordStore) SaveStudents(students []*models.Student) error {
	query := `INSERT OR REPLACE INTO students (id, name, class_id) VALUES (?, ?, ?)`
	for _, student := range students {
		if _, err := rs.database.Exec(query, student.ID, student.Name, student.ClassID); err != nil {
			return fmt.Errorf("failed to save student %s: %w", student.ID, err)
		}
	}
	return nil
}

// LoadStudentsByClass returns the persisted roster for a class.
func (rs *RecordStore) LoadStudentsByClass(classID string) ([]*models.Student, error) {
	query := `SELECT id, name, class_id FROM students WHERE class_id = ? ORDER BY name`

	rows, err := rs.database.Query(query, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		var student models.Student
		if err := rows.Scan(&student.ID, &student.Name, &student.ClassID); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, &student)
	}
	return students, rows.Err()
}

// LoadSchedules returns every persisted schedule entry.
func (rs *RecordStore) LoadSchedules() ([]*models.ScheduleEntry, error) {
	query := `SELECT id, class_id, day, period, subject FROM schedules ORDER BY day, period`

	rows, err := rs.database.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var entries []*models.ScheduleEntry
	for rows.Next() {
		var entry models.ScheduleEntry
		if err := rows.Scan(&entry.ID, &entry.ClassID, &entry.Day, &entry.Period, &entry.Subject); err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// LoadTeacherAssignments returns every class/subject assignment.
func (rs *RecordStore) LoadTeacherAssignments() ([]*models.TeacherAssignment, error) {
	query := `SELECT id, class_id, subject FROM teacher_assignments ORDER BY class_id`

	rows, err := rs.database.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teacher assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*models.TeacherAssignment
	for rows.Next() {
		var assignment models.TeacherAssignment
		if err := rows.Scan(&assignment.ID, &assignment.ClassID, &assignment.Subject); err != nil {
			return nil, fmt.Errorf("failed to scan teacher assignment: %w", err)
		}
		assignments = append(assignments, &assignment)
	}
	return assignments, rows.Err()
}

// LoadLessonLinks returns every saved lesson resource link.
func (rs *RecordStore) LoadLessonLinks() ([]*models.LessonLink, error) {
	query := `SELECT id, title, url FROM lesson_links ORDER BY title`

	rows, err := rs.database.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query lesson links: %w", err)
	}
	defer rows.Close()

	var links []*models.LessonLink
	for rows.Next() {
		var link models.LessonLink
		if err := rows.Scan(&link.ID, &link.Title, &link.URL); err != nil {
			return nil, fmt.Errorf("failed to scan lesson link: %w", err)
		}
		links = append(links, &link)
	}
	return links, rows.Err()
}

// SaveLessonLinks persists one or more lesson links, keyed by id.
func (rs *RecordStore) SaveLessonLinks(links []*models.LessonLink) error {
	query := `INSERT OR REPLACE INTO lesson_links (id, title, url) VALUES (?, ?, ?)`
	for _, link := range links {
		if _, err := rs.database.Exec(query, link.ID, link.Title, link.URL); err != nil {
			return fmt.Errorf("failed to save lesson link %s: %w", link.ID, err)
		}
	}
	return nil
}

// SaveNote persists a sticky note from the note overlay.
func (rs *RecordStore) SaveNote(note *models.StickyNote) error {
	query := `INSERT OR REPLACE INTO sticky_notes (id, class_id, text, created_at) VALUES (?, ?, ?, ?)`
	if _, err := rs.database.Exec(query, note.ID, note.ClassID, note.Text, note.CreatedAt); err != nil {
		return fmt.Errorf("failed to save sticky note: %w", err)
	}
	return nil
}

// LoadNotes returns the saved notes for a class, newest first.
func (rs *RecordStore) LoadNotes(classID string) ([]*models.StickyNote, error) {
	query := `SELECT id, class_id, text, created_at FROM sticky_notes
		WHERE class_id = ? ORDER BY created_at DESC`

	rows, err := rs.database.Query(query, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sticky notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.StickyNote
	for rows.Next() {
		var note models.StickyNote
		if err := rows.Scan(&note.ID, &note.ClassID, &note.Text, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sticky note: %w", err)
		}
		notes = append(notes, &note)
	}
	return notes, rows.Err()
}
