package models

// Student represents one member of a class roster.
type Student struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	ClassID string `json:"classId"`
}

// ScheduleEntry represents one period of the weekly timetable.
type ScheduleEntry struct {
	ID      string `json:"id"`
	ClassID string `json:"classId"`
	Day     int    `json:"day"`
	Period  int    `json:"period"`
	Subject string `json:"subject"`
}

// TeacherAssignment links the teacher to a class and subject.
type TeacherAssignment struct {
	ID      string `json:"id"`
	ClassID string `json:"classId"`
	Subject string `json:"subject"`
}

// LessonLink represents a saved external lesson resource.
type LessonLink struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}
