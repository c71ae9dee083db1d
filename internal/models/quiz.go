package models

// QuizQuestion represents one AI-generated multiple-choice question.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// ActivitySuggestion represents one AI-suggested quick classroom activity.
type ActivitySuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Minutes     int    `json:"minutes"`
}
