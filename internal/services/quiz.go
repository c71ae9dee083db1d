package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"classroom-live/internal/ai"
	"classroom-live/internal/models"
)

// QuizState is the AI quiz overlay's phase.
type QuizState string

const (
	QuizAwaitingInput  QuizState = "awaiting_input"
	QuizLoading        QuizState = "loading"
	QuizShowingResults QuizState = "showing_results"
)

// aiCallTimeout bounds every collaborator call so a hung backend cannot
// pin an overlay in its loading state forever.
const aiCallTimeout = 60 * time.Second

const quizSystemPrompt = "You are an assistant that writes short multiple-choice quizzes " +
	"for school students. Respond only with a JSON array of objects shaped " +
	`{"question": string, "options": [4 strings], "correctAnswer": 0-3}.`

// ImageFetcher resolves a page's content reference into a
// base64-encoded payload plus its media type.
type ImageFetcher func(ref string) (data, mimeType string, err error)

// QuizOverlay drives the AI quiz flow: awaiting input -> loading ->
// showing results, with "new quiz" returning to input. Generation runs
// asynchronously; a result that arrives after a newer request (or after
// the flow was reset) is stale and gets dropped.
type QuizOverlay struct {
	mu      sync.Mutex
	client  *ai.Client
	fetcher ImageFetcher

	// onChange publishes state transitions to displays. May be nil.
	onChange func()

	state     QuizState
	questions []models.QuizQuestion
	lastError string
	gen       uint64
}

// NewQuizOverlay creates the overlay in the awaiting-input state.
func NewQuizOverlay(client *ai.Client, fetcher ImageFetcher, onChange func()) *QuizOverlay {
	if fetcher == nil {
		fetcher = FetchImage
	}
	return &QuizOverlay{
		client:   client,
		fetcher:  fetcher,
		onChange: onChange,
		state:    QuizAwaitingInput,
	}
}

// Generate starts a quiz generation for a topic, or for the current
// slide's image when imageRef is set (topic entry is suppressed for
// image slides). The prior result stays visible until the new one
// lands. Refused while a generation is already loading.
func (q *QuizOverlay) Generate(topic, imageRef string, count int) error {
	if topic == "" && imageRef == "" {
		return fmt.Errorf("quiz: topic or slide image required")
	}
	if count <= 0 {
		count = 5
	}

	q.mu.Lock()
	if q.state == QuizLoading {
		q.mu.Unlock()
		return fmt.Errorf("quiz: generation already in progress")
	}
	q.state = QuizLoading
	q.lastError = ""
	q.gen++
	token := q.gen
	q.mu.Unlock()

	q.notifyChange()

	go q.run(token, topic, imageRef, count)
	return nil
}

// run fetches the slide image if needed, performs the collaborator
// call, and applies the result if still relevant. Every outcome
// resolves the state; loading never sticks.
func (q *QuizOverlay) run(token uint64, topic, imageRef string, count int) {
	ctx, cancel := context.WithTimeout(context.Background(), aiCallTimeout)
	defer cancel()

	prompt := fmt.Sprintf("Write %d multiple-choice questions about: %s", count, topic)

	var imageData, imageMIME string
	if imageRef != "" {
		var err error
		imageData, imageMIME, err = q.fetcher(imageRef)
		if err != nil {
			log.Printf("Quiz slide image fetch failed: %v", err)
			q.fail(token, "could not read the slide image")
			return
		}
		prompt = fmt.Sprintf("Write %d multiple-choice questions about the attached slide image.", count)
	}

	response, err := q.client.Complete(ctx, ai.Request{
		Prompt:    prompt,
		System:    quizSystemPrompt,
		JSONMode:  true,
		ImageData: imageData,
		ImageMIME: imageMIME,
	})

	q.mu.Lock()
	defer q.mu.Unlock()

	if token != q.gen {
		// A newer request or reset superseded this call.
		log.Printf("Discarding stale quiz generation result")
		return
	}

	if err != nil {
		log.Printf("Quiz generation failed: %v", err)
		q.state = QuizAwaitingInput
		q.lastError = "could not generate questions"
		q.notifyChangeLocked()
		return
	}

	var questions []models.QuizQuestion
	if decodeErr := ai.DecodeJSON(response.Text, &questions); decodeErr != nil {
		log.Printf("Quiz response was not parseable: %v", decodeErr)
		questions = nil
	}

	q.questions = validQuestions(questions)
	q.state = QuizShowingResults
	q.notifyChangeLocked()
}

// fail resolves a still-relevant generation back to awaiting input
// with a surfaced error.
func (q *QuizOverlay) fail(token uint64, message string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if token != q.gen {
		return
	}
	q.state = QuizAwaitingInput
	q.lastError = message
	q.notifyChangeLocked()
}

// validQuestions drops entries that do not match the expected shape.
func validQuestions(questions []models.QuizQuestion) []models.QuizQuestion {
	valid := make([]models.QuizQuestion, 0, len(questions))
	for _, question := range questions {
		if question.Question == "" || len(question.Options) < 2 {
			continue
		}
		if question.CorrectAnswer < 0 || question.CorrectAnswer >= len(question.Options) {
			continue
		}
		valid = append(valid, question)
	}
	return valid
}

// NewQuiz returns to awaiting input. The prior questions are retained
// until the next generation overwrites them.
func (q *QuizOverlay) NewQuiz() {
	q.mu.Lock()
	q.gen++ // invalidate any in-flight generation
	q.state = QuizAwaitingInput
	q.lastError = ""
	q.mu.Unlock()

	q.notifyChange()
}

// QuizStatus is a read snapshot of the overlay.
type QuizStatus struct {
	State     QuizState             `json:"state"`
	Questions []models.QuizQuestion `json:"questions"`
	Error     string                `json:"error,omitempty"`
}

// Status returns the current flow state, questions, and error message.
func (q *QuizOverlay) Status() QuizStatus {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QuizStatus{
		State:     q.state,
		Questions: append([]models.QuizQuestion(nil), q.questions...),
		Error:     q.lastError,
	}
}

func (q *QuizOverlay) notifyChange() {
	if q.onChange != nil {
		q.onChange()
	}
}

// notifyChangeLocked must only be called with the mutex held; the
// callback itself runs outside the lock.
func (q *QuizOverlay) notifyChangeLocked() {
	if q.onChange == nil {
		return
	}
	callback := q.onChange
	go callback()
}
