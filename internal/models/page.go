package models

// ContentKind identifies what a page displays behind its annotation layer.
type ContentKind string

const (
	ContentEmpty    ContentKind = "empty"
	ContentFrame    ContentKind = "frame"
	ContentImage    ContentKind = "image"
	ContentDocument ContentKind = "document"
)

// Page represents one slide of the classroom deck: a single content
// reference plus an independent freehand annotation layer.
type Page struct {
	ID          string      `json:"id"`
	ContentKind ContentKind `json:"contentKind"`
	ContentRef  string      `json:"contentRef,omitempty"`
	// Annotation holds the serialized raster snapshot of the freehand
	// layer (base64 PNG data URL), or "" if the page was never drawn on.
	Annotation string `json:"annotation,omitempty"`
}

// DeckSnapshot represents a persisted deck for one class session.
type DeckSnapshot struct {
	ClassID      string  `json:"classId"`
	CurrentIndex int     `json:"currentIndex"`
	Pages        []*Page `json:"pages"`
}

// DecksFile represents the root structure of decks.json.
type DecksFile struct {
	Decks map[string]*DeckSnapshot `json:"decks"`
}
