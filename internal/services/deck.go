package services

import (
	"github.com/google/uuid"

	"classroom-live/internal/models"
)

// Deck is an ordered sequence of pages plus a current-page index. It is
// never empty and the index is always valid; every operation clamps
// rather than fails. Deck is not safe for concurrent use on its own;
// the owning Session serializes access.
type Deck struct {
	pages   []*models.Page
	current int
}

// NewDeck creates a deck holding the sole initial empty page.
func NewDeck() *Deck {
	return &Deck{
		pages: []*models.Page{newPage()},
	}
}

// RestoreDeck rebuilds a deck from a persisted snapshot. An empty or
// invalid snapshot yields a fresh single-page deck.
func RestoreDeck(snapshot *models.DeckSnapshot) *Deck {
	if snapshot == nil || len(snapshot.Pages) == 0 {
		return NewDeck()
	}

	deck := &Deck{pages: snapshot.Pages}
	deck.current = clamp(snapshot.CurrentIndex, 0, len(deck.pages)-1)
	return deck
}

func newPage() *models.Page {
	return &models.Page{
		ID:          uuid.NewString(),
		ContentKind: models.ContentEmpty,
	}
}

// AddPage appends a new empty page and moves the current index to it.
func (d *Deck) AddPage() *models.Page {
	page := newPage()
	d.pages = append(d.pages, page)
	d.current = len(d.pages) - 1
	return page
}

// DeletePage removes the page at index. Deleting the only page clears
// it in place instead, so the deck never drops below one page. The
// current index is clamped afterwards.
func (d *Deck) DeletePage(index int) {
	if index < 0 || index >= len(d.pages) {
		return
	}

	if len(d.pages) == 1 {
		page := d.pages[0]
		page.ContentKind = models.ContentEmpty
		page.ContentRef = ""
		page.Annotation = ""
		return
	}

	d.pages = append(d.pages[:index], d.pages[index+1:]...)
	if d.current > len(d.pages)-1 {
		d.current = len(d.pages) - 1
	}
}

// GoTo moves the current index, clamping into [0, length-1].
func (d *Deck) GoTo(index int) int {
	d.current = clamp(index, 0, len(d.pages)-1)
	return d.current
}

// SetCurrentContent replaces the content of the current page. The
// page's annotation is left untouched.
func (d *Deck) SetCurrentContent(kind models.ContentKind, ref string) {
	page := d.pages[d.current]
	page.ContentKind = kind
	page.ContentRef = ref
}

// CommitAnnotation stores a serialized annotation snapshot on the
// current page.
func (d *Deck) CommitAnnotation(snapshot string) {
	d.pages[d.current].Annotation = snapshot
}

// CurrentPage returns the page at the current index.
func (d *Deck) CurrentPage() *models.Page {
	return d.pages[d.current]
}

// CurrentIndex returns the current page index.
func (d *Deck) CurrentIndex() int {
	return d.current
}

// Len returns the number of pages.
func (d *Deck) Len() int {
	return len(d.pages)
}

// Snapshot captures the deck for persistence.
func (d *Deck) Snapshot(classID string) *models.DeckSnapshot {
	return &models.DeckSnapshot{
		ClassID:      classID,
		CurrentIndex: d.current,
		Pages:        d.pages,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
