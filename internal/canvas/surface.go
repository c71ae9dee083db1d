package canvas

import (
	"image"
	"image/color"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"
)

// Eraser strokes always use this effective width, wider than any pen.
const eraserWidth = 24.0

// Point is a raster coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Tool carries the pen settings for one stroke.
type Tool struct {
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Eraser bool    `json:"eraser"`
}

// Surface owns the annotation raster for whichever page is current. One
// stroke runs from BeginStroke to EndStroke; only EndStroke produces a
// snapshot, so intra-stroke movement is never persisted.
type Surface struct {
	mu     sync.Mutex
	img    *image.RGBA
	width  int
	height int

	strokeActive bool
	last         Point
	tool         Tool

	// loadGen invalidates in-flight snapshot loads: a decode that
	// finishes after a newer navigation must not draw onto the
	// now-current page.
	loadGen uint64
}

// NewSurface creates a blank surface of the given dimensions.
func NewSurface(width, height int) *Surface {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	return &Surface{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
	}
}

// BeginStroke starts a new path at p.
func (s *Surface) BeginStroke(p Point, tool Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.strokeActive = true
	s.last = p
	s.tool = tool
	s.stamp(p)
}

// ExtendStroke appends a line segment from the last point to p. No-op
// when no stroke is active.
func (s *Surface) ExtendStroke(p Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.strokeActive {
		return
	}
	s.segment(s.last, p)
	s.last = p
}

// EndStroke finalizes the active stroke and returns the committed
// snapshot of the full raster. Returns ("", false) when no stroke was
// active.
func (s *Surface) EndStroke() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.strokeActive {
		return "", false
	}
	s.strokeActive = false
	return EncodeSnapshot(s.img), true
}

// Clear blanks the raster and aborts any active stroke. The returned
// empty snapshot is what gets committed to the page.
func (s *Surface) Clear() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.strokeActive = false
	s.img = image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	return ""
}

// StartLoad begins a page-navigation load: the raster blanks
// immediately and a generation token is returned. The caller decodes
// the snapshot (possibly on another goroutine) and hands it to
// FinishLoad with the token.
func (s *Surface) StartLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadGen++
	s.strokeActive = false
	s.img = image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	return s.loadGen
}

// FinishLoad draws a decoded snapshot onto the raster. A load whose
// token no longer matches the latest StartLoad is stale and is
// discarded. A snapshot that failed to decode (nil) leaves the page
// blank. Reports whether the load was applied.
func (s *Surface) FinishLoad(token uint64, decoded image.Image) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.loadGen {
		return false
	}
	if decoded == nil {
		return true
	}

	xdraw.ApproxBiLinear.Scale(s.img, s.img.Bounds(), decoded, decoded.Bounds(), xdraw.Src, nil)
	return true
}

// Resize re-stretches the current raster into new dimensions. Content
// is preserved, never discarded.
func (s *Surface) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if width == s.width && height == s.height {
		return
	}

	resized := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(resized, resized.Bounds(), s.img, s.img.Bounds(), xdraw.Src, nil)
	s.img = resized
	s.width = width
	s.height = height
}

// Snapshot returns the current raster serialized, without requiring an
// active stroke. Used by resize-time persistence and tests.
func (s *Surface) Snapshot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return EncodeSnapshot(s.img)
}

// Blank reports whether the raster has no visible pixels.
func (s *Surface) Blank() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 3; i < len(s.img.Pix); i += 4 {
		if s.img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// segment stamps dots along the line from a to b at sub-pixel spacing.
func (s *Surface) segment(a, b Point) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dist := math.Hypot(dx, dy)
	steps := int(dist) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		s.stamp(Point{X: a.X + dx*t, Y: a.Y + dy*t})
	}
}

// stamp draws one filled dot of the active tool at p. Pen dots add
// pixels; eraser dots remove them.
func (s *Surface) stamp(p Point) {
	radius := s.tool.Width / 2
	if s.tool.Eraser {
		radius = eraserWidth / 2
	}
	if radius < 0.5 {
		radius = 0.5
	}

	ink := parseColor(s.tool.Color)
	minX := int(math.Floor(p.X - radius))
	maxX := int(math.Ceil(p.X + radius))
	minY := int(math.Floor(p.Y - radius))
	maxY := int(math.Ceil(p.Y + radius))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if x < 0 || y < 0 || x >= s.width || y >= s.height {
				continue
			}
			if math.Hypot(float64(x)-p.X, float64(y)-p.Y) > radius {
				continue
			}
			if s.tool.Eraser {
				s.img.SetRGBA(x, y, color.RGBA{})
			} else {
				s.img.SetRGBA(x, y, ink)
			}
		}
	}
}

// parseColor reads a #rrggbb hex color, defaulting to black.
func parseColor(hex string) color.RGBA {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{A: 255}
	}
	value := 0
	for _, ch := range hex[1:] {
		digit := 0
		switch {
		case ch >= '0' && ch <= '9':
			digit = int(ch - '0')
		case ch >= 'a' && ch <= 'f':
			digit = int(ch-'a') + 10
		case ch >= 'A' && ch <= 'F':
			digit = int(ch-'A') + 10
		default:
			return color.RGBA{A: 255}
		}
		value = value<<4 | digit
	}
	return color.RGBA{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
		A: 255,
	}
}
