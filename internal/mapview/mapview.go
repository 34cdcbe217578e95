// Package mapview turns map clicks into coordinates and draws the guess,
// the answer and the line between them on a pluggable map surface.
//
// An InteractiveMap holds no game state. It renders whatever Props it is
// given and forwards clicks to a single handler. It is not safe for
// concurrent use.
package mapview

import (
	"github.com/ethnoguessr/api/internal/ethnoguessr"
	"github.com/ethnoguessr/api/internal/geo"
)

const (
	// MinZoom is the most zoomed-out world view.
	MinZoom = 2
	// FitPadding is the pixel margin kept around both points when the view
	// is reframed on a result.
	FitPadding = 50
)

// Props are the inputs the map renders from.
type Props struct {
	SelectedLocation *ethnoguessr.Coordinate `json:"selectedLocation"`
	ActualLocation   *ethnoguessr.Coordinate `json:"actualLocation"`
	ShowResult       bool                    `json:"showResult"`
}

// Handle identifies a decoration drawn on a surface.
type Handle int

type MarkerKind string

const (
	MarkerGuess  MarkerKind = "guess"
	MarkerAnswer MarkerKind = "answer"
)

type Marker struct {
	Kind     MarkerKind             `json:"kind"`
	Position ethnoguessr.Coordinate `json:"position"`
	Style    MarkerStyle            `json:"style"`
}

// MarkerStyle is empty for the backend's default pin.
type MarkerStyle struct {
	Shape       string `json:"shape,omitempty"`
	Fill        string `json:"fill,omitempty"`
	Border      string `json:"border,omitempty"`
	SizePx      int    `json:"sizePx,omitempty"`
	BorderWidth int    `json:"borderWidth,omitempty"`
}

type Line struct {
	From    ethnoguessr.Coordinate `json:"from"`
	To      ethnoguessr.Coordinate `json:"to"`
	Color   string                 `json:"color"`
	Weight  int                    `json:"weight"`
	Opacity float64                `json:"opacity"`
}

var (
	answerStyle = MarkerStyle{Shape: "circle", Fill: "#22c55e", Border: "#ffffff", SizePx: 20, BorderWidth: 2}
	lineColor   = "#ef4444"
)

// Surface is the capability set a concrete map backend provides.
type Surface interface {
	SetView(center ethnoguessr.Coordinate, zoom int)
	RenderMarker(m Marker) Handle
	RenderLine(l Line) Handle
	FitView(b geo.Bounds, paddingPx int)
	Clear(h Handle)
	// Close releases everything the surface holds.
	Close()
}

// LocationSelected is emitted when the player clicks the map.
type LocationSelected struct {
	Coordinate ethnoguessr.Coordinate
}

type InteractiveMap struct {
	surface  Surface
	onSelect func(LocationSelected)
	props    Props
	handles  []Handle
	disposed bool
}

// New initialises the surface at a neutral world view. onSelect receives
// every accepted click.
func New(surface Surface, onSelect func(LocationSelected)) *InteractiveMap {
	surface.SetView(ethnoguessr.Coordinate{}, MinZoom)
	return &InteractiveMap{surface: surface, onSelect: onSelect}
}

// Click forwards a click at c unless a result is on display. It reports
// whether the event was emitted.
func (m *InteractiveMap) Click(c ethnoguessr.Coordinate) bool {
	if m.disposed || m.props.ShowResult || m.onSelect == nil || !c.Valid() {
		return false
	}
	m.onSelect(LocationSelected{Coordinate: c})
	return true
}

// Update redraws the map for p. Every decoration from the previous render
// is cleared first, so identical props always produce the same picture.
func (m *InteractiveMap) Update(p Props) {
	if m.disposed {
		return
	}
	m.props = p
	m.clear()

	if !p.ShowResult {
		if p.SelectedLocation != nil {
			m.marker(Marker{Kind: MarkerGuess, Position: *p.SelectedLocation})
		}
		return
	}
	if p.SelectedLocation == nil || p.ActualLocation == nil {
		return
	}

	guess, answer := *p.SelectedLocation, *p.ActualLocation
	m.marker(Marker{Kind: MarkerGuess, Position: guess})
	m.marker(Marker{Kind: MarkerAnswer, Position: answer, Style: answerStyle})
	m.handles = append(m.handles, m.surface.RenderLine(Line{
		From:    guess,
		To:      answer,
		Color:   lineColor,
		Weight:  2,
		Opacity: 0.8,
	}))
	m.surface.FitView(geo.BoundsOf(guess, answer), FitPadding)
}

// Props returns the inputs of the last render.
func (m *InteractiveMap) Props() Props {
	return m.props
}

// Dispose releases the surface and drops the click handler. Safe to call
// more than once.
func (m *InteractiveMap) Dispose() {
	if m.disposed {
		return
	}
	m.clear()
	m.surface.Close()
	m.onSelect = nil
	m.disposed = true
}

func (m *InteractiveMap) marker(mk Marker) {
	m.handles = append(m.handles, m.surface.RenderMarker(mk))
}

func (m *InteractiveMap) clear() {
	for _, h := range m.handles {
		m.surface.Clear(h)
	}
	m.handles = m.handles[:0]
}
