package mapview

import (
	"slices"

	"github.com/ethnoguessr/api/internal/ethnoguessr"
	"github.com/ethnoguessr/api/internal/geo"
)

// Viewport is where a surface is currently looking. Fit is set when the
// view was last framed around a box rather than a centre point.
type Viewport struct {
	Center  ethnoguessr.Coordinate `json:"center"`
	Zoom    int                    `json:"zoom"`
	Fit     *geo.Bounds            `json:"fit,omitempty"`
	Padding int                    `json:"padding,omitempty"`
}

// Scene is an in-memory Surface that keeps the live decorations. It backs
// map snapshots and tests.
type Scene struct {
	next    Handle
	markers map[Handle]Marker
	lines   map[Handle]Line
	view    Viewport
	closed  bool
}

func NewScene() *Scene {
	return &Scene{
		markers: make(map[Handle]Marker),
		lines:   make(map[Handle]Line),
	}
}

func (s *Scene) SetView(center ethnoguessr.Coordinate, zoom int) {
	s.view = Viewport{Center: center, Zoom: zoom}
}

func (s *Scene) RenderMarker(m Marker) Handle {
	s.next++
	s.markers[s.next] = m
	return s.next
}

func (s *Scene) RenderLine(l Line) Handle {
	s.next++
	s.lines[s.next] = l
	return s.next
}

func (s *Scene) FitView(b geo.Bounds, paddingPx int) {
	s.view = Viewport{Center: b.Center(), Zoom: s.view.Zoom, Fit: &b, Padding: paddingPx}
}

func (s *Scene) Clear(h Handle) {
	delete(s.markers, h)
	delete(s.lines, h)
}

func (s *Scene) Close() {
	clear(s.markers)
	clear(s.lines)
	s.closed = true
}

// SceneSnapshot is the visible state of a Scene.
type SceneSnapshot struct {
	Markers []Marker `json:"markers"`
	Lines   []Line   `json:"lines"`
	View    Viewport `json:"view"`
	Closed  bool     `json:"closed"`
}

// Snapshot lists the live decorations in drawing order.
func (s *Scene) Snapshot() SceneSnapshot {
	snap := SceneSnapshot{
		Markers: []Marker{},
		Lines:   []Line{},
		View:    s.view,
		Closed:  s.closed,
	}
	for _, h := range sortedKeys(s.markers) {
		snap.Markers = append(snap.Markers, s.markers[h])
	}
	for _, h := range sortedKeys(s.lines) {
		snap.Lines = append(snap.Lines, s.lines[h])
	}
	return snap
}

// Live is the number of decorations currently drawn.
func (s *Scene) Live() int {
	return len(s.markers) + len(s.lines)
}

func sortedKeys[V any](m map[Handle]V) []Handle {
	keys := make([]Handle, 0, len(m))
	for h := range m {
		keys = append(keys, h)
	}
	slices.Sort(keys)
	return keys
}
