package mapview

import (
	"github.com/ethnoguessr/api/internal/ethnoguessr"
	"github.com/ethnoguessr/api/internal/geo"
)

type Op string

const (
	OpView   Op = "view"
	OpMarker Op = "marker"
	OpLine   Op = "line"
	OpFit    Op = "fit"
	OpClear  Op = "clear"
	OpClose  Op = "close"
)

// Command is one surface call, encoded for a browser-side map widget to
// replay. IDs are the handles the widget must use for later clears.
type Command struct {
	Op      Op                      `json:"op"`
	ID      Handle                  `json:"id,omitempty"`
	Marker  *Marker                 `json:"marker,omitempty"`
	Line    *Line                   `json:"line,omitempty"`
	Center  *ethnoguessr.Coordinate `json:"center,omitempty"`
	Zoom    int                     `json:"zoom,omitempty"`
	Bounds  *geo.Bounds             `json:"bounds,omitempty"`
	Padding int                     `json:"padding,omitempty"`
}

// Stream is a Surface that queues commands for a remote widget. Callers
// Drain the queue after each render and ship the batch.
type Stream struct {
	next    Handle
	pending []Command
	live    map[Handle]struct{}
	closed  bool
}

func NewStream() *Stream {
	return &Stream{live: make(map[Handle]struct{})}
}

func (s *Stream) SetView(center ethnoguessr.Coordinate, zoom int) {
	s.push(Command{Op: OpView, Center: &center, Zoom: zoom})
}

func (s *Stream) RenderMarker(m Marker) Handle {
	h := s.alloc()
	s.push(Command{Op: OpMarker, ID: h, Marker: &m})
	return h
}

func (s *Stream) RenderLine(l Line) Handle {
	h := s.alloc()
	s.push(Command{Op: OpLine, ID: h, Line: &l})
	return h
}

func (s *Stream) FitView(b geo.Bounds, paddingPx int) {
	s.push(Command{Op: OpFit, Bounds: &b, Padding: paddingPx})
}

func (s *Stream) Clear(h Handle) {
	if _, ok := s.live[h]; !ok {
		return
	}
	delete(s.live, h)
	s.push(Command{Op: OpClear, ID: h})
}

func (s *Stream) Close() {
	if s.closed {
		return
	}
	clear(s.live)
	s.push(Command{Op: OpClose})
	s.closed = true
}

// Drain returns the queued commands and empties the queue.
func (s *Stream) Drain() []Command {
	out := s.pending
	s.pending = nil
	return out
}

// Live is the number of decorations the remote widget should be showing.
func (s *Stream) Live() int {
	return len(s.live)
}

func (s *Stream) alloc() Handle {
	s.next++
	s.live[s.next] = struct{}{}
	return s.next
}

func (s *Stream) push(c Command) {
	if s.closed {
		return
	}
	s.pending = append(s.pending, c)
}
