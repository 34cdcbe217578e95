// Package game implements the round and scoring state machine of a single
// play-through. A Controller is not safe for concurrent use; callers
// serialise access to it.
package game

import (
	"maps"

	"github.com/ethnoguessr/api/internal/ethnoguessr"
	"github.com/ethnoguessr/api/internal/geo"
	"github.com/ethnoguessr/api/internal/mapview"
)

// MaxRoundScore is awarded for an exact guess.
const MaxRoundScore = 100.0

// Score converts a guess distance to a round score: linear decay reaching
// zero at 10,000 km, never negative.
func Score(distanceKm float64) float64 {
	return max(0, MaxRoundScore-distanceKm/100)
}

// Result is the outcome of a confirmed guess. It is computed once and reused
// by every display of the round.
type Result struct {
	DistanceKm float64 `json:"distanceKm"`
	Score      float64 `json:"score"`
}

// State is the mutable record of one play-through.
type State struct {
	Round       int                           `json:"round"`
	Score       float64                       `json:"score"`
	Pending     *ethnoguessr.Coordinate       `json:"pending,omitempty"`
	Result      *Result                       `json:"result,omitempty"`
	GameOver    bool                          `json:"gameOver"`
	ImageFailed map[ethnoguessr.ImageSlot]bool `json:"imageFailed,omitempty"`
}

// ShowingResult reports whether the current round's result is on display.
func (s State) ShowingResult() bool {
	return s.Result != nil
}

func (s State) clone() State {
	out := s
	if s.Pending != nil {
		p := *s.Pending
		out.Pending = &p
	}
	if s.Result != nil {
		r := *s.Result
		out.Result = &r
	}
	out.ImageFailed = maps.Clone(s.ImageFailed)
	return out
}

type Controller struct {
	rounds []ethnoguessr.RoundDefinition
	state  State
}

// New starts a play-through at round 1. With no rounds the game is over
// from the start.
func New(rounds []ethnoguessr.RoundDefinition) *Controller {
	c := &Controller{rounds: rounds}
	c.Restart()
	return c
}

// Resume continues a play-through from a previously exported state.
func Resume(rounds []ethnoguessr.RoundDefinition, s State) *Controller {
	c := &Controller{rounds: rounds, state: s.clone()}
	if len(rounds) == 0 {
		c.state.GameOver = true
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state.clone()
}

// TotalRounds is the length of the round sequence.
func (c *Controller) TotalRounds() int {
	return len(c.rounds)
}

// Current returns the active round. ok is false when there are no rounds.
func (c *Controller) Current() (ethnoguessr.RoundDefinition, bool) {
	if c.state.Round < 1 || c.state.Round > len(c.rounds) {
		return ethnoguessr.RoundDefinition{}, false
	}
	return c.rounds[c.state.Round-1], true
}

// SelectLocation records coord as the pending guess, replacing any earlier
// one. Ignored while a result is shown or after the game is over.
func (c *Controller) SelectLocation(coord ethnoguessr.Coordinate) bool {
	if c.state.GameOver || c.state.ShowingResult() {
		return false
	}
	c.state.Pending = &coord
	return true
}

// ConfirmGuess scores the pending guess against the current round and
// reveals the result. Ignored without a pending guess.
func (c *Controller) ConfirmGuess() bool {
	if c.state.GameOver || c.state.ShowingResult() || c.state.Pending == nil {
		return false
	}
	round, ok := c.Current()
	if !ok {
		return false
	}
	d := geo.HaversineKm(*c.state.Pending, round.Location)
	res := Result{DistanceKm: d, Score: Score(d)}
	c.state.Score += res.Score
	c.state.Result = &res
	return true
}

// AdvanceRound leaves the result display. On the last round it ends the
// game; otherwise it moves to the next round with fresh transient state.
func (c *Controller) AdvanceRound() bool {
	if c.state.GameOver || !c.state.ShowingResult() {
		return false
	}
	c.state.Result = nil
	if c.state.Round >= len(c.rounds) {
		c.state.GameOver = true
		return true
	}
	c.state.Round++
	c.state.Pending = nil
	c.state.ImageFailed = nil
	return true
}

// ReportImageFailure marks slot of round as broken so a placeholder renders
// instead. Reports for rounds other than the current one are stale.
func (c *Controller) ReportImageFailure(round int, slot ethnoguessr.ImageSlot) bool {
	if c.state.GameOver || round != c.state.Round || c.state.ImageFailed[slot] {
		return false
	}
	if c.state.ImageFailed == nil {
		c.state.ImageFailed = make(map[ethnoguessr.ImageSlot]bool, len(ethnoguessr.ImageSlots))
	}
	c.state.ImageFailed[slot] = true
	return true
}

// Restart discards all progress.
func (c *Controller) Restart() {
	c.state = State{Round: 1, GameOver: len(c.rounds) == 0}
}

// Props projects the state onto the map contract. The round's answer is
// only exposed while its result is shown.
func (c *Controller) Props() mapview.Props {
	s := c.State()
	p := mapview.Props{SelectedLocation: s.Pending, ShowResult: s.ShowingResult()}
	if p.ShowResult {
		if round, ok := c.Current(); ok {
			loc := round.Location
			p.ActualLocation = &loc
		}
	}
	return p
}
