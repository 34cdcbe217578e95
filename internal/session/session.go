// Package session keeps live play-throughs and serialises the game
// operations applied to them.
package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/ethnoguessr/api/internal/ethnoguessr"
	"github.com/ethnoguessr/api/internal/game"
)

var ErrNotFound = errors.New("session not found")

// Session is one play-through: the fixed round order plus controller state.
type Session struct {
	ID        string                        `json:"id"`
	DeckID    string                        `json:"deckId"`
	Mode      ethnoguessr.Mode              `json:"mode"`
	Seed      uint64                        `json:"seed"`
	Rounds    []ethnoguessr.RoundDefinition `json:"rounds"`
	State     game.State                    `json:"state"`
	CreatedAt time.Time                     `json:"createdAt"`
	UpdatedAt time.Time                     `json:"updatedAt"`
}

// Controller resumes the game state machine for s.
func (s *Session) Controller() *game.Controller {
	return game.Resume(s.Rounds, s.State)
}

// Repository stores live sessions.
type Repository interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// DailySeed derives the seed shared by every daily game on day t (UTC).
func DailySeed(t time.Time) uint64 {
	y, m, d := t.UTC().Date()
	return uint64(y)*10000 + uint64(m)*100 + uint64(d)
}

// Order returns the round sequence for a play-through. Classic keeps the
// deck order; other modes shuffle deterministically by seed.
func Order(rounds []ethnoguessr.RoundDefinition, mode ethnoguessr.Mode, seed uint64) []ethnoguessr.RoundDefinition {
	out := slices.Clone(rounds)
	if mode == ethnoguessr.ModeClassic {
		return out
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
