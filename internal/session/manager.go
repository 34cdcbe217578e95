package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"log/slog"
	mrand "math/rand/v2"
	"sync"
	"time"

	"github.com/ethnoguessr/api/internal/ethnoguessr"
	"github.com/ethnoguessr/api/internal/game"
)

// DeckSource resolves the deck a new game is dealt from.
type DeckSource interface {
	Get(ctx context.Context, id string) (ethnoguessr.Deck, error)
}

type CreateRequest struct {
	DeckID string
	Mode   ethnoguessr.Mode
	// Seed fixes the challenge order. A random seed is drawn when nil.
	Seed *uint64
}

const lockStripes = 64

// Manager applies game operations to stored sessions. Operations on the same
// session are serialised; different sessions proceed in parallel.
type Manager struct {
	repo   Repository
	decks  DeckSource
	broker *Broker
	logger *slog.Logger
	now    func() time.Time
	locks  [lockStripes]sync.Mutex
}

func NewManager(repo Repository, decks DeckSource, broker *Broker, logger *slog.Logger) *Manager {
	return &Manager{
		repo:   repo,
		decks:  decks,
		broker: broker,
		logger: logger,
		now:    time.Now,
	}
}

func (m *Manager) Broker() *Broker {
	return m.broker
}

// Create deals a new play-through from a deck.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (*Session, error) {
	deck, err := m.decks.Get(ctx, req.DeckID)
	if err != nil {
		return nil, fmt.Errorf("loading deck %q: %w", req.DeckID, err)
	}
	mode := req.Mode
	if mode == "" {
		mode = ethnoguessr.ModeClassic
	}

	now := m.now().UTC()
	var seed uint64
	switch mode {
	case ethnoguessr.ModeDaily:
		seed = DailySeed(now)
	case ethnoguessr.ModeChallenge:
		if req.Seed != nil {
			seed = *req.Seed
		} else {
			seed = mrand.Uint64()
		}
	}

	rounds := Order(deck.Rounds, mode, seed)
	s := &Session{
		ID:        newID(),
		DeckID:    deck.ID,
		Mode:      mode,
		Seed:      seed,
		Rounds:    rounds,
		State:     game.New(rounds).State(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.repo.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}
	m.logger.Info("game created", "session", s.ID, "deck", deck.ID, "mode", mode, "rounds", len(rounds))
	return s, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.repo.Get(ctx, id)
}

func (m *Manager) SelectLocation(ctx context.Context, id string, c ethnoguessr.Coordinate) (*Session, bool, error) {
	return m.apply(ctx, id, func(g *game.Controller) (string, bool) {
		return EventLocationSelected, g.SelectLocation(c)
	})
}

func (m *Manager) ConfirmGuess(ctx context.Context, id string) (*Session, bool, error) {
	return m.apply(ctx, id, func(g *game.Controller) (string, bool) {
		return EventGuessConfirmed, g.ConfirmGuess()
	})
}

func (m *Manager) AdvanceRound(ctx context.Context, id string) (*Session, bool, error) {
	return m.apply(ctx, id, func(g *game.Controller) (string, bool) {
		if !g.AdvanceRound() {
			return "", false
		}
		if g.State().GameOver {
			return EventGameOver, true
		}
		return EventRoundAdvanced, true
	})
}

func (m *Manager) ReportImageFailure(ctx context.Context, id string, round int, slot ethnoguessr.ImageSlot) (*Session, bool, error) {
	return m.apply(ctx, id, func(g *game.Controller) (string, bool) {
		return EventImageFailed, g.ReportImageFailure(round, slot)
	})
}

func (m *Manager) Restart(ctx context.Context, id string) (*Session, bool, error) {
	return m.apply(ctx, id, func(g *game.Controller) (string, bool) {
		g.Restart()
		return EventRestarted, true
	})
}

// Delete discards a play-through and tells its subscribers.
func (m *Manager) Delete(ctx context.Context, id string) error {
	mu := m.lock(id)
	mu.Lock()
	defer mu.Unlock()

	if err := m.repo.Delete(ctx, id); err != nil {
		return err
	}
	m.broker.Publish(id, Event{Type: EventDeleted})
	m.logger.Info("game deleted", "session", id)
	return nil
}

// apply runs op on the session's controller and stores the result when op
// reports a change.
func (m *Manager) apply(ctx context.Context, id string, op func(*game.Controller) (string, bool)) (*Session, bool, error) {
	mu := m.lock(id)
	mu.Lock()
	defer mu.Unlock()

	s, err := m.repo.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}

	g := s.Controller()
	event, applied := op(g)
	if !applied {
		return s, false, nil
	}

	s.State = g.State()
	s.UpdatedAt = m.now().UTC()
	if err := m.repo.Put(ctx, s); err != nil {
		return nil, false, fmt.Errorf("storing session: %w", err)
	}

	m.broker.Publish(id, Event{Type: event, Round: s.State.Round})
	m.logger.Debug("game updated", "session", id, "event", event, "round", s.State.Round, "score", s.State.Score)
	return s, true, nil
}

func (m *Manager) lock(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &m.locks[h.Sum32()%lockStripes]
}

func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
