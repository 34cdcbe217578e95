// Package catalog stores the decks of round definitions games are dealt
// from. Decks are JSON documents in a libSQL table.
package catalog

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ethnoguessr/api/internal/ethnoguessr"
)

var (
	ErrNotFound  = errors.New("deck not found")
	ErrDuplicate = errors.New("deck name already exists")
)

// DefaultDeckID is the deck games use when none is requested.
const DefaultDeckID = "classic"

// ValidationError lists the fields of a deck that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid deck: " + strings.Join(e.Fields, ", ")
}

type DeckSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RoundCount  int    `json:"roundCount"`
}

// Store implements deck CRUD on a migrated database.
type Store struct {
	db       *sql.DB
	validate *validator.Validate
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate checks a deck's fields and every round in it.
func (s *Store) Validate(d ethnoguessr.Deck) error {
	err := s.validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, fmt.Sprintf("%s (%s)", strings.TrimPrefix(fe.Namespace(), "Deck."), fe.Tag()))
	}
	return ve
}

func (s *Store) Get(ctx context.Context, id string) (ethnoguessr.Deck, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM decks WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ethnoguessr.Deck{}, ErrNotFound
	}
	if err != nil {
		return ethnoguessr.Deck{}, fmt.Errorf("reading deck %s: %w", id, err)
	}
	var d ethnoguessr.Deck
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return ethnoguessr.Deck{}, fmt.Errorf("decoding deck %s: %w", id, err)
	}
	return d, nil
}

func (s *Store) List(ctx context.Context) ([]DeckSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT json(data) FROM decks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing decks: %w", err)
	}
	defer rows.Close()

	out := []DeckSummary{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var d ethnoguessr.Deck
		if err := json.Unmarshal([]byte(data), &d); err != nil {
			return nil, err
		}
		out = append(out, DeckSummary{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			RoundCount:  len(d.Rounds),
		})
	}
	return out, rows.Err()
}

// Create stores a new deck. An empty ID is generated.
func (s *Store) Create(ctx context.Context, d ethnoguessr.Deck) (ethnoguessr.Deck, error) {
	if err := s.Validate(d); err != nil {
		return ethnoguessr.Deck{}, err
	}
	if d.ID == "" {
		d.ID = newID()
	}
	d.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(d)
	if err != nil {
		return ethnoguessr.Deck{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO decks (id, name, data) VALUES (?, ?, jsonb(?))`,
		d.ID, d.Name, string(data),
	)
	if isUniqueViolation(err) {
		return ethnoguessr.Deck{}, ErrDuplicate
	}
	if err != nil {
		return ethnoguessr.Deck{}, fmt.Errorf("inserting deck: %w", err)
	}
	return d, nil
}

// Update replaces a deck's content. Games already dealt keep their rounds.
func (s *Store) Update(ctx context.Context, id string, d ethnoguessr.Deck) (ethnoguessr.Deck, error) {
	if err := s.Validate(d); err != nil {
		return ethnoguessr.Deck{}, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return ethnoguessr.Deck{}, err
	}
	d.ID = existing.ID
	d.CreatedAt = existing.CreatedAt

	data, err := json.Marshal(d)
	if err != nil {
		return ethnoguessr.Deck{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE decks SET name = ?, data = jsonb(?) WHERE id = ?`,
		d.Name, string(data), id,
	)
	if isUniqueViolation(err) {
		return ethnoguessr.Deck{}, ErrDuplicate
	}
	if err != nil {
		return ethnoguessr.Deck{}, fmt.Errorf("updating deck: %w", err)
	}
	return d, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting deck: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SeedDefault creates the classic deck if it does not exist yet. It reports
// whether it created anything.
func (s *Store) SeedDefault(ctx context.Context) (bool, error) {
	if _, err := s.Get(ctx, DefaultDeckID); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	if _, err := s.Create(ctx, ClassicDeck()); err != nil {
		return false, fmt.Errorf("seeding classic deck: %w", err)
	}
	return true, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func newID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
