package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ethnoguessr/api/internal/catalog"
	"github.com/ethnoguessr/api/internal/ethnoguessr"
)

// DeckRequest is the body for creating or replacing a deck.
type DeckRequest struct {
	ID          string                        `json:"id,omitempty"`
	Name        string                        `json:"name"`
	Description string                        `json:"description"`
	Rounds      []ethnoguessr.RoundDefinition `json:"rounds"`
}

func (d DeckRequest) deck() ethnoguessr.Deck {
	return ethnoguessr.Deck{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Rounds:      d.Rounds,
	}
}

func handleListDecks(logger *slog.Logger, decks *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := decks.List(r.Context())
		if err != nil {
			writeDeckError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func handleAdminGetDeck(logger *slog.Logger, decks *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := decks.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDeckError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func handleAdminCreateDeck(logger *slog.Logger, decks *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeckRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		d, err := decks.Create(r.Context(), req.deck())
		if err != nil {
			writeDeckError(w, logger, err)
			return
		}
		logger.Info("deck created", "deck", d.ID, "admin", adminFrom(r).Email, "rounds", len(d.Rounds))
		writeJSON(w, http.StatusCreated, d)
	}
}

func handleAdminUpdateDeck(logger *slog.Logger, decks *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeckRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		d, err := decks.Update(r.Context(), chi.URLParam(r, "id"), req.deck())
		if err != nil {
			writeDeckError(w, logger, err)
			return
		}
		logger.Info("deck updated", "deck", d.ID, "admin", adminFrom(r).Email)
		writeJSON(w, http.StatusOK, d)
	}
}

func handleAdminDeleteDeck(logger *slog.Logger, decks *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == catalog.DefaultDeckID {
			writeError(w, http.StatusConflict, "the default deck cannot be deleted")
			return
		}
		if err := decks.Delete(r.Context(), id); err != nil {
			writeDeckError(w, logger, err)
			return
		}
		logger.Info("deck deleted", "deck", id, "admin", adminFrom(r).Email)
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeDeckError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var ve *catalog.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "deck not found")
	case errors.Is(err, catalog.ErrDuplicate):
		writeError(w, http.StatusConflict, "a deck with this name already exists")
	default:
		logger.Error("deck operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
