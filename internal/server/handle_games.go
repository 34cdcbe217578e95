package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ethnoguessr/api/internal/catalog"
	"github.com/ethnoguessr/api/internal/ethnoguessr"
	"github.com/ethnoguessr/api/internal/session"
)

type CreateGameRequest struct {
	DeckID string `json:"deckId"`
	Mode   string `json:"mode"`
	Seed   string `json:"seed"`
}

type SelectLocationRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type ImageFailureRequest struct {
	Round int `json:"round"`
}

func handleCreateGame(logger *slog.Logger, games *session.Manager, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := readJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		mode, err := ethnoguessr.ParseMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		create := session.CreateRequest{DeckID: req.DeckID, Mode: mode}
		if create.DeckID == "" {
			create.DeckID = catalog.DefaultDeckID
		}
		if req.Seed != "" {
			seed, err := strconv.ParseUint(req.Seed, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "seed must be an unsigned integer")
				return
			}
			create.Seed = &seed
		}

		s, err := games.Create(r.Context(), create)
		if err != nil {
			writeGameError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, newGameView(s, publicURL, true))
	}
}

func handleGetGame(logger *slog.Logger, games *session.Manager, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := games.Get(r.Context(), chi.URLParam(r, "gameID"))
		if err != nil {
			writeGameError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newGameView(s, publicURL, false))
	}
}

func handleSelectLocation(logger *slog.Logger, games *session.Manager, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectLocationRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Lat == nil || req.Lng == nil {
			writeError(w, http.StatusBadRequest, "lat and lng are required")
			return
		}
		c := ethnoguessr.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
		if !c.Valid() {
			writeError(w, http.StatusBadRequest, "coordinate out of range")
			return
		}

		s, applied, err := games.SelectLocation(r.Context(), chi.URLParam(r, "gameID"), c)
		respondGame(w, logger, publicURL, s, applied, err)
	}
}

func handleConfirmGuess(logger *slog.Logger, games *session.Manager, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, applied, err := games.ConfirmGuess(r.Context(), chi.URLParam(r, "gameID"))
		respondGame(w, logger, publicURL, s, applied, err)
	}
}

func handleAdvanceRound(logger *slog.Logger, games *session.Manager, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, applied, err := games.AdvanceRound(r.Context(), chi.URLParam(r, "gameID"))
		respondGame(w, logger, publicURL, s, applied, err)
	}
}

func handleImageFailure(logger *slog.Logger, games *session.Manager, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot, err := ethnoguessr.ParseImageSlot(chi.URLParam(r, "slot"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var req ImageFailureRequest
		if err := readJSON(r, &req); err != nil || req.Round < 1 {
			writeError(w, http.StatusBadRequest, "round is required")
			return
		}

		s, applied, err := games.ReportImageFailure(r.Context(), chi.URLParam(r, "gameID"), req.Round, slot)
		respondGame(w, logger, publicURL, s, applied, err)
	}
}

func handleRestart(logger *slog.Logger, games *session.Manager, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, applied, err := games.Restart(r.Context(), chi.URLParam(r, "gameID"))
		respondGame(w, logger, publicURL, s, applied, err)
	}
}

func handleDeleteGame(logger *slog.Logger, games *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := games.Delete(r.Context(), chi.URLParam(r, "gameID")); err != nil {
			writeGameError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// respondGame writes the view after an operation. Operations whose
// preconditions fail are not errors; the client gets the unchanged view.
func respondGame(w http.ResponseWriter, logger *slog.Logger, publicURL string, s *session.Session, applied bool, err error) {
	if err != nil {
		writeGameError(w, logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameView(s, publicURL, applied))
}

func writeGameError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "game not found")
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "deck not found")
	default:
		logger.Error("game operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
