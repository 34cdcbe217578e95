package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"github.com/ethnoguessr/api/internal/session"
)

const qrSizePx = 256

// handleChallengeQR serves a PNG QR code of the link that deals the same
// game to someone else.
func handleChallengeQR(logger *slog.Logger, games *session.Manager, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := games.Get(r.Context(), chi.URLParam(r, "gameID"))
		if err != nil {
			writeGameError(w, logger, err)
			return
		}

		png, err := qrcode.Encode(challengeURL(publicURL, s), qrcode.Medium, qrSizePx)
		if err != nil {
			logger.Error("encoding challenge qr", "session", s.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "private, max-age=300")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}
