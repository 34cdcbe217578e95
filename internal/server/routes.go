package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/ethnoguessr/api/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	games := deps.Games

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("EthnoGuessr API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())

	r.Get("/api/decks", handleListDecks(logger, deps.Decks))

	// Player routes.
	r.Route("/api/games", func(r chi.Router) {
		r.Post("/", handleCreateGame(logger, games, deps.PublicURL))
		r.Route("/{gameID}", func(r chi.Router) {
			r.Get("/", handleGetGame(logger, games, deps.PublicURL))
			r.Delete("/", handleDeleteGame(logger, games))
			r.Post("/select", handleSelectLocation(logger, games, deps.PublicURL))
			r.Post("/confirm", handleConfirmGuess(logger, games, deps.PublicURL))
			r.Post("/next", handleAdvanceRound(logger, games, deps.PublicURL))
			r.Post("/images/{slot}/failed", handleImageFailure(logger, games, deps.PublicURL))
			r.Post("/restart", handleRestart(logger, games, deps.PublicURL))
			r.Get("/events", handleEvents(logger, games))
			r.Get("/map", handleMapSnapshot(logger, games))
			r.Get("/map/ws", handleMapSocket(logger, games))
			r.Get("/challenge.png", handleChallengeQR(logger, games, deps.PublicURL))
		})
	})

	// Admin auth.
	r.Post("/api/admin/login", handleAdminLogin(logger, deps.Admin))
	r.Post("/api/admin/logout", handleAdminLogout(deps.Admin))
	r.Get("/api/admin/me", handleAdminMe(deps.Admin))

	r.Route("/api/admin/decks", func(r chi.Router) {
		r.Use(adminAuthMiddleware(deps.Admin))
		r.Get("/", handleListDecks(logger, deps.Decks))
		r.Post("/", handleAdminCreateDeck(logger, deps.Decks))
		r.Get("/{id}", handleAdminGetDeck(logger, deps.Decks))
		r.Put("/{id}", handleAdminUpdateDeck(logger, deps.Decks))
		r.Delete("/{id}", handleAdminDeleteDeck(logger, deps.Decks))
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
