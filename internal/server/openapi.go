package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/ethnoguessr/api/internal/catalog"
	"github.com/ethnoguessr/api/internal/ethnoguessr"
	"github.com/ethnoguessr/api/internal/handler/health"
	"github.com/ethnoguessr/api/internal/mapview"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type gamePath struct {
	GameID string `path:"gameID"`
}

type imageSlotPath struct {
	GameID string                `path:"gameID"`
	Slot   ethnoguessr.ImageSlot `path:"slot" enum:"male,female"`
}

type deckPath struct {
	ID string `path:"id"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "EthnoGuessr API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the EthnoGuessr geography game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/decks
	listDecks, _ := r.NewOperationContext(http.MethodGet, "/api/decks")
	listDecks.SetSummary("List decks")
	listDecks.SetDescription("Returns the decks a game can be dealt from.")
	listDecks.AddRespStructure([]catalog.DeckSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listDecks)

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Start a game")
	createGame.SetDescription("Deals a new play-through. Deck defaults to classic, mode to classic order.")
	createGame.AddReqStructure(CreateGameRequest{})
	createGame.AddRespStructure(GameView{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(createGame)

	// GET /api/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}")
	getGame.SetSummary("Get game")
	getGame.SetDescription("Returns the current view of a play-through.")
	getGame.AddReqStructure(gamePath{})
	getGame.AddRespStructure(GameView{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// DELETE /api/games/{gameID}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/games/{gameID}")
	deleteGame.SetSummary("Discard game")
	deleteGame.SetDescription("Discards a play-through and closes its event streams.")
	deleteGame.AddReqStructure(gamePath{})
	deleteGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteGame)

	// POST /api/games/{gameID}/select
	selectLoc, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/select")
	selectLoc.SetSummary("Select location")
	selectLoc.SetDescription("Places or moves the pending guess. Ignored while a result is shown (applied=false).")
	selectLoc.AddReqStructure(gamePath{})
	selectLoc.AddReqStructure(SelectLocationRequest{})
	selectLoc.AddRespStructure(GameView{}, openapi.WithHTTPStatus(http.StatusOK))
	selectLoc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	selectLoc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(selectLoc)

	// POST /api/games/{gameID}/confirm
	confirm, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/confirm")
	confirm.SetSummary("Confirm guess")
	confirm.SetDescription("Scores the pending guess against the round's location.")
	confirm.AddReqStructure(gamePath{})
	confirm.AddRespStructure(GameView{}, openapi.WithHTTPStatus(http.StatusOK))
	confirm.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(confirm)

	// POST /api/games/{gameID}/next
	next, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/next")
	next.SetSummary("Advance round")
	next.SetDescription("Leaves the result view. Ends the game after the last round.")
	next.AddReqStructure(gamePath{})
	next.AddRespStructure(GameView{}, openapi.WithHTTPStatus(http.StatusOK))
	next.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(next)

	// POST /api/games/{gameID}/images/{slot}/failed
	imageFailed, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/images/{slot}/failed")
	imageFailed.SetSummary("Report image failure")
	imageFailed.SetDescription("Marks an image slot of the given round as failed. Stale rounds are ignored.")
	imageFailed.AddReqStructure(imageSlotPath{})
	imageFailed.AddReqStructure(ImageFailureRequest{})
	imageFailed.AddRespStructure(GameView{}, openapi.WithHTTPStatus(http.StatusOK))
	imageFailed.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	imageFailed.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(imageFailed)

	// POST /api/games/{gameID}/restart
	restart, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/restart")
	restart.SetSummary("Restart game")
	restart.SetDescription("Resets the play-through to round 1 with the same round order.")
	restart.AddReqStructure(gamePath{})
	restart.AddRespStructure(GameView{}, openapi.WithHTTPStatus(http.StatusOK))
	restart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(restart)

	// GET /api/games/{gameID}/events
	events, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/events")
	events.SetSummary("SSE event stream")
	events.SetDescription("Server-Sent Events stream of state changes for the play-through.")
	events.AddReqStructure(gamePath{})
	events.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(events)

	// GET /api/games/{gameID}/map
	mapSnap, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/map")
	mapSnap.SetSummary("Map snapshot")
	mapSnap.SetDescription("Returns the decorations the map shows for the current state.")
	mapSnap.AddReqStructure(gamePath{})
	mapSnap.AddRespStructure(mapview.SceneSnapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	mapSnap.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(mapSnap)

	// GET /api/games/{gameID}/map/ws
	mapWS, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/map/ws")
	mapWS.SetSummary("Map surface")
	mapWS.SetDescription("Upgrades to a WebSocket. Send {\"type\":\"click\",\"lat\":..,\"lng\":..}; receive batches of map commands.")
	mapWS.AddReqStructure(gamePath{})
	mapWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(mapWS)

	// GET /api/games/{gameID}/challenge.png
	qr, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/challenge.png")
	qr.SetSummary("Challenge QR code")
	qr.SetDescription("PNG QR code encoding the link that replays this game's round order.")
	qr.AddReqStructure(gamePath{})
	qr.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("image/png"))
	qr.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(qr)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with email and password. Sets admin_session cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Clears admin session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getMe.SetSummary("Current admin")
	getMe.SetDescription("Returns the currently authenticated admin. Requires admin_session cookie.")
	getMe.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/admin/decks
	adminList, _ := r.NewOperationContext(http.MethodGet, "/api/admin/decks")
	adminList.SetSummary("List decks (admin)")
	adminList.SetDescription("Returns all decks with round counts. Requires admin_session cookie.")
	adminList.AddRespStructure([]catalog.DeckSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	adminList.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminList)

	// POST /api/admin/decks
	createDeck, _ := r.NewOperationContext(http.MethodPost, "/api/admin/decks")
	createDeck.SetSummary("Create deck")
	createDeck.SetDescription("Creates a deck of rounds. Requires admin_session cookie.")
	createDeck.AddReqStructure(DeckRequest{})
	createDeck.AddRespStructure(ethnoguessr.Deck{}, openapi.WithHTTPStatus(http.StatusCreated))
	createDeck.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createDeck.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	createDeck.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(createDeck)

	// GET /api/admin/decks/{id}
	getDeck, _ := r.NewOperationContext(http.MethodGet, "/api/admin/decks/{id}")
	getDeck.SetSummary("Get deck")
	getDeck.SetDescription("Returns a deck with all rounds. Requires admin_session cookie.")
	getDeck.AddReqStructure(deckPath{})
	getDeck.AddRespStructure(ethnoguessr.Deck{}, openapi.WithHTTPStatus(http.StatusOK))
	getDeck.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getDeck.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getDeck)

	// PUT /api/admin/decks/{id}
	updateDeck, _ := r.NewOperationContext(http.MethodPut, "/api/admin/decks/{id}")
	updateDeck.SetSummary("Update deck")
	updateDeck.SetDescription("Replaces a deck's name, description and rounds. Running games keep their rounds. Requires admin_session cookie.")
	updateDeck.AddReqStructure(deckPath{})
	updateDeck.AddReqStructure(DeckRequest{})
	updateDeck.AddRespStructure(ethnoguessr.Deck{}, openapi.WithHTTPStatus(http.StatusOK))
	updateDeck.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	updateDeck.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	updateDeck.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(updateDeck)

	// DELETE /api/admin/decks/{id}
	deleteDeck, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/decks/{id}")
	deleteDeck.SetSummary("Delete deck")
	deleteDeck.SetDescription("Deletes a deck. The classic deck cannot be deleted. Requires admin_session cookie.")
	deleteDeck.AddReqStructure(deckPath{})
	deleteDeck.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteDeck.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	deleteDeck.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteDeck.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteDeck)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
