package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
	"nhooyr.io/websocket"

	"github.com/ethnoguessr/api/internal/ethnoguessr"
	"github.com/ethnoguessr/api/internal/mapview"
	"github.com/ethnoguessr/api/internal/session"
)

const mapSocketLifetime = 2 * time.Hour

var errGameGone = errors.New("game deleted")

// MapClientMessage is sent by the browser map widget.
type MapClientMessage struct {
	Type string  `json:"type"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// MapServerMessage carries a batch of surface commands to replay.
type MapServerMessage struct {
	Type     string            `json:"type"`
	Commands []mapview.Command `json:"commands,omitempty"`
}

// handleMapSnapshot renders the current decorations without a live surface.
func handleMapSnapshot(logger *slog.Logger, games *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := games.Get(r.Context(), chi.URLParam(r, "gameID"))
		if err != nil {
			writeGameError(w, logger, err)
			return
		}
		scene := mapview.NewScene()
		mapview.New(scene, nil).Update(s.Controller().Props())
		writeJSON(w, http.StatusOK, scene.Snapshot())
	}
}

// handleMapSocket mounts one map surface per connection. Clicks from the
// browser become LocationSelected events; every state change of the game is
// re-rendered and streamed back as commands. The surface is disposed when
// the connection ends.
func handleMapSocket(logger *slog.Logger, games *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "gameID")
		if _, err := games.Get(r.Context(), id); err != nil {
			writeGameError(w, logger, err)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), mapSocketLifetime)
		defer cancel()

		events := games.Broker().Subscribe(id)
		defer games.Broker().Unsubscribe(id, events)

		clicks := make(chan ethnoguessr.Coordinate)
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			for {
				_, data, err := conn.Read(gctx)
				if err != nil {
					return err
				}
				var msg MapClientMessage
				if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "click" {
					logger.Debug("ignoring map message", "session", id, "data", string(data))
					continue
				}
				select {
				case clicks <- ethnoguessr.Coordinate{Lat: msg.Lat, Lng: msg.Lng}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		})

		g.Go(func() error {
			stream := mapview.NewStream()
			flush := func(ctx context.Context) error {
				cmds := stream.Drain()
				if len(cmds) == 0 {
					return nil
				}
				data, err := json.Marshal(MapServerMessage{Type: "commands", Commands: cmds})
				if err != nil {
					return err
				}
				return conn.Write(ctx, websocket.MessageText, data)
			}

			imap := mapview.New(stream, func(ev mapview.LocationSelected) {
				if _, _, err := games.SelectLocation(gctx, id, ev.Coordinate); err != nil {
					logger.Warn("map selection failed", "session", id, "error", err)
				}
			})
			defer func() {
				imap.Dispose()
				wctx, wcancel := context.WithTimeout(context.Background(), time.Second)
				defer wcancel()
				_ = flush(wctx)
			}()

			render := func() error {
				s, err := games.Get(gctx, id)
				if errors.Is(err, session.ErrNotFound) {
					return errGameGone
				}
				if err != nil {
					return err
				}
				imap.Update(s.Controller().Props())
				return flush(gctx)
			}
			if err := render(); err != nil {
				return err
			}

			for {
				select {
				case <-gctx.Done():
					return nil
				case c := <-clicks:
					imap.Click(c)
				case data := <-events:
					var ev session.Event
					if json.Unmarshal(data, &ev) == nil && ev.Type == session.EventDeleted {
						return errGameGone
					}
					if err := render(); err != nil {
						return err
					}
				}
			}
		})

		err = g.Wait()
		switch {
		case errors.Is(err, errGameGone):
			conn.Close(websocket.StatusNormalClosure, "game deleted")
		case err == nil, errors.Is(err, context.Canceled),
			websocket.CloseStatus(err) == websocket.StatusNormalClosure,
			websocket.CloseStatus(err) == websocket.StatusGoingAway:
			conn.Close(websocket.StatusNormalClosure, "")
		default:
			logger.Debug("map socket ended", "session", id, "error", err)
		}
	}
}
