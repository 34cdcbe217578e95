package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethnoguessr/api/internal/catalog"
	"github.com/ethnoguessr/api/internal/ethnoguessr"
)

func adminRouter(t *testing.T) (http.Handler, func() []*http.Cookie) {
	t.Helper()
	r, _ := testRouter(t)

	// Login helper that returns cookies.
	login := func() []*http.Cookie {
		body, _ := json.Marshal(AdminLoginRequest{Email: testAdminEmail, Password: testAdminPassword})
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
		}
		return w.Result().Cookies()
	}

	return r, login
}

func TestAdminLoginGoodCredentials(t *testing.T) {
	r, _ := adminRouter(t)

	body, _ := json.Marshal(AdminLoginRequest{Email: "  Admin@EthnoGuessr.test ", Password: testAdminPassword})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp AdminMeResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Email != testAdminEmail {
		t.Errorf("expected email %s, got %q", testAdminEmail, resp.Email)
	}

	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == adminCookieName && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("expected admin_session cookie to be set")
	}
}

func TestAdminLoginRejected(t *testing.T) {
	r, _ := adminRouter(t)

	tests := []struct {
		name string
		req  AdminLoginRequest
		want int
	}{
		{"wrong password", AdminLoginRequest{Email: testAdminEmail, Password: "wrong"}, http.StatusUnauthorized},
		{"unknown email", AdminLoginRequest{Email: "nobody@example.com", Password: testAdminPassword}, http.StatusUnauthorized},
		{"missing password", AdminLoginRequest{Email: testAdminEmail}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.req)
			req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestAdminMeAndLogout(t *testing.T) {
	r, login := adminRouter(t)
	cookies := login()

	me := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := me(); code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}

	if code := me(); code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", code)
	}
}

func TestAdminDecksRequireSession(t *testing.T) {
	r, _ := adminRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/decks", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAdminDeckCRUD(t *testing.T) {
	r, login := adminRouter(t)
	cookies := login()

	send := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			json.NewEncoder(&buf).Encode(body)
		}
		req := httptest.NewRequest(method, path, &buf)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	deck := DeckRequest{
		Name:        "Andes",
		Description: "Highland peoples",
		Rounds: []ethnoguessr.RoundDefinition{{
			Name:        "Quechua",
			ImageMale:   "https://img.test/quechua-m.jpg",
			ImageFemale: "https://img.test/quechua-f.jpg",
			Location:    ethnoguessr.Coordinate{Lat: -13.53, Lng: -71.97},
		}},
	}

	// Create.
	w := send(http.MethodPost, "/api/admin/decks", deck)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created ethnoguessr.Deck
	json.NewDecoder(w.Body).Decode(&created)
	if created.ID == "" || created.Name != "Andes" || len(created.Rounds) != 1 {
		t.Fatalf("create: got %+v", created)
	}

	// Duplicate name.
	w = send(http.MethodPost, "/api/admin/decks", deck)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate: expected 409, got %d", w.Code)
	}

	// Invalid rounds.
	bad := deck
	bad.Name = "Broken"
	bad.Rounds = []ethnoguessr.RoundDefinition{{Name: "", ImageMale: "not a url", Location: ethnoguessr.Coordinate{Lat: 95}}}
	w = send(http.MethodPost, "/api/admin/decks", bad)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid: expected 400, got %d: %s", w.Code, w.Body.String())
	}

	// List includes both decks, public list too.
	w = send(http.MethodGet, "/api/admin/decks", nil)
	var list []catalog.DeckSummary
	json.NewDecoder(w.Body).Decode(&list)
	if len(list) != 2 {
		t.Errorf("list: expected 2 decks, got %d", len(list))
	}
	w = send(http.MethodGet, "/api/decks", nil)
	if w.Code != http.StatusOK {
		t.Errorf("public list: expected 200, got %d", w.Code)
	}

	// Update.
	deck.Name = "Andes and Altiplano"
	w = send(http.MethodPut, "/api/admin/decks/"+created.ID, deck)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = send(http.MethodGet, "/api/admin/decks/"+created.ID, nil)
	var got ethnoguessr.Deck
	json.NewDecoder(w.Body).Decode(&got)
	if got.Name != "Andes and Altiplano" || !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("get after update: %+v", got)
	}

	// A game can be dealt from the new deck.
	w = send(http.MethodPost, "/api/games", CreateGameRequest{DeckID: created.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("create game: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if v := decodeView(t, w); v.Group.Name != "Quechua" || v.TotalRounds != 1 {
		t.Errorf("game from new deck: %+v", v)
	}

	// The default deck is protected.
	w = send(http.MethodDelete, "/api/admin/decks/"+catalog.DefaultDeckID, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("delete classic: expected 409, got %d", w.Code)
	}

	// Delete.
	w = send(http.MethodDelete, "/api/admin/decks/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	w = send(http.MethodGet, "/api/admin/decks/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", w.Code)
	}
}
