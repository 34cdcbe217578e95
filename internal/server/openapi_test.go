package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleOpenAPI(t *testing.T) {
	h := handleOpenAPI()
	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	rec := httptest.NewRecorder()

	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "application/json") {
		t.Fatalf("content-type = %q, want application/json", got)
	}

	var doc struct {
		OpenAPI string                     `json:"openapi"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decoding spec: %v", err)
	}
	if doc.OpenAPI == "" {
		t.Error("missing openapi version")
	}

	for _, path := range []string{
		"/healthz",
		"/api/decks",
		"/api/games",
		"/api/games/{gameID}",
		"/api/games/{gameID}/select",
		"/api/games/{gameID}/confirm",
		"/api/games/{gameID}/next",
		"/api/games/{gameID}/images/{slot}/failed",
		"/api/games/{gameID}/map",
		"/api/admin/login",
		"/api/admin/decks/{id}",
	} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("spec missing path %s", path)
		}
	}
}
