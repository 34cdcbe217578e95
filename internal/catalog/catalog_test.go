package catalog_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ethnoguessr/api/internal/catalog"
	"github.com/ethnoguessr/api/internal/database"
	"github.com/ethnoguessr/api/internal/ethnoguessr"
	"github.com/ethnoguessr/api/internal/migrations"
)

func setupStore(t *testing.T) *catalog.Store {
	t.Helper()
	db, err := database.Open(context.Background(), database.Memory)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return catalog.NewStore(db)
}

func islandDeck() ethnoguessr.Deck {
	return ethnoguessr.Deck{
		Name: "Islands",
		Rounds: []ethnoguessr.RoundDefinition{{
			Name:        "Ainu",
			ImageMale:   "https://img.test/ainu-m.jpg",
			ImageFemale: "https://img.test/ainu-f.jpg",
			Location:    ethnoguessr.Coordinate{Lat: 43.06, Lng: 141.35},
		}},
	}
}

func TestSeedDefault(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	created, err := s.SeedDefault(ctx)
	if err != nil || !created {
		t.Fatalf("first seed: created=%v err=%v", created, err)
	}
	created, err = s.SeedDefault(ctx)
	if err != nil || created {
		t.Fatalf("second seed: created=%v err=%v", created, err)
	}

	d, err := s.Get(ctx, catalog.DefaultDeckID)
	if err != nil {
		t.Fatalf("get classic: %v", err)
	}
	if len(d.Rounds) != 5 || d.Rounds[0].Name != "Javanese" {
		t.Errorf("classic deck = %+v", d)
	}
	if d.Rounds[0].Location != (ethnoguessr.Coordinate{Lat: -7.1544, Lng: 110.1451}) {
		t.Errorf("javanese location = %v", d.Rounds[0].Location)
	}
}

func TestCreateGetListDelete(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	d, err := s.Create(ctx, islandDeck())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.ID == "" || d.CreatedAt.IsZero() {
		t.Errorf("created deck missing id or timestamp: %+v", d)
	}

	got, err := s.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Islands" || got.Rounds[0].Name != "Ainu" {
		t.Errorf("got = %+v", got)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].RoundCount != 1 {
		t.Errorf("list = %+v", list)
	}

	if err := s.Delete(ctx, d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, d.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("get after delete: %v", err)
	}
	if err := s.Delete(ctx, d.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

func TestCreateDuplicateName(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	if _, err := s.Create(ctx, islandDeck()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(ctx, islandDeck()); !errors.Is(err, catalog.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestUpdate(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	d, _ := s.Create(ctx, islandDeck())

	change := islandDeck()
	change.Name = "Northern islands"
	change.Rounds = append(change.Rounds, ethnoguessr.RoundDefinition{
		Name:        "Ryukyuan",
		ImageMale:   "https://img.test/r-m.jpg",
		ImageFemale: "https://img.test/r-f.jpg",
		Location:    ethnoguessr.Coordinate{Lat: 26.21, Lng: 127.68},
	})
	updated, err := s.Update(ctx, d.ID, change)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != d.ID || !updated.CreatedAt.Equal(d.CreatedAt) {
		t.Errorf("update changed identity: %+v", updated)
	}

	got, _ := s.Get(ctx, d.ID)
	if got.Name != "Northern islands" || len(got.Rounds) != 2 {
		t.Errorf("got = %+v", got)
	}

	if _, err := s.Update(ctx, "missing", change); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("update missing: %v", err)
	}
}

func TestValidate(t *testing.T) {
	s := setupStore(t)

	tests := []struct {
		name   string
		mutate func(*ethnoguessr.Deck)
		field  string
	}{
		{"missing name", func(d *ethnoguessr.Deck) { d.Name = "" }, "Name"},
		{"no rounds", func(d *ethnoguessr.Deck) { d.Rounds = nil }, "Rounds"},
		{"round without name", func(d *ethnoguessr.Deck) { d.Rounds[0].Name = "" }, "Rounds[0].Name"},
		{"bad image url", func(d *ethnoguessr.Deck) { d.Rounds[0].ImageMale = "not a url" }, "Rounds[0].ImageMale"},
		{"latitude out of range", func(d *ethnoguessr.Deck) { d.Rounds[0].Location.Lat = 91 }, "Rounds[0].Location.Lat"},
		{"longitude out of range", func(d *ethnoguessr.Deck) { d.Rounds[0].Location.Lng = -181 }, "Rounds[0].Location.Lng"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := islandDeck()
			tt.mutate(&d)
			err := s.Validate(d)
			var ve *catalog.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if !strings.Contains(ve.Error(), tt.field) {
				t.Errorf("error %q does not name %s", ve.Error(), tt.field)
			}
		})
	}

	if err := s.Validate(catalog.ClassicDeck()); err != nil {
		t.Errorf("classic deck invalid: %v", err)
	}
}
