package ethnoguessr_test

import (
	"testing"

	"github.com/ethnoguessr/api/internal/ethnoguessr"
)

func TestCoordinateValid(t *testing.T) {
	tests := []struct {
		name string
		c    ethnoguessr.Coordinate
		want bool
	}{
		{"origin", ethnoguessr.Coordinate{}, true},
		{"central java", ethnoguessr.Coordinate{Lat: -7.1544, Lng: 110.1451}, true},
		{"north pole", ethnoguessr.Coordinate{Lat: 90, Lng: 0}, true},
		{"antimeridian", ethnoguessr.Coordinate{Lat: 0, Lng: -180}, true},
		{"lat too high", ethnoguessr.Coordinate{Lat: 90.01, Lng: 0}, false},
		{"lng too low", ethnoguessr.Coordinate{Lat: 0, Lng: -180.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseImageSlot(t *testing.T) {
	for _, s := range []string{"male", "female"} {
		if _, err := ethnoguessr.ParseImageSlot(s); err != nil {
			t.Errorf("ParseImageSlot(%q): %v", s, err)
		}
	}
	if _, err := ethnoguessr.ParseImageSlot("child"); err == nil {
		t.Error("expected error for unknown slot")
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ethnoguessr.ParseMode(""); err != nil || m != ethnoguessr.ModeClassic {
		t.Errorf("ParseMode(\"\") = %q, %v; want classic", m, err)
	}
	if m, err := ethnoguessr.ParseMode("daily"); err != nil || m != ethnoguessr.ModeDaily {
		t.Errorf("ParseMode(daily) = %q, %v", m, err)
	}
	if _, err := ethnoguessr.ParseMode("speedrun"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
