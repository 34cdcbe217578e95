// Package ethnoguessr defines the core domain types shared by the game,
// the map surface and the deck catalog. It has no external dependencies.
package ethnoguessr

import (
	"fmt"
	"time"
)

// Coordinate is a geographic point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// Valid reports whether c lies within latitude/longitude range.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// RoundDefinition is one ethnic group to be guessed. Immutable once a game
// has started.
type RoundDefinition struct {
	Name        string     `json:"name" validate:"required"`
	ImageMale   string     `json:"imageMale" validate:"required,url"`
	ImageFemale string     `json:"imageFemale" validate:"required,url"`
	Location    Coordinate `json:"location"`
}

// Image returns the image reference for slot.
func (r RoundDefinition) Image(slot ImageSlot) string {
	if slot == ImageFemale {
		return r.ImageFemale
	}
	return r.ImageMale
}

type ImageSlot string

const (
	ImageMale   ImageSlot = "male"
	ImageFemale ImageSlot = "female"
)

// ImageSlots lists the slots in display order.
var ImageSlots = []ImageSlot{ImageMale, ImageFemale}

func ParseImageSlot(s string) (ImageSlot, error) {
	switch ImageSlot(s) {
	case ImageMale, ImageFemale:
		return ImageSlot(s), nil
	}
	return "", fmt.Errorf("unknown image slot %q", s)
}

type Deck struct {
	ID          string            `json:"id"`
	Name        string            `json:"name" validate:"required,max=120"`
	Description string            `json:"description" validate:"max=2000"`
	Rounds      []RoundDefinition `json:"rounds" validate:"required,min=1,dive"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Mode decides how a deck's rounds are ordered for one play-through.
type Mode string

const (
	ModeClassic   Mode = "classic"
	ModeDaily     Mode = "daily"
	ModeChallenge Mode = "challenge"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeClassic, nil
	case ModeClassic, ModeDaily, ModeChallenge:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}
