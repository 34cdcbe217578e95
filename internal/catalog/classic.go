package catalog

import "github.com/ethnoguessr/api/internal/ethnoguessr"

// ClassicDeck is the built-in deck of Southeast Asian groups.
func ClassicDeck() ethnoguessr.Deck {
	return ethnoguessr.Deck{
		ID:          DefaultDeckID,
		Name:        "Classic",
		Description: "Five ethnic groups of maritime Southeast Asia.",
		Rounds: []ethnoguessr.RoundDefinition{
			{
				Name:        "Javanese",
				ImageMale:   "https://picsum.photos/400/400?random=1",
				ImageFemale: "https://picsum.photos/400/400?random=2",
				Location:    ethnoguessr.Coordinate{Lat: -7.1544, Lng: 110.1451}, // Central Java
			},
			{
				Name:        "Balinese",
				ImageMale:   "https://picsum.photos/400/400?random=3",
				ImageFemale: "https://picsum.photos/400/400?random=4",
				Location:    ethnoguessr.Coordinate{Lat: -8.3405, Lng: 115.0920},
			},
			{
				Name:        "Filipino",
				ImageMale:   "https://picsum.photos/400/400?random=5",
				ImageFemale: "https://picsum.photos/400/400?random=6",
				Location:    ethnoguessr.Coordinate{Lat: 12.8797, Lng: 121.7740},
			},
			{
				Name:        "Dayak",
				ImageMale:   "https://picsum.photos/400/400?random=7",
				ImageFemale: "https://picsum.photos/400/400?random=8",
				Location:    ethnoguessr.Coordinate{Lat: 0.9619, Lng: 114.5548}, // Kalimantan
			},
			{
				Name:        "Minangkabau",
				ImageMale:   "https://picsum.photos/400/400?random=9",
				ImageFemale: "https://picsum.photos/400/400?random=10",
				Location:    ethnoguessr.Coordinate{Lat: -0.7893, Lng: 100.9975}, // West Sumatra
			},
		},
	}
}
