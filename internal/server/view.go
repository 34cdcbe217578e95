package server

import (
	"math"
	"net/url"
	"strconv"

	"github.com/ethnoguessr/api/internal/ethnoguessr"
	"github.com/ethnoguessr/api/internal/mapview"
	"github.com/ethnoguessr/api/internal/session"
)

const (
	roundPrompt      = "Where does this ethnic group originate from?"
	imagePlaceholder = "Image Error"
	labelNextRound   = "Next Round"
	labelFinalScore  = "See Final Score"
)

type ImageView struct {
	Slot        ethnoguessr.ImageSlot `json:"slot"`
	URL         string                `json:"url"`
	Alt         string                `json:"alt"`
	Failed      bool                  `json:"failed"`
	Placeholder string                `json:"placeholder,omitempty"`
}

type RoundView struct {
	Name   string      `json:"name"`
	Prompt string      `json:"prompt"`
	Images []ImageView `json:"images"`
}

type ResultView struct {
	DistanceKm    int                    `json:"distanceKm"`
	Score         int                    `json:"score"`
	RawDistanceKm float64                `json:"rawDistanceKm"`
	RawScore      float64                `json:"rawScore"`
	Actual        ethnoguessr.Coordinate `json:"actual"`
	NextLabel     string                 `json:"nextLabel"`
}

// GameView is everything a client needs to draw one play-through.
type GameView struct {
	ID           string                  `json:"id"`
	DeckID       string                  `json:"deckId"`
	Mode         ethnoguessr.Mode        `json:"mode"`
	Seed         string                  `json:"seed"`
	Round        int                     `json:"round"`
	TotalRounds  int                     `json:"totalRounds"`
	Group        *RoundView              `json:"group"`
	Score        float64                 `json:"score"`
	TotalScore   int                     `json:"totalScore"`
	Pending      *ethnoguessr.Coordinate `json:"pending"`
	CanConfirm   bool                    `json:"canConfirm"`
	Result       *ResultView             `json:"result"`
	GameOver     bool                    `json:"gameOver"`
	FinalScore   *int                    `json:"finalScore,omitempty"`
	Map          mapview.Props           `json:"map"`
	ChallengeURL string                  `json:"challengeUrl"`
	Applied      bool                    `json:"applied"`
}

func newGameView(s *session.Session, publicURL string, applied bool) GameView {
	g := s.Controller()
	st := g.State()

	v := GameView{
		ID:           s.ID,
		DeckID:       s.DeckID,
		Mode:         s.Mode,
		Seed:         strconv.FormatUint(s.Seed, 10),
		Round:        st.Round,
		TotalRounds:  g.TotalRounds(),
		Score:        st.Score,
		TotalScore:   int(math.Round(st.Score)),
		Pending:      st.Pending,
		CanConfirm:   st.Pending != nil && !st.ShowingResult() && !st.GameOver,
		GameOver:     st.GameOver,
		Map:          g.Props(),
		ChallengeURL: challengeURL(publicURL, s),
		Applied:      applied,
	}

	if st.GameOver {
		final := v.TotalScore
		v.FinalScore = &final
		return v
	}

	round, ok := g.Current()
	if !ok {
		return v
	}
	rv := &RoundView{Name: round.Name, Prompt: roundPrompt}
	for _, slot := range ethnoguessr.ImageSlots {
		img := ImageView{
			Slot:   slot,
			URL:    round.Image(slot),
			Alt:    round.Name + " " + imageAlt(slot),
			Failed: st.ImageFailed[slot],
		}
		if img.Failed {
			img.Placeholder = imagePlaceholder
		}
		rv.Images = append(rv.Images, img)
	}
	v.Group = rv

	if res := st.Result; res != nil {
		next := labelNextRound
		if st.Round >= g.TotalRounds() {
			next = labelFinalScore
		}
		v.Result = &ResultView{
			DistanceKm:    int(math.Round(res.DistanceKm)),
			Score:         int(math.Round(res.Score)),
			RawDistanceKm: res.DistanceKm,
			RawScore:      res.Score,
			Actual:        round.Location,
			NextLabel:     next,
		}
	}
	return v
}

func imageAlt(slot ethnoguessr.ImageSlot) string {
	if slot == ethnoguessr.ImageFemale {
		return "Female"
	}
	return "Male"
}

// challengeURL links to a new game dealt in the same order as s.
func challengeURL(publicURL string, s *session.Session) string {
	q := url.Values{}
	q.Set("deck", s.DeckID)
	q.Set("mode", string(s.Mode))
	if s.Mode == ethnoguessr.ModeChallenge {
		q.Set("seed", strconv.FormatUint(s.Seed, 10))
	}
	return publicURL + "/?" + q.Encode()
}
