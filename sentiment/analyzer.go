package sentiment

import (
	"math"
	"strings"

	"github.com/Luismorlan/redditmux/model"
	"github.com/jonreiter/govader"
)

// Analyzer scores one piece of text.
type Analyzer interface {
	Score(text string) model.Scores
}

// VaderAnalyzer scores text with the VADER lexicon and rules. Scores are
// rounded the way nltk reports them: compound to 4 places, the rest to 3.
type VaderAnalyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

func NewVaderAnalyzer() *VaderAnalyzer {
	return &VaderAnalyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns all zeros for blank text.
func (a *VaderAnalyzer) Score(text string) model.Scores {
	if strings.TrimSpace(text) == "" {
		return model.Scores{}
	}
	s := a.sia.PolarityScores(text)
	return model.Scores{
		Compound: round4(s.Compound),
		Positive: round3(s.Positive),
		Neutral:  round3(s.Neutral),
		Negative: round3(s.Negative),
	}
}

func round3(f float64) float64 { return math.Round(f*1000) / 1000 }
func round4(f float64) float64 { return math.Round(f*10000) / 10000 }
