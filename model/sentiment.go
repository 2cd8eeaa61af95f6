package model

// Polarity is the three way bucket derived from a compound score.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNeutral  Polarity = "neutral"
	PolarityNegative Polarity = "negative"
)

// Thresholds of the bucketing rule, inclusive on both sides.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// BucketCompound maps a compound score to its polarity: >= 0.05 positive,
// <= -0.05 negative, neutral in between.
func BucketCompound(compound float64) Polarity {
	if compound >= PositiveThreshold {
		return PolarityPositive
	}
	if compound <= NegativeThreshold {
		return PolarityNegative
	}
	return PolarityNeutral
}

// ParsePolarity returns the polarity named by s and whether it is one of the
// three buckets.
func ParsePolarity(s string) (Polarity, bool) {
	switch p := Polarity(s); p {
	case PolarityPositive, PolarityNeutral, PolarityNegative:
		return p, true
	}
	return "", false
}

// Sentiment is the sub-record attached to an analyzed post.
type Sentiment struct {
	Polarity      *Polarity `json:"polarity"`
	Compound      *float64  `json:"compound"`
	PositiveScore *float64  `json:"positive_score"`
	NeutralScore  *float64  `json:"neutral_score"`
	NegativeScore *float64  `json:"negative_score"`
}

// Scores is what the sentiment engine produces for one text.
type Scores struct {
	Compound float64
	Positive float64
	Neutral  float64
	Negative float64
}

// SentimentResult is the wire format exchanged between the sentiment service
// and the storage service's /store-sentiment endpoint.
type SentimentResult struct {
	PostId   string   `json:"post_id"`
	Polarity Polarity `json:"polarity"`
	Compound float64  `json:"compound"`
	Pos      float64  `json:"pos"`
	Neu      float64  `json:"neu"`
	Neg      float64  `json:"neg"`
}

// NewSentimentResult buckets scores for post id.
func NewSentimentResult(postId string, s Scores) SentimentResult {
	return SentimentResult{
		PostId:   postId,
		Polarity: BucketCompound(s.Compound),
		Compound: s.Compound,
		Pos:      s.Positive,
		Neu:      s.Neutral,
		Neg:      s.Negative,
	}
}
