package model

// PolarityCounts counts posts per polarity bucket.
type PolarityCounts struct {
	Positive int64 `json:"positive"`
	Neutral  int64 `json:"neutral"`
	Negative int64 `json:"negative"`
}

// Add increments the bucket named by p by n, unknown polarities are ignored.
func (c *PolarityCounts) Add(p Polarity, n int64) {
	switch p {
	case PolarityPositive:
		c.Positive += n
	case PolarityNeutral:
		c.Neutral += n
	case PolarityNegative:
		c.Negative += n
	}
}

// Summary is the read-side report over the posts matching a filter.
//
// Total: posts matching the filter
// Analyzed: posts with a non-null compound
// Pending: posts with a null polarity
// AverageCompound: mean compound over analyzed posts, null when there are none
type Summary struct {
	Total           int64          `json:"total"`
	Analyzed        int64          `json:"analyzed"`
	Pending         int64          `json:"pending"`
	ByPolarity      PolarityCounts `json:"by_polarity"`
	AverageCompound *float64       `json:"average_compound"`
}
