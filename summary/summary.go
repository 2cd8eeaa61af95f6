package summary

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Luismorlan/redditmux/model"
	"github.com/Luismorlan/redditmux/store"
	"gonum.org/v1/gonum/stat"
)

// Aggregator is the read side of the post store a summary is built from.
type Aggregator interface {
	Aggregate(ctx context.Context, f store.Filter) (store.Aggregate, error)
}

// Summarizer reports counts and the mean compound score over stored posts.
type Summarizer struct {
	store Aggregator
	now   func() time.Time
}

func NewSummarizer(store Aggregator) *Summarizer {
	return &Summarizer{store: store, now: time.Now}
}

// Summarize aggregates the posts of category (all posts when empty) created
// within the last lookbackHours. lookbackHours comes straight from the query
// string: an empty, non-numeric or non-positive value means no time filter.
func (s *Summarizer) Summarize(ctx context.Context, category string, lookbackHours string) (*model.Summary, error) {
	f := store.Filter{Category: strings.TrimSpace(category)}
	if hours, ok := parseLookback(lookbackHours); ok {
		since := s.now().Add(-time.Duration(hours * float64(time.Hour)))
		f.Since = &since
	}

	agg, err := s.store.Aggregate(ctx, f)
	if err != nil {
		return nil, err
	}

	res := &model.Summary{
		Total:      agg.Total,
		Analyzed:   int64(len(agg.Compounds)),
		Pending:    agg.Pending,
		ByPolarity: agg.ByPolarity,
	}
	if len(agg.Compounds) > 0 {
		mean := stat.Mean(agg.Compounds, nil)
		res.AverageCompound = &mean
	}
	return res, nil
}

// Lookbacks longer than this are treated as no filter.
const maxLookbackHours = 24 * 365 * 100

func parseLookback(raw string) (float64, bool) {
	hours, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(hours) || hours <= 0 || hours > maxLookbackHours {
		return 0, false
	}
	return hours, true
}
