package sentiment

import (
	"context"
	"encoding/json"
	"math"
	"strconv"

	"github.com/Luismorlan/redditmux/model"
	"github.com/Luismorlan/redditmux/normalizer"
	"github.com/Luismorlan/redditmux/utils"
	. "github.com/Luismorlan/redditmux/utils/log"
)

// SentimentUpdater writes the sentiment columns of an existing post.
type SentimentUpdater interface {
	UpdateSentiment(ctx context.Context, externalID string, s model.Sentiment) (bool, error)
}

// Writer enriches stored posts with sentiment results. It never creates
// posts.
type Writer struct {
	store SentimentUpdater
}

func NewWriter(store SentimentUpdater) *Writer {
	return &Writer{store: store}
}

// Alternative keys accepted for each field, first match wins.
var (
	idKeys       = []string{"post_id", "external_id"}
	positiveKeys = []string{"pos", "positive_score"}
	neutralKeys  = []string{"neu", "neutral_score"}
	negativeKeys = []string{"neg", "negative_score"}
)

// ApplySentiment writes every usable result and returns how many existing
// posts were updated. results must be a sequence: a []model.SentimentResult,
// a decoded JSON array ([]interface{}) or a sequence *normalizer.Node.
// Anything else fails with ErrInvalidInput before the store is touched.
//
// Items are skipped when they have no id, have neither polarity nor compound,
// or carry out of range scores. A missing or unknown polarity is derived from
// compound.
func (w *Writer) ApplySentiment(ctx context.Context, results interface{}) (int, error) {
	items, err := resultItems(results)
	if err != nil {
		return 0, err
	}

	updated := 0
	for i, item := range items {
		id, s, ok := parseResult(item)
		if !ok {
			Log.Debugf("skip sentiment result #%d: %v", i, item)
			continue
		}
		found, err := w.store.UpdateSentiment(ctx, id, s)
		if err != nil {
			utils.Metrics().Count(utils.MetricSentimentUpdated, int64(updated), nil, 1)
			return updated, err
		}
		if found {
			updated++
		}
	}
	utils.Metrics().Count(utils.MetricSentimentUpdated, int64(updated), nil, 1)
	return updated, nil
}

func resultItems(results interface{}) ([]interface{}, error) {
	switch r := results.(type) {
	case []interface{}:
		return r, nil
	case []model.SentimentResult:
		items := make([]interface{}, 0, len(r))
		for _, res := range r {
			items = append(items, map[string]interface{}{
				"post_id":  res.PostId,
				"polarity": string(res.Polarity),
				"compound": res.Compound,
				"pos":      res.Pos,
				"neu":      res.Neu,
				"neg":      res.Neg,
			})
		}
		return items, nil
	case []map[string]interface{}:
		items := make([]interface{}, 0, len(r))
		for _, m := range r {
			items = append(items, m)
		}
		return items, nil
	case *normalizer.Node:
		if r.IsSequence() {
			return r.Interface().([]interface{}), nil
		}
	}
	return nil, utils.InvalidInputf("results must be a list, got %T", results)
}

func parseResult(item interface{}) (string, model.Sentiment, bool) {
	var s model.Sentiment
	m, ok := item.(map[string]interface{})
	if !ok {
		return "", s, false
	}

	id, ok := firstID(m)
	if !ok {
		return "", s, false
	}

	if v, present := first(m, []string{"compound"}); present {
		c, ok := toFloat(v)
		if !ok || c < -1 || c > 1 {
			return "", s, false
		}
		s.Compound = &c
	}
	if raw, ok := m["polarity"].(string); ok {
		if p, ok := model.ParsePolarity(raw); ok {
			s.Polarity = &p
		}
	}
	if s.Polarity == nil {
		if s.Compound == nil {
			return "", s, false
		}
		p := model.BucketCompound(*s.Compound)
		s.Polarity = &p
	}

	for _, f := range []struct {
		keys []string
		dst  **float64
	}{
		{positiveKeys, &s.PositiveScore},
		{neutralKeys, &s.NeutralScore},
		{negativeKeys, &s.NegativeScore},
	} {
		v, present := first(m, f.keys)
		if !present {
			continue
		}
		score, ok := toFloat(v)
		if !ok || score < 0 || score > 1 {
			return "", s, false
		}
		*f.dst = &score
	}
	return id, s, true
}

// first returns the first non-null value among keys.
func first(m map[string]interface{}, keys []string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func firstID(m map[string]interface{}) (string, bool) {
	for _, k := range idKeys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v, true
			}
		case json.Number:
			return v.String(), true
		}
	}
	return "", false
}

func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
