package store

import (
	"math"
	"time"

	"github.com/Luismorlan/redditmux/model"
	"github.com/Luismorlan/redditmux/normalizer"
)

// PostFromRecord maps a normalized upstream record to a Post. The second
// return is false when the record has neither an id nor a name.
//
// Upstream field -> Post field:
//
//	id | name            -> ExternalId
//	title, author, url   -> Title, Author, Url
//	subreddit            -> Category
//	score                -> Score
//	num_comments         -> CommentCount
//	created_utc | created -> CreatedUTC (epoch seconds)
//	is_video             -> IsMedia
//
// Values of the wrong type are stored as null.
func PostFromRecord(r *normalizer.Node) (model.Post, bool) {
	id, ok := externalID(r)
	if !ok {
		return model.Post{}, false
	}
	return model.Post{
		ExternalId:   id,
		Title:        stringField(r, "title"),
		Author:       stringField(r, "author"),
		Category:     stringField(r, "subreddit"),
		Url:          stringField(r, "url"),
		Score:        intField(r, "score"),
		CommentCount: intField(r, "num_comments"),
		CreatedUTC:   createdAt(r),
		IsMedia:      boolField(r, "is_video"),
	}, true
}

func externalID(r *normalizer.Node) (string, bool) {
	for _, key := range []string{"id", "name"} {
		v := r.Get(key)
		if !v.Truthy() {
			continue
		}
		if s, ok := v.Text(); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func stringField(r *normalizer.Node, key string) *string {
	s, ok := r.Get(key).String()
	if !ok {
		return nil
	}
	return &s
}

func intField(r *normalizer.Node, key string) *int64 {
	i, ok := r.Get(key).Int64()
	if !ok {
		return nil
	}
	return &i
}

func boolField(r *normalizer.Node, key string) *bool {
	b, ok := r.Get(key).Bool()
	if !ok {
		return nil
	}
	return &b
}

// createdAt reads created_utc, falling back to created when created_utc is
// missing or falsy.
func createdAt(r *normalizer.Node) *time.Time {
	v := r.Get("created_utc")
	if !v.Truthy() {
		v = r.Get("created")
	}
	if v.IsNull() {
		return nil
	}
	return ParseEpoch(v)
}

// Years 1 to 9999, what both SQL backends can store.
const (
	minEpoch = -62135596800
	maxEpoch = 253402300799
)

// ParseEpoch converts epoch seconds, given as a number or a numeric string,
// to a UTC time. The fractional part is truncated. Anything else is nil.
func ParseEpoch(v *normalizer.Node) *time.Time {
	f, ok := v.Float64()
	if !ok {
		return nil
	}
	sec := math.Trunc(f)
	if sec < minEpoch || sec > maxEpoch {
		return nil
	}
	t := time.Unix(int64(sec), 0).UTC()
	return &t
}
