package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketCompound(t *testing.T) {
	cases := []struct {
		compound float64
		expected Polarity
	}{
		{0.05, PolarityPositive},
		{-0.05, PolarityNegative},
		{0.0, PolarityNeutral},
		{0.0499, PolarityNeutral},
		{-0.0499, PolarityNeutral},
		{1.0, PolarityPositive},
		{-1.0, PolarityNegative},
		{0.6, PolarityPositive},
		{-0.6, PolarityNegative},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, BucketCompound(c.compound), "compound %v", c.compound)
	}
}

func TestParsePolarity(t *testing.T) {
	p, ok := ParsePolarity("positive")
	assert.True(t, ok)
	assert.Equal(t, PolarityPositive, p)

	_, ok = ParsePolarity("Positive")
	assert.False(t, ok)
	_, ok = ParsePolarity("")
	assert.False(t, ok)
}

func TestPolarityCountsAdd(t *testing.T) {
	var c PolarityCounts
	c.Add(PolarityPositive, 2)
	c.Add(PolarityNegative, 1)
	c.Add(Polarity("mixed"), 7)
	assert.Equal(t, PolarityCounts{Positive: 2, Negative: 1}, c)
}

func TestNewPostView(t *testing.T) {
	title := "Hi"
	created := time.Unix(1700000000, 0).UTC()
	p := Post{ExternalId: "abc", Title: &title, CreatedUTC: &created}

	v, err := NewPostView(&p)
	require.NoError(t, err)
	assert.Equal(t, "abc", v.ExternalId)
	assert.Equal(t, "Hi", *v.Title)
	assert.Equal(t, created, *v.CreatedAt)
	assert.Nil(t, v.Author)
	assert.Nil(t, v.Sentiment)
	assert.True(t, p.IsPending())

	polarity := PolarityPositive
	compound := 0.6
	p.SentimentPolarity = &polarity
	p.SentimentCompound = &compound
	v, err = NewPostView(&p)
	require.NoError(t, err)
	require.NotNil(t, v.Sentiment)
	assert.Equal(t, PolarityPositive, *v.Sentiment.Polarity)
	assert.Equal(t, 0.6, *v.Sentiment.Compound)
	assert.False(t, p.IsPending())
}
