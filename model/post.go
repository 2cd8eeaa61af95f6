package model

import (
	"time"
)

/*

Post is a Reddit submission as persisted by the storage service

ExternalId: primary key, the id Reddit assigned ("abc123", or fullname "t3_abc123"
	when only "name" was present upstream). Never changes after creation.
InsertedAt: time when the row was first written, not touched by later upserts

Title, Author, Url: upstream strings, null when upstream omitted them
Category: subreddit the post was fetched from, matched case-insensitively
Score, CommentCount: upstream counters ("score", "num_comments")
CreatedUTC: upstream "created_utc" epoch seconds as a UTC time, stored in
	column created_at; null when missing or unparseable
IsMedia: upstream "is_video"

Sentiment*: written only by the sentiment writer. A post whose polarity is null is
	pending analysis.
*/
type Post struct {
	ExternalId   string    `gorm:"primaryKey"`
	InsertedAt   time.Time `gorm:"autoCreateTime"`
	Title        *string
	Author       *string
	Category     *string `gorm:"index:idx_posts_category"`
	Url          *string
	Score        *int64
	CommentCount *int64
	CreatedUTC   *time.Time `gorm:"column:created_at;index:idx_posts_created_at,sort:desc"`
	IsMedia      *bool

	SentimentPolarity *Polarity `gorm:"index:idx_posts_sentiment_polarity"`
	SentimentCompound *float64
	SentimentPos      *float64
	SentimentNeu      *float64
	SentimentNeg      *float64
}

// CoreColumns are the columns an upsert overwrites on conflict. Sentiment
// columns are not part of it.
var CoreColumns = []string{
	"title",
	"author",
	"category",
	"url",
	"score",
	"comment_count",
	"created_at",
	"is_media",
}

// Sentiment returns the sentiment sub-record, nil until the post has been
// analyzed.
func (p *Post) Sentiment() *Sentiment {
	if p.SentimentCompound == nil {
		return nil
	}
	return &Sentiment{
		Polarity:      p.SentimentPolarity,
		Compound:      p.SentimentCompound,
		PositiveScore: p.SentimentPos,
		NeutralScore:  p.SentimentNeu,
		NegativeScore: p.SentimentNeg,
	}
}

// IsPending is true while no polarity has been written.
func (p *Post) IsPending() bool {
	return p.SentimentPolarity == nil
}
