package model

import (
	"time"

	"github.com/jinzhu/copier"
)

// PostView is the JSON shape returned by the recent posts endpoint.
type PostView struct {
	ExternalId   string     `json:"external_id"`
	Title        *string    `json:"title"`
	Author       *string    `json:"author"`
	Category     *string    `json:"category"`
	Url          *string    `json:"url"`
	Score        *int64     `json:"score"`
	CommentCount *int64     `json:"comment_count"`
	CreatedAt    *time.Time `json:"created_at"`
	IsMedia      *bool      `json:"is_media"`
	Sentiment    *Sentiment `json:"sentiment"`
}

// PendingPost is one row of the pending posts endpoint.
type PendingPost struct {
	ExternalId string  `json:"external_id"`
	Title      string  `json:"title"`
	Category   *string `json:"category"`
}

// NewPostView copies the core fields of p and attaches its sentiment
// sub-record when present.
func NewPostView(p *Post) (PostView, error) {
	var v PostView
	if err := copier.Copy(&v, p); err != nil {
		return v, err
	}
	v.CreatedAt = p.CreatedUTC
	v.Sentiment = p.Sentiment()
	return v, nil
}

// NewPostViews converts a page of posts, preserving order.
func NewPostViews(posts []Post) ([]PostView, error) {
	views := make([]PostView, 0, len(posts))
	for i := range posts {
		v, err := NewPostView(&posts[i])
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
