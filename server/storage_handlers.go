package server

import (
	"bytes"
	"net/http"

	"github.com/Luismorlan/redditmux/model"
	"github.com/Luismorlan/redditmux/normalizer"
	"github.com/Luismorlan/redditmux/sentiment"
	"github.com/Luismorlan/redditmux/store"
	"github.com/Luismorlan/redditmux/summary"
	"github.com/Luismorlan/redditmux/utils"
	"github.com/gin-gonic/gin"
)

func StoragePingHandler(s *store.PostStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.Ping(c.Request.Context()); err != nil {
			respondError(c, "Database unreachable", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Storage Service Pong!", "db": "ok"})
	}
}

// StorePostsHandler accepts any Reddit-shaped JSON, a Listing, a list of
// posts or the nested fetch-all document, and upserts every post found in it.
func StorePostsHandler(s *store.PostStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil || len(bytes.TrimSpace(body)) == 0 {
			respondError(c, "No data provided", utils.InvalidInputf("empty request body"))
			return
		}
		root, err := normalizer.Parse(body)
		if err != nil {
			respondError(c, "Invalid JSON", utils.InvalidInputf("%s", err))
			return
		}
		if !root.Truthy() {
			respondError(c, "No data provided", utils.InvalidInputf("empty payload"))
			return
		}

		n, err := s.UpsertPosts(c.Request.Context(), normalizer.Normalize(root))
		if err != nil {
			respondError(c, "Failed to store posts", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Posts stored successfully!", "count": n})
	}
}

func RecentPostsHandler(s *store.PostStore, defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := limitParam(c, defaultLimit)
		if err != nil {
			respondError(c, "Invalid limit", err)
			return
		}
		posts, err := s.GetRecent(c.Request.Context(), limit, categoryParam(c))
		if err != nil {
			respondError(c, "Failed to read posts", err)
			return
		}
		views, err := model.NewPostViews(posts)
		if err != nil {
			respondError(c, "Failed to read posts", err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func PendingPostsHandler(s *store.PostStore, defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := limitParam(c, defaultLimit)
		if err != nil {
			respondError(c, "Invalid limit", err)
			return
		}
		posts, err := s.ListPending(c.Request.Context(), limit, categoryParam(c))
		if err != nil {
			respondError(c, "Failed to read pending posts", err)
			return
		}
		if posts == nil {
			posts = []model.PendingPost{}
		}
		c.JSON(http.StatusOK, gin.H{"count": len(posts), "posts": posts})
	}
}

// StoreSentimentHandler applies {"results": [...]} to existing posts. A
// missing or empty results field stores nothing.
func StoreSentimentHandler(w *sentiment.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			respondError(c, "Invalid request body", utils.InvalidInputf("%s", err))
			return
		}

		var results interface{} = []interface{}{}
		if len(bytes.TrimSpace(body)) > 0 {
			root, err := normalizer.Parse(body)
			if err != nil {
				respondError(c, "Invalid JSON", utils.InvalidInputf("%s", err))
				return
			}
			if r := root.Get("results"); r.Truthy() {
				results = r
			}
		}

		n, err := w.ApplySentiment(c.Request.Context(), results)
		if err != nil {
			respondError(c, "Failed to store sentiment", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Sentiment stored", "count": n})
	}
}

func SummaryHandler(s *summary.Summarizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := s.Summarize(c.Request.Context(), categoryParam(c), c.Query("lookback_hours"))
		if err != nil {
			respondError(c, "Failed to summarize posts", err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
