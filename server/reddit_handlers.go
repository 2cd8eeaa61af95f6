package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Luismorlan/redditmux/reddit"
	. "github.com/Luismorlan/redditmux/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// OAuthFlow is the authorization code flow of the Reddit app.
type OAuthFlow interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// PostFetcher pulls posts from Reddit and forwards them to storage.
type PostFetcher interface {
	FetchOne(ctx context.Context, subreddit string, limit int) ([]byte, reddit.StoreOutcome, error)
	FetchAll(ctx context.Context) ([]byte, reddit.StoreOutcome)
}

// AuthorizeHandler redirects the user to Reddit's consent page.
func AuthorizeHandler(flow OAuthFlow) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, flow.AuthCodeURL(uuid.New().String()))
	}
}

// CallbackHandler trades the authorization code for tokens. The provider
// keeps the tokens and persists them to its token store.
func CallbackHandler(flow OAuthFlow) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("code")
		if code == "" {
			Log.Error("got an oauth callback without code, reddit error: ", c.Query("error"))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization code missing"})
			return
		}

		tok, err := flow.Exchange(c.Request.Context(), code)
		if err != nil {
			respondError(c, "Failed to obtain access token", err)
			return
		}
		Log.Info("reddit oauth succeeded")
		c.JSON(http.StatusOK, gin.H{"message": "OAuth Success", "token_data": tokenData(tok)})
	}
}

func tokenData(tok *oauth2.Token) gin.H {
	data := gin.H{
		"access_token":  tok.AccessToken,
		"refresh_token": tok.RefreshToken,
		"token_type":    tok.TokenType,
	}
	if !tok.Expiry.IsZero() {
		data["expires_in"] = int64(time.Until(tok.Expiry).Seconds())
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		data["scope"] = scope
	}
	return data
}

// RedditPostsHandler fetches one subreddit's top posts and stores them. A
// storage failure still returns the posts, with store_result null.
func RedditPostsHandler(f PostFetcher, defaultSubreddit string, defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub := strings.TrimSpace(c.Query("subreddit"))
		if sub == "" {
			sub = defaultSubreddit
		}
		limit, err := strconv.Atoi(c.Query("limit"))
		if err != nil || limit <= 0 {
			limit = defaultLimit
		}

		data, outcome, err := f.FetchOne(c.Request.Context(), sub, limit)
		if err != nil {
			respondError(c, "Failed to fetch data", err)
			return
		}

		var storeResult gin.H
		if outcome.Err == nil {
			storeResult = gin.H{"message": "Posts stored successfully!", "count": outcome.Count}
		}
		c.JSON(http.StatusOK, gin.H{"data": json.RawMessage(data), "store_result": storeResult})
	}
}

// FetchAllHandler returns the {category: {subreddit: listing}} document of
// the whole catalog.
func FetchAllHandler(f PostFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, outcome := f.FetchAll(c.Request.Context())
		if outcome.Err != nil {
			Log.Warn("fetch-all stored nothing: ", outcome.Err)
		} else {
			Log.Infof("fetch-all stored %d posts", outcome.Count)
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
	}
}
