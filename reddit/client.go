package reddit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Luismorlan/redditmux/clients"
	. "github.com/Luismorlan/redditmux/utils/log"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const (
	DefaultAPIBaseURL = "https://oauth.reddit.com"
	DefaultPostLimit  = 20
)

// Credentials hands out bearer tokens and replaces them on demand.
type Credentials interface {
	AccessToken() string
	Refresh(ctx context.Context) (*oauth2.Token, error)
}

// Client calls the Reddit API with the current bearer token. A 401 triggers
// one refresh and one retry.
type Client struct {
	creds   Credentials
	http    *clients.HttpClient
	baseURL string
}

func NewClient(creds Credentials, userAgent string, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	header := http.Header{"User-Agent": []string{userAgent}}
	return &Client{
		creds:   creds,
		http:    clients.NewHttpClient(header, clients.DefaultTimeout),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Get fetches uri and returns the raw response body.
func (c *Client) Get(ctx context.Context, uri string) ([]byte, error) {
	token := c.creds.AccessToken()
	if token == "" {
		tok, err := c.creds.Refresh(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "no ACCESS_TOKEN configured")
		}
		token = tok.AccessToken
	}

	data, err := c.get(ctx, uri, token)
	if !isExpiredToken(err) {
		return data, err
	}

	Log.Info("reddit access token expired, refreshing")
	tok, rerr := c.creds.Refresh(ctx)
	if rerr != nil {
		return nil, errors.Wrap(rerr, "failed to refresh access token")
	}
	return c.get(ctx, uri, tok.AccessToken)
}

// TopPosts fetches the top Listing of a subreddit. A non-positive limit
// falls back to DefaultPostLimit.
func (c *Client) TopPosts(ctx context.Context, subreddit string, limit int) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultPostLimit
	}
	uri := fmt.Sprintf("%s/r/%s/top?limit=%d", c.baseURL, url.PathEscape(subreddit), limit)
	Log.Infof("fetching top %d posts from r/%s", limit, subreddit)
	return c.Get(ctx, uri)
}

func (c *Client) get(ctx context.Context, uri string, token string) ([]byte, error) {
	header := http.Header{"Authorization": []string{"Bearer " + token}}
	return c.http.Do(ctx, http.MethodGet, uri, nil, header)
}

func isExpiredToken(err error) bool {
	var statusErr *clients.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized
}
