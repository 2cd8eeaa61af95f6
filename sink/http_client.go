package sink

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Luismorlan/redditmux/clients"
	"github.com/Luismorlan/redditmux/model"
)

const (
	DefaultStorageBaseURL = "http://127.0.0.1:8080/storage"

	storeTimeout = 30 * time.Second
	readTimeout  = 20 * time.Second
	pingTimeout  = 5 * time.Second
)

// StorageBaseURLFromEnv returns STORAGE_BASE_URL, or the storage group of a
// local all-in-one server.
func StorageBaseURLFromEnv() string {
	if u := os.Getenv("STORAGE_BASE_URL"); u != "" {
		return u
	}
	return DefaultStorageBaseURL
}

// HttpClient talks to a storage service at baseURL, e.g.
// http://storage:8080/storage.
type HttpClient struct {
	baseURL string
	client  *clients.HttpClient
}

func NewHttpClient(baseURL string) *HttpClient {
	return &HttpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  clients.NewHttpClient(http.Header{"Accept": []string{"application/json"}}, storeTimeout),
	}
}

type countResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

func (c *HttpClient) StorePosts(ctx context.Context, payload []byte) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	data, err := c.client.PostJSON(ctx, c.url("/store-posts"), payload)
	if err != nil {
		return 0, err
	}
	var res countResponse
	if err := clients.DecodeJSON(data, &res); err != nil {
		return 0, err
	}
	return res.Count, nil
}

func (c *HttpClient) RecentPosts(ctx context.Context, limit int, category string) ([]model.PostView, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	params := map[string]string{"limit": strconv.Itoa(limit)}
	if category != "" {
		params["category"] = category
	}
	data, err := c.client.GetWithQueryParams(ctx, c.url("/posts/recent"), params)
	if err != nil {
		return nil, err
	}
	posts := []model.PostView{}
	if err := clients.DecodeJSON(data, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *HttpClient) StoreSentiment(ctx context.Context, results []model.SentimentResult) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var res countResponse
	err := c.client.PostJSONValue(ctx, c.url("/store-sentiment"), map[string]interface{}{"results": results}, &res)
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}

func (c *HttpClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	_, err := c.client.Get(ctx, c.url("/ping"))
	return err
}

func (c *HttpClient) url(path string) string {
	return c.baseURL + path
}
