package reddit

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Luismorlan/redditmux/normalizer"
	"github.com/Luismorlan/redditmux/utils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTopPoster struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeTopPoster) TopPosts(_ context.Context, subreddit string, limit int) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, subreddit)
	f.mu.Unlock()
	switch subreddit {
	case "down":
		return nil, errors.Wrap(utils.ErrUpstream, "reddit is down")
	case "html":
		return []byte("<html>"), nil
	}
	return []byte(fmt.Sprintf(`{"data":{"children":[{"data":{"id":"%s-1"}},{"data":{"id":"%s-2"}}]}}`, subreddit, subreddit)), nil
}

type recordingSink struct {
	payload []byte
	err     error
}

func (s *recordingSink) StorePosts(_ context.Context, payload []byte) (int, error) {
	s.payload = payload
	if s.err != nil {
		return 0, s.err
	}
	records, err := normalizer.NormalizeJSON(payload)
	return len(records), err
}

func TestFetchAll(t *testing.T) {
	catalog := &Catalog{Categories: []Category{
		{Name: "tech", Subreddits: []string{"golang", "down", "rust"}},
		{Name: "news", Subreddits: []string{"html", "worldnews"}},
	}}
	client := &fakeTopPoster{}
	sink := &recordingSink{}

	payload, outcome := NewFetcher(client, catalog, sink, 2).FetchAll(context.Background())
	require.NoError(t, outcome.Err)
	assert.Len(t, client.calls, 5)
	assert.Equal(t, payload, sink.payload)

	root, err := normalizer.Parse(payload)
	require.NoError(t, err)
	assert.Equal(t, []string{"tech", "news"}, root.Keys())
	assert.Equal(t, []string{"golang", "down", "rust"}, root.Get("tech").Keys())
	msg, _ := root.Get("tech").Get("down").Get("error").String()
	assert.Equal(t, "Failed to fetch data", msg)
	msg, _ = root.Get("news").Get("html").Get("error").String()
	assert.Equal(t, "Invalid JSON from Reddit", msg)

	// golang, rust and worldnews contribute two posts each.
	assert.Equal(t, 6, outcome.Count)
}

func TestFetchAllStoreFailureIsNotFatal(t *testing.T) {
	sink := &recordingSink{err: errors.Wrap(utils.ErrUpstream, "storage down")}
	payload, outcome := NewFetcher(&fakeTopPoster{}, FallbackCatalog(), sink, 0).FetchAll(context.Background())

	assert.Error(t, outcome.Err)
	root, err := normalizer.Parse(payload)
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "programming", "technology"}, root.Get("default").Keys())
}

func TestFetchOne(t *testing.T) {
	sink := &recordingSink{}
	f := NewFetcher(&fakeTopPoster{}, nil, sink, 1)

	data, outcome, err := f.FetchOne(context.Background(), "golang", 20)
	require.NoError(t, err)
	assert.Equal(t, data, sink.payload)
	assert.Equal(t, 2, outcome.Count)

	_, _, err = f.FetchOne(context.Background(), "down", 20)
	assert.True(t, utils.IsUpstreamFailure(err))

	_, _, err = f.FetchOne(context.Background(), "html", 20)
	assert.True(t, utils.IsUpstreamFailure(err))

	sink.err = errors.New("storage down")
	data, outcome, err = f.FetchOne(context.Background(), "golang", 20)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Error(t, outcome.Err)
}
