package sink

import (
	"context"

	"github.com/Luismorlan/redditmux/model"
	"github.com/Luismorlan/redditmux/normalizer"
	"github.com/Luismorlan/redditmux/sentiment"
	"github.com/Luismorlan/redditmux/store"
	"github.com/Luismorlan/redditmux/utils"
)

// LocalClient calls the post store directly. Used when all services run in
// one process.
type LocalClient struct {
	store  *store.PostStore
	writer *sentiment.Writer
}

func NewLocalClient(s *store.PostStore) *LocalClient {
	return &LocalClient{store: s, writer: sentiment.NewWriter(s)}
}

func (c *LocalClient) StorePosts(ctx context.Context, payload []byte) (int, error) {
	records, err := normalizer.NormalizeJSON(payload)
	if err != nil {
		return 0, utils.InvalidInputf("%s", err)
	}
	return c.store.UpsertPosts(ctx, records)
}

func (c *LocalClient) RecentPosts(ctx context.Context, limit int, category string) ([]model.PostView, error) {
	posts, err := c.store.GetRecent(ctx, limit, category)
	if err != nil {
		return nil, err
	}
	return model.NewPostViews(posts)
}

func (c *LocalClient) StoreSentiment(ctx context.Context, results []model.SentimentResult) (int, error) {
	return c.writer.ApplySentiment(ctx, results)
}

func (c *LocalClient) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}
