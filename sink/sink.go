package sink

import (
	"context"

	"github.com/Luismorlan/redditmux/model"
)

// StorageClient is how the reddit and sentiment services reach the storage
// service, either in the same process or over HTTP.
type StorageClient interface {
	// StorePosts normalizes and upserts a raw Reddit payload, returns the
	// number of posts written.
	StorePosts(ctx context.Context, payload []byte) (int, error)
	RecentPosts(ctx context.Context, limit int, category string) ([]model.PostView, error)
	// StoreSentiment returns the number of existing posts updated.
	StoreSentiment(ctx context.Context, results []model.SentimentResult) (int, error)
	Ping(ctx context.Context) error
}
