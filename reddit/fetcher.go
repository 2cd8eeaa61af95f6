package reddit

import (
	"context"

	"github.com/Luismorlan/redditmux/utils"
	. "github.com/Luismorlan/redditmux/utils/log"
	"github.com/go-faster/jx"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const DefaultFetchParallelism = 4

// TopPoster fetches one subreddit's top Listing.
type TopPoster interface {
	TopPosts(ctx context.Context, subreddit string, limit int) ([]byte, error)
}

// PostSink receives fetched payloads for storage.
type PostSink interface {
	StorePosts(ctx context.Context, payload []byte) (int, error)
}

// Fetcher pulls subreddits from Reddit and hands the payloads to the
// storage service.
type Fetcher struct {
	client      TopPoster
	catalog     *Catalog
	sink        PostSink
	parallelism int
}

func NewFetcher(client TopPoster, catalog *Catalog, sink PostSink, parallelism int) *Fetcher {
	if parallelism <= 0 {
		parallelism = DefaultFetchParallelism
	}
	if catalog == nil {
		catalog = FallbackCatalog()
	}
	return &Fetcher{client: client, catalog: catalog, sink: sink, parallelism: parallelism}
}

// StoreOutcome is what the storage step returned. Err is set when it failed,
// which never fails the fetch itself.
type StoreOutcome struct {
	Count int
	Err   error
}

// FetchOne fetches a subreddit and stores it. A fetch failure is returned as
// an error, a store failure only shows up in the outcome.
func (f *Fetcher) FetchOne(ctx context.Context, subreddit string, limit int) ([]byte, StoreOutcome, error) {
	data, err := f.client.TopPosts(ctx, subreddit, limit)
	if err != nil {
		utils.Metrics().Incr(utils.MetricUpstreamFetchFail, []string{"subreddit:" + subreddit}, 1)
		return nil, StoreOutcome{}, err
	}
	if !jx.Valid(data) {
		return nil, StoreOutcome{}, errors.Wrapf(utils.ErrUpstream, "invalid JSON from reddit for r/%s", subreddit)
	}
	return data, f.store(ctx, data), nil
}

// FetchAll fetches every subreddit of the catalog and stores them as one
// {category: {subreddit: listing}} document, in catalog order. A subreddit that
// fails is kept in the document as {"error": ...}.
func (f *Fetcher) FetchAll(ctx context.Context) ([]byte, StoreOutcome) {
	type job struct {
		category  int
		subreddit int
	}
	var jobs []job
	results := make([][][]byte, len(f.catalog.Categories))
	for i, cat := range f.catalog.Categories {
		results[i] = make([][]byte, len(cat.Subreddits))
		for j := range cat.Subreddits {
			jobs = append(jobs, job{i, j})
		}
	}

	var g errgroup.Group
	g.SetLimit(f.parallelism)
	for _, jb := range jobs {
		jb := jb
		g.Go(func() error {
			sub := f.catalog.Categories[jb.category].Subreddits[jb.subreddit]
			data, err := f.client.TopPosts(ctx, sub, DefaultPostLimit)
			switch {
			case err != nil:
				Log.Errorf("fail to fetch r/%s: %s", sub, err)
				utils.Metrics().Incr(utils.MetricUpstreamFetchFail, []string{"subreddit:" + sub}, 1)
				data = errorDocument("Failed to fetch data", err)
			case !jx.Valid(data):
				data = errorDocument("Invalid JSON from Reddit", nil)
			}
			results[jb.category][jb.subreddit] = data
			return nil
		})
	}
	// Jobs never return errors, failures are embedded in the document.
	_ = g.Wait()

	var e jx.Encoder
	e.ObjStart()
	for i, cat := range f.catalog.Categories {
		e.FieldStart(cat.Name)
		e.ObjStart()
		for j, sub := range cat.Subreddits {
			e.FieldStart(sub)
			e.Raw(results[i][j])
		}
		e.ObjEnd()
	}
	e.ObjEnd()
	payload := e.Bytes()

	Log.Infof("fetched %d subreddits, sending to storage", len(jobs))
	return payload, f.store(ctx, payload)
}

func (f *Fetcher) store(ctx context.Context, payload []byte) StoreOutcome {
	if f.sink == nil {
		return StoreOutcome{Err: errors.New("no storage configured")}
	}
	n, err := f.sink.StorePosts(ctx, payload)
	if err != nil {
		Log.Error("fail to store fetched posts: ", err)
		return StoreOutcome{Err: err}
	}
	return StoreOutcome{Count: n}
}

func errorDocument(msg string, err error) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("error")
	e.Str(msg)
	if err != nil {
		e.FieldStart("details")
		e.Str(err.Error())
	}
	e.ObjEnd()
	return e.Bytes()
}
