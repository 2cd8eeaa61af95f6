package sentiment

import (
	"context"
	"strings"
	"time"

	"github.com/Luismorlan/redditmux/model"
	"github.com/Luismorlan/redditmux/utils"
	. "github.com/Luismorlan/redditmux/utils/log"
)

const DefaultBatchSize = 50

// PostClient is the view of the storage service an analyze run needs.
type PostClient interface {
	RecentPosts(ctx context.Context, limit int, category string) ([]model.PostView, error)
	StoreSentiment(ctx context.Context, results []model.SentimentResult) (int, error)
}

// Service runs the analyzer over stored posts and writes the results back
// through the storage service.
type Service struct {
	client    PostClient
	analyzer  Analyzer
	batchSize int
}

func NewService(client PostClient, analyzer Analyzer, batchSize int) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Service{client: client, analyzer: analyzer, batchSize: batchSize}
}

// StoreResult reports the outcome of writing results back. Either Count or
// Error is set.
type StoreResult struct {
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

type Meta struct {
	SubredditFilter *string      `json:"subreddit_filter"`
	Fetched         int          `json:"fetched"`
	Analyzed        int          `json:"analyzed"`
	StoreResult     *StoreResult `json:"store_result,omitempty"`
	Error           string       `json:"error,omitempty"`
	Details         string       `json:"details,omitempty"`
	Timestamp       string       `json:"timestamp"`
}

type Report struct {
	Results []model.SentimentResult `json:"results"`
	Meta    Meta                    `json:"meta"`
}

// Analyze scores the titles of the most recent posts and stores the results.
// Failing to read posts or to store results is reported in Meta, the run
// itself does not fail.
func (s *Service) Analyze(ctx context.Context, limit int, category string) *Report {
	limit = utils.ClampLimit(limit)
	report := &Report{Results: []model.SentimentResult{}}
	if category != "" {
		report.Meta.SubredditFilter = &category
	}

	posts, err := s.client.RecentPosts(ctx, limit, category)
	if err != nil {
		Log.Error("fail to fetch posts for analysis: ", err)
		report.Meta.Error = "failed_to_fetch_posts"
		report.Meta.Details = err.Error()
		report.Meta.Timestamp = timestamp()
		return report
	}

	for _, p := range posts {
		title := strings.TrimSpace(utils.StringValue(p.Title))
		if title == "" {
			continue
		}
		report.Results = append(report.Results, model.NewSentimentResult(p.ExternalId, s.analyzer.Score(title)))
	}
	report.Meta.Fetched = len(posts)
	report.Meta.Analyzed = len(report.Results)
	report.Meta.StoreResult = s.store(ctx, report.Results)
	report.Meta.Timestamp = timestamp()
	return report
}

func (s *Service) store(ctx context.Context, results []model.SentimentResult) *StoreResult {
	stored := 0
	for start := 0; start < len(results); start += s.batchSize {
		end := start + s.batchSize
		if end > len(results) {
			end = len(results)
		}
		n, err := s.client.StoreSentiment(ctx, results[start:end])
		if err != nil {
			Log.Error("fail to store sentiment results: ", err)
			return &StoreResult{Error: "failed_to_store_sentiment", Details: err.Error(), Count: &stored}
		}
		stored += n
	}
	return &StoreResult{Message: "Sentiment stored", Count: &stored}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
