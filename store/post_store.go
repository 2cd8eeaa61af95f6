package store

import (
	"context"
	"time"

	"github.com/Luismorlan/redditmux/model"
	"github.com/Luismorlan/redditmux/normalizer"
	"github.com/Luismorlan/redditmux/utils"
	. "github.com/Luismorlan/redditmux/utils/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	newestFirst = "created_at IS NULL, created_at DESC"
	// Categories are matched case-insensitively but exactly.
	categoryMatch = "LOWER(category) = LOWER(?)"
)

// PostStore persists posts keyed by external id. Every method is a single
// request-scoped sequence of statements, there is no cross-record
// transaction.
type PostStore struct {
	db *gorm.DB
}

func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// Migrate creates the posts table and its indexes.
func (s *PostStore) Migrate() error {
	return utils.NewStorageError("migrate", utils.DatabaseSetupAndMigration(s.db))
}

// Ping checks that the database is reachable.
func (s *PostStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return utils.NewStorageError("ping", err)
	}
	return utils.NewStorageError("ping", sqlDB.PingContext(ctx))
}

// UpsertPosts writes one post per record that carries an id or a name.
// Existing posts get their core fields overwritten, their sentiment is left
// alone. It returns how many records were written. On failure the records
// before the failing one stay committed and their count is returned with the
// error.
func (s *PostStore) UpsertPosts(ctx context.Context, records []*normalizer.Node) (int, error) {
	count := 0
	for _, r := range records {
		post, ok := PostFromRecord(r)
		if !ok {
			continue
		}
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns(model.CoreColumns),
		}).Create(&post).Error
		if err != nil {
			Log.WithField("external_id", post.ExternalId).Error("fail to upsert post: ", err)
			utils.Metrics().Count(utils.MetricPostsUpserted, int64(count), nil, 1)
			return count, utils.NewStorageError("upsert post "+post.ExternalId, err)
		}
		count++
	}
	utils.Metrics().Count(utils.MetricPostsUpserted, int64(count), nil, 1)
	return count, nil
}

// GetRecent returns up to limit posts, newest first, posts without a creation
// time last. An empty category matches every post.
func (s *PostStore) GetRecent(ctx context.Context, limit int, category string) ([]model.Post, error) {
	posts := []model.Post{}
	err := s.inCategory(s.db.WithContext(ctx), category).
		Order(newestFirst).
		Limit(utils.ClampLimit(limit)).
		Find(&posts).Error
	if err != nil {
		return nil, utils.NewStorageError("get recent posts", err)
	}
	return posts, nil
}

// ListPending returns posts that have no polarity yet and a non-empty title,
// newest first.
func (s *PostStore) ListPending(ctx context.Context, limit int, category string) ([]model.PendingPost, error) {
	posts := []model.Post{}
	err := s.inCategory(s.db.WithContext(ctx), category).
		Where("sentiment_polarity IS NULL").
		Where("title IS NOT NULL AND title <> ''").
		Order(newestFirst).
		Limit(utils.ClampLimit(limit)).
		Find(&posts).Error
	if err != nil {
		return nil, utils.NewStorageError("list pending posts", err)
	}

	pending := make([]model.PendingPost, 0, len(posts))
	for _, p := range posts {
		pending = append(pending, model.PendingPost{
			ExternalId: p.ExternalId,
			Title:      utils.StringValue(p.Title),
			Category:   p.Category,
		})
	}
	return pending, nil
}

// UpdateSentiment overwrites the sentiment columns of an existing post. It
// never creates a post, and returns false when externalID is unknown.
func (s *PostStore) UpdateSentiment(ctx context.Context, externalID string, sentiment model.Sentiment) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("external_id = ?", externalID).
		Updates(map[string]interface{}{
			"sentiment_polarity": sentiment.Polarity,
			"sentiment_compound": sentiment.Compound,
			"sentiment_pos":      sentiment.PositiveScore,
			"sentiment_neu":      sentiment.NeutralScore,
			"sentiment_neg":      sentiment.NegativeScore,
		})
	if res.Error != nil {
		return false, utils.NewStorageError("update sentiment "+externalID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Filter narrows an aggregation. Zero values mean no filtering. With Since
// set, posts without a creation time are excluded.
type Filter struct {
	Category string
	Since    *time.Time
}

// Aggregate holds the raw numbers a summary is computed from.
type Aggregate struct {
	Total      int64
	Pending    int64
	ByPolarity model.PolarityCounts
	// Compounds of every analyzed post.
	Compounds []float64
}

type polarityCount struct {
	SentimentPolarity model.Polarity
	Count             int64
}

func (s *PostStore) Aggregate(ctx context.Context, f Filter) (Aggregate, error) {
	var agg Aggregate
	scoped := func() *gorm.DB {
		q := s.inCategory(s.db.WithContext(ctx).Model(&model.Post{}), f.Category)
		if f.Since != nil {
			q = q.Where("created_at >= ?", f.Since.UTC())
		}
		return q
	}

	if err := scoped().Count(&agg.Total).Error; err != nil {
		return agg, utils.NewStorageError("count posts", err)
	}
	if err := scoped().Where("sentiment_polarity IS NULL").Count(&agg.Pending).Error; err != nil {
		return agg, utils.NewStorageError("count pending posts", err)
	}

	var counts []polarityCount
	err := scoped().
		Select("sentiment_polarity, COUNT(*) AS count").
		Where("sentiment_polarity IS NOT NULL").
		Group("sentiment_polarity").
		Scan(&counts).Error
	if err != nil {
		return agg, utils.NewStorageError("count posts by polarity", err)
	}
	for _, c := range counts {
		agg.ByPolarity.Add(c.SentimentPolarity, c.Count)
	}

	agg.Compounds = []float64{}
	err = scoped().
		Where("sentiment_compound IS NOT NULL").
		Pluck("sentiment_compound", &agg.Compounds).Error
	if err != nil {
		return agg, utils.NewStorageError("read compounds", err)
	}
	return agg, nil
}

func (s *PostStore) inCategory(q *gorm.DB, category string) *gorm.DB {
	if category == "" {
		return q
	}
	return q.Where(categoryMatch, category)
}
