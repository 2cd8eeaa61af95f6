package app_setting

import (
	"io/ioutil"
	"os"

	"github.com/Luismorlan/redditmux/utils"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// ServerSetting holds the tunables of the HTTP services. Every zero field is
// replaced by its default, so a partial file is fine.
type ServerSetting struct {
	// Address gin listens on, e.g. ":8080".
	LISTEN_ADDR string `yaml:"LISTEN_ADDR"`
	// Default page size of GET /storage/posts/recent.
	RECENT_DEFAULT_LIMIT int `yaml:"RECENT_DEFAULT_LIMIT"`
	// Default page size of GET /storage/posts/pending.
	PENDING_DEFAULT_LIMIT int `yaml:"PENDING_DEFAULT_LIMIT"`
	// Default number of posts scored by GET /sentiment/analyze.
	ANALYZE_DEFAULT_LIMIT int `yaml:"ANALYZE_DEFAULT_LIMIT"`
	// Default limit passed to Reddit by GET /reddit/reddit-posts.
	REDDIT_DEFAULT_LIMIT int `yaml:"REDDIT_DEFAULT_LIMIT"`
	// Subreddit fetched by GET /reddit/reddit-posts when none is given.
	REDDIT_DEFAULT_SUBREDDIT string `yaml:"REDDIT_DEFAULT_SUBREDDIT"`
	// Concurrent Reddit requests of a fetch-all run.
	FETCH_PARALLELISM int `yaml:"FETCH_PARALLELISM"`
	// Sentiment results sent to the storage service per request.
	SENTIMENT_BATCH_SIZE int `yaml:"SENTIMENT_BATCH_SIZE"`
	// Subreddit catalog, overridden by SUBREDDITS_JSON.
	SUBREDDITS_PATH string `yaml:"SUBREDDITS_PATH"`
	// One of auto, redis, dotenv or none. auto picks redis when REDIS_HOST is
	// set and the .env.local file otherwise.
	TOKEN_STORE string `yaml:"TOKEN_STORE"`
}

func DefaultServerSetting() ServerSetting {
	return ServerSetting{
		LISTEN_ADDR:              ":8080",
		RECENT_DEFAULT_LIMIT:     20,
		PENDING_DEFAULT_LIMIT:    50,
		ANALYZE_DEFAULT_LIMIT:    20,
		REDDIT_DEFAULT_LIMIT:     20,
		REDDIT_DEFAULT_SUBREDDIT: "python",
		FETCH_PARALLELISM:        4,
		SENTIMENT_BATCH_SIZE:     50,
		SUBREDDITS_PATH:          "config/subreddits.json",
		TOKEN_STORE:              "auto",
	}
}

// ParseServerSetting reads the yaml file at path. A missing file yields the
// defaults, a malformed one is an error.
func ParseServerSetting(path string) (ServerSetting, error) {
	s := ServerSetting{}
	yamlFile, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultServerSetting(), nil
	}
	if err != nil {
		return s, errors.Wrapf(err, "fail to read settings %s", path)
	}
	if err = yaml.UnmarshalStrict(yamlFile, &s); err != nil {
		return s, errors.Wrapf(err, "fail to parse settings %s", path)
	}
	s.fillDefaults()
	return s, nil
}

func (s *ServerSetting) fillDefaults() {
	d := DefaultServerSetting()
	if s.LISTEN_ADDR == "" {
		s.LISTEN_ADDR = d.LISTEN_ADDR
	}
	s.RECENT_DEFAULT_LIMIT = limitOr(s.RECENT_DEFAULT_LIMIT, d.RECENT_DEFAULT_LIMIT)
	s.PENDING_DEFAULT_LIMIT = limitOr(s.PENDING_DEFAULT_LIMIT, d.PENDING_DEFAULT_LIMIT)
	s.ANALYZE_DEFAULT_LIMIT = limitOr(s.ANALYZE_DEFAULT_LIMIT, d.ANALYZE_DEFAULT_LIMIT)
	if s.REDDIT_DEFAULT_LIMIT <= 0 {
		s.REDDIT_DEFAULT_LIMIT = d.REDDIT_DEFAULT_LIMIT
	}
	if s.REDDIT_DEFAULT_SUBREDDIT == "" {
		s.REDDIT_DEFAULT_SUBREDDIT = d.REDDIT_DEFAULT_SUBREDDIT
	}
	if s.FETCH_PARALLELISM <= 0 {
		s.FETCH_PARALLELISM = d.FETCH_PARALLELISM
	}
	if s.SENTIMENT_BATCH_SIZE <= 0 {
		s.SENTIMENT_BATCH_SIZE = d.SENTIMENT_BATCH_SIZE
	}
	if s.SUBREDDITS_PATH == "" {
		s.SUBREDDITS_PATH = d.SUBREDDITS_PATH
	}
	if s.TOKEN_STORE == "" {
		s.TOKEN_STORE = d.TOKEN_STORE
	}
}

// limitOr keeps default page sizes inside the bounds every query is clamped to.
func limitOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return utils.ClampLimit(v)
}
