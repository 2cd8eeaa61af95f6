package reddit

import (
	"context"
	"encoding/json"
	"os"

	"github.com/Luismorlan/redditmux/utils"
	. "github.com/Luismorlan/redditmux/utils/log"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// TokenStore persists OAuth tokens across restarts. Load returns nil, nil
// when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (*oauth2.Token, error)
	Save(ctx context.Context, tok *oauth2.Token) error
}

// Token store backends accepted by NewTokenStore.
const (
	TokenStoreAuto   = "auto"
	TokenStoreRedis  = "redis"
	TokenStoreDotEnv = "dotenv"
	TokenStoreNone   = "none"
)

// NewTokenStore builds the backend named by kind. auto picks redis when
// REDIS_HOST is set, and the .env.local file when it is not or when redis
// cannot be reached.
func NewTokenStore(ctx context.Context, kind string) (TokenStore, error) {
	switch kind {
	case TokenStoreRedis:
		client, err := utils.GetRedisClient(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "connect to redis")
		}
		return NewRedisTokenStore(client, DefaultRedisTokenKey), nil
	case TokenStoreDotEnv:
		return NewDotEnvTokenStore(DefaultDotEnvPath), nil
	case TokenStoreNone:
		return NopTokenStore{}, nil
	case TokenStoreAuto, "":
		if utils.IsRedisConfigured() {
			client, err := utils.GetRedisClient(ctx)
			if err == nil {
				return NewRedisTokenStore(client, DefaultRedisTokenKey), nil
			}
			Log.Warn("redis unreachable, keeping reddit tokens in ", DefaultDotEnvPath, ": ", err)
		}
		return NewDotEnvTokenStore(DefaultDotEnvPath), nil
	}
	return nil, errors.Errorf("unknown token store %q", kind)
}

type NopTokenStore struct{}

func (NopTokenStore) Load(context.Context) (*oauth2.Token, error) { return nil, nil }
func (NopTokenStore) Save(context.Context, *oauth2.Token) error    { return nil }

const DefaultRedisTokenKey = "redditmux:reddit_token"

// RedisTokenStore keeps the token as JSON under a single key, so every
// replica of the service shares it.
type RedisTokenStore struct {
	client *redis.Client
	key    string
}

func NewRedisTokenStore(client *redis.Client, key string) *RedisTokenStore {
	if key == "" {
		key = DefaultRedisTokenKey
	}
	return &RedisTokenStore{client: client, key: key}
}

func (s *RedisTokenStore) Load(ctx context.Context) (*oauth2.Token, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read token from redis")
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, errors.Wrap(err, "decode token from redis")
	}
	return &tok, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return errors.Wrap(err, "encode token")
	}
	return errors.Wrap(s.client.Set(ctx, s.key, data, 0).Err(), "write token to redis")
}

const DefaultDotEnvPath = ".env.local"

// DotEnvTokenStore writes ACCESS_TOKEN and REFRESH_TOKEN into a local .env
// file for development. It only touches a file that already exists and is
// writable, otherwise saving is a no-op.
type DotEnvTokenStore struct {
	path string
}

func NewDotEnvTokenStore(path string) *DotEnvTokenStore {
	if path == "" {
		path = DefaultDotEnvPath
	}
	return &DotEnvTokenStore{path: path}
}

func (s *DotEnvTokenStore) Load(context.Context) (*oauth2.Token, error) {
	env, err := godotenv.Read(s.path)
	if os.IsNotExist(errors.Cause(err)) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.path)
	}
	if env["ACCESS_TOKEN"] == "" && env["REFRESH_TOKEN"] == "" {
		return nil, nil
	}
	return &oauth2.Token{AccessToken: env["ACCESS_TOKEN"], RefreshToken: env["REFRESH_TOKEN"], TokenType: "bearer"}, nil
}

func (s *DotEnvTokenStore) Save(_ context.Context, tok *oauth2.Token) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY, 0)
	if err != nil {
		// Missing or read-only file, nothing to do outside local development.
		return nil
	}
	f.Close()

	env, err := godotenv.Read(s.path)
	if err != nil {
		return errors.Wrapf(err, "read %s", s.path)
	}
	if tok.AccessToken != "" {
		env["ACCESS_TOKEN"] = tok.AccessToken
	}
	if tok.RefreshToken != "" {
		env["REFRESH_TOKEN"] = tok.RefreshToken
	}
	return errors.Wrapf(godotenv.Write(env, s.path), "write %s", s.path)
}
