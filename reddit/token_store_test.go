package reddit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Luismorlan/redditmux/utils"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestDotEnvTokenStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ".env.local")
	s := NewDotEnvTokenStore(path)

	// Missing file: nothing is created.
	require.NoError(t, s.Save(ctx, &oauth2.Token{AccessToken: "a", RefreshToken: "r"}))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	tok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, tok)

	require.NoError(t, godotenv.Write(map[string]string{"DB_NAME": "posts"}, path))
	require.NoError(t, s.Save(ctx, &oauth2.Token{AccessToken: "a", RefreshToken: "r"}))
	require.NoError(t, s.Save(ctx, &oauth2.Token{AccessToken: "b"}))

	env, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"DB_NAME": "posts", "ACCESS_TOKEN": "b", "REFRESH_TOKEN": "r"}, env)

	tok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", tok.AccessToken)
	assert.Equal(t, "r", tok.RefreshToken)
}

func TestRedisTokenStore(t *testing.T) {
	if !utils.IsRedisConfigured() {
		t.Skip("REDIS_HOST not set, skipping redis test")
	}
	ctx := context.Background()
	client, err := utils.GetRedisClient(ctx)
	require.NoError(t, err)
	key := "redditmux:test:" + utils.RandomAlphabetString(8)
	defer client.Del(ctx, key)

	s := NewRedisTokenStore(client, key)
	tok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, tok)

	require.NoError(t, s.Save(ctx, &oauth2.Token{AccessToken: "a", RefreshToken: "r"}))
	tok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", tok.AccessToken)
	assert.Equal(t, "r", tok.RefreshToken)
}

func TestNewTokenStore(t *testing.T) {
	ctx := context.Background()

	s, err := NewTokenStore(ctx, TokenStoreNone)
	require.NoError(t, err)
	assert.IsType(t, NopTokenStore{}, s)

	s, err = NewTokenStore(ctx, TokenStoreDotEnv)
	require.NoError(t, err)
	assert.IsType(t, &DotEnvTokenStore{}, s)

	if !utils.IsRedisConfigured() {
		s, err = NewTokenStore(ctx, TokenStoreAuto)
		require.NoError(t, err)
		assert.IsType(t, &DotEnvTokenStore{}, s)
	}

	_, err = NewTokenStore(ctx, "s3")
	assert.Error(t, err)
}
