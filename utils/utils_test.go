package utils

import (
	"os"
	"testing"

	"github.com/Luismorlan/redditmux/utils/dotenv"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 1, ClampLimit(0))
	assert.Equal(t, 1, ClampLimit(-5))
	assert.Equal(t, 20, ClampLimit(20))
	assert.Equal(t, 200, ClampLimit(200))
	assert.Equal(t, 200, ClampLimit(500))
}

func TestIsProdEnv(t *testing.T) {
	old := os.Getenv(dotenv.EnvName)
	defer os.Setenv(dotenv.EnvName, old)

	os.Setenv(dotenv.EnvName, dotenv.ProdEnv)
	assert.True(t, IsProdEnv())
	os.Setenv(dotenv.EnvName, "")
	assert.False(t, IsProdEnv())
}

func TestErrorTaxonomy(t *testing.T) {
	err := NewStorageError("upsert post", errors.New("connection refused"))
	assert.True(t, IsStorageFailure(err))
	assert.False(t, IsInvalidInput(err))
	assert.Contains(t, err.Error(), "connection refused")

	wrapped := errors.Wrap(err, "store posts")
	assert.True(t, IsStorageFailure(wrapped))

	assert.Nil(t, NewStorageError("noop", nil))

	bad := InvalidInputf("results must be a list, got %s", "object")
	assert.True(t, IsInvalidInput(bad))
	assert.False(t, IsStorageFailure(bad))
	assert.Contains(t, bad.Error(), "results must be a list")
}
