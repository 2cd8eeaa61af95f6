package app_setting

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServerSettingSample(t *testing.T) {
	s, err := ParseServerSetting("app_setting.yaml")
	require.NoError(t, err)
	if diff := cmp.Diff(DefaultServerSetting(), s); diff != "" {
		t.Errorf("sample settings drifted from defaults (-want +got):\n%s", diff)
	}
}

func TestParseServerSettingPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("RECENT_DEFAULT_LIMIT: 1000\nFETCH_PARALLELISM: 8\nTOKEN_STORE: redis\n"), 0644))

	s, err := ParseServerSetting(path)
	require.NoError(t, err)
	assert.Equal(t, 200, s.RECENT_DEFAULT_LIMIT)
	assert.Equal(t, 8, s.FETCH_PARALLELISM)
	assert.Equal(t, "redis", s.TOKEN_STORE)
	assert.Equal(t, 50, s.PENDING_DEFAULT_LIMIT)
	assert.Equal(t, ":8080", s.LISTEN_ADDR)
}

func TestParseServerSettingMissingFile(t *testing.T) {
	s, err := ParseServerSetting(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerSetting(), s)
}

func TestParseServerSettingUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("LAMBDA_POOL_SIZE: 3\n"), 0644))

	_, err := ParseServerSetting(path)
	assert.Error(t, err)
}
