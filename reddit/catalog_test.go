package reddit

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalogShapes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []Category
	}{
		{
			name: "subreddits key",
			in:   `{"subreddits": ["golang", "rust"]}`,
			want: []Category{{Name: "default", Subreddits: []string{"golang", "rust"}}},
		},
		{
			name: "categories keep file order",
			in:   `{"tech": ["golang"], "news": ["worldnews", "europe"], "art": []}`,
			want: []Category{
				{Name: "tech", Subreddits: []string{"golang"}},
				{Name: "news", Subreddits: []string{"worldnews", "europe"}},
				{Name: "art", Subreddits: []string{}},
			},
		},
		{
			name: "bare list",
			in:   `["python"]`,
			want: []Category{{Name: "default", Subreddits: []string{"python"}}},
		},
		{
			name: "yaml",
			in:   "tech:\n  - golang\n",
			want: []Category{{Name: "tech", Subreddits: []string{"golang"}}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			catalog, err := ParseCatalog([]byte(c.in))
			require.NoError(t, err)
			if diff := cmp.Diff(c.want, catalog.Categories); diff != "" {
				t.Errorf("catalog mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseCatalogRejects(t *testing.T) {
	for _, in := range []string{`{"tech": "golang"}`, `"python"`, `[1, 2]`, `{"a": [`} {
		_, err := ParseCatalog([]byte(in))
		assert.Error(t, err, in)
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, ioutil.WriteFile(good, []byte(`{"tech": ["golang"]}`), 0644))
	require.NoError(t, ioutil.WriteFile(bad, []byte(`{"tech": 1}`), 0644))
	missing := filepath.Join(dir, "missing.json")

	os.Unsetenv(catalogEnv)

	c := LoadCatalog(missing, good)
	assert.Equal(t, "tech", c.Categories[0].Name)
	assert.Equal(t, 1, c.Size())

	// A bad file stops the search.
	c = LoadCatalog(bad, good)
	assert.Equal(t, FallbackCatalog(), c)

	c = LoadCatalog(missing)
	assert.Equal(t, 3, c.Size())

	os.Setenv(catalogEnv, good)
	defer os.Unsetenv(catalogEnv)
	c = LoadCatalog(missing)
	assert.Equal(t, "tech", c.Categories[0].Name)
}
