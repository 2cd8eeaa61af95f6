package reddit

import (
	"fmt"
	"io/ioutil"
	"os"

	. "github.com/Luismorlan/redditmux/utils/log"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	DefaultCatalogPath = "config/subreddits.json"
	DefaultCategory    = "default"
	catalogEnv         = "SUBREDDITS_JSON"
)

var fallbackSubreddits = []string{"python", "programming", "technology"}

type Category struct {
	Name       string
	Subreddits []string
}

// Catalog lists the subreddits to fetch, grouped by category, in file order.
type Catalog struct {
	Categories []Category
}

func FallbackCatalog() *Catalog {
	subs := make([]string, len(fallbackSubreddits))
	copy(subs, fallbackSubreddits)
	return &Catalog{Categories: []Category{{Name: DefaultCategory, Subreddits: subs}}}
}

// Size is the number of subreddits over all categories.
func (c *Catalog) Size() int {
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Subreddits)
	}
	return n
}

// LoadCatalog reads the first existing file among $SUBREDDITS_JSON and paths
// (config/subreddits.json when none is given). Without any file, or when the
// first file found cannot be parsed, it returns FallbackCatalog.
func LoadCatalog(paths ...string) *Catalog {
	if len(paths) == 0 {
		paths = []string{DefaultCatalogPath}
	}
	if override := os.Getenv(catalogEnv); override != "" {
		paths = append([]string{override}, paths...)
	}

	for _, p := range paths {
		data, err := ioutil.ReadFile(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			Log.Warnf("fail to read %s: %s", p, err)
			break
		}
		catalog, err := ParseCatalog(data)
		if err != nil {
			Log.Warnf("fail to parse %s: %s", p, err)
			break
		}
		Log.Infof("loaded %d subreddits from %s", catalog.Size(), p)
		return catalog
	}

	Log.Warn("subreddit catalog not found, using fallback: ", fallbackSubreddits)
	return FallbackCatalog()
}

// ParseCatalog accepts three shapes:
//
//	{"subreddits": ["a", "b"]}         -> one "default" category
//	{"news": ["a"], "tech": ["b"]}    -> one category per key
//	["a", "b"]                         -> one "default" category
//
// The parser is YAML, so JSON files and their YAML equivalents both work.
func ParseCatalog(data []byte) (*Catalog, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}

	switch v := raw.(type) {
	case []interface{}:
		subs, err := subredditList(v)
		if err != nil {
			return nil, err
		}
		return &Catalog{Categories: []Category{{Name: DefaultCategory, Subreddits: subs}}}, nil
	case map[interface{}]interface{}:
		var ordered yaml.MapSlice
		if err := yaml.Unmarshal(data, &ordered); err != nil {
			return nil, errors.Wrap(err, "decode catalog")
		}
		return catalogFromMapping(ordered)
	}
	return nil, errors.Errorf("catalog must be a mapping or a list, got %T", raw)
}

func catalogFromMapping(m yaml.MapSlice) (*Catalog, error) {
	for _, item := range m {
		if item.Key != "subreddits" {
			continue
		}
		if list, ok := item.Value.([]interface{}); ok {
			subs, err := subredditList(list)
			if err != nil {
				return nil, err
			}
			return &Catalog{Categories: []Category{{Name: DefaultCategory, Subreddits: subs}}}, nil
		}
	}

	catalog := &Catalog{}
	for _, item := range m {
		list, ok := item.Value.([]interface{})
		if !ok {
			return nil, errors.Errorf("unsupported catalog schema: %v is not a list", item.Key)
		}
		subs, err := subredditList(list)
		if err != nil {
			return nil, err
		}
		catalog.Categories = append(catalog.Categories, Category{Name: fmt.Sprint(item.Key), Subreddits: subs})
	}
	return catalog, nil
}

func subredditList(list []interface{}) ([]string, error) {
	subs := make([]string, 0, len(list))
	for _, v := range list {
		s, ok := v.(string)
		if !ok || s == "" {
			return nil, errors.Errorf("subreddit must be a non-empty string, got %v", v)
		}
		subs = append(subs, s)
	}
	return subs, nil
}
