package normalizer

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(records []*Node) []string {
	res := []string{}
	for _, r := range records {
		if s, ok := r.Get("id").Text(); ok {
			res = append(res, s)
			continue
		}
		s, _ := r.Get("name").Text()
		res = append(res, s)
	}
	return res
}

func TestNormalizeListing(t *testing.T) {
	root := MustParse(`{"kind":"Listing","data":{"children":[
		{"kind":"t3","data":{"id":"a1","title":"Hello","subreddit":"python"}},
		{"kind":"t3","data":{"id":"a2","title":"World","subreddit":"python"}}]}}`)

	records := Normalize(root)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"a1", "a2"}, ids(records))

	want := map[string]interface{}{"id": "a1", "title": "Hello", "subreddit": "python"}
	if diff := cmp.Diff(want, records[0].Interface()); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizePartiallyUnwrappedListing(t *testing.T) {
	root := MustParse(`{"children":[{"data":{"id":"a"}},{"data":{}},{"kind":"t3"},{"data":{"id":"b"}}]}`)
	assert.Equal(t, []string{"a", "b"}, ids(Normalize(root)))
}

func TestNormalizeNestedCategories(t *testing.T) {
	root := MustParse(`{
		"tech": {
			"python": {"data": {"children": [{"data": {"id": "p1"}}, {"data": {"id": "p2"}}]}},
			"golang": {"data": {"children": [{"data": {"id": "g1"}}]}}
		},
		"news": {
			"worldnews": {"data": {"children": [{"data": {"id": "w1"}}, {"data": {"id": "p1"}}]}}
		}
	}`)
	assert.Equal(t, []string{"p1", "p2", "g1", "w1"}, ids(Normalize(root)))
}

func TestNormalizeSequenceOfWrappedPosts(t *testing.T) {
	root := MustParse(`[{"kind":"t3","data":{"id":"x"}},{"kind":"t3","data":{"id":"y"}},"noise",3]`)
	assert.Equal(t, []string{"x", "y"}, ids(Normalize(root)))
}

func TestNormalizeFlatList(t *testing.T) {
	root := MustParse(`[{"id":"f1","title":"one"},{"name":"t3_f2","title":"two"},{"title":"no identity"}]`)
	assert.Equal(t, []string{"f1", "t3_f2"}, ids(Normalize(root)))
}

func TestNormalizeListOfListings(t *testing.T) {
	root := MustParse(`[
		{"kind":"Listing","data":{"children":[{"data":{"id":"a"}}]}},
		{"kind":"Listing","data":{"children":[{"data":{"id":"b"}}]}}
	]`)
	// Each element carries a "data" mapping so it is recorded as is. This is the
	// literal sequence rule, the inner listing is not descended into.
	records := Normalize(root)
	require.Len(t, records, 2)
	assert.NotNil(t, records[0].Get("children"))
}

func TestNormalizeDedup(t *testing.T) {
	root := MustParse(`{"data":{"children":[
		{"data":{"id":"dup","title":"first"}},
		{"data":{"id":"dup","title":"second"}},
		{"data":{"name":"t3_n","title":"by name"}},
		{"data":{"name":"t3_n"}},
		{"data":{"title":"anonymous"}},
		{"data":{"title":"anonymous"}}
	]}}`)

	records := Normalize(root)
	require.Len(t, records, 4)
	title, _ := records[0].Get("title").String()
	assert.Equal(t, "first", title)
	// Records without id or name are distinct by identity even when equal.
	assert.False(t, records[2] == records[3])
}

func TestNormalizeDedupDistinguishesNumberAndString(t *testing.T) {
	root := MustParse(`[{"id":1},{"id":"1"},{"id":1}]`)
	assert.Len(t, Normalize(root), 2)
}

func TestNormalizeFalsyIdFallsBackToName(t *testing.T) {
	root := MustParse(`[{"data":{"id":"","name":"t3_a"}},{"data":{"id":null,"name":"t3_a"}}]`)
	assert.Len(t, Normalize(root), 1)
}

func TestNormalizeNonMatching(t *testing.T) {
	for _, in := range []string{`{}`, `[]`, `"text"`, `42`, `null`, `{"data":{"after":null}}`, `{"a":{"b":[1,2,3]}}`} {
		records := Normalize(MustParse(in))
		assert.NotNil(t, records, in)
		assert.Empty(t, records, in)
	}
	assert.Empty(t, Normalize(nil))
}

func nestedListing(depth int) string {
	listing := `{"data":{"children":[{"data":{"id":"deep"}}]}}`
	return strings.Repeat(`{"k":`, depth) + listing + strings.Repeat(`}`, depth)
}

func TestNormalizeDepthCap(t *testing.T) {
	assert.Equal(t, []string{"deep"}, ids(Normalize(MustParse(nestedListing(MaxDepth)))))
	assert.Empty(t, Normalize(MustParse(nestedListing(MaxDepth+1))))
}

func TestNormalizeJSON(t *testing.T) {
	records, err := NormalizeJSON([]byte(`{"data":{"children":[{"data":{"id":"a"}}]}}`))
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = NormalizeJSON([]byte(`{"data":`))
	assert.Error(t, err)
	_, err = NormalizeJSON([]byte(``))
	assert.Error(t, err)
}

func TestNodeAccessors(t *testing.T) {
	n := MustParse(`{"s":"x","i":12,"f":12.9,"fs":"1700000000.5","b":true,"nul":null,"o":{"a":1},"l":[1]}`)

	assert.Equal(t, []string{"s", "i", "f", "fs", "b", "nul", "o", "l"}, n.Keys())

	s, ok := n.Get("s").String()
	assert.True(t, ok)
	assert.Equal(t, "x", s)
	_, ok = n.Get("i").String()
	assert.False(t, ok)

	i, ok := n.Get("i").Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(12), i)
	i, ok = n.Get("f").Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(12), i)
	_, ok = n.Get("s").Int64()
	assert.False(t, ok)

	for _, big := range []string{"9223372036854775808", "9223372036854775807.5", "1e19", "-9223372036854775809.5e3"} {
		_, ok = MustParse(big).Int64()
		assert.False(t, ok, big)
	}
	i, ok = MustParse("-9223372036854775808").Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(math.MinInt64), i)
	i, ok = MustParse("9.2e18").Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(9200000000000000000), i)

	f, ok := n.Get("fs").Float64()
	assert.True(t, ok)
	assert.Equal(t, 1700000000.5, f)
	_, ok = n.Get("s").Float64()
	assert.False(t, ok)

	b, ok := n.Get("b").Bool()
	assert.True(t, ok)
	assert.True(t, b)

	assert.True(t, n.Get("nul").IsNull())
	assert.True(t, n.Get("missing").IsNull())
	assert.False(t, n.Get("o").IsNull())
	assert.Equal(t, 1, n.Get("l").Len())
	assert.Nil(t, n.Get("s").Get("anything"))
}

func TestNodeMarshalKeepsOrder(t *testing.T) {
	in := `{"z":1,"a":[true,null,"s"],"m":{"y":2.5,"b":"c"}}`
	out, err := json.Marshal(MustParse(in))
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}
