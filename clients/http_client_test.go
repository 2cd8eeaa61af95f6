package clients

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Luismorlan/redditmux/utils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWithQueryParamsAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "redditmux-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "python", r.URL.Query().Get("subreddit"))
		w.Write([]byte(`[1,2]`))
	}))
	defer srv.Close()

	c := NewHttpClient(http.Header{"User-Agent": []string{"redditmux-test"}}, time.Second)
	data, err := c.GetWithQueryParams(context.Background(), srv.URL+"/posts?limit=1", map[string]string{
		"limit":     "5",
		"subreddit": "python",
	})
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))
}

func TestNon200IsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`down`))
	}))
	defer srv.Close()

	_, err := NewDefaultHttpClient().Get(context.Background(), srv.URL)
	require.Error(t, err)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "down", statusErr.Body)
	assert.True(t, utils.IsUpstreamFailure(err))
}

func TestPostJSONValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := ioutil.ReadAll(r.Body)
		assert.JSONEq(t, `{"results":[]}`, string(body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"count":0}`))
	}))
	defer srv.Close()

	var out struct {
		Count int `json:"count"`
	}
	err := NewDefaultHttpClient().PostJSONValue(context.Background(), srv.URL, map[string]interface{}{
		"results": []int{},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Count)
}

func TestTimeoutIsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewHttpClient(http.Header{}, 20*time.Millisecond).Get(context.Background(), srv.URL)
	assert.True(t, utils.IsUpstreamFailure(err))
}
