package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/Luismorlan/redditmux/utils"
	Logger "github.com/Luismorlan/redditmux/utils/log"
	"github.com/pkg/errors"
)

const (
	DefaultTimeout = 20 * time.Second
	// Bodies attached to errors are cut to this many bytes.
	maxErrorBodyBytes = 1000
)

// HttpClient sends requests with a fixed set of headers and a bounded
// timeout. Non-2xx responses become *StatusError.
type HttpClient struct {
	header http.Header
	client *http.Client
}

func NewDefaultHttpClient() *HttpClient {
	return NewHttpClient(http.Header{}, DefaultTimeout)
}

func NewHttpClient(header http.Header, timeout time.Duration) *HttpClient {
	return &HttpClient{header: header, client: &http.Client{Timeout: timeout}}
}

// StatusError is returned for a response with a status code >= 300.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: http status %d: %s", utils.ErrUpstream, e.StatusCode, e.Body)
}

// Is matches ErrUpstream, and ErrUnauthorized for 401 and 403.
func (e *StatusError) Is(target error) bool {
	switch target {
	case utils.ErrUpstream:
		return true
	case utils.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return false
}

func (c *HttpClient) Do(ctx context.Context, method string, uri string, body io.Reader, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s request to %s", method, uri)
	}
	req.Header = c.header.Clone()
	for k, v := range header {
		req.Header[k] = v
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(utils.ErrUpstream, "%s %s: %s", method, uri, err)
	}
	defer res.Body.Close()

	data, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(utils.ErrUpstream, "read response of %s: %s", uri, err)
	}
	if IsNon200HttpResponse(res) {
		MaybeLogNon200HttpError(res, data)
		return nil, &StatusError{StatusCode: res.StatusCode, Body: truncate(data)}
	}
	return data, nil
}

func (c *HttpClient) Get(ctx context.Context, uri string) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, uri, nil, nil)
}

// GetWithQueryParams appends params to uri as ?${KEY}=${VALUE}.
func (c *HttpClient) GetWithQueryParams(ctx context.Context, uri string, params map[string]string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", uri)
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return c.Get(ctx, u.String())
}

// PostJSON posts body as is with a JSON content type.
func (c *HttpClient) PostJSON(ctx context.Context, uri string, body []byte) ([]byte, error) {
	header := http.Header{"Content-Type": []string{"application/json"}}
	return c.Do(ctx, http.MethodPost, uri, bytes.NewReader(body), header)
}

// PostJSONValue marshals v and posts it, then decodes the response into out
// unless out is nil.
func (c *HttpClient) PostJSONValue(ctx context.Context, uri string, v interface{}, out interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal request body")
	}
	data, err := c.PostJSON(ctx, uri, body)
	if err != nil {
		return err
	}
	return DecodeJSON(data, out)
}

// DecodeJSON unmarshals a response body, a nil out discards it.
func DecodeJSON(data []byte, out interface{}) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(utils.ErrUpstream, "decode response: %s", err)
	}
	return nil
}

// Log http response if the error code is not 2XX
func MaybeLogNon200HttpError(res *http.Response, body []byte) {
	if IsNon200HttpResponse(res) {
		Logger.Log.Errorf("non-200 http code: %d from %s", res.StatusCode, res.Request.URL)
		Logger.Log.Errorln("response body is: ", truncate(body))
	}
}

func IsNon200HttpResponse(res *http.Response) bool {
	return res.StatusCode >= 300
}

func truncate(body []byte) string {
	if len(body) > maxErrorBodyBytes {
		return string(body[:maxErrorBodyBytes])
	}
	return string(body)
}
