package utils

import (
	"os"
	"sync"

	"github.com/DataDog/datadog-go/statsd"
	. "github.com/Luismorlan/redditmux/utils/log"
)

const metricPrefix = "redditmux."

// Metric names emitted by the services.
const (
	MetricPostsUpserted     = "posts.upserted"
	MetricSentimentUpdated  = "sentiment.updated"
	MetricTokenRefreshed    = "reddit.token_refreshed"
	MetricUpstreamFetchFail = "reddit.fetch_failed"
)

// MetricsClient is the subset of the statsd client the services use.
type MetricsClient interface {
	Count(name string, value int64, tags []string, rate float64) error
	Incr(name string, tags []string, rate float64) error
	Close() error
}

type nopMetricsClient struct{}

func (nopMetricsClient) Count(string, int64, []string, float64) error { return nil }
func (nopMetricsClient) Incr(string, []string, float64) error         { return nil }
func (nopMetricsClient) Close() error                                  { return nil }

var (
	metricsOnce   sync.Once
	metricsClient MetricsClient = nopMetricsClient{}
)

// Metrics returns the process-wide statsd client. It talks to the agent at
// DD_AGENT_ADDR and is a no-op when that is unset or unreachable.
func Metrics() MetricsClient {
	metricsOnce.Do(func() {
		addr := os.Getenv("DD_AGENT_ADDR")
		if addr == "" {
			return
		}
		c, err := statsd.New(addr, statsd.WithNamespace(metricPrefix))
		if err != nil {
			Log.Warn("fail to create statsd client, metrics disabled: ", err)
			return
		}
		metricsClient = c
	})
	return metricsClient
}
