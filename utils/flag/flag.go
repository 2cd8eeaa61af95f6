/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package
*/

package flag

import (
	"flag"
)

const (
	AllServices      = "all"
	StorageService   = "storage"
	RedditService    = "reddit"
	SentimentService = "sentiment"
	FetcherJob       = "fetcher"
)

var (
	IsDevelopment *bool
	ServiceName   *string
	SettingsPath  *string
	ByPassTracing *bool
)

func init() {
	// Registered in init but parsed in ParseFlags, so that test binaries can
	// register their own -test.* flags before parsing happens.
	IsDevelopment = flag.Bool("dev", true, "set to true if the current run is for development. default value is true")
	ServiceName = flag.String("service", AllServices, "'all', 'storage', 'reddit' or 'sentiment'")
	SettingsPath = flag.String("settings", "app_setting/app_setting.yaml", "path to the yaml service settings")
	ByPassTracing = flag.Bool("no_tracing", true, "skip datadog tracer and profiler start up")
}

func ParseFlags() {
	flag.Parse()
}
