package server

import (
	"net/http"

	"github.com/Luismorlan/redditmux/app_setting"
	"github.com/Luismorlan/redditmux/sentiment"
	"github.com/Luismorlan/redditmux/sink"
	"github.com/Luismorlan/redditmux/store"
	"github.com/Luismorlan/redditmux/summary"
	"github.com/Luismorlan/redditmux/utils/dotenv"
	"github.com/gin-gonic/gin"
)

// Services holds what the route groups need. A group is mounted only when its
// dependencies are set, so one binary can serve any subset of the services.
type Services struct {
	Settings app_setting.ServerSetting

	// storage group
	Store *store.PostStore

	// reddit group
	OAuth   OAuthFlow
	Fetcher PostFetcher

	// sentiment group
	Sentiment *sentiment.Service
	Storage   sink.StorageClient
}

// Register mounts the root routes and every service group svc can serve.
func Register(router gin.IRouter, svc Services) {
	router.GET("/", RootHandler())
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if svc.Store != nil {
		RegisterStorage(router.Group("/storage"), svc.Store, svc.Settings)
	}
	if svc.OAuth != nil && svc.Fetcher != nil {
		RegisterReddit(router.Group("/reddit"), svc.OAuth, svc.Fetcher, svc.Settings)
	}
	if svc.Sentiment != nil && svc.Storage != nil {
		RegisterSentiment(router.Group("/sentiment"), svc.Sentiment, svc.Storage, svc.Settings)
	}
}

func RegisterStorage(g *gin.RouterGroup, s *store.PostStore, settings app_setting.ServerSetting) {
	g.GET("/", pingHandler("Storage service is running"))
	g.GET("/ping", StoragePingHandler(s))
	g.POST("/store-posts", StorePostsHandler(s))
	g.GET("/posts/recent", RecentPostsHandler(s, settings.RECENT_DEFAULT_LIMIT))
	g.GET("/posts/pending", PendingPostsHandler(s, settings.PENDING_DEFAULT_LIMIT))
	g.POST("/store-sentiment", StoreSentimentHandler(sentiment.NewWriter(s)))
	g.GET("/summary", SummaryHandler(summary.NewSummarizer(s)))
}

func RegisterReddit(g *gin.RouterGroup, flow OAuthFlow, f PostFetcher, settings app_setting.ServerSetting) {
	g.GET("/", pingHandler("Reddit service is running"))
	g.GET("/ping", pingHandler("Reddit Service Pong!"))
	g.GET("/authorize", AuthorizeHandler(flow))
	g.GET("/callback", CallbackHandler(flow))
	g.GET("/reddit-posts", RedditPostsHandler(f, settings.REDDIT_DEFAULT_SUBREDDIT, settings.REDDIT_DEFAULT_LIMIT))
	g.GET("/fetch-all", FetchAllHandler(f))
}

func RegisterSentiment(g *gin.RouterGroup, svc *sentiment.Service, storage sink.StorageClient, settings app_setting.ServerSetting) {
	g.GET("/", pingHandler("Sentiment service is running"))
	g.GET("/ping", SentimentPingHandler(storage))
	g.GET("/analyze", AnalyzeHandler(svc, settings.ANALYZE_DEFAULT_LIMIT))
}

func RootHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Reddit sentiment API is running",
			"env":     dotenv.CurrentEnv(),
		})
	}
}

// pingHandler answers a liveness probe of a service group.
func pingHandler(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": message})
	}
}
