package server

import (
	"net/http"

	"github.com/Luismorlan/redditmux/sentiment"
	"github.com/Luismorlan/redditmux/sink"
	"github.com/gin-gonic/gin"
)

// SentimentPingHandler reports whether the storage service answers.
func SentimentPingHandler(storage sink.StorageClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := storage.Ping(c.Request.Context())
		res := gin.H{"message": "Sentiment Service Pong!", "storage_reachable": err == nil}
		if err != nil {
			res["details"] = err.Error()
		}
		c.JSON(http.StatusOK, res)
	}
}

// AnalyzeHandler scores recent posts and stores the results. Failures to
// read or store are reported in meta with a 200.
func AnalyzeHandler(svc *sentiment.Service, defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := limitParam(c, defaultLimit)
		if err != nil {
			respondError(c, "Invalid limit", err)
			return
		}
		report := svc.Analyze(c.Request.Context(), limit, categoryParam(c))
		c.JSON(http.StatusOK, gin.H{
			"message": "Sentiment analysis completed!",
			"results": report.Results,
			"meta":    report.Meta,
		})
	}
}
