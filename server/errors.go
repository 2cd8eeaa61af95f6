package server

import (
	"net/http"

	"github.com/Luismorlan/redditmux/server/middlewares"
	"github.com/Luismorlan/redditmux/utils"
	. "github.com/Luismorlan/redditmux/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// statusFor maps the error taxonomy to an HTTP status. Unauthorized is
// checked before upstream since a 401 from Reddit is both.
func statusFor(err error) int {
	switch {
	case utils.IsInvalidInput(err):
		return http.StatusBadRequest
	case utils.IsUnauthorized(err):
		return http.StatusUnauthorized
	case utils.IsStorageFailure(err):
		return http.StatusInternalServerError
	case utils.IsUpstreamFailure(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError aborts the request with {"error": msg, "details": err}.
func respondError(c *gin.Context, msg string, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	Log.WithFields(logrus.Fields{
		"request_id": c.GetString(middlewares.RequestIDKey),
		"status":     status,
	}).Warnf("%s: %s", msg, err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "details": err.Error()})
}
