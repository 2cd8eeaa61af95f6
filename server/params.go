package server

import (
	"strconv"
	"strings"

	"github.com/Luismorlan/redditmux/utils"
	"github.com/gin-gonic/gin"
)

// categoryParam reads ?category=, falling back to ?subreddit=.
func categoryParam(c *gin.Context) string {
	if v := strings.TrimSpace(c.Query("category")); v != "" {
		return v
	}
	return strings.TrimSpace(c.Query("subreddit"))
}

// limitParam reads ?limit=, def when absent. The store clamps the value.
func limitParam(c *gin.Context, def int) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, utils.InvalidInputf("limit must be an integer, got %q", raw)
	}
	return n, nil
}
