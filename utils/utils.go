package utils

import (
	"github.com/Luismorlan/redditmux/utils/dotenv"
)

const (
	// MinQueryLimit and MaxQueryLimit bound every list query, whatever the
	// caller asked for.
	MinQueryLimit = 1
	MaxQueryLimit = 200
)

// ClampLimit forces limit into [MinQueryLimit, MaxQueryLimit].
func ClampLimit(limit int) int {
	if limit < MinQueryLimit {
		return MinQueryLimit
	}
	if limit > MaxQueryLimit {
		return MaxQueryLimit
	}
	return limit
}

func IsProdEnv() bool {
	return dotenv.CurrentEnv() == dotenv.ProdEnv
}

func StringPtr(s string) *string { return &s }

func Float64Ptr(f float64) *float64 { return &f }

// StringValue dereferences s, empty string for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
