package helpers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParseIDParam parses a positive int64 path parameter.
func ParseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// OptionalInt64Query returns a pointer to the parsed query value, nil when absent.
// ok is false when the value is present but not a valid integer.
func OptionalInt64Query(c *gin.Context, name string) (value *int64, ok bool) {
	raw, present := c.GetQuery(name)
	if !present || strings.TrimSpace(raw) == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// OptionalBoolQuery returns a pointer to the parsed boolean query value, nil when absent.
func OptionalBoolQuery(c *gin.Context, name string) (value *bool, ok bool) {
	raw, present := c.GetQuery(name)
	if !present || strings.TrimSpace(raw) == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// OptionalStringQuery returns a pointer to the trimmed query value, nil when absent or blank.
func OptionalStringQuery(c *gin.Context, name string) *string {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	return &raw
}
