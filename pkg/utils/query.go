package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// QueryParam is one key of a query string. A nil Value means the key is
// omitted; empty strings and zero are still encoded.
type QueryParam struct {
	Key   string
	Value interface{}
}

// Param builds a QueryParam.
func Param(key string, value interface{}) QueryParam {
	return QueryParam{Key: key, Value: value}
}

// OptionalString returns a param value for s, or nil when s is nil.
func OptionalString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// OptionalInt returns a param value for n, or nil when n is nil.
func OptionalInt(n *int) interface{} {
	if n == nil {
		return nil
	}
	return *n
}

// BuildQueryString renders params in the given order as "?k=v&k2=v2" using
// form encoding (spaces become "+"). Params with a nil value are skipped and
// an empty string is returned when nothing qualifies.
func BuildQueryString(params ...QueryParam) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		if p.Value == nil {
			continue
		}
		parts = append(parts, url.QueryEscape(p.Key)+"="+url.QueryEscape(fmt.Sprint(p.Value)))
	}
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}

var trailingIDPattern = regexp.MustCompile(`/(\d+)/$`)

// ExtractIDFromURL returns the numeric id of a catalog URL such as
// ".../people/1/". Any other shape yields "".
func ExtractIDFromURL(rawURL string) string {
	matches := trailingIDPattern.FindStringSubmatch(rawURL)
	if matches == nil {
		return ""
	}
	return matches[1]
}
