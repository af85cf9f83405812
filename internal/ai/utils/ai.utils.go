package utils

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// CleanJSONOutput strips surrounding whitespace and a markdown code fence
// some models wrap JSON in even when asked not to.
func CleanJSONOutput(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") && len(cleaned) >= 6 {
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```JSON")
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}

// HTTPStatus extracts the backend's HTTP status from a go-openai error, or 0
// when the call never got a response.
func HTTPStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// IsRateLimited reports whether the backend refused the call for quota reasons.
func IsRateLimited(err error) bool {
	return HTTPStatus(err) == http.StatusTooManyRequests
}
