package backend

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/farm-insights/pkg/models/domain"
)

// WarmupMessage is returned as text when the backend reports that the model
// is still loading. It is informational, not an error.
const WarmupMessage = "Model is warming up, please try again in a few seconds."

// ClassifyStatus maps a non-success HTTP status to a transport error kind.
func ClassifyStatus(status int) domain.ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return domain.KindUnauthorized
	case http.StatusForbidden:
		return domain.KindForbidden
	case http.StatusNotFound:
		return domain.KindNotFound
	case http.StatusGone:
		return domain.KindGone
	case http.StatusTooManyRequests:
		return domain.KindRateLimited
	default:
		return domain.KindUnknown
	}
}

var statusMessages = map[domain.ErrorKind]string{
	domain.KindUnauthorized: "invalid backend API key",
	domain.KindForbidden:    "permission denied for the requested model",
	domain.KindNotFound:     "model not found; check the model name",
	domain.KindGone:         "model not available or endpoint deprecated",
	domain.KindRateLimited:  "rate limited by backend; try again later",
}

// StatusError builds the transport error for a failed backend response.
func StatusError(status int, header http.Header, body string) *domain.Error {
	kind := ClassifyStatus(status)
	msg, ok := statusMessages[kind]
	if !ok {
		msg = "backend error " + strconv.Itoa(status) + " " + http.StatusText(status)
	}

	e := &domain.Error{
		Kind:    kind,
		Message: msg,
		Status:  status,
		Raw:     body,
	}
	if kind == domain.KindRateLimited {
		e.RetryAfter = ParseRetryAfter(header.Get("Retry-After"), time.Now())
	}
	return e
}

// IsWarmup reports whether an error body says the model is still loading.
func IsWarmup(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "model loading") ||
		strings.Contains(lower, "model is loading") ||
		strings.Contains(lower, "is currently loading")
}

// ParseRetryAfter accepts delta-seconds or an HTTP date. Unparsable or past
// values yield zero.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
