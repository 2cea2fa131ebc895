package domain

import (
	"errors"
	"fmt"
	"time"
)

type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindInput         ErrorKind = "input"

	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindGone         ErrorKind = "gone"
	KindRateLimited  ErrorKind = "rate_limited"
	KindUnknown      ErrorKind = "unknown"

	KindNoJSONFound             ErrorKind = "no_json_found"
	KindValidation              ErrorKind = "validation"
	KindInvalidOutputAfterRetry ErrorKind = "invalid_output_after_retry"
)

// IsTransport reports whether the kind comes from the backend transport.
// Transport failures abort the run; they never trigger the corrective retry.
func (k ErrorKind) IsTransport() bool {
	switch k {
	case KindUnauthorized, KindForbidden, KindNotFound, KindGone, KindRateLimited, KindUnknown:
		return true
	}
	return false
}

// IsOutput reports whether the kind describes an unusable model reply.
func (k ErrorKind) IsOutput() bool {
	return k == KindNoJSONFound || k == KindValidation || k == KindInvalidOutputAfterRetry
}

var userMessages = map[ErrorKind]string{
	KindConfiguration:           "The insights service is misconfigured.",
	KindInput:                   "The submitted records could not be analyzed.",
	KindUnauthorized:            "The insights service credentials were rejected.",
	KindForbidden:               "The insights service is not permitted to use the configured model.",
	KindNotFound:                "The configured model does not exist.",
	KindGone:                    "The configured model endpoint is no longer available.",
	KindRateLimited:             "The insights service is busy. Try again later.",
	KindUnknown:                 "The insights service is unavailable.",
	KindNoJSONFound:             "The insights service returned unusable data.",
	KindValidation:              "The insights service returned unusable data.",
	KindInvalidOutputAfterRetry: "The insights service returned unusable data. Try again.",
}

// Error is a classified pipeline failure. Raw and RetryRaw keep the model
// text of the first and second attempts.
type Error struct {
	Kind       ErrorKind
	Message    string
	Status     int           // backend HTTP status, when there was one
	RetryAfter time.Duration // set for KindRateLimited when the backend sent it
	Raw        string
	RetryRaw   string
	Err        error
}

func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is the short, stable text shown to end users.
func (e *Error) UserMessage() string {
	if msg, ok := userMessages[e.Kind]; ok {
		return msg
	}
	return userMessages[KindUnknown]
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
