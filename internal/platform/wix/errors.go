package wix

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a provider failure. Callers branch on
// KindAuthorizationDenied to print its distinct remediation hints; the other
// kinds exist for logging context only.
type ErrorKind string

const (
	KindAuthorizationDenied ErrorKind = "authorization_denied"
	KindNotFound            ErrorKind = "not_found"
	KindTransient           ErrorKind = "transient"
	KindUnknown             ErrorKind = "unknown"
)

// ProviderError is a failed provider call. Message keeps the provider's own
// text, status code included, so the legacy substring contract ("403" in the
// message marks an authorization failure) still holds for consumers that
// only see the string.
type ProviderError struct {
	Collection string
	StatusCode int
	Kind       ErrorKind
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("wix: %s query failed with status %d: %s", e.Collection, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("wix: %s query failed: %s", e.Collection, e.Message)
}

func classifyStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindAuthorizationDenied
	case status == 404:
		return KindNotFound
	case status == 429 || status >= 500:
		return KindTransient
	default:
		return KindUnknown
	}
}

// KindOf classifies any error. Errors produced by this client carry a
// structured kind; for foreign errors the legacy "403" message heuristic is
// kept as a documented fallback.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if strings.Contains(err.Error(), "403") {
		return KindAuthorizationDenied
	}
	return KindUnknown
}
