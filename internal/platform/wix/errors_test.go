package wix

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{401, KindAuthorizationDenied},
		{403, KindAuthorizationDenied},
		{404, KindNotFound},
		{429, KindTransient},
		{500, KindTransient},
		{503, KindTransient},
		{400, KindUnknown},
		{422, KindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyStatus(tt.status), "status %d", tt.status)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindUnknown},
		{"structured denied", &ProviderError{Kind: KindAuthorizationDenied, StatusCode: 403}, KindAuthorizationDenied},
		{"structured not found", &ProviderError{Kind: KindNotFound, StatusCode: 404}, KindNotFound},
		{"wrapped provider error", fmt.Errorf("fetch failed: %w", &ProviderError{Kind: KindTransient, StatusCode: 503}), KindTransient},
		// Legacy substring heuristic for errors that are not ours.
		{"foreign error mentioning 403", errors.New("request rejected with 403 Forbidden"), KindAuthorizationDenied},
		{"foreign error", errors.New("connection refused"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestProviderErrorMessageCarriesStatus(t *testing.T) {
	err := &ProviderError{Collection: "orders", StatusCode: 403, Kind: KindAuthorizationDenied, Message: "403 Forbidden: no access"}
	// Consumers that only see the string must still find the status code.
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "orders")
}
