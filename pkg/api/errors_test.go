package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableByKind(t *testing.T) {
	tests := []struct {
		kind      ErrorKind
		retryable bool
	}{
		{KindAuth, false},
		{KindRateLimit, true},
		{KindNotFound, false},
		{KindValidation, false},
		{KindNetwork, true},
		{KindHTTP, false},
		{KindJSON, false},
		{KindInternal, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := &APIError{Kind: tt.kind}
			assert.Equal(t, tt.retryable, err.IsRetryable())
			assert.Equal(t, tt.retryable, IsRetryable(err))
		})
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		code int
	}{
		{KindAuth, 2},
		{KindNotFound, 2},
		{KindValidation, 2},
		{KindHTTP, 2},
		{KindJSON, 2},
		{KindInternal, 2},
		{KindNetwork, 3},
		{KindRateLimit, 4},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := &APIError{Kind: tt.kind}
			assert.Equal(t, tt.code, err.ExitCode())
			assert.Equal(t, tt.code, ExitCode(err))
		})
	}
}

func TestExitCodeWrappedError(t *testing.T) {
	err := fmt.Errorf("context: %w", &APIError{Kind: KindRateLimit})
	assert.Equal(t, 4, ExitCode(err))
}

func TestExitCodeUnknownError(t *testing.T) {
	assert.Equal(t, 2, ExitCode(errors.New("something else")))
}

func TestIsInvalidSyncToken(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want bool
	}{
		{
			name: "validation with tag",
			err:  &APIError{Kind: KindValidation, Tag: "SYNC_TOKEN_INVALID"},
			want: true,
		},
		{
			name: "validation with code",
			err:  &APIError{Kind: KindValidation, Code: 34},
			want: true,
		},
		{
			name: "validation other tag",
			err:  &APIError{Kind: KindValidation, Tag: "INVALID_ARGUMENT", Code: 15},
			want: false,
		},
		{
			name: "auth with tag",
			err:  &APIError{Kind: KindAuth, Tag: "SYNC_TOKEN_INVALID"},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.IsInvalidSyncToken())
			assert.Equal(t, tt.want, IsInvalidSyncToken(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	retryAfter := int64(60)
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{"auth", &APIError{Kind: KindAuth, Message: "Token expired"}, "Authentication failed: Token expired"},
		{"rate limit with retry", &APIError{Kind: KindRateLimit, RetryAfter: &retryAfter}, "Rate limited, retry after 60 seconds"},
		{"rate limit without retry", &APIError{Kind: KindRateLimit}, "Rate limited"},
		{"not found", &APIError{Kind: KindNotFound, Resource: "project", ID: "xyz789"}, "project not found: xyz789"},
		{"validation with field", &APIError{Kind: KindValidation, Field: "priority", Message: "must be 1-4"}, "Validation error on priority: must be 1-4"},
		{"validation without field", &APIError{Kind: KindValidation, Message: "bad request"}, "Validation error: bad request"},
		{"network", &APIError{Kind: KindNetwork, Message: "connection refused"}, "Network error: connection refused"},
		{"http", &APIError{Kind: KindHTTP, Status: 503, Message: "Service Unavailable"}, "HTTP error 503: Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestParseErrorBody(t *testing.T) {
	msg, tag, code := parseErrorBody([]byte(`{"error":"Invalid token","error_tag":"SYNC_TOKEN_INVALID","error_code":34}`))
	assert.Equal(t, "Invalid token", msg)
	assert.Equal(t, "SYNC_TOKEN_INVALID", tag)
	assert.Equal(t, 34, code)

	msg, tag, code = parseErrorBody([]byte("plain text error"))
	assert.Equal(t, "plain text error", msg)
	assert.Empty(t, tag)
	assert.Zero(t, code)
}
