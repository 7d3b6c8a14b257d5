package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigErrorClassification(t *testing.T) {
	err := NewConfigError("model_id", "must be set")
	assert.True(t, errors.Is(err, ErrConfig))
	assert.Contains(t, err.Error(), "model_id")

	var ce *ConfigError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &ce))
}

func TestNotFoundErrorCarriesEntityName(t *testing.T) {
	err := NewNotFoundError("user", "ghost")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), `user "ghost"`)
}

func TestUpstreamErrorClassification(t *testing.T) {
	cause := errors.New("connection reset")
	err := &UpstreamError{Operation: "get_user", StatusCode: 503, Message: "unavailable", Err: cause}

	assert.True(t, errors.Is(err, ErrUpstream))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "503")
}

func TestProviderErrorDetail(t *testing.T) {
	err := NewProviderError("GROQ", 500, "overloaded")
	assert.True(t, errors.Is(err, ErrProvider))
	assert.Contains(t, err.Error(), "overloaded")
	assert.NotErrorIs(t, err, ErrUpstream)
}
