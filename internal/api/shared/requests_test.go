package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Text string `json:"text" validate:"required"`
}

func TestDecodeJSON(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"hello"}`))
		var req sampleRequest
		require.NoError(t, DecodeJSON(httptest.NewRecorder(), r, &req))
		assert.Equal(t, "hello", req.Text)
	})

	t.Run("empty body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var req sampleRequest
		assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), r, &req), ErrEmptyBody)
	})

	t.Run("malformed body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":`))
		var req sampleRequest
		assert.Error(t, DecodeJSON(httptest.NewRecorder(), r, &req))
	})

	t.Run("oversized body", func(t *testing.T) {
		body := `{"text":"` + strings.Repeat("a", MaxRequestBodyBytes) + `"}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		var req sampleRequest
		assert.Error(t, DecodeJSON(httptest.NewRecorder(), r, &req))
	})
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&sampleRequest{Text: "hello"}))
	assert.Error(t, ValidateRequest(&sampleRequest{}))
}
