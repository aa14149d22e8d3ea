package redact_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/errorfreetext/errorfree/internal/redact"
	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no sensitive data",
			input:    "speller returned status 503",
			expected: "speller returned status 503",
		},
		{
			name:     "database url",
			input:    "connect to postgres://app:hunter22@db:5432/errorfree failed",
			expected: "connect to [REDACTED_CREDENTIAL]db:5432/errorfree failed",
		},
		{
			name:     "password parameter",
			input:    "dsn password=secret123 rejected",
			expected: "dsn [REDACTED_CREDENTIAL] rejected",
		},
		{
			name:     "api key",
			input:    "request with api_key=abcdef1234567890 denied",
			expected: "request with [REDACTED_KEY] denied",
		},
		{
			name:     "file path",
			input:    "open /etc/errorfree/errorfree.yaml: permission denied",
			expected: "open [REDACTED_PATH]: permission denied",
		},
		{
			name:     "ip address",
			input:    "dial tcp 10.0.0.12:5432: connection refused",
			expected: "dial tcp [REDACTED_HOST]: connection refused",
		},
		{
			name:     "email",
			input:    "owner admin@example.com notified",
			expected: "owner [REDACTED_EMAIL] notified",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, redact.String(tc.input))
		})
	}
}

func TestString_SQL(t *testing.T) {
	out := redact.String("query failed: SELECT id, status FROM tasks WHERE id = $1")
	assert.Contains(t, out, redact.SQLPlaceholder)
	assert.NotContains(t, out, "tasks")
}

func TestString_Truncates(t *testing.T) {
	long := strings.Repeat("ё", redact.MaxLength+100)

	out := redact.String(long)
	assert.True(t, strings.HasSuffix(out, "...[TRUNCATED]"))
	assert.Equal(t, redact.MaxLength+len([]rune("...[TRUNCATED]")), utf8.RuneCountInString(out))
}

func TestError(t *testing.T) {
	assert.Empty(t, redact.Error(nil))

	err := fmt.Errorf("mark failed: %w", errors.New("password=topsecret"))
	assert.Equal(t, "mark failed: [REDACTED_CREDENTIAL]", redact.Error(err))
}
