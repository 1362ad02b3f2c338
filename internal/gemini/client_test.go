package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newMoodServer(t *testing.T, generatedText string, status int) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := `{"candidates":[{"content":{"parts":[{"text":` + jsonString(generatedText) + `}]}}]}`
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return NewClient("test-key", srv.URL)
}

func jsonString(s string) string {
	out := `"`
	for _, r := range s {
		switch r {
		case '"':
			out += `\"`
		case '\\':
			out += `\\`
		case '\n':
			out += `\n`
		default:
			out += string(r)
		}
	}
	return out + `"`
}

func TestDetectMood(t *testing.T) {
	tests := []struct {
		name           string
		generated      string
		status         int
		wantMood       string
		wantConfidence int
	}{
		{
			name:           "clean JSON reply",
			generated:      `{"mood": "Sad", "confidence": 82}`,
			status:         http.StatusOK,
			wantMood:       "Sad",
			wantConfidence: 82,
		},
		{
			name:           "JSON surrounded by commentary",
			generated:      "Sure! Here is the analysis:\n{\"mood\": \"Romantic\", \"confidence\": 64}\nLet me know if you need more.",
			status:         http.StatusOK,
			wantMood:       "Romantic",
			wantConfidence: 64,
		},
		{
			name:           "missing mood field defaults to Happy/75",
			generated:      `{"confidence": 90}`,
			status:         http.StatusOK,
			wantMood:       "Happy",
			wantConfidence: 75,
		},
		{
			name:           "no JSON at all defaults to Happy/50",
			generated:      "I could not determine a mood from that.",
			status:         http.StatusOK,
			wantMood:       "Happy",
			wantConfidence: 50,
		},
		{
			name:           "malformed JSON defaults to Happy/50",
			generated:      `{"mood": "Sad", "confidence": }`,
			status:         http.StatusOK,
			wantMood:       "Happy",
			wantConfidence: 50,
		},
		{
			name:           "upstream error defaults to Happy/50",
			generated:      "",
			status:         http.StatusInternalServerError,
			wantMood:       "Happy",
			wantConfidence: 50,
		},
		{
			name:           "confidence clamped to 100",
			generated:      `{"mood": "Angry", "confidence": 150}`,
			status:         http.StatusOK,
			wantMood:       "Angry",
			wantConfidence: 100,
		},
		{
			name:           "negative confidence clamped to 0",
			generated:      `{"mood": "Relaxed", "confidence": -5}`,
			status:         http.StatusOK,
			wantMood:       "Relaxed",
			wantConfidence: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMoodServer(t, tt.generated, tt.status)
			result := client.DetectMood(context.Background(), "I had a long day")
			assert.Equal(t, tt.wantMood, result.Mood)
			assert.Equal(t, tt.wantConfidence, result.Confidence)
		})
	}
}

func TestDetectMoodUnreachableServer(t *testing.T) {
	client := NewClient("k", "http://127.0.0.1:1")
	result := client.DetectMood(context.Background(), "hello")
	assert.Equal(t, "Happy", result.Mood)
	assert.Equal(t, 50, result.Confidence)
}

func TestExtractJSONObject(t *testing.T) {
	raw, ok := extractJSONObject("prefix {\"a\": 1} suffix")
	assert.True(t, ok)
	assert.Equal(t, `{"a": 1}`, raw)

	_, ok = extractJSONObject("no braces here")
	assert.False(t, ok)

	_, ok = extractJSONObject("} reversed {")
	assert.False(t, ok)
}
