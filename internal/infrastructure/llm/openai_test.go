package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TopicBridge/internal/config"
	"TopicBridge/internal/domain"
)

type capturedRequest struct {
	Model          string `json:"model"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionServer(t *testing.T, content string, seen *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if seen != nil {
			_ = json.Unmarshal(body, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGenerator(url string) *OpenAIGenerator {
	return NewOpenAIGenerator(config.GenerationConfig{
		BaseURL: url,
		Model:   "test-model",
		APIKey:  "sk-test",
	}, nil)
}

func TestSummarizeDecodesRecord(t *testing.T) {
	t.Parallel()

	content := `{"id":"model-chosen","title":"Global Minimum Tax","category":"Economy","isInternational":true,
"summary":"A 15% floor.","whyMatters":"Shifts profit.","facts":[{"content":"140 countries","confidence":"High"}],
"sourceCount":12,"perspectiveSummary":"should be dropped"}`
	var seen capturedRequest
	srv := completionServer(t, content, &seen)

	rec, err := newGenerator(srv.URL).Summarize(context.Background(), "global minimum tax",
		domain.Profile{Language: "zh", Occupation: "accountant"})
	require.NoError(t, err)

	assert.Empty(t, rec.ID)
	assert.Equal(t, "Global Minimum Tax", rec.Title)
	assert.Equal(t, domain.CategoryEconomy, rec.Category)
	assert.True(t, rec.IsInternational)
	assert.Equal(t, 12, rec.SourceCount)
	require.Len(t, rec.Facts, 1)
	assert.Equal(t, "High", rec.Facts[0].Confidence)
	assert.True(t, rec.DeepDive.Empty())

	assert.Equal(t, "test-model", seen.Model)
	assert.Equal(t, "json_object", seen.ResponseFormat.Type)
	require.Len(t, seen.Messages, 2)
	assert.Contains(t, seen.Messages[1].Content, "Simplified Chinese")
	assert.Contains(t, seen.Messages[1].Content, "occupation accountant")
}

func TestDeepDiveRequestsExpertModeForPro(t *testing.T) {
	t.Parallel()

	content := "```json\n{\"divergenceRating\":4,\"perspectiveSummary\":\"split\",\"terms\":[{\"term\":\"BEPS\",\"definition\":\"base erosion\"}]}\n```"
	var seen capturedRequest
	srv := completionServer(t, content, &seen)

	dive, err := newGenerator(srv.URL).DeepDive(context.Background(), "tax",
		domain.Record{Summary: "A 15% floor."}, domain.Profile{Membership: domain.MembershipPro})
	require.NoError(t, err)

	require.NotNil(t, dive.DivergenceRating)
	assert.Equal(t, 4, *dive.DivergenceRating)
	assert.Equal(t, "split", dive.PerspectiveSummary)
	assert.Len(t, dive.Terms, 1)
	assert.Contains(t, seen.Messages[1].Content, "Expert mode")
	assert.Contains(t, seen.Messages[1].Content, "A 15% floor.")
}

func TestDeepDiveFreeTierHasNoExpertMode(t *testing.T) {
	t.Parallel()

	var seen capturedRequest
	srv := completionServer(t, `{}`, &seen)

	_, err := newGenerator(srv.URL).DeepDive(context.Background(), "tax", domain.Record{}, domain.Profile{})
	require.NoError(t, err)
	assert.NotContains(t, seen.Messages[1].Content, "Expert mode")
	assert.Contains(t, seen.Messages[1].Content, "English")
}

func TestGenerationErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		g := NewOpenAIGenerator(config.GenerationConfig{Model: "m"}, nil)
		_, err := g.Summarize(context.Background(), "q", domain.Profile{})
		assert.ErrorIs(t, err, ErrMisconfigured)
	})

	t.Run("api error", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":{"message":"quota"}}`, http.StatusTooManyRequests)
		}))
		t.Cleanup(srv.Close)
		_, err := newGenerator(srv.URL).Summarize(context.Background(), "q", domain.Profile{})
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		srv := completionServer(t, "not json", nil)
		_, err := newGenerator(srv.URL).Summarize(context.Background(), "q", domain.Profile{})
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "decode completion"))
	})
}

func TestSummarizeFallsBackToQueryTitle(t *testing.T) {
	t.Parallel()

	srv := completionServer(t, `{"summary":"s"}`, nil)
	rec, err := newGenerator(srv.URL).Summarize(context.Background(), "ocean plastics", domain.Profile{})
	require.NoError(t, err)
	assert.Equal(t, "ocean plastics", rec.Title)
}
