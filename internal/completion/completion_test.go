package completion_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/openclaw-concierge/internal/completion"
	"github.com/ajitpratap0/openclaw-concierge/internal/models"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestBuildPrompt(t *testing.T) {
	ranked := []models.ScoredCandidate{
		{Item: models.CatalogItem{Name: "Nobu <Marbella>", Category: "restaurant", Rating: models.Float64(4.8), Sponsored: true}},
		{Item: models.CatalogItem{Name: "La Sala", Category: "restaurant"}},
	}
	p := completion.BuildPrompt("je veux & du sushi", models.LangFrench, models.ProfileRomantic, ranked)

	assert.Contains(t, p, "<language>fr</language>")
	assert.Contains(t, p, "<client_profile>Romantic</client_profile>")
	assert.Contains(t, p, "[1] Nobu &lt;Marbella&gt; (restaurant) rating 4.8 sponsored")
	assert.Contains(t, p, "[2] La Sala (restaurant)\n")
	assert.Contains(t, p, "<request>je veux &amp; du sushi</request>")

	bare := completion.BuildPrompt("hi", models.LangEnglish, "", nil)
	assert.NotContains(t, bare, "<candidates>")
	assert.NotContains(t, bare, "<client_profile>")
}

func TestMockCompleter(t *testing.T) {
	ctx := context.Background()

	m := &completion.MockCompleter{Reply: "Bonjour"}
	got, err := m.Complete(ctx, "p", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", got)
	assert.Equal(t, 1, m.Calls())

	m = &completion.MockCompleter{Reply: "  "}
	_, err = m.Complete(ctx, "p", nil)
	assert.ErrorIs(t, err, completion.ErrEmptyCompletion)

	m = &completion.MockCompleter{Block: true}
	tctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = m.Complete(tctx, "p", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type capturedRequest struct {
	Model  string `json:"model"`
	System []struct {
		Text string `json:"text"`
	} `json:"system"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

func newMessagesServer(t *testing.T, status int, body string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"))
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		if captured != nil {
			assert.NoError(t, json.Unmarshal(raw, captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newCompleter(srv *httptest.Server) *completion.AnthropicCompleter {
	return completion.NewAnthropicCompleter(completion.AnthropicOptions{
		APIKey: "test-key",
		Model:  "claude-haiku-4-5-20251001",
		RequestOptions: []option.RequestOption{
			option.WithBaseURL(srv.URL),
			option.WithMaxRetries(0),
		},
	}, newTestLogger())
}

const okMessage = `{"id":"msg_1","type":"message","role":"assistant","model":"claude-haiku-4-5-20251001",
"content":[{"type":"text","text":"  Je vous propose Nobu Marbella.  "}],
"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":8}}`

func TestAnthropicCompleter_Complete(t *testing.T) {
	var captured capturedRequest
	srv := newMessagesServer(t, http.StatusOK, okMessage, &captured)

	got, err := newCompleter(srv).Complete(context.Background(), "<request>sushi</request>", []string{"user: bonjour", "concierge: <b>bienvenue</b>"})
	require.NoError(t, err)
	assert.Equal(t, "Je vous propose Nobu Marbella.", got)

	assert.Equal(t, "claude-haiku-4-5-20251001", captured.Model)
	require.Len(t, captured.System, 1)
	assert.Contains(t, captured.System[0].Text, "Never give phone numbers")
	require.Len(t, captured.Messages, 1)
	require.Len(t, captured.Messages[0].Content, 1)
	text := captured.Messages[0].Content[0].Text
	assert.Contains(t, text, "<history>\nuser: bonjour\nconcierge: &lt;b&gt;bienvenue&lt;/b&gt;\n</history>")
	assert.True(t, strings.HasSuffix(text, "<request>sushi</request>"))
}

func TestAnthropicCompleter_EmptyText(t *testing.T) {
	empty := `{"id":"msg_2","type":"message","role":"assistant","model":"m","content":[],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}}`
	srv := newMessagesServer(t, http.StatusOK, empty, nil)

	_, err := newCompleter(srv).Complete(context.Background(), "p", nil)
	assert.ErrorIs(t, err, completion.ErrEmptyCompletion)
}

func TestAnthropicCompleter_APIError(t *testing.T) {
	srv := newMessagesServer(t, http.StatusBadRequest, `{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`, nil)

	_, err := newCompleter(srv).Complete(context.Background(), "p", nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, completion.ErrEmptyCompletion))
}
