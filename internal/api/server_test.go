package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/openclaw-concierge/internal/api"
	"github.com/ajitpratap0/openclaw-concierge/internal/catalog"
	"github.com/ajitpratap0/openclaw-concierge/internal/chat"
	"github.com/ajitpratap0/openclaw-concierge/internal/lifecycle"
	"github.com/ajitpratap0/openclaw-concierge/internal/models"
	"github.com/ajitpratap0/openclaw-concierge/internal/preferences"
)

func newTestServer(t *testing.T, authToken string) (*httptest.Server, *chat.Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	src := catalog.NewMemorySource([]models.CatalogItem{
		{ID: "nobu", Name: "Nobu Marbella", Kind: models.KindEstablishment, Category: "restaurant",
			Rating: models.Float64(4.8), Specialties: []string{"sushi", "sashimi"}},
		{ID: "trocadero", Name: "Trocadero Arena", Kind: models.KindEstablishment, Category: "beach",
			Rating: models.Float64(4.5)},
	})
	prefs := preferences.NewMemoryStore()
	svc := chat.NewService(chat.Deps{Catalog: src, Preferences: prefs}, logger)
	srv := api.NewServer(svc, prefs, logger, authToken)
	srv.SetLifecycle(lifecycle.NewManager(svc.Registry(), time.Hour, logger))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, svc
}

func doRequest(t *testing.T, method, url string, body any, token string) *http.Response {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewBuffer(b)
	}
	var req *http.Request
	var err error
	if buf != nil {
		req, err = http.NewRequestWithContext(context.Background(), method, url, buf)
	} else {
		req, err = http.NewRequestWithContext(context.Background(), method, url, http.NoBody)
	}
	require.NoError(t, err)
	if buf != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestAPI_Healthz(t *testing.T) {
	ts, _ := newTestServer(t, "secret")

	resp := doRequest(t, http.MethodGet, ts.URL+"/healthz", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var result map[string]string
	decodeBody(t, resp, &result)
	assert.Equal(t, "ok", result["status"])
}

func TestAPI_Auth(t *testing.T) {
	ts, _ := newTestServer(t, "secret")

	resp := doRequest(t, http.MethodPost, ts.URL+"/v1/detect", map[string]string{"message": "hello"}, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, http.MethodPost, ts.URL+"/v1/detect", map[string]string{"message": "hello"}, "wrong")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, http.MethodPost, ts.URL+"/v1/detect", map[string]string{"message": "hello"}, "secret")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_Chat(t *testing.T) {
	ts, svc := newTestServer(t, "")

	resp := doRequest(t, http.MethodPost, ts.URL+"/v1/chat", map[string]string{"message": "je veux du sushi", "user_id": "u1"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reply chat.TurnReply
	decodeBody(t, resp, &reply)
	assert.Equal(t, chat.SourceEngine, reply.Source)
	assert.Contains(t, reply.Text, "Nobu Marbella")
	assert.Equal(t, models.LangFrench, reply.Language.Language)
	require.NotEmpty(t, reply.ConversationID)
	assert.Equal(t, 1, svc.Registry().Len())

	resp = doRequest(t, http.MethodGet, ts.URL+"/v1/conversations/"+reply.ConversationID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var conv map[string]any
	decodeBody(t, resp, &conv)
	assert.Equal(t, reply.ConversationID, conv["id"])
	assert.Len(t, conv["history"], 1)

	resp = doRequest(t, http.MethodDelete, ts.URL+"/v1/conversations/"+reply.ConversationID, nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodDelete, ts.URL+"/v1/conversations/"+reply.ConversationID, nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_InvalidBody(t *testing.T) {
	ts, _ := newTestServer(t, "")

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, ts.URL+"/v1/chat", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	var result map[string]string
	decodeBody(t, resp, &result)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request body", result["error"])
}

func TestAPI_DetectAndClassify(t *testing.T) {
	ts, _ := newTestServer(t, "")

	resp := doRequest(t, http.MethodPost, ts.URL+"/v1/detect", map[string]string{"message": ""}, "")
	var det models.Detection
	decodeBody(t, resp, &det)
	assert.Equal(t, models.LangFrench, det.Language)
	assert.Equal(t, models.ConfidenceLow, det.Confidence)

	resp = doRequest(t, http.MethodPost, ts.URL+"/v1/classify", map[string]string{"message": "trocadero"}, "")
	var intent models.Intent
	decodeBody(t, resp, &intent)
	assert.Equal(t, models.IntentSpecificEntity, intent.Category)
	assert.InDelta(t, 1.0, intent.Confidence, 1e-9)
	require.NotEmpty(t, intent.Entities)
	require.NotNil(t, intent.Entities[0].Item)
	assert.Equal(t, "trocadero", intent.Entities[0].Item.ID)
}

func TestAPI_Recommend(t *testing.T) {
	ts, _ := newTestServer(t, "")

	resp := doRequest(t, http.MethodPost, ts.URL+"/v1/recommend", map[string]string{"message": "une plage demain"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rec chat.Recommendation
	decodeBody(t, resp, &rec)
	assert.Equal(t, models.IntentBeach, rec.Intent.Category)
	require.Len(t, rec.Candidates, 1)
	assert.Equal(t, "Trocadero Arena", rec.Candidates[0].Item.Name)

	resp = doRequest(t, http.MethodPost, ts.URL+"/v1/recommend", map[string]string{"message": " "}, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Preferences(t *testing.T) {
	ts, _ := newTestServer(t, "")

	resp := doRequest(t, http.MethodGet, ts.URL+"/v1/preferences/u1", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	profile := models.UserPreferenceProfile{Fears: []string{"heights"}}
	resp = doRequest(t, http.MethodPut, ts.URL+"/v1/preferences/u1", profile, "")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, ts.URL+"/v1/preferences/u1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.UserPreferenceProfile
	decodeBody(t, resp, &got)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, []string{"heights"}, got.Fears)
}

func TestAPI_Stats(t *testing.T) {
	ts, _ := newTestServer(t, "")

	resp := doRequest(t, http.MethodPost, ts.URL+"/v1/chat", map[string]string{"message": "bonjour"}, "")
	resp.Body.Close()

	resp = doRequest(t, http.MethodGet, ts.URL+"/v1/stats", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats map[string]any
	decodeBody(t, resp, &stats)
	assert.EqualValues(t, 1, stats["conversations"])
	assert.EqualValues(t, 2, stats["catalog_items"])
	counters, ok := stats["counters"].(map[string]any)
	require.True(t, ok)
	assert.GreaterOrEqual(t, counters["turns"], float64(1))
}

func TestAPI_Lifecycle(t *testing.T) {
	ts, svc := newTestServer(t, "")

	resp := doRequest(t, http.MethodPost, ts.URL+"/v1/chat", map[string]string{"message": "bonjour"}, "")
	var reply chat.TurnReply
	decodeBody(t, resp, &reply)
	conv, err := svc.Registry().Get(reply.ConversationID)
	require.NoError(t, err)
	conv.Touch(time.Now().Add(-2 * time.Hour))

	resp = doRequest(t, http.MethodPost, ts.URL+"/v1/lifecycle", map[string]bool{"dry_run": true}, "")
	var report lifecycle.Report
	decodeBody(t, resp, &report)
	assert.Equal(t, 1, report.Expired)
	assert.Equal(t, 1, svc.Registry().Len())

	resp = doRequest(t, http.MethodPost, ts.URL+"/v1/lifecycle", map[string]bool{"dry_run": false}, "")
	decodeBody(t, resp, &report)
	assert.Equal(t, 1, report.Expired)
	assert.Zero(t, svc.Registry().Len())
}
