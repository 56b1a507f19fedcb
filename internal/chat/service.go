// Package chat answers user turns. The completion service is tried first and
// the deterministic engine answers whenever it fails, times out or returns
// nothing, so a turn always produces text.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ajitpratap0/openclaw-concierge/internal/catalog"
	"github.com/ajitpratap0/openclaw-concierge/internal/completion"
	"github.com/ajitpratap0/openclaw-concierge/internal/conversation"
	"github.com/ajitpratap0/openclaw-concierge/internal/engine"
	"github.com/ajitpratap0/openclaw-concierge/internal/metrics"
	"github.com/ajitpratap0/openclaw-concierge/internal/models"
	"github.com/ajitpratap0/openclaw-concierge/internal/preferences"
	"github.com/ajitpratap0/openclaw-concierge/pkg/textutil"
)

// DefaultCompletionTimeout bounds one completion call.
const DefaultCompletionTimeout = 8 * time.Second

// Reply sources.
const (
	SourceCompletion = "completion"
	SourceEngine     = "engine"
)

// TurnRequest is one user message.
type TurnRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	UserID         string `json:"user_id,omitempty"`
	Message        string `json:"message"`
}

// TurnReply is the answer to a TurnRequest.
type TurnReply struct {
	ConversationID string                   `json:"conversation_id"`
	Text           string                   `json:"text"`
	Source         string                   `json:"source"`
	Language       models.Detection         `json:"language"`
	Intent         models.IntentCategory    `json:"intent"`
	ClientProfile  models.ClientProfile     `json:"client_profile"`
	Candidates     []models.ScoredCandidate `json:"candidates,omitempty"`
	Apology        bool                     `json:"apology,omitempty"`
}

// Service wires the conversation registry, catalog, preference store,
// completer and engine together.
type Service struct {
	engine    *engine.Engine
	registry  *conversation.Registry
	catalog   catalog.Source
	prefs     preferences.Store
	completer completion.Completer
	timeout   time.Duration
	logger    *slog.Logger
}

// Deps groups the collaborators of a Service. Completer and Preferences may
// be nil; without a completer every turn is answered by the engine.
type Deps struct {
	Engine      *engine.Engine
	Registry    *conversation.Registry
	Catalog     catalog.Source
	Preferences preferences.Store
	Completer   completion.Completer
	Timeout     time.Duration
}

// NewService creates a chat service.
func NewService(d Deps, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if d.Engine == nil {
		d.Engine = engine.New(engine.DefaultOptions(), logger)
	}
	if d.Registry == nil {
		d.Registry = conversation.NewRegistry(conversation.DefaultMaxHistory)
	}
	if d.Catalog == nil {
		d.Catalog = catalog.NewMemorySource(nil)
	}
	if d.Timeout <= 0 {
		d.Timeout = DefaultCompletionTimeout
	}
	return &Service{
		engine:    d.Engine,
		registry:  d.Registry,
		catalog:   d.Catalog,
		prefs:     d.Preferences,
		completer: d.Completer,
		timeout:   d.Timeout,
		logger:    logger,
	}
}

// Engine returns the deterministic engine.
func (s *Service) Engine() *engine.Engine { return s.engine }

// Registry returns the live conversations.
func (s *Service) Registry() *conversation.Registry { return s.registry }

// Catalog loads the current catalog snapshot. A failing source yields an
// empty catalog so callers still get a clarifying reply.
func (s *Service) Catalog(ctx context.Context) []models.CatalogItem {
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		s.logger.Warn("catalog unavailable, continuing with empty catalog", "error", err)
		return nil
	}
	return snap.Items
}

// Profile loads the preference profile of userID, nil when absent or on error.
func (s *Service) Profile(ctx context.Context, userID string) *models.UserPreferenceProfile {
	p, err := preferences.Lookup(ctx, s.prefs, userID)
	if err != nil {
		s.logger.Warn("preference store unavailable, ranking without profile", "user", userID, "error", err)
		return nil
	}
	return p
}

// Turn answers one message. It never fails.
func (s *Service) Turn(ctx context.Context, req TurnRequest) TurnReply {
	metrics.Inc(metrics.TurnsTotal)
	conv, created := s.registry.GetOrCreate(req.ConversationID, req.UserID)
	if created {
		metrics.Inc(metrics.ConversationsOpened)
	}
	userID := req.UserID
	if userID == "" {
		userID = conv.UserID()
	}

	items := s.Catalog(ctx)
	profile := s.Profile(ctx, userID)

	if reply, ok := s.complete(ctx, conv, req.Message, items, profile); ok {
		metrics.Inc(metrics.CompletionSuccess)
		return reply
	}

	metrics.Inc(metrics.FallbackTotal)
	res := s.engine.Reply(conv, req.Message, items, profile)
	switch {
	case res.Apology:
		metrics.Inc(metrics.ApologyTotal)
	case res.Failed:
		metrics.Inc(metrics.PipelineRecovered)
	}
	return TurnReply{
		ConversationID: conv.ID(),
		Text:           res.Text,
		Source:         SourceEngine,
		Language:       res.Language,
		Intent:         res.Intent.Category,
		ClientProfile:  res.Label,
		Candidates:     res.Candidates,
		Apology:        res.Apology,
	}
}

// complete asks the completer for a reply grounded on the engine's analysis.
// It reports false when the engine should answer instead.
func (s *Service) complete(ctx context.Context, conv *conversation.Context, message string, items []models.CatalogItem, profile *models.UserPreferenceProfile) (TurnReply, bool) {
	if s.completer == nil || textutil.Canonical(message) == "" {
		return TurnReply{}, false
	}
	res, err := s.engine.Prepare(conv, message, items, profile)
	if err != nil {
		return TurnReply{}, false
	}
	lang := res.Language.Language

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	prompt := completion.BuildPrompt(message, lang, res.Label, res.Candidates)
	text, err := s.completer.Complete(cctx, prompt, historyLines(conv.History()))
	if err != nil {
		reason := "error"
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			reason = "timeout"
		case errors.Is(err, completion.ErrEmptyCompletion):
			reason = "empty"
		}
		s.logger.Warn("completion failed, using deterministic reply",
			"conversation", conv.ID(), "reason", reason, "error", err)
		return TurnReply{}, false
	}

	text = s.engine.Sanitize(text, lang)
	conv.ResetFailures()
	conv.SetLanguage(lang)
	conv.Update(conversation.Turn{Message: message, Response: text})
	return TurnReply{
		ConversationID: conv.ID(),
		Text:           text,
		Source:         SourceCompletion,
		Language:       res.Language,
		Intent:         res.Intent.Category,
		ClientProfile:  res.Label,
		Candidates:     res.Candidates,
	}, true
}

// Recommendation is a stateless ranking of catalog items for one message.
type Recommendation struct {
	Language   models.Detection         `json:"language"`
	Intent     models.Intent            `json:"intent"`
	Candidates []models.ScoredCandidate `json:"candidates"`
	Text       string                   `json:"text"`
}

// Recommend classifies message, ranks the matching items for userID and
// renders the deterministic reply without opening a conversation.
func (s *Service) Recommend(ctx context.Context, message, userID string) Recommendation {
	items := s.Catalog(ctx)
	profile := s.Profile(ctx, userID)
	det := s.engine.DetectLanguage(message)
	intent := s.engine.Classify(message, items)
	ranked := s.engine.Rank(s.engine.Retrieve(intent, items), profile)
	label := conversation.ClassifyClientProfile(message)
	return Recommendation{
		Language:   det,
		Intent:     intent,
		Candidates: ranked,
		Text:       s.engine.Respond(intent, ranked, det.Language, label),
	}
}

// End discards a conversation.
func (s *Service) End(id string) error {
	return s.registry.End(id)
}

func historyLines(turns []conversation.Turn) []string {
	out := make([]string, 0, len(turns)*2)
	for _, t := range turns {
		out = append(out, "user: "+t.Message, "concierge: "+t.Response)
	}
	return out
}
