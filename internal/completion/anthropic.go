package completion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ajitpratap0/openclaw-concierge/pkg/textutil"
	"github.com/ajitpratap0/openclaw-concierge/pkg/tokenizer"
)

const (
	// DefaultMaxTokens caps the reply length.
	DefaultMaxTokens = 600

	// DefaultHistoryBudget is the token budget for prior exchanges in a prompt.
	DefaultHistoryBudget = 1500

	// maxEntryTokens caps a single history line.
	maxEntryTokens = 300
)

const systemPrompt = `You are a premium concierge for a luxury lifestyle service. You organize restaurants, beach clubs, nightlife, villas, yachts, spa treatments and activities for the client.

Rules:
- Reply in the language given in <language>.
- Recommend only venues listed in <candidates>. If none fit, ask one clarifying question.
- Never give phone numbers, e-mail addresses or any instruction to contact a venue directly. The concierge handles every booking.
- Mark sponsored venues with ★.
- End every reply by offering to book or organize for the client.
- Keep replies under 120 words.`

// AnthropicCompleter calls the Claude Messages API.
type AnthropicCompleter struct {
	client        *anthropic.Client
	model         string
	maxTokens     int64
	historyBudget int
	logger        *slog.Logger
}

// AnthropicOptions configures an AnthropicCompleter.
type AnthropicOptions struct {
	APIKey        string
	Model         string
	MaxTokens     int
	HistoryBudget int
	// RequestOptions are passed to the SDK client, e.g. option.WithBaseURL.
	RequestOptions []option.RequestOption
}

// NewAnthropicCompleter creates a Completer backed by the Anthropic API.
func NewAnthropicCompleter(opts AnthropicOptions, logger *slog.Logger) *AnthropicCompleter {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.HistoryBudget <= 0 {
		opts.HistoryBudget = DefaultHistoryBudget
	}
	reqOpts := append([]option.RequestOption{option.WithAPIKey(opts.APIKey)}, opts.RequestOptions...)
	c := anthropic.NewClient(reqOpts...)
	return &AnthropicCompleter{
		client:        &c,
		model:         opts.Model,
		maxTokens:     int64(opts.MaxTokens),
		historyBudget: opts.HistoryBudget,
		logger:        logger,
	}
}

// Complete sends prompt with the newest history that fits the token budget.
func (a *AnthropicCompleter) Complete(ctx context.Context, prompt string, history []string) (string, error) {
	lines := make([]string, len(history))
	for i, h := range history {
		lines[i] = tokenizer.Truncate(h, maxEntryTokens)
	}

	var sb strings.Builder
	if recent := tokenizer.FitNewestWithinBudget(lines, a.historyBudget); len(recent) > 0 {
		sb.WriteString("<history>\n")
		for _, h := range recent {
			sb.WriteString(textutil.EscapeXML(h))
			sb.WriteString("\n")
		}
		sb.WriteString("</history>\n")
	}
	sb.WriteString(prompt)

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(sb.String())),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude messages: %w", err)
	}

	var text string
	for i := range resp.Content {
		if resp.Content[i].Type == "text" {
			text = strings.TrimSpace(resp.Content[i].Text)
			break
		}
	}
	if text == "" {
		return "", ErrEmptyCompletion
	}
	a.logger.Debug("completion: reply received", "model", a.model, "chars", len(text))
	return text, nil
}
