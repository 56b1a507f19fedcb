// Package completion wraps the language-model completion service that answers
// most chat turns. Callers fall back to the deterministic engine whenever a
// Completer returns an error.
package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ajitpratap0/openclaw-concierge/internal/models"
	"github.com/ajitpratap0/openclaw-concierge/pkg/textutil"
)

// ErrEmptyCompletion is returned when the service answers with no text.
var ErrEmptyCompletion = errors.New("completion returned empty text")

// Completer produces a reply for prompt given prior exchanges, oldest first.
type Completer interface {
	Complete(ctx context.Context, prompt string, history []string) (string, error)
}

// maxPromptCandidates bounds the shortlist embedded in a prompt.
const maxPromptCandidates = 5

// BuildPrompt wraps the user message with the reply language, client profile
// and the engine's shortlist so the model recommends only catalog items.
func BuildPrompt(message string, lang models.Language, label models.ClientProfile, ranked []models.ScoredCandidate) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<language>%s</language>\n", lang)
	if label != "" {
		fmt.Fprintf(&sb, "<client_profile>%s</client_profile>\n", label)
	}
	if len(ranked) > 0 {
		sb.WriteString("<candidates>\n")
		for i, c := range ranked {
			if i == maxPromptCandidates {
				break
			}
			fmt.Fprintf(&sb, "[%d] %s (%s)", i+1, textutil.EscapeXML(c.Item.Name), textutil.EscapeXML(c.Item.Category))
			if c.Item.Rating != nil {
				fmt.Fprintf(&sb, " rating %.1f", *c.Item.Rating)
			}
			if c.Item.Sponsored {
				sb.WriteString(" sponsored")
			}
			sb.WriteString("\n")
		}
		sb.WriteString("</candidates>\n")
	}
	fmt.Fprintf(&sb, "<request>%s</request>", textutil.EscapeXML(message))
	return sb.String()
}

// MockCompleter is a scripted Completer for tests and offline runs.
type MockCompleter struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	Prompts []string
	// Block makes Complete wait for context cancellation.
	Block bool
}

// Complete records the prompt and returns the scripted reply.
func (m *MockCompleter) Complete(ctx context.Context, prompt string, _ []string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	reply, err, block := m.Reply, m.Err, m.Block
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", ErrEmptyCompletion
	}
	return reply, nil
}

// Calls reports how many prompts were received.
func (m *MockCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
