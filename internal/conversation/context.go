// Package conversation holds the bounded in-memory state of live conversations.
package conversation

import (
	"sync"
	"time"

	"github.com/ajitpratap0/openclaw-concierge/internal/models"
)

// DefaultMaxHistory is the number of turns a context retains.
const DefaultMaxHistory = 10

// Turn is one exchange kept in history.
type Turn struct {
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// Context is the mutable state of a single conversation. All methods are safe
// for concurrent use; nothing here is shared between conversations.
type Context struct {
	mu sync.Mutex

	id         string
	userID     string
	history    []Turn
	maxHistory int
	label      models.ClientProfile
	language   models.Language
	failures   int
	createdAt  time.Time
	lastActive time.Time
	classifier *ProfileClassifier
}

// New creates a context. maxHistory <= 0 selects DefaultMaxHistory.
func New(id, userID string, maxHistory int) *Context {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	now := time.Now().UTC()
	return &Context{
		id:         id,
		userID:     userID,
		maxHistory: maxHistory,
		label:      models.ProfileGeneralPremium,
		createdAt:  now,
		lastActive: now,
		classifier: defaultProfileClassifier,
	}
}

// ID returns the conversation id.
func (c *Context) ID() string { return c.id }

// UserID returns the user the conversation belongs to, possibly empty.
func (c *Context) UserID() string { return c.userID }

// Update appends a turn, evicting the oldest once the cap is reached.
func (c *Context) Update(turn Turn) {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, turn)
	if over := len(c.history) - c.maxHistory; over > 0 {
		c.history = append([]Turn(nil), c.history[over:]...)
	}
	c.lastActive = turn.Timestamp
}

// History returns a copy of the retained turns, oldest first.
func (c *Context) History() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.history))
	copy(out, c.history)
	return out
}

// ClassifyClientProfile labels message. A message that reveals a profile
// replaces the current label; one that reveals nothing keeps it.
func (c *Context) ClassifyClientProfile(message string) models.ClientProfile {
	label := c.classifier.Classify(message)
	c.mu.Lock()
	defer c.mu.Unlock()
	if label != models.ProfileGeneralPremium {
		c.label = label
	}
	return c.label
}

// Label returns the current client profile label.
func (c *Context) Label() models.ClientProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.label
}

// SetLanguage records the language of the latest turn.
func (c *Context) SetLanguage(lang models.Language) {
	c.mu.Lock()
	c.language = lang
	c.mu.Unlock()
}

// Language returns the language of the latest turn, empty before the first.
func (c *Context) Language() models.Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.language
}

// RecordFailure increments the consecutive failure counter and returns it.
func (c *Context) RecordFailure() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures++
	return c.failures
}

// ResetFailures clears the consecutive failure counter.
func (c *Context) ResetFailures() {
	c.mu.Lock()
	c.failures = 0
	c.mu.Unlock()
}

// Failures returns the consecutive failure count.
func (c *Context) Failures() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures
}

// LastActive returns the time of the latest turn, or creation time.
func (c *Context) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Touch marks the conversation active at t.
func (c *Context) Touch(t time.Time) {
	c.mu.Lock()
	c.lastActive = t
	c.mu.Unlock()
}

// Snapshot is a read-only view of a context for APIs and logs.
type Snapshot struct {
	ID         string               `json:"id"`
	UserID     string               `json:"user_id,omitempty"`
	Label      models.ClientProfile `json:"client_profile"`
	Language   models.Language      `json:"language,omitempty"`
	Failures   int                  `json:"failures"`
	Turns      int                  `json:"turns"`
	CreatedAt  time.Time            `json:"created_at"`
	LastActive time.Time            `json:"last_active"`
}

// Snapshot returns a consistent view of the context.
func (c *Context) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		ID:         c.id,
		UserID:     c.userID,
		Label:      c.label,
		Language:   c.language,
		Failures:   c.failures,
		Turns:      len(c.history),
		CreatedAt:  c.createdAt,
		LastActive: c.lastActive,
	}
}
