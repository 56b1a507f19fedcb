package conversation

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a conversation id is unknown.
var ErrNotFound = errors.New("conversation not found")

// Registry keeps the live conversations of the process, keyed by id.
type Registry struct {
	mu         sync.RWMutex
	contexts   map[string]*Context
	maxHistory int
}

// NewRegistry creates an empty registry whose contexts keep maxHistory turns.
func NewRegistry(maxHistory int) *Registry {
	return &Registry{
		contexts:   make(map[string]*Context),
		maxHistory: maxHistory,
	}
}

// GetOrCreate returns the context for id, creating it on first use. An empty
// id gets a fresh UUID. The boolean reports whether the context was created.
func (r *Registry) GetOrCreate(id, userID string) (*Context, bool) {
	if id == "" {
		id = uuid.New().String()
	}

	r.mu.RLock()
	c, ok := r.contexts[id]
	r.mu.RUnlock()
	if ok {
		return c, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.contexts[id]; ok {
		return c, false
	}
	c = New(id, userID, r.maxHistory)
	r.contexts[id] = c
	return c, true
}

// Get returns the context for id.
func (r *Registry) Get(id string) (*Context, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contexts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

// End discards the conversation.
func (r *Registry) End(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contexts[id]; !ok {
		return ErrNotFound
	}
	delete(r.contexts, id)
	return nil
}

// Len returns the number of live conversations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.contexts)
}

// List returns snapshots of every live conversation, oldest activity first.
func (r *Registry) List() []Snapshot {
	r.mu.RLock()
	out := make([]Snapshot, 0, len(r.contexts))
	for _, c := range r.contexts {
		out = append(out, c.Snapshot())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastActive.Equal(out[j].LastActive) {
			return out[i].ID < out[j].ID
		}
		return out[i].LastActive.Before(out[j].LastActive)
	})
	return out
}

// Idle returns the ids of conversations inactive since before cutoff.
func (r *Registry) Idle(cutoff time.Time) []string {
	var ids []string
	for _, s := range r.List() {
		if s.LastActive.Before(cutoff) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
