// Package catalog loads read-only snapshots of catalog items from files,
// SQLite or Neo4j.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ajitpratap0/openclaw-concierge/internal/models"
)

var (
	// ErrDuplicateID is returned when two items in one snapshot share an id.
	ErrDuplicateID = errors.New("duplicate catalog item id")
	// ErrInvalidItem is returned for items without id or name, or with an unknown kind.
	ErrInvalidItem = errors.New("invalid catalog item")
)

// Source produces catalog snapshots.
type Source interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Snapshot is an immutable view of the catalog taken at LoadedAt.
type Snapshot struct {
	Items    []models.CatalogItem `json:"items"`
	LoadedAt time.Time            `json:"loaded_at"`
}

// NewSnapshot validates items and wraps them in a snapshot. Item order is kept.
func NewSnapshot(items []models.CatalogItem) (Snapshot, error) {
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if err := validateItem(item); err != nil {
			return Snapshot{}, fmt.Errorf("item %d: %w", i, err)
		}
		if _, ok := seen[item.ID]; ok {
			return Snapshot{}, fmt.Errorf("item %d (%s): %w", i, item.ID, ErrDuplicateID)
		}
		seen[item.ID] = struct{}{}
	}
	out := make([]models.CatalogItem, len(items))
	copy(out, items)
	return Snapshot{Items: out, LoadedAt: time.Now().UTC()}, nil
}

func validateItem(item models.CatalogItem) error {
	if strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidItem)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: %s has no name", ErrInvalidItem, item.ID)
	}
	if !item.Kind.IsValid() {
		return fmt.Errorf("%w: %s has unknown kind %q", ErrInvalidItem, item.ID, item.Kind)
	}
	if item.Rating != nil && (*item.Rating < 0 || *item.Rating > 5) {
		return fmt.Errorf("%w: %s rating %v outside 0-5", ErrInvalidItem, item.ID, *item.Rating)
	}
	return nil
}

// Find returns the item with id.
func (s Snapshot) Find(id string) (models.CatalogItem, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return models.CatalogItem{}, false
}

// MemorySource serves a fixed set of items. Safe for concurrent use.
type MemorySource struct {
	mu    sync.RWMutex
	items []models.CatalogItem
}

// NewMemorySource creates a source over items.
func NewMemorySource(items []models.CatalogItem) *MemorySource {
	return &MemorySource{items: items}
}

// Set replaces the served items.
func (m *MemorySource) Set(items []models.CatalogItem) {
	m.mu.Lock()
	m.items = items
	m.mu.Unlock()
}

// Snapshot returns the current items.
func (m *MemorySource) Snapshot(_ context.Context) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return NewSnapshot(m.items)
}
