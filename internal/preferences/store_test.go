package preferences_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/openclaw-concierge/internal/models"
	"github.com/ajitpratap0/openclaw-concierge/internal/preferences"
)

type mockRedisKV struct {
	data    map[string]string
	lastTTL time.Duration
	getErr  error
	setErr  error
}

func newMockRedisKV() *mockRedisKV {
	return &mockRedisKV{data: make(map[string]string)}
}

func (m *mockRedisKV) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if m.getErr != nil {
		cmd.SetErr(m.getErr)
		return cmd
	}
	v, ok := m.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (m *mockRedisKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.lastTTL = expiration
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedisKV) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func sampleProfile() models.UserPreferenceProfile {
	return models.UserPreferenceProfile{
		Tastes:       map[string][]string{models.TasteCuisine: {"japanese"}},
		Restrictions: map[string][]string{models.RestrictFood: {"gluten"}},
		Fears:        []string{"heights"},
		Dietary:      &models.DietaryProfile{Allergies: []string{"peanut"}},
		Service:      &models.ServiceProfile{BudgetTier: models.Int(3), GroupSize: models.GroupCouple, TimeOfDay: "evening"},
	}
}

func TestStores(t *testing.T) {
	stores := map[string]func() preferences.Store{
		"memory": func() preferences.Store { return preferences.NewMemoryStore() },
		"redis":  func() preferences.Store { return preferences.NewRedisStore(newMockRedisKV(), "", 0) },
	}
	for name, mk := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := mk()

			_, err := s.Get(ctx, "u1")
			assert.ErrorIs(t, err, preferences.ErrNotFound)

			require.NoError(t, s.Put(ctx, "u1", sampleProfile()))
			got, err := s.Get(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, "u1", got.UserID)
			assert.Equal(t, []string{"gluten"}, got.Restrictions[models.RestrictFood])
			require.NotNil(t, got.Service)
			assert.Equal(t, 3, *got.Service.BudgetTier)

			// Mutating the result does not touch the stored copy.
			got.Fears[0] = "crowds"
			again, err := s.Get(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, "heights", again.Fears[0])

			assert.Error(t, s.Put(ctx, " ", sampleProfile()))

			require.NoError(t, s.Delete(ctx, "u1"))
			_, err = s.Get(ctx, "u1")
			assert.ErrorIs(t, err, preferences.ErrNotFound)
		})
	}
}

func TestRedisStore_KeyAndTTL(t *testing.T) {
	kv := newMockRedisKV()
	s := preferences.NewRedisStore(kv, "test:", 24*time.Hour)
	require.NoError(t, s.Put(context.Background(), "u1", sampleProfile()))

	_, ok := kv.data["test:u1"]
	assert.True(t, ok)
	assert.Equal(t, 24*time.Hour, kv.lastTTL)
}

func TestRedisStore_Errors(t *testing.T) {
	kv := newMockRedisKV()
	kv.getErr = errors.New("connection refused")
	s := preferences.NewRedisStore(kv, "", 0)
	_, err := s.Get(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, preferences.ErrNotFound)

	kv = newMockRedisKV()
	kv.data[preferences.DefaultPrefix+"u2"] = "{not json"
	_, err = preferences.NewRedisStore(kv, "", 0).Get(context.Background(), "u2")
	assert.Error(t, err)

	kv = newMockRedisKV()
	kv.setErr = errors.New("readonly")
	assert.Error(t, preferences.NewRedisStore(kv, "", 0).Put(context.Background(), "u1", sampleProfile()))
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	s := preferences.NewMemoryStore()

	p, err := preferences.Lookup(ctx, s, "nobody")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = preferences.Lookup(ctx, nil, "u1")
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, s.Put(ctx, "u1", sampleProfile()))
	p, err = preferences.Lookup(ctx, s, "u1")
	require.NoError(t, err)
	require.NotNil(t, p)
}
