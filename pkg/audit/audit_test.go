package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/bitebuddy/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryStore struct {
	mu      sync.Mutex
	entries []*repository.AuditLog
	failOn  string
}

func (m *memoryStore) CreateAuditLog(_ context.Context, log *repository.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if log.Action == m.failOn {
		return errors.New("mongo unavailable")
	}
	m.entries = append(m.entries, log)
	return nil
}

func (m *memoryStore) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Action
	}
	return out
}

func TestRecorder_WritesInOrder(t *testing.T) {
	store := &memoryStore{}
	rec, err := NewRecorder("bitebuddy", store, zap.NewNop())
	require.NoError(t, err)
	defer rec.Stop(time.Second)

	rec.Record("register", "1", map[string]interface{}{"mobile": "9000000001"})
	rec.Record("login", "1", nil)
	rec.Record("place_order", "7", map[string]interface{}{"total_amount": "550"})

	require.NoError(t, rec.Flush(time.Second))
	assert.Equal(t, []string{"register", "login", "place_order"}, store.actions())

	store.mu.Lock()
	last := store.entries[2]
	store.mu.Unlock()
	assert.Equal(t, "bitebuddy", last.Service)
	assert.Equal(t, "7", last.EntityID)
	assert.Equal(t, "550", last.Data["total_amount"])
	assert.False(t, last.CreatedAt.IsZero())
}

func TestRecorder_StoreFailureDoesNotStopActor(t *testing.T) {
	store := &memoryStore{failOn: "login"}
	rec, err := NewRecorder("bitebuddy", store, zap.NewNop())
	require.NoError(t, err)
	defer rec.Stop(time.Second)

	rec.Record("login", "1", nil)
	rec.Record("register", "2", nil)

	require.NoError(t, rec.Flush(time.Second))
	assert.Equal(t, []string{"register"}, store.actions())
}
