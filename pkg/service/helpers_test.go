package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/example/bitebuddy/pkg/config"
	"github.com/example/bitebuddy/pkg/credential"
	"github.com/example/bitebuddy/pkg/models"
	"github.com/example/bitebuddy/pkg/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	logger   *zap.Logger
	auditor  *recordingAuditor
	sessions *repository.MemorySessionStore
	accounts *Accounts
	catalog  *Catalog
	cart     *Cart
	orders   *Orders
	inbox    *Inbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zaptest.NewLogger(t)
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}}
	db, err := repository.OpenDatabase(cfg, logger)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &fixture{
		db:       db,
		logger:   logger,
		auditor:  &recordingAuditor{},
		sessions: repository.NewMemorySessionStore(time.Hour),
	}
	f.accounts = NewAccounts(db, credential.NewBcryptHasher(bcrypt.MinCost), f.sessions, f.auditor, logger)
	f.catalog = NewCatalog(db, nil, logger)
	f.cart = NewCart(db, f.catalog, logger)
	f.orders = NewOrders(db, f.auditor, logger)
	f.inbox = NewInbox(db, logger)
	return f
}

func (f *fixture) register(t *testing.T, mobile string) *models.Session {
	t.Helper()
	session, err := f.accounts.Register(context.Background(), RegisterRequest{
		Name:            "Asha",
		Mobile:          mobile,
		Password:        "pw",
		ConfirmPassword: "pw",
	})
	require.NoError(t, err)
	return session
}

func (f *fixture) menuItem(t *testing.T, name string, price, discount int64) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		Name:     name,
		Price:    decimal.NewFromInt(price),
		Discount: decimal.NewFromInt(discount),
		Category: "mains",
	}
	require.NoError(t, f.db.Create(item).Error)
	return item
}

func (f *fixture) service(t *testing.T, name string, price, discount int64, available bool) *models.Service {
	t.Helper()
	svc := &models.Service{
		Name:      name,
		Category:  "home",
		BasePrice: decimal.NewFromInt(price),
		Discount:  decimal.NewFromInt(discount),
		Available: available,
	}
	require.NoError(t, f.db.Create(svc).Error)
	return svc
}

func (f *fixture) serviceItem(t *testing.T, serviceID uint, name string, price int64) *models.ServiceItem {
	t.Helper()
	item := &models.ServiceItem{ServiceID: serviceID, Name: name, Price: decimal.NewFromInt(price)}
	require.NoError(t, f.db.Create(item).Error)
	return item
}

func (f *fixture) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

type auditEvent struct {
	action   string
	entityID string
	data     map[string]interface{}
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []auditEvent
}

func (r *recordingAuditor) Record(action, entityID string, data map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, auditEvent{action: action, entityID: entityID, data: data})
}

func (r *recordingAuditor) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.action
	}
	return out
}
