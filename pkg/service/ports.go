package service

import (
	"context"

	"github.com/example/bitebuddy/pkg/models"
)

// SessionStore issues and resolves session tokens for authenticated users.
type SessionStore interface {
	Create(ctx context.Context, userID uint) (*models.Session, error)
	Lookup(ctx context.Context, token string) (uint, error)
	Delete(ctx context.Context, token string) error
}

// CatalogCache is an optional read-through cache for service details. A miss
// is reported as (nil, nil).
type CatalogCache interface {
	GetServiceDetail(ctx context.Context, id uint) (*models.ServiceDetail, error)
	SetServiceDetail(ctx context.Context, detail *models.ServiceDetail) error
}

// Auditor receives business events after they have been committed. Record
// must not block the caller.
type Auditor interface {
	Record(action, entityID string, data map[string]interface{})
}

type nopAuditor struct{}

func (nopAuditor) Record(string, string, map[string]interface{}) {}

// NopAuditor discards every event.
var NopAuditor Auditor = nopAuditor{}
