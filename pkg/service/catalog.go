package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/bitebuddy/pkg/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogItem is the orderable view of a service, service item or menu item.
type CatalogItem struct {
	ID         uint            `json:"id"`
	Kind       models.ItemKind `json:"kind"`
	Name       string          `json:"name"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

// Catalog is read-only: rows are maintained by the admin tooling.
type Catalog struct {
	db     *gorm.DB
	cache  CatalogCache
	logger *zap.Logger
}

// NewCatalog builds a catalog reader. cache may be nil.
func NewCatalog(db *gorm.DB, cache CatalogCache, logger *zap.Logger) *Catalog {
	return &Catalog{db: db, cache: cache, logger: logger}
}

func (c *Catalog) GetService(ctx context.Context, id uint) (*models.ServiceDetail, error) {
	if c.cache != nil {
		cached, err := c.cache.GetServiceDetail(ctx, id)
		if err != nil {
			c.logger.Warn("Catalog cache read failed", zap.Uint("service_id", id), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	var detail models.ServiceDetail
	if err := c.db.WithContext(ctx).First(&detail.Service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrNotFound, "Service not found")
		}
		c.logger.Error("Failed to get service", zap.Uint("service_id", id), zap.Error(err))
		return nil, storeError("get service", err)
	}

	if err := c.db.WithContext(ctx).Where("service_id = ?", id).Order("id").Find(&detail.Items).Error; err != nil {
		c.logger.Error("Failed to list service items", zap.Uint("service_id", id), zap.Error(err))
		return nil, storeError("list service items", err)
	}

	if c.cache != nil {
		if err := c.cache.SetServiceDetail(ctx, &detail); err != nil {
			c.logger.Warn("Catalog cache write failed", zap.Uint("service_id", id), zap.Error(err))
		}
	}
	return &detail, nil
}

func (c *Catalog) ListAvailableServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := c.db.WithContext(ctx).Where("available = ?", true).Order("id").Find(&services).Error; err != nil {
		c.logger.Error("Failed to list services", zap.Error(err))
		return nil, storeError("list services", err)
	}
	return services, nil
}

func (c *Catalog) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := c.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		c.logger.Error("Failed to list menu", zap.Error(err))
		return nil, storeError("list menu", err)
	}
	return items, nil
}

// Resolve looks an item up by its compound key (kind, id).
func (c *Catalog) Resolve(ctx context.Context, kind models.ItemKind, id uint) (*CatalogItem, error) {
	return resolveItem(c.db.WithContext(ctx), kind, id)
}

func resolveItem(db *gorm.DB, kind models.ItemKind, id uint) (*CatalogItem, error) {
	item := &CatalogItem{ID: id, Kind: kind}

	var err error
	switch kind {
	case models.KindMenu:
		var m models.MenuItem
		if err = db.First(&m, id).Error; err == nil {
			item.Name, item.FinalPrice = m.Name, m.FinalPrice
		}
	case models.KindService:
		var s models.Service
		if err = db.First(&s, id).Error; err == nil {
			item.Name, item.FinalPrice = s.Name, s.FinalPrice
		}
	case models.KindServiceItem:
		var si models.ServiceItem
		if err = db.First(&si, id).Error; err == nil {
			item.Name, item.FinalPrice = si.Name, si.Price
		}
	default:
		return nil, fail(ErrValidation, fmt.Sprintf("Unknown item type %q", kind))
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fail(ErrNotFound, "Item not found")
	}
	if err != nil {
		return nil, storeError("resolve catalog item", err)
	}
	return item, nil
}
