package service

import (
	"context"
	"errors"

	"github.com/example/bitebuddy/pkg/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsertAttempts bounds retries when a concurrent insert wins the race on the
// cart's unique index.
const upsertAttempts = 2

var cartLineKey = []clause.Column{{Name: "user_id"}, {Name: "item_id"}, {Name: "item_type"}}

type CartLineView struct {
	models.CartLine
	Total decimal.Decimal `json:"total"`
}

type CartSummary struct {
	Lines []CartLineView  `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type Cart struct {
	db      *gorm.DB
	catalog *Catalog
	logger  *zap.Logger
}

func NewCart(db *gorm.DB, catalog *Catalog, logger *zap.Logger) *Cart {
	return &Cart{db: db, catalog: catalog, logger: logger}
}

func (c *Cart) List(ctx context.Context, userID uint) ([]CartLineView, error) {
	var lines []models.CartLine
	if err := c.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&lines).Error; err != nil {
		c.logger.Error("Failed to list cart", zap.Uint("user_id", userID), zap.Error(err))
		return nil, storeError("list cart", err)
	}

	views := make([]CartLineView, len(lines))
	for i, line := range lines {
		views[i] = CartLineView{CartLine: line, Total: line.Total()}
	}
	return views, nil
}

func (c *Cart) Summary(ctx context.Context, userID uint) (*CartSummary, error) {
	lines, err := c.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &CartSummary{Lines: lines, Count: len(lines), Total: decimal.Zero}
	for _, line := range lines {
		summary.Total = summary.Total.Add(line.Total)
	}
	return summary, nil
}

// Add puts one more unit of the item into the cart. A new line snapshots the
// item's current name and final price; an existing line keeps its snapshot.
func (c *Cart) Add(ctx context.Context, userID, itemID uint, kind models.ItemKind) error {
	item, err := c.catalog.Resolve(ctx, kind, itemID)
	if err != nil {
		return err
	}

	return c.upsert(ctx, newLine(userID, item, 1), clause.Assignments(map[string]interface{}{
		"quantity": gorm.Expr("quantity + ?", 1),
	}))
}

// SetQuantity sets the line to qty units. qty <= 0 removes the line and is a
// no-op when there is none.
func (c *Cart) SetQuantity(ctx context.Context, userID, itemID uint, kind models.ItemKind, qty int) error {
	if qty <= 0 {
		if !kind.Valid() {
			return fail(ErrValidation, "Unknown item type")
		}
		return c.deleteLine(ctx, userID, itemID, kind)
	}

	item, err := c.catalog.Resolve(ctx, kind, itemID)
	if err != nil {
		return err
	}

	return c.upsert(ctx, newLine(userID, item, qty), clause.Assignments(map[string]interface{}{
		"quantity": qty,
	}))
}

// Remove deletes a single line when both itemID and kind are given and clears
// the whole cart otherwise.
func (c *Cart) Remove(ctx context.Context, userID, itemID uint, kind models.ItemKind) error {
	if itemID != 0 && kind != "" {
		return c.deleteLine(ctx, userID, itemID, kind)
	}
	return c.Clear(ctx, userID)
}

func (c *Cart) Clear(ctx context.Context, userID uint) error {
	if err := c.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartLine{}).Error; err != nil {
		c.logger.Error("Failed to clear cart", zap.Uint("user_id", userID), zap.Error(err))
		return storeError("clear cart", err)
	}
	return nil
}

func (c *Cart) deleteLine(ctx context.Context, userID, itemID uint, kind models.ItemKind) error {
	err := c.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ? AND item_type = ?", userID, itemID, kind).
		Delete(&models.CartLine{}).Error
	if err != nil {
		c.logger.Error("Failed to remove cart line", zap.Uint("user_id", userID), zap.Uint("item_id", itemID), zap.Error(err))
		return storeError("remove cart line", err)
	}
	return nil
}

// upsert inserts line or, when the (user, item, kind) key already exists,
// applies onConflict to the stored row in the same statement.
func (c *Cart) upsert(ctx context.Context, line *models.CartLine, onConflict clause.Set) error {
	var err error
	for attempt := 0; attempt < upsertAttempts; attempt++ {
		row := *line
		err = c.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   cartLineKey,
			DoUpdates: onConflict,
		}).Create(&row).Error
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		c.logger.Warn("Cart upsert raced, retrying", zap.Uint("user_id", line.UserID), zap.Uint("item_id", line.ItemID))
	}
	if err != nil {
		c.logger.Error("Failed to upsert cart line", zap.Uint("user_id", line.UserID), zap.Uint("item_id", line.ItemID), zap.Error(err))
		return storeError("update cart", err)
	}
	return nil
}

func newLine(userID uint, item *CatalogItem, qty int) *models.CartLine {
	return &models.CartLine{
		UserID:   userID,
		ItemID:   item.ID,
		ItemType: item.Kind,
		ItemName: item.Name,
		Price:    item.FinalPrice,
		Quantity: qty,
	}
}
