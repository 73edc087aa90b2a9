package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/bitebuddy/pkg/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PlaceOrderRequest struct {
	Address       string
	PaymentMethod string
}

type Orders struct {
	db      *gorm.DB
	auditor Auditor
	logger  *zap.Logger
}

func NewOrders(db *gorm.DB, auditor Auditor, logger *zap.Logger) *Orders {
	if auditor == nil {
		auditor = NopAuditor
	}
	return &Orders{db: db, auditor: auditor, logger: logger}
}

// PlaceOrder turns the user's cart into a pending order. The order row, the
// cart deletion and the confirmation message commit together or not at all;
// failed preconditions write nothing.
func (o *Orders) PlaceOrder(ctx context.Context, userID uint, req PlaceOrderRequest) (*models.Order, error) {
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return nil, fail(ErrMissingAddress, "Please provide delivery location using live location")
	}
	if req.PaymentMethod != models.PaymentCashOnDelivery {
		return nil, fail(ErrUnsupportedPayment, "Only Cash on Delivery available at the moment")
	}

	var order *models.Order
	err := o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []models.CartLine
		if err := tx.Where("user_id = ?", userID).Order("id").Find(&lines).Error; err != nil {
			return storeError("load cart", err)
		}
		if len(lines) == 0 {
			return fail(ErrEmptyCart, "Cart is empty")
		}

		order = buildOrder(userID, lines, address, req.PaymentMethod)
		if err := tx.Create(order).Error; err != nil {
			return storeError("create order", err)
		}

		lineIDs := make([]uint, len(lines))
		for i, line := range lines {
			lineIDs[i] = line.ID
		}
		if err := tx.Where("user_id = ? AND id IN ?", userID, lineIDs).Delete(&models.CartLine{}).Error; err != nil {
			return storeError("clear cart", err)
		}

		content := fmt.Sprintf("Order #%d confirmed. Total: ₹%s. Will be delivered to: %s",
			order.ID, order.TotalAmount.String(), address)
		_, err := appendMessage(tx, userID, models.SenderOrders, content)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrStore) {
			o.logger.Error("Failed to place order", zap.Uint("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	o.logger.Info("Order placed",
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", userID),
		zap.String("total_amount", order.TotalAmount.String()))
	o.auditor.Record("place_order", strconv.FormatUint(uint64(order.ID), 10), map[string]interface{}{
		"user_id":      userID,
		"total_amount": order.TotalAmount.String(),
		"item_count":   len(order.Items),
	})
	return order, nil
}

func buildOrder(userID uint, lines []models.CartLine, address, paymentMethod string) *models.Order {
	total := decimal.Zero
	items := make([]models.OrderItem, len(lines))
	for i, line := range lines {
		lineTotal := line.Total()
		total = total.Add(lineTotal)
		items[i] = models.OrderItem{
			ID:       line.ItemID,
			Type:     line.ItemType,
			Name:     line.ItemName,
			Price:    line.Price,
			Quantity: line.Quantity,
			Total:    lineTotal,
		}
	}

	return &models.Order{
		UserID:          userID,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		PaymentMethod:   paymentMethod,
		DeliveryAddress: address,
		Items:           items,
	}
}

// ListOrders returns the user's orders, newest first.
func (o *Orders) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := o.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("order_date DESC").Order("id DESC").
		Find(&orders).Error
	if err != nil {
		o.logger.Error("Failed to list orders", zap.Uint("user_id", userID), zap.Error(err))
		return nil, storeError("list orders", err)
	}
	return orders, nil
}

// GetOrder only returns orders owned by userID.
func (o *Orders) GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := o.db.WithContext(ctx).Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fail(ErrNotFound, "Order not found")
	}
	if err != nil {
		o.logger.Error("Failed to get order", zap.Uint("order_id", orderID), zap.Error(err))
		return nil, storeError("get order", err)
	}
	return &order, nil
}
