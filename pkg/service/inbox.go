package service

import (
	"context"

	"github.com/example/bitebuddy/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Inbox is the per-user append-only message log.
type Inbox struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewInbox(db *gorm.DB, logger *zap.Logger) *Inbox {
	return &Inbox{db: db, logger: logger}
}

func (i *Inbox) List(ctx context.Context, userID uint) ([]models.Message, error) {
	return i.ListRecent(ctx, userID, 0)
}

// ListRecent returns the newest messages first; limit <= 0 returns all of them.
func (i *Inbox) ListRecent(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	query := i.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sent_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var messages []models.Message
	if err := query.Find(&messages).Error; err != nil {
		i.logger.Error("Failed to list messages", zap.Uint("user_id", userID), zap.Error(err))
		return nil, storeError("list messages", err)
	}
	return messages, nil
}

// MarkAllRead flips every unread message of the user to read and reports how
// many changed. Read messages are never flipped back.
func (i *Inbox) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	result := i.db.WithContext(ctx).Model(&models.Message{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		i.logger.Error("Failed to mark messages read", zap.Uint("user_id", userID), zap.Error(result.Error))
		return 0, storeError("mark messages read", result.Error)
	}
	return result.RowsAffected, nil
}

func (i *Inbox) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := i.db.WithContext(ctx).Model(&models.Message{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, storeError("count unread messages", err)
	}
	return count, nil
}

// appendMessage writes through tx so that callers can make the message part
// of a larger transaction.
func appendMessage(tx *gorm.DB, userID uint, sender, content string) (*models.Message, error) {
	msg := &models.Message{
		UserID:  userID,
		Sender:  sender,
		Content: content,
	}
	if err := tx.Create(msg).Error; err != nil {
		return nil, storeError("append message", err)
	}
	return msg, nil
}
