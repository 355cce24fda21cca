package database

import (
	"context"
	"fmt"
	"time"

	"github.com/thereayou/voxus/internal/models"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// AppendMessage сохраняет сообщение чата. Имя отправителя берётся из учётной
// записи, если она есть, иначе используется fallbackName.
func (d *Database) AppendMessage(ctx context.Context, roomID, senderID, fallbackName, text string) (*models.Message, error) {
	name, err := d.lookupUsername(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("resolve sender %s: %w", senderID, err)
	}
	if name == "" {
		name = fallbackName
	}

	message := &models.Message{
		RoomID:     roomID,
		SenderID:   senderID,
		SenderName: name,
		Content:    text,
		CreatedAt:  time.Now().UTC(),
	}
	if err := d.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}
	d.log.Debug("Message archived", "room_id", roomID, "user_id", senderID, "message_id", message.ID)
	return message, nil
}

// GetRoomMessages получает сообщения комнаты с пагинацией. Возвращает
// страницу до before (если задан), старые сообщения первыми.
func (d *Database) GetRoomMessages(ctx context.Context, roomID string, limit int, before *time.Time) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	var messages []models.Message
	query := d.db.WithContext(ctx).Where("room_id = ?", roomID)
	if before != nil {
		query = query.Where("created_at < ?", *before)
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Разворачиваем порядок, чтобы старые сообщения были первыми
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
