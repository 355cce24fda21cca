package database

import (
	"context"
	"errors"
	"time"

	"github.com/thereayou/voxus/internal/models"
	"gorm.io/gorm"
)

func (d *Database) GetUser(ctx context.Context, id string) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastSeen отмечает активность учётной записи. Отсутствие записи не ошибка:
// идентичность могла быть выдана без регистрации.
func (d *Database) UpdateLastSeen(ctx context.Context, id string) error {
	return d.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("last_seen_at", time.Now()).Error
}

// lookupUsername возвращает имя учётной записи или "" если её нет
func (d *Database) lookupUsername(ctx context.Context, id string) (string, error) {
	user, err := d.GetUser(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return user.Username, nil
}
