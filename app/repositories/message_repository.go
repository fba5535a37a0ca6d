package repositories

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/giftwheels/app/models"
	"github.com/shashiranjanraj/giftwheels/pkg/logger"
)

// MessageRepository is the append-only contact inbox.
type MessageRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db, now: time.Now}
}

// Submit appends a message dated now.
func (r *MessageRepository) Submit(ctx context.Context, name, phone, text string) (models.ContactMessage, error) {
	m := models.ContactMessage{
		Name:    strings.TrimSpace(name),
		Phone:   strings.TrimSpace(phone),
		Message: strings.TrimSpace(text),
		Date:    r.now(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return models.ContactMessage{}, storeErr("messages: submit", err)
	}

	logger.WithCtx(ctx).Info("message received", "message_id", m.ID)
	return m, nil
}

// List returns every message, newest first.
func (r *MessageRepository) List(ctx context.Context) ([]models.ContactMessage, error) {
	messages := []models.ContactMessage{}
	if err := r.db.WithContext(ctx).Order("id desc").Find(&messages).Error; err != nil {
		return nil, storeErr("messages: list", err)
	}
	return messages, nil
}
