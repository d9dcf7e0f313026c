package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/types"
)

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, notification *types.Notification) error
	GetByID(ctx context.Context, tx *gorm.DB, notificationID uuid.UUID) (*types.Notification, error)
	ListByRecipient(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) ([]*types.Notification, error)
	ListUnread(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) ([]*types.Notification, error)
	CountUnread(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) (int64, error)
	Save(ctx context.Context, tx *gorm.DB, notification *types.Notification) error
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (nr *notificationRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return nr.db
}

func (nr *notificationRepo) Create(ctx context.Context, tx *gorm.DB, notification *types.Notification) error {
	return nr.conn(tx).WithContext(ctx).Create(notification).Error
}

func (nr *notificationRepo) GetByID(ctx context.Context, tx *gorm.DB, notificationID uuid.UUID) (*types.Notification, error) {
	var notification types.Notification
	err := nr.conn(tx).WithContext(ctx).Where("id = ?", notificationID).First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (nr *notificationRepo) ListByRecipient(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) ([]*types.Notification, error) {
	var notifications []*types.Notification
	if err := nr.conn(tx).WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (nr *notificationRepo) ListUnread(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) ([]*types.Notification, error) {
	var notifications []*types.Notification
	if err := nr.conn(tx).WithContext(ctx).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (nr *notificationRepo) CountUnread(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) (int64, error) {
	var count int64
	if err := nr.conn(tx).WithContext(ctx).
		Model(&types.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (nr *notificationRepo) Save(ctx context.Context, tx *gorm.DB, notification *types.Notification) error {
	return nr.conn(tx).WithContext(ctx).Save(notification).Error
}
