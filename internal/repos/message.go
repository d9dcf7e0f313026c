package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/types"
)

type MessageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, message *types.CommunityMessage) error
	ListByCommunity(ctx context.Context, tx *gorm.DB, communityID uuid.UUID) ([]*types.CommunityMessage, error)
	GetLatest(ctx context.Context, tx *gorm.DB, communityID uuid.UUID) (*types.CommunityMessage, error)
	// Unread queries exclude the caller's own messages; the read flag is
	// per message, not per recipient.
	CountUnread(ctx context.Context, tx *gorm.DB, communityID, excludeSenderID uuid.UUID) (int64, error)
	ListUnread(ctx context.Context, tx *gorm.DB, communityID, excludeSenderID uuid.UUID) ([]*types.CommunityMessage, error)
	Save(ctx context.Context, tx *gorm.DB, message *types.CommunityMessage) error
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: baseLog.With("repo", "MessageRepo")}
}

func (mr *messageRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return mr.db
}

func (mr *messageRepo) Create(ctx context.Context, tx *gorm.DB, message *types.CommunityMessage) error {
	return mr.conn(tx).WithContext(ctx).Create(message).Error
}

func (mr *messageRepo) ListByCommunity(ctx context.Context, tx *gorm.DB, communityID uuid.UUID) ([]*types.CommunityMessage, error) {
	var messages []*types.CommunityMessage
	if err := mr.conn(tx).WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("timestamp ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (mr *messageRepo) GetLatest(ctx context.Context, tx *gorm.DB, communityID uuid.UUID) (*types.CommunityMessage, error) {
	var message types.CommunityMessage
	err := mr.conn(tx).WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("timestamp DESC").
		First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (mr *messageRepo) CountUnread(ctx context.Context, tx *gorm.DB, communityID, excludeSenderID uuid.UUID) (int64, error) {
	var count int64
	if err := mr.conn(tx).WithContext(ctx).
		Model(&types.CommunityMessage{}).
		Where("community_id = ? AND read = ? AND sender_id <> ?", communityID, false, excludeSenderID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (mr *messageRepo) ListUnread(ctx context.Context, tx *gorm.DB, communityID, excludeSenderID uuid.UUID) ([]*types.CommunityMessage, error) {
	var messages []*types.CommunityMessage
	if err := mr.conn(tx).WithContext(ctx).
		Where("community_id = ? AND read = ? AND sender_id <> ?", communityID, false, excludeSenderID).
		Order("timestamp ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (mr *messageRepo) Save(ctx context.Context, tx *gorm.DB, message *types.CommunityMessage) error {
	return mr.conn(tx).WithContext(ctx).Save(message).Error
}
