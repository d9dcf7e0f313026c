package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/types"
)

type CommunityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, community *types.Community) error
	GetByID(ctx context.Context, tx *gorm.DB, communityID uuid.UUID) (*types.Community, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, communityIDs []uuid.UUID) ([]*types.Community, error)
	ListPublic(ctx context.Context, tx *gorm.DB) ([]*types.Community, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Community, error)
	// ExistsByIDAndMember re-reads the member set on every call; membership
	// can change between requests so the answer is never cached.
	ExistsByIDAndMember(ctx context.Context, tx *gorm.DB, communityID, userID uuid.UUID) (bool, error)
	Save(ctx context.Context, tx *gorm.DB, community *types.Community) error
	Delete(ctx context.Context, tx *gorm.DB, communityID uuid.UUID) error
}

type communityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommunityRepo(db *gorm.DB, baseLog *logger.Logger) CommunityRepo {
	return &communityRepo{db: db, log: baseLog.With("repo", "CommunityRepo")}
}

func (cr *communityRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return cr.db
}

func (cr *communityRepo) Create(ctx context.Context, tx *gorm.DB, community *types.Community) error {
	return cr.conn(tx).WithContext(ctx).Create(community).Error
}

func (cr *communityRepo) GetByID(ctx context.Context, tx *gorm.DB, communityID uuid.UUID) (*types.Community, error) {
	var community types.Community
	err := cr.conn(tx).WithContext(ctx).Where("id = ?", communityID).First(&community).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &community, nil
}

func (cr *communityRepo) GetByIDs(ctx context.Context, tx *gorm.DB, communityIDs []uuid.UUID) ([]*types.Community, error) {
	var communities []*types.Community
	if len(communityIDs) == 0 {
		return communities, nil
	}
	if err := cr.conn(tx).WithContext(ctx).
		Where("id IN ?", communityIDs).
		Find(&communities).Error; err != nil {
		return nil, err
	}
	return communities, nil
}

func (cr *communityRepo) ListPublic(ctx context.Context, tx *gorm.DB) ([]*types.Community, error) {
	var communities []*types.Community
	if err := cr.conn(tx).WithContext(ctx).
		Where("is_private = ?", false).
		Order("created_at DESC").
		Find(&communities).Error; err != nil {
		return nil, err
	}
	return communities, nil
}

func (cr *communityRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Community, error) {
	var communities []*types.Community
	if err := cr.conn(tx).WithContext(ctx).Find(&communities).Error; err != nil {
		return nil, err
	}
	return communities, nil
}

func (cr *communityRepo) ExistsByIDAndMember(ctx context.Context, tx *gorm.DB, communityID, userID uuid.UUID) (bool, error) {
	community, err := cr.GetByID(ctx, tx, communityID)
	if err != nil {
		return false, err
	}
	if community == nil {
		return false, nil
	}
	return community.HasMember(userID), nil
}

func (cr *communityRepo) Save(ctx context.Context, tx *gorm.DB, community *types.Community) error {
	next := *community
	next.Version = community.Version + 1
	res := cr.conn(tx).WithContext(ctx).
		Model(&types.Community{}).
		Where("id = ? AND version = ?", community.ID, community.Version).
		Select("*").
		Omit("id", "created_at").
		Updates(&next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	community.Version = next.Version
	return nil
}

func (cr *communityRepo) Delete(ctx context.Context, tx *gorm.DB, communityID uuid.UUID) error {
	return cr.conn(tx).WithContext(ctx).
		Where("id = ?", communityID).
		Delete(&types.Community{}).Error
}
