package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/types"
)

type LearningPlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, plan *types.LearningPlan) error
	GetByID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (*types.LearningPlan, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.LearningPlan, error)
	Save(ctx context.Context, tx *gorm.DB, plan *types.LearningPlan) error
	Delete(ctx context.Context, tx *gorm.DB, planID uuid.UUID) error
}

type learningPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningPlanRepo(db *gorm.DB, baseLog *logger.Logger) LearningPlanRepo {
	return &learningPlanRepo{db: db, log: baseLog.With("repo", "LearningPlanRepo")}
}

func (lr *learningPlanRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return lr.db
}

func (lr *learningPlanRepo) Create(ctx context.Context, tx *gorm.DB, plan *types.LearningPlan) error {
	return lr.conn(tx).WithContext(ctx).Create(plan).Error
}

func (lr *learningPlanRepo) GetByID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (*types.LearningPlan, error) {
	var plan types.LearningPlan
	err := lr.conn(tx).WithContext(ctx).Where("id = ?", planID).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (lr *learningPlanRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.LearningPlan, error) {
	var plans []*types.LearningPlan
	if err := lr.conn(tx).WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (lr *learningPlanRepo) Save(ctx context.Context, tx *gorm.DB, plan *types.LearningPlan) error {
	next := *plan
	next.Version = plan.Version + 1
	res := lr.conn(tx).WithContext(ctx).
		Model(&types.LearningPlan{}).
		Where("id = ? AND version = ?", plan.ID, plan.Version).
		Select("*").
		Omit("id", "created_at").
		Updates(&next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	plan.Version = next.Version
	return nil
}

func (lr *learningPlanRepo) Delete(ctx context.Context, tx *gorm.DB, planID uuid.UUID) error {
	return lr.conn(tx).WithContext(ctx).
		Where("id = ?", planID).
		Delete(&types.LearningPlan{}).Error
}
