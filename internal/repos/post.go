package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/types"
)

type PostRepo interface {
	Create(ctx context.Context, tx *gorm.DB, post *types.Post) error
	GetByID(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (*types.Post, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Post, error)
	ListByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) ([]*types.Post, error)
	ListByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.Post, error)
	// Save is a compare-and-swap on the version read: it fails with
	// ErrVersionConflict when another writer got there first.
	Save(ctx context.Context, tx *gorm.DB, post *types.Post) error
	Delete(ctx context.Context, tx *gorm.DB, postID uuid.UUID) error
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	return &postRepo{db: db, log: baseLog.With("repo", "PostRepo")}
}

func (pr *postRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return pr.db
}

func (pr *postRepo) Create(ctx context.Context, tx *gorm.DB, post *types.Post) error {
	return pr.conn(tx).WithContext(ctx).Create(post).Error
}

func (pr *postRepo) GetByID(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (*types.Post, error) {
	var post types.Post
	err := pr.conn(tx).WithContext(ctx).Where("id = ?", postID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (pr *postRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Post, error) {
	var posts []*types.Post
	if err := pr.conn(tx).WithContext(ctx).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (pr *postRepo) ListByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) ([]*types.Post, error) {
	var posts []*types.Post
	if err := pr.conn(tx).WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (pr *postRepo) ListByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.Post, error) {
	var posts []*types.Post
	if err := pr.conn(tx).WithContext(ctx).
		Where("category = ?", category).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (pr *postRepo) Save(ctx context.Context, tx *gorm.DB, post *types.Post) error {
	next := *post
	next.Version = post.Version + 1
	res := pr.conn(tx).WithContext(ctx).
		Model(&types.Post{}).
		Where("id = ? AND version = ?", post.ID, post.Version).
		Select("*").
		Omit("id", "created_at").
		Updates(&next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	post.Version = next.Version
	return nil
}

func (pr *postRepo) Delete(ctx context.Context, tx *gorm.DB, postID uuid.UUID) error {
	return pr.conn(tx).WithContext(ctx).
		Where("id = ?", postID).
		Delete(&types.Post{}).Error
}
