package repos

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/types"
)

var repoDBSeq atomic.Int64

func newRepoTestDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)

	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", repoDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&types.Post{}))
	return db, log
}

func TestPostSaveDetectsVersionConflict(t *testing.T) {
	db, log := newRepoTestDB(t)
	repo := NewPostRepo(db, log)
	ctx := context.Background()

	now := time.Now().UTC()
	post := &types.Post{
		ID:        uuid.New(),
		AuthorID:  uuid.New(),
		Content:   "original",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, nil, post))

	first, err := repo.GetByID(ctx, nil, post.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, nil, post.ID)
	require.NoError(t, err)

	first.Content = "writer one"
	require.NoError(t, repo.Save(ctx, nil, first))
	assert.EqualValues(t, 1, first.Version)

	// The second writer still holds version 0 and must lose.
	second.Content = "writer two"
	err = repo.Save(ctx, nil, second)
	assert.ErrorIs(t, err, ErrVersionConflict)

	stored, err := repo.GetByID(ctx, nil, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "writer one", stored.Content)
	assert.EqualValues(t, 1, stored.Version)
}

func TestPostSaveRetryAfterRefresh(t *testing.T) {
	db, log := newRepoTestDB(t)
	repo := NewPostRepo(db, log)
	ctx := context.Background()

	now := time.Now().UTC()
	post := &types.Post{
		ID:        uuid.New(),
		AuthorID:  uuid.New(),
		Content:   "original",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, nil, post))

	stale, err := repo.GetByID(ctx, nil, post.ID)
	require.NoError(t, err)

	winner, err := repo.GetByID(ctx, nil, post.ID)
	require.NoError(t, err)
	winner.Content = "winner"
	require.NoError(t, repo.Save(ctx, nil, winner))

	stale.Content = "loser"
	require.ErrorIs(t, repo.Save(ctx, nil, stale), ErrVersionConflict)

	// A fresh read picks up the new version and the retry succeeds.
	fresh, err := repo.GetByID(ctx, nil, post.ID)
	require.NoError(t, err)
	fresh.Content = "retried"
	require.NoError(t, repo.Save(ctx, nil, fresh))
	assert.EqualValues(t, 2, fresh.Version)
}
