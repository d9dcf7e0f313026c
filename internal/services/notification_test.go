package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/IT22889256/PAF/internal/apierr"
	"github.com/IT22889256/PAF/internal/repos"
	"github.com/IT22889256/PAF/internal/types"
)

// notificationRepoWithFailingCreate refuses every insert, standing in for
// an unavailable notification store.
type notificationRepoWithFailingCreate struct {
	repos.NotificationRepo
}

func (r *notificationRepoWithFailingCreate) Create(ctx context.Context, tx *gorm.DB, notification *types.Notification) error {
	return errors.New("notification store unavailable")
}

// notificationRepoWithFlakySave fails the save of one chosen notification
// and lets the rest through.
type notificationRepoWithFlakySave struct {
	repos.NotificationRepo
	failID uuid.UUID
}

func (r *notificationRepoWithFlakySave) Save(ctx context.Context, tx *gorm.DB, notification *types.Notification) error {
	if notification.ID == r.failID {
		return errors.New("save failed")
	}
	return r.NotificationRepo.Save(ctx, tx, notification)
}

func TestMissingActorFallsBackToSomeone(t *testing.T) {
	env := newTestEnv(t)
	recipient := env.createUser(t, "Alice")

	env.notifications.NotifyPostLike(context.Background(), uuid.New(), uuid.New(), recipient.ID)

	persisted := env.notificationsFor(t, recipient.ID)
	require.Len(t, persisted, 1)
	assert.Equal(t, "Someone liked your post", persisted[0].Content)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	recipient := env.createUser(t, "Alice")
	sender := env.createUser(t, "Bob")

	env.notifications.NotifyNewFollower(context.Background(), sender.ID, recipient.ID)
	persisted := env.notificationsFor(t, recipient.ID)
	require.Len(t, persisted, 1)
	assert.Equal(t, types.NotificationNewFollower, persisted[0].Type)

	n, err := env.notifications.MarkRead(context.Background(), persisted[0].ID)
	require.NoError(t, err)
	assert.True(t, n.Read)

	n, err = env.notifications.MarkRead(context.Background(), persisted[0].ID)
	require.NoError(t, err)
	assert.True(t, n.Read)
}

func TestMarkReadMissingNotification(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.notifications.MarkRead(context.Background(), uuid.New())
	assert.True(t, apierr.IsCode(err, apierr.CodeNotFound))
}

func TestMarkAllReadAndUnreadCount(t *testing.T) {
	env := newTestEnv(t)
	recipient := env.createUser(t, "Alice")
	sender := env.createUser(t, "Bob")

	ctx := context.Background()
	env.notifications.NotifyPostLike(ctx, uuid.New(), sender.ID, recipient.ID)
	env.notifications.NotifyCommentLike(ctx, uuid.New(), sender.ID, recipient.ID)
	env.notifications.NotifyNewComment(ctx, uuid.New(), sender.ID, recipient.ID, "hey")

	count, err := env.notifications.UnreadCount(ctx, recipient.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	require.NoError(t, env.notifications.MarkAllRead(ctx, recipient.ID))

	count, err = env.notifications.UnreadCount(ctx, recipient.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	for _, n := range env.notificationsFor(t, recipient.ID) {
		assert.True(t, n.Read)
	}
}

func TestFollowNotifiesAndGuardsEdges(t *testing.T) {
	env := newTestEnv(t)
	follower := env.createUser(t, "Alice")
	followed := env.createUser(t, "Bob")

	ctx := context.Background()
	result, err := env.users.Follow(ctx, follower.ID, followed.ID)
	require.NoError(t, err)
	assert.True(t, types.ContainsID(result.Followers, follower.ID))

	stored, err := env.userRepo.GetByID(ctx, nil, follower.ID)
	require.NoError(t, err)
	assert.True(t, types.ContainsID(stored.Following, followed.ID))

	persisted := env.notificationsFor(t, followed.ID)
	require.Len(t, persisted, 1)
	assert.Equal(t, "Alice started following you", persisted[0].Content)

	_, err = env.users.Follow(ctx, follower.ID, followed.ID)
	assert.True(t, apierr.IsCode(err, apierr.CodeConflict))

	_, err = env.users.Follow(ctx, follower.ID, follower.ID)
	assert.True(t, apierr.IsCode(err, apierr.CodeValidation))

	result, err = env.users.Unfollow(ctx, follower.ID, followed.ID)
	require.NoError(t, err)
	assert.False(t, types.ContainsID(result.Followers, follower.ID))

	_, err = env.users.Unfollow(ctx, follower.ID, followed.ID)
	assert.True(t, apierr.IsCode(err, apierr.CodeConflict))

	// Only the first follow produced a notification.
	assert.Len(t, env.notificationsFor(t, followed.ID), 1)
}

func TestLikeSurvivesNotificationPersistFailure(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "Alice")
	liker := env.createUser(t, "Bob")

	failing := NewNotificationService(env.db, env.log,
		&notificationRepoWithFailingCreate{NotificationRepo: env.notificationRepo},
		env.userRepo, env.emitter)
	posts := NewPostService(env.db, env.log, env.postRepo, env.userRepo, failing)

	ctx := context.Background()
	post, err := posts.CreatePost(ctx, author.ID, CreatePostInput{Content: "hello"})
	require.NoError(t, err)
	env.emitter.reset()

	// The like commits even though the notification store is down; the
	// failed persist also suppresses the push.
	post, err = posts.ToggleLike(ctx, post.ID, liker.ID, true)
	require.NoError(t, err)
	assert.Len(t, post.Likes, 1)

	stored, err := env.postRepo.GetByID(ctx, nil, post.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Likes, 1)
	assert.Empty(t, env.notificationsFor(t, author.ID))
	assert.Empty(t, env.emitter.messages())
}

func TestMarkAllReadContinuesPastFailedSave(t *testing.T) {
	env := newTestEnv(t)
	recipient := env.createUser(t, "Alice")
	sender := env.createUser(t, "Bob")

	ctx := context.Background()
	env.notifications.NotifyPostLike(ctx, uuid.New(), sender.ID, recipient.ID)
	env.notifications.NotifyCommentLike(ctx, uuid.New(), sender.ID, recipient.ID)
	env.notifications.NotifyNewComment(ctx, uuid.New(), sender.ID, recipient.ID, "hey")

	persisted := env.notificationsFor(t, recipient.ID)
	require.Len(t, persisted, 3)
	failID := persisted[1].ID

	flaky := NewNotificationService(env.db, env.log,
		&notificationRepoWithFlakySave{NotificationRepo: env.notificationRepo, failID: failID},
		env.userRepo, env.emitter)

	// One failed save is skipped; the other two still flip and the call
	// reports success.
	require.NoError(t, flaky.MarkAllRead(ctx, recipient.ID))

	for _, n := range env.notificationsFor(t, recipient.ID) {
		if n.ID == failID {
			assert.False(t, n.Read)
		} else {
			assert.True(t, n.Read)
		}
	}
	count, err := env.notifications.UnreadCount(ctx, recipient.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestListNotificationsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	recipient := env.createUser(t, "Alice")
	sender := env.createUser(t, "Bob")

	ctx := context.Background()
	env.notifications.NotifyPostLike(ctx, uuid.New(), sender.ID, recipient.ID)
	env.notifications.NotifyNewComment(ctx, uuid.New(), sender.ID, recipient.ID, "newer")

	persisted := env.notificationsFor(t, recipient.ID)
	require.Len(t, persisted, 2)
	assert.Equal(t, types.NotificationNewComment, persisted[0].Type)
	assert.Equal(t, types.NotificationPostLike, persisted[1].Type)
}
