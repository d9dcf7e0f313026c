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
	"github.com/IT22889256/PAF/internal/sse"
	"github.com/IT22889256/PAF/internal/types"
)

// messageRepoWithFlakySave fails the save of one chosen message and lets
// the rest through.
type messageRepoWithFlakySave struct {
	repos.MessageRepo
	failID uuid.UUID
}

func (r *messageRepoWithFlakySave) Save(ctx context.Context, tx *gorm.DB, message *types.CommunityMessage) error {
	if message.ID == r.failID {
		return errors.New("save failed")
	}
	return r.MessageRepo.Save(ctx, tx, message)
}

func TestCreateCommunitySeedsOwnerMembership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Alice")

	community, err := env.communities.CreateCommunity(context.Background(), owner.ID, CreateCommunityInput{Name: "gophers"})
	require.NoError(t, err)
	assert.True(t, community.HasMember(owner.ID))

	stored, err := env.userRepo.GetByID(context.Background(), nil, owner.ID)
	require.NoError(t, err)
	assert.True(t, types.ContainsID(stored.OwnedCommunities, community.ID))
	assert.True(t, types.ContainsID(stored.Communities, community.ID))
}

func TestJoinAndLeaveCommunity(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Alice")
	member := env.createUser(t, "Bob")

	community, err := env.communities.CreateCommunity(context.Background(), owner.ID, CreateCommunityInput{Name: "gophers"})
	require.NoError(t, err)

	community, err = env.communities.JoinCommunity(context.Background(), community.ID, member.ID)
	require.NoError(t, err)
	assert.True(t, community.HasMember(member.ID))

	stored, err := env.userRepo.GetByID(context.Background(), nil, member.ID)
	require.NoError(t, err)
	assert.True(t, types.ContainsID(stored.Communities, community.ID))

	_, err = env.communities.JoinCommunity(context.Background(), community.ID, member.ID)
	assert.True(t, apierr.IsCode(err, apierr.CodeConflict))

	community, err = env.communities.LeaveCommunity(context.Background(), community.ID, member.ID)
	require.NoError(t, err)
	assert.False(t, community.HasMember(member.ID))

	stored, err = env.userRepo.GetByID(context.Background(), nil, member.ID)
	require.NoError(t, err)
	assert.False(t, types.ContainsID(stored.Communities, community.ID))

	_, err = env.communities.LeaveCommunity(context.Background(), community.ID, member.ID)
	assert.True(t, apierr.IsCode(err, apierr.CodeConflict))
}

func TestOwnerCannotLeave(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Alice")

	community, err := env.communities.CreateCommunity(context.Background(), owner.ID, CreateCommunityInput{Name: "gophers"})
	require.NoError(t, err)

	_, err = env.communities.LeaveCommunity(context.Background(), community.ID, owner.ID)
	assert.True(t, apierr.IsCode(err, apierr.CodeValidation))
}

func TestSendMessageRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Alice")
	outsider := env.createUser(t, "Bob")

	community, err := env.communities.CreateCommunity(context.Background(), owner.ID, CreateCommunityInput{Name: "gophers"})
	require.NoError(t, err)
	env.emitter.reset()

	_, err = env.communities.SendMessage(context.Background(), community.ID, outsider.ID, "let me in")
	assert.True(t, apierr.IsCode(err, apierr.CodeForbidden))

	// The rejected send leaves no trace: no message row, no preview, no
	// push.
	messages, err := env.messageRepo.ListByCommunity(context.Background(), nil, community.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	stored, err := env.communityRepo.GetByID(context.Background(), nil, community.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.LastMessagePreview)
	assert.Nil(t, stored.LastMessageTime)
	assert.Empty(t, env.emitter.messages())
}

func TestSendMessageUpdatesPreviewAndPushes(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Alice")
	member := env.createUser(t, "Bob")

	community, err := env.communities.CreateCommunity(context.Background(), owner.ID, CreateCommunityInput{Name: "gophers"})
	require.NoError(t, err)
	_, err = env.communities.JoinCommunity(context.Background(), community.ID, member.ID)
	require.NoError(t, err)
	env.emitter.reset()

	message, err := env.communities.SendMessage(context.Background(), community.ID, member.ID, "hello all")
	require.NoError(t, err)
	assert.False(t, message.Timestamp.IsZero())

	stored, err := env.communityRepo.GetByID(context.Background(), nil, community.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello all", stored.LastMessagePreview)
	require.NotNil(t, stored.LastMessageTime)
	assert.Equal(t, message.Timestamp.Unix(), stored.LastMessageTime.Unix())

	msgs := env.emitter.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, sse.CommunityChannel(community.ID), msgs[0].Channel)
	assert.Equal(t, sse.SSEEventCommunityMessageCreated, msgs[0].Event)
}

func TestUnreadCountExcludesOwnMessages(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Alice")
	member := env.createUser(t, "Bob")

	community, err := env.communities.CreateCommunity(context.Background(), owner.ID, CreateCommunityInput{Name: "gophers"})
	require.NoError(t, err)
	_, err = env.communities.JoinCommunity(context.Background(), community.ID, member.ID)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = env.communities.SendMessage(ctx, community.ID, member.ID, "one")
	require.NoError(t, err)
	_, err = env.communities.SendMessage(ctx, community.ID, member.ID, "two")
	require.NoError(t, err)
	_, err = env.communities.SendMessage(ctx, community.ID, owner.ID, "three")
	require.NoError(t, err)

	count, err := env.communities.UnreadMessageCount(ctx, community.ID, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, env.communities.MarkMessagesRead(ctx, community.ID, owner.ID))
	count, err = env.communities.UnreadMessageCount(ctx, community.ID, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestMarkMessagesReadContinuesPastFailedSave(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Alice")
	member := env.createUser(t, "Bob")

	ctx := context.Background()
	community, err := env.communities.CreateCommunity(ctx, owner.ID, CreateCommunityInput{Name: "gophers"})
	require.NoError(t, err)
	_, err = env.communities.JoinCommunity(ctx, community.ID, member.ID)
	require.NoError(t, err)

	for _, content := range []string{"one", "two", "three"} {
		_, err = env.communities.SendMessage(ctx, community.ID, member.ID, content)
		require.NoError(t, err)
	}
	messages, err := env.messageRepo.ListByCommunity(ctx, nil, community.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	failID := messages[1].ID

	flaky := NewCommunityService(env.db, env.log, env.communityRepo,
		&messageRepoWithFlakySave{MessageRepo: env.messageRepo, failID: failID},
		env.userRepo, env.emitter)

	// One failed save is skipped; the other messages still flip and the
	// call reports success.
	require.NoError(t, flaky.MarkMessagesRead(ctx, community.ID, owner.ID))

	messages, err = env.messageRepo.ListByCommunity(ctx, nil, community.ID)
	require.NoError(t, err)
	for _, message := range messages {
		if message.ID == failID {
			assert.False(t, message.Read)
		} else {
			assert.True(t, message.Read)
		}
	}
	count, err := env.communities.UnreadMessageCount(ctx, community.ID, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestMembershipGateOnReads(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Alice")
	outsider := env.createUser(t, "Bob")

	community, err := env.communities.CreateCommunity(context.Background(), owner.ID, CreateCommunityInput{Name: "gophers"})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = env.communities.GetMessages(ctx, community.ID, outsider.ID)
	assert.True(t, apierr.IsCode(err, apierr.CodeForbidden))
	_, err = env.communities.UnreadMessageCount(ctx, community.ID, outsider.ID)
	assert.True(t, apierr.IsCode(err, apierr.CodeForbidden))
	err = env.communities.MarkMessagesRead(ctx, community.ID, outsider.ID)
	assert.True(t, apierr.IsCode(err, apierr.CodeForbidden))

	// Membership is checked per call, so joining immediately unlocks the
	// same operations.
	_, err = env.communities.JoinCommunity(ctx, community.ID, outsider.ID)
	require.NoError(t, err)
	_, err = env.communities.GetMessages(ctx, community.ID, outsider.ID)
	require.NoError(t, err)
}

func TestReconcileLastMessageRepairsCache(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Alice")

	ctx := context.Background()
	community, err := env.communities.CreateCommunity(ctx, owner.ID, CreateCommunityInput{Name: "gophers"})
	require.NoError(t, err)
	_, err = env.communities.SendMessage(ctx, community.ID, owner.ID, "latest")
	require.NoError(t, err)

	// Corrupt the cache the way a lost preview update would.
	stored, err := env.communityRepo.GetByID(ctx, nil, community.ID)
	require.NoError(t, err)
	stored.LastMessagePreview = "stale"
	stored.LastMessageTime = nil
	require.NoError(t, env.communityRepo.Save(ctx, nil, stored))

	require.NoError(t, env.communities.ReconcileLastMessage(ctx, community.ID))
	stored, err = env.communityRepo.GetByID(ctx, nil, community.ID)
	require.NoError(t, err)
	assert.Equal(t, "latest", stored.LastMessagePreview)
	require.NotNil(t, stored.LastMessageTime)
}

func TestReconcileAllClearsEmptyCommunities(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Alice")

	ctx := context.Background()
	quiet, err := env.communities.CreateCommunity(ctx, owner.ID, CreateCommunityInput{Name: "quiet"})
	require.NoError(t, err)
	busy, err := env.communities.CreateCommunity(ctx, owner.ID, CreateCommunityInput{Name: "busy"})
	require.NoError(t, err)
	_, err = env.communities.SendMessage(ctx, busy.ID, owner.ID, "ping")
	require.NoError(t, err)

	// Seed a bogus preview on the community with no messages.
	stored, err := env.communityRepo.GetByID(ctx, nil, quiet.ID)
	require.NoError(t, err)
	stored.LastMessagePreview = "ghost"
	require.NoError(t, env.communityRepo.Save(ctx, nil, stored))

	require.NoError(t, env.communities.ReconcileAllLastMessages(ctx))

	stored, err = env.communityRepo.GetByID(ctx, nil, quiet.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.LastMessagePreview)
	assert.Nil(t, stored.LastMessageTime)

	stored, err = env.communityRepo.GetByID(ctx, nil, busy.ID)
	require.NoError(t, err)
	assert.Equal(t, "ping", stored.LastMessagePreview)
}

func TestListUserCommunitiesMergesOwnedAndJoined(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Alice")
	member := env.createUser(t, "Bob")

	ctx := context.Background()
	owned, err := env.communities.CreateCommunity(ctx, member.ID, CreateCommunityInput{Name: "mine"})
	require.NoError(t, err)
	joined, err := env.communities.CreateCommunity(ctx, owner.ID, CreateCommunityInput{Name: "theirs"})
	require.NoError(t, err)
	_, err = env.communities.JoinCommunity(ctx, joined.ID, member.ID)
	require.NoError(t, err)

	list, err := env.communities.ListUserCommunities(ctx, member.ID)
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID.String())
	}
	assert.Len(t, list, 2)
	assert.Contains(t, ids, owned.ID.String())
	assert.Contains(t, ids, joined.ID.String())
}
