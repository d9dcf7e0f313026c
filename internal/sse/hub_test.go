package sse

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IT22889256/PAF/internal/logger"
)

func newTestHub(t *testing.T) *SSEHub {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)
	return NewSSEHub(log)
}

func TestBroadcastReachesSubscribedChannelOnly(t *testing.T) {
	hub := newTestHub(t)
	userA := uuid.New()
	userB := uuid.New()

	clientA := hub.NewSSEClient(userA)
	clientB := hub.NewSSEClient(userB)
	hub.AddChannel(clientA, UserChannel(userA))
	hub.AddChannel(clientB, UserChannel(userB))

	hub.Broadcast(SSEMessage{Channel: UserChannel(userA), Event: SSEEventNotificationCreated})

	select {
	case msg := <-clientA.Outbound:
		assert.Equal(t, SSEEventNotificationCreated, msg.Event)
	default:
		t.Fatal("expected a message on client A")
	}
	select {
	case <-clientB.Outbound:
		t.Fatal("client B should not receive A's message")
	default:
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := newTestHub(t)
	userID := uuid.New()
	client := hub.NewSSEClient(userID)
	hub.AddChannel(client, UserChannel(userID))

	for i := 0; i < cap(client.Outbound)+5; i++ {
		hub.Broadcast(SSEMessage{Channel: UserChannel(userID), Event: SSEEventNotificationCreated})
	}
	assert.Equal(t, cap(client.Outbound), len(client.Outbound))
}

func TestRemoveChannelStopsDelivery(t *testing.T) {
	hub := newTestHub(t)
	communityID := uuid.New()
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, CommunityChannel(communityID))

	hub.RemoveChannel(client, CommunityChannel(communityID))
	hub.Broadcast(SSEMessage{Channel: CommunityChannel(communityID), Event: SSEEventCommunityMessageCreated})
	assert.Empty(t, client.Outbound)
}

func TestRemoveClientCleansAllSubscriptions(t *testing.T) {
	hub := newTestHub(t)
	userID := uuid.New()
	communityID := uuid.New()
	client := hub.NewSSEClient(userID)
	hub.AddChannel(client, UserChannel(userID))
	hub.AddChannel(client, CommunityChannel(communityID))

	hub.RemoveClient(client)
	hub.Broadcast(SSEMessage{Channel: UserChannel(userID), Event: SSEEventNotificationCreated})
	hub.Broadcast(SSEMessage{Channel: CommunityChannel(communityID), Event: SSEEventCommunityMessageCreated})
	assert.Empty(t, client.Outbound)
}
