package services

import (
	"context"

	"github.com/IT22889256/PAF/internal/sse"
)

// SSEEmitter abstracts the live push channel: a single-instance deployment
// broadcasts straight into the local hub, a multi-instance one publishes
// through Redis and lets each instance's forwarder feed its own hub.
type SSEEmitter interface {
	Emit(ctx context.Context, msg sse.SSEMessage)
}

type HubEmitter struct{ Hub *sse.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg sse.SSEMessage) {
	e.Hub.Broadcast(msg)
}

type RedisEmitter struct{ Bus SSEBus }

func (e *RedisEmitter) Emit(ctx context.Context, msg sse.SSEMessage) {
	// Push is best-effort; a publish failure never surfaces to the caller.
	_ = e.Bus.Publish(ctx, msg)
}
