package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/services"
	"github.com/IT22889256/PAF/internal/sse"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Post         services.PostService
	Community    services.CommunityService
	Notification services.NotificationService
	LearningPlan services.LearningPlanService
	Bus          services.SSEBus
}

// wireServices picks the push path at startup: with REDIS_ADDR set the
// emitters publish through Redis and a forwarder feeds the local hub, so
// every instance behind a load balancer sees every event. Without it the
// emitters broadcast straight into the hub.
func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, hub *sse.SSEHub) (Services, error) {
	log.Info("Wiring services...")

	var (
		emitter services.SSEEmitter
		bus     services.SSEBus
	)
	if b, err := services.NewRedisSSEBus(log); err != nil {
		log.Warn("Redis SSE bus unavailable, using in-process hub emitter", "error", err)
		emitter = &services.HubEmitter{Hub: hub}
	} else {
		bus = b
		emitter = &services.RedisEmitter{Bus: b}
		if err := b.StartForwarder(context.Background(), hub.Broadcast); err != nil {
			log.Warn("Redis SSE forwarder failed to start, using in-process hub emitter", "error", err)
			_ = b.Close()
			bus = nil
			emitter = &services.HubEmitter{Hub: hub}
		}
	}

	notificationService := services.NewNotificationService(db, log, r.Notification, r.User, emitter)
	authService := services.NewAuthService(db, log, r.User, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	userService := services.NewUserService(db, log, r.User, notificationService)
	postService := services.NewPostService(db, log, r.Post, r.User, notificationService)
	communityService := services.NewCommunityService(db, log, r.Community, r.Message, r.User, emitter)
	learningPlanService := services.NewLearningPlanService(db, log, r.LearningPlan)

	return Services{
		Auth:         authService,
		User:         userService,
		Post:         postService,
		Community:    communityService,
		Notification: notificationService,
		LearningPlan: learningPlanService,
		Bus:          bus,
	}, nil
}
