package app

import (
	"github.com/gin-gonic/gin"

	"github.com/IT22889256/PAF/internal/handlers"
	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/middleware"
	"github.com/IT22889256/PAF/internal/server"
	"github.com/IT22889256/PAF/internal/sse"
)

type Handlers struct {
	Health       handlers.HealthcheckHandler
	Auth         handlers.AuthHandler
	Profile      handlers.ProfileHandler
	Post         handlers.PostHandler
	Community    handlers.CommunityHandler
	Notification handlers.NotificationHandler
	LearningPlan handlers.LearningPlanHandler
	SSE          handlers.SSEHandler
}

type Middleware struct {
	RequireAuth gin.HandlerFunc
}

func wireHandlers(log *logger.Logger, s Services, hub *sse.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       handlers.NewHealthcheckHandler(),
		Auth:         handlers.NewAuthHandler(log, s.Auth),
		Profile:      handlers.NewProfileHandler(log, s.User),
		Post:         handlers.NewPostHandler(log, s.Post),
		Community:    handlers.NewCommunityHandler(log, s.Community),
		Notification: handlers.NewNotificationHandler(log, s.Notification),
		LearningPlan: handlers.NewLearningPlanHandler(log, s.LearningPlan),
		SSE:          handlers.NewSSEHandler(log, hub, s.Community),
	}
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		RequireAuth: middleware.RequireAuth(s.Auth, log),
	}
}

func wireRouter(cfg Config, h Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:  cfg.ServiceName,
		Health:       h.Health,
		Auth:         h.Auth,
		Profile:      h.Profile,
		Post:         h.Post,
		Community:    h.Community,
		Notification: h.Notification,
		LearningPlan: h.LearningPlan,
		SSE:          h.SSE,
		RequireAuth:  mw.RequireAuth,
	})
}
