package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/IT22889256/PAF/internal/handlers"
)

type RouterConfig struct {
	ServiceName  string
	Health       handlers.HealthcheckHandler
	Auth         handlers.AuthHandler
	Profile      handlers.ProfileHandler
	Post         handlers.PostHandler
	Community    handlers.CommunityHandler
	Notification handlers.NotificationHandler
	LearningPlan handlers.LearningPlanHandler
	SSE          handlers.SSEHandler
	RequireAuth  gin.HandlerFunc
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", cfg.Health.Healthcheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.Auth.Register)
		api.POST("/login", cfg.Auth.Login)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.RequireAuth)

	// SSE
	protected.GET("/sse/stream", cfg.SSE.Stream)
	protected.POST("/sse/subscribe", cfg.SSE.Subscribe)
	protected.POST("/sse/unsubscribe", cfg.SSE.Unsubscribe)

	// Users
	protected.GET("/me", cfg.Profile.GetMe)
	protected.PATCH("/me", cfg.Profile.UpdateProfile)
	protected.PUT("/me/picture", cfg.Profile.UpdatePicture)
	protected.GET("/users/:userID", cfg.Profile.GetUser)
	protected.POST("/users/:userID/follow", cfg.Profile.Follow)
	protected.DELETE("/users/:userID/follow", cfg.Profile.Unfollow)

	// Posts
	protected.POST("/posts", cfg.Post.CreatePost)
	protected.GET("/posts", cfg.Post.ListPosts)
	protected.GET("/posts/:postID", cfg.Post.GetPost)
	protected.PATCH("/posts/:postID", cfg.Post.UpdatePost)
	protected.DELETE("/posts/:postID", cfg.Post.DeletePost)
	protected.POST("/posts/:postID/like", cfg.Post.LikePost)
	protected.DELETE("/posts/:postID/like", cfg.Post.UnlikePost)
	protected.POST("/posts/:postID/comments", cfg.Post.AddComment)
	protected.DELETE("/posts/:postID/comments/:commentID", cfg.Post.DeleteComment)
	protected.POST("/posts/:postID/comments/:commentID/like", cfg.Post.LikeComment)
	protected.DELETE("/posts/:postID/comments/:commentID/like", cfg.Post.UnlikeComment)

	// Communities
	protected.POST("/communities", cfg.Community.CreateCommunity)
	protected.GET("/communities", cfg.Community.ListCommunities)
	protected.GET("/communities/:communityID", cfg.Community.GetCommunity)
	protected.POST("/communities/:communityID/join", cfg.Community.JoinCommunity)
	protected.POST("/communities/:communityID/leave", cfg.Community.LeaveCommunity)
	protected.POST("/communities/:communityID/messages", cfg.Community.SendMessage)
	protected.GET("/communities/:communityID/messages", cfg.Community.GetMessages)
	protected.GET("/communities/:communityID/messages/unread", cfg.Community.UnreadMessageCount)
	protected.POST("/communities/:communityID/messages/read", cfg.Community.MarkMessagesRead)
	protected.POST("/communities/:communityID/reconcile", cfg.Community.ReconcileLastMessage)

	// Notifications
	protected.GET("/notifications", cfg.Notification.List)
	protected.GET("/notifications/unread", cfg.Notification.UnreadCount)
	protected.POST("/notifications/:notificationID/read", cfg.Notification.MarkRead)
	protected.POST("/notifications/read-all", cfg.Notification.MarkAllRead)

	// Learning plans
	protected.POST("/plans", cfg.LearningPlan.CreatePlan)
	protected.GET("/plans", cfg.LearningPlan.ListPlans)
	protected.GET("/plans/:planID", cfg.LearningPlan.GetPlan)
	protected.PATCH("/plans/:planID", cfg.LearningPlan.UpdatePlan)
	protected.DELETE("/plans/:planID", cfg.LearningPlan.DeletePlan)
	protected.POST("/plans/:planID/topics", cfg.LearningPlan.AddTopic)
	protected.DELETE("/plans/:planID/topics/:topicID", cfg.LearningPlan.RemoveTopic)
	protected.PUT("/plans/:planID/topics/:topicID/complete", cfg.LearningPlan.CompleteTopic)

	return router
}
