package app

import (
	"gorm.io/gorm"

	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/repos"
)

type Repos struct {
	User         repos.UserRepo
	Post         repos.PostRepo
	Community    repos.CommunityRepo
	Message      repos.MessageRepo
	Notification repos.NotificationRepo
	LearningPlan repos.LearningPlanRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		Post:         repos.NewPostRepo(db, log),
		Community:    repos.NewCommunityRepo(db, log),
		Message:      repos.NewMessageRepo(db, log),
		Notification: repos.NewNotificationRepo(db, log),
		LearningPlan: repos.NewLearningPlanRepo(db, log),
	}
}
