package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IT22889256/PAF/internal/apierr"
	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/repos"
	"github.com/IT22889256/PAF/internal/types"
)

// ProfilePatch carries partial updates: only non-nil fields are applied.
type ProfilePatch struct {
	Name      *string   `json:"name"`
	Bio       *string   `json:"bio"`
	Location  *string   `json:"location"`
	Skills    *[]string `json:"skills"`
	Interests *[]string `json:"interests"`
}

type UserService interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (*types.User, error)
	UpdatePicture(ctx context.Context, userID uuid.UUID, pictureURL string) (*types.User, error)
	Follow(ctx context.Context, followerID, followedID uuid.UUID) (*types.User, error)
	Unfollow(ctx context.Context, followerID, followedID uuid.UUID) (*types.User, error)
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	notifications NotificationService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, notifications NotificationService) UserService {
	return &userService{
		db:            db,
		log:           log.With("service", "UserService"),
		userRepo:      userRepo,
		notifications: notifications,
	}
}

func (us *userService) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierr.NotFound("user %s not found", userID)
	}
	return user, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (*types.User, error) {
	user, err := us.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, apierr.Validation("name cannot be empty")
		}
		user.Name = *patch.Name
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Location != nil {
		user.Location = *patch.Location
	}
	if patch.Skills != nil {
		user.Skills = *patch.Skills
	}
	if patch.Interests != nil {
		user.Interests = *patch.Interests
	}
	user.UpdatedAt = time.Now().UTC()
	if err := us.userRepo.Save(ctx, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (us *userService) UpdatePicture(ctx context.Context, userID uuid.UUID, pictureURL string) (*types.User, error) {
	if strings.TrimSpace(pictureURL) == "" {
		return nil, apierr.Validation("picture url required")
	}
	user, err := us.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.ProfilePicture = pictureURL
	user.UpdatedAt = time.Now().UTC()
	if err := us.userRepo.Save(ctx, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (us *userService) Follow(ctx context.Context, followerID, followedID uuid.UUID) (*types.User, error) {
	if followerID == followedID {
		return nil, apierr.Validation("you cannot follow yourself")
	}
	followed, err := us.changeFollow(ctx, followerID, followedID, true)
	if err != nil {
		return nil, err
	}
	us.notifications.NotifyNewFollower(ctx, followerID, followedID)
	return followed, nil
}

func (us *userService) Unfollow(ctx context.Context, followerID, followedID uuid.UUID) (*types.User, error) {
	if followerID == followedID {
		return nil, apierr.Validation("you cannot unfollow yourself")
	}
	return us.changeFollow(ctx, followerID, followedID, false)
}

// changeFollow keeps both sides of the follow edge in step inside one
// transaction. A repeated follow or unfollow is a Conflict, matching the
// community membership endpoints.
func (us *userService) changeFollow(ctx context.Context, followerID, followedID uuid.UUID, following bool) (*types.User, error) {
	var followed *types.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		follower, err := us.userRepo.GetByID(ctx, tx, followerID)
		if err != nil {
			return err
		}
		if follower == nil {
			return apierr.NotFound("user %s not found", followerID)
		}
		followed, err = us.userRepo.GetByID(ctx, tx, followedID)
		if err != nil {
			return err
		}
		if followed == nil {
			return apierr.NotFound("user %s not found", followedID)
		}

		if following {
			var added bool
			follower.Following, added = types.AddID(follower.Following, followedID)
			if !added {
				return apierr.Conflict("already following")
			}
			followed.Followers, _ = types.AddID(followed.Followers, followerID)
		} else {
			var removed bool
			follower.Following, removed = types.RemoveID(follower.Following, followedID)
			if !removed {
				return apierr.Conflict("not following")
			}
			followed.Followers, _ = types.RemoveID(followed.Followers, followerID)
		}

		now := time.Now().UTC()
		follower.UpdatedAt = now
		followed.UpdatedAt = now
		if err := us.userRepo.Save(ctx, tx, follower); err != nil {
			return err
		}
		return us.userRepo.Save(ctx, tx, followed)
	})
	if err != nil {
		return nil, err
	}
	return followed, nil
}
