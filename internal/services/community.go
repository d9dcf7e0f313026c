package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/IT22889256/PAF/internal/apierr"
	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/repos"
	"github.com/IT22889256/PAF/internal/sse"
	"github.com/IT22889256/PAF/internal/types"
)

type CreateCommunityInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IsPrivate   bool     `json:"is_private"`
	Tags        []string `json:"tags"`
}

type CommunityService interface {
	CreateCommunity(ctx context.Context, actorID uuid.UUID, input CreateCommunityInput) (*types.Community, error)
	GetCommunity(ctx context.Context, communityID uuid.UUID) (*types.Community, error)
	ListPublicCommunities(ctx context.Context) ([]*types.Community, error)
	ListUserCommunities(ctx context.Context, userID uuid.UUID) ([]*types.Community, error)
	JoinCommunity(ctx context.Context, communityID, userID uuid.UUID) (*types.Community, error)
	LeaveCommunity(ctx context.Context, communityID, userID uuid.UUID) (*types.Community, error)
	SendMessage(ctx context.Context, communityID, senderID uuid.UUID, content string) (*types.CommunityMessage, error)
	GetMessages(ctx context.Context, communityID, userID uuid.UUID) ([]*types.CommunityMessage, error)
	UnreadMessageCount(ctx context.Context, communityID, userID uuid.UUID) (int64, error)
	MarkMessagesRead(ctx context.Context, communityID, userID uuid.UUID) error
	// ReconcileLastMessage recomputes the denormalized last-message cache
	// from the message list. Required after any partial-failure scenario.
	ReconcileLastMessage(ctx context.Context, communityID uuid.UUID) error
	ReconcileAllLastMessages(ctx context.Context) error
}

type communityService struct {
	db            *gorm.DB
	log           *logger.Logger
	communityRepo repos.CommunityRepo
	messageRepo   repos.MessageRepo
	userRepo      repos.UserRepo
	emit          SSEEmitter
}

func NewCommunityService(db *gorm.DB, log *logger.Logger, communityRepo repos.CommunityRepo, messageRepo repos.MessageRepo, userRepo repos.UserRepo, emit SSEEmitter) CommunityService {
	return &communityService{
		db:            db,
		log:           log.With("service", "CommunityService"),
		communityRepo: communityRepo,
		messageRepo:   messageRepo,
		userRepo:      userRepo,
		emit:          emit,
	}
}

func (cs *communityService) CreateCommunity(ctx context.Context, actorID uuid.UUID, input CreateCommunityInput) (*types.Community, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apierr.Validation("community name required")
	}

	now := time.Now().UTC()
	community := &types.Community{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     actorID,
		IsPrivate:   input.IsPrivate,
		// The owner is always a member.
		Members:   []uuid.UUID{actorID},
		Tags:      input.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.communityRepo.Create(ctx, tx, community); err != nil {
			return err
		}
		user, err := cs.userRepo.GetByID(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if user == nil {
			return apierr.NotFound("user %s not found", actorID)
		}
		user.OwnedCommunities, _ = types.AddID(user.OwnedCommunities, community.ID)
		user.Communities, _ = types.AddID(user.Communities, community.ID)
		return cs.userRepo.Save(ctx, tx, user)
	}); err != nil {
		return nil, err
	}
	return community, nil
}

func (cs *communityService) GetCommunity(ctx context.Context, communityID uuid.UUID) (*types.Community, error) {
	community, err := cs.communityRepo.GetByID(ctx, nil, communityID)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, apierr.NotFound("community %s not found", communityID)
	}
	return community, nil
}

func (cs *communityService) ListPublicCommunities(ctx context.Context) ([]*types.Community, error) {
	return cs.communityRepo.ListPublic(ctx, nil)
}

func (cs *communityService) ListUserCommunities(ctx context.Context, userID uuid.UUID) ([]*types.Community, error) {
	user, err := cs.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierr.NotFound("user %s not found", userID)
	}
	ids := make([]uuid.UUID, 0, len(user.Communities)+len(user.OwnedCommunities))
	ids = append(ids, user.Communities...)
	for _, id := range user.OwnedCommunities {
		ids, _ = types.AddID(ids, id)
	}
	return cs.communityRepo.GetByIDs(ctx, nil, ids)
}

func (cs *communityService) JoinCommunity(ctx context.Context, communityID, userID uuid.UUID) (*types.Community, error) {
	return cs.changeMembership(ctx, communityID, userID, true)
}

func (cs *communityService) LeaveCommunity(ctx context.Context, communityID, userID uuid.UUID) (*types.Community, error) {
	return cs.changeMembership(ctx, communityID, userID, false)
}

// changeMembership updates the community member set and the user's
// communities back-reference in one transaction, retrying the whole
// read-modify-write when the community save loses a version race.
func (cs *communityService) changeMembership(ctx context.Context, communityID, userID uuid.UUID, joining bool) (*types.Community, error) {
	for attempt := 0; attempt < casRetries; attempt++ {
		var community *types.Community
		err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			community, err = cs.communityRepo.GetByID(ctx, tx, communityID)
			if err != nil {
				return err
			}
			if community == nil {
				return apierr.NotFound("community %s not found", communityID)
			}
			user, err := cs.userRepo.GetByID(ctx, tx, userID)
			if err != nil {
				return err
			}
			if user == nil {
				return apierr.NotFound("user %s not found", userID)
			}

			if joining {
				if community.HasMember(userID) {
					return apierr.Conflict("already a member")
				}
				community.Members, _ = types.AddID(community.Members, userID)
				user.Communities, _ = types.AddID(user.Communities, communityID)
			} else {
				if !community.HasMember(userID) {
					return apierr.Conflict("not a member")
				}
				if community.OwnerID == userID {
					return apierr.Validation("the owner cannot leave their community")
				}
				community.Members, _ = types.RemoveID(community.Members, userID)
				user.Communities, _ = types.RemoveID(user.Communities, communityID)
			}

			community.UpdatedAt = time.Now().UTC()
			if err := cs.communityRepo.Save(ctx, tx, community); err != nil {
				return err
			}
			return cs.userRepo.Save(ctx, tx, user)
		})
		if errors.Is(err, repos.ErrVersionConflict) {
			cs.log.Debug("membership change lost version race, retrying", "community_id", communityID, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}
		return community, nil
	}
	return nil, apierr.Conflict("community %s was modified concurrently", communityID)
}

func (cs *communityService) SendMessage(ctx context.Context, communityID, senderID uuid.UUID, content string) (*types.CommunityMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apierr.Validation("message content required")
	}

	community, err := cs.communityRepo.GetByID(ctx, nil, communityID)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, apierr.NotFound("community %s not found", communityID)
	}
	if !community.HasMember(senderID) {
		return nil, apierr.Forbidden("you must be a member to send messages")
	}

	message := &types.CommunityMessage{
		ID:          uuid.New(),
		CommunityID: communityID,
		SenderID:    senderID,
		Content:     content,
		Timestamp:   time.Now().UTC(),
	}
	if err := cs.messageRepo.Create(ctx, nil, message); err != nil {
		return nil, err
	}

	// The preview is a cache of the message list. A failed update is
	// repaired by ReconcileLastMessage, never by failing the send.
	if err := cs.updateLastMessage(ctx, communityID, message.Content, message.Timestamp); err != nil {
		cs.log.Warn("failed to update last-message cache", "community_id", communityID, "error", err)
	}

	cs.emit.Emit(ctx, sse.SSEMessage{
		Channel: sse.CommunityChannel(communityID),
		Event:   sse.SSEEventCommunityMessageCreated,
		Data:    message,
	})
	return message, nil
}

func (cs *communityService) updateLastMessage(ctx context.Context, communityID uuid.UUID, preview string, at time.Time) error {
	for attempt := 0; attempt < casRetries; attempt++ {
		community, err := cs.communityRepo.GetByID(ctx, nil, communityID)
		if err != nil {
			return err
		}
		if community == nil {
			return apierr.NotFound("community %s not found", communityID)
		}
		// Never move the cache backwards: a slower writer must not clobber
		// a newer message's preview.
		if community.LastMessageTime != nil && community.LastMessageTime.After(at) {
			return nil
		}
		community.LastMessagePreview = preview
		t := at
		community.LastMessageTime = &t
		err = cs.communityRepo.Save(ctx, nil, community)
		if errors.Is(err, repos.ErrVersionConflict) {
			continue
		}
		return err
	}
	return apierr.Conflict("community %s was modified concurrently", communityID)
}

func (cs *communityService) GetMessages(ctx context.Context, communityID, userID uuid.UUID) ([]*types.CommunityMessage, error) {
	if err := cs.requireMembership(ctx, communityID, userID); err != nil {
		return nil, err
	}
	return cs.messageRepo.ListByCommunity(ctx, nil, communityID)
}

func (cs *communityService) UnreadMessageCount(ctx context.Context, communityID, userID uuid.UUID) (int64, error) {
	if err := cs.requireMembership(ctx, communityID, userID); err != nil {
		return 0, err
	}
	return cs.messageRepo.CountUnread(ctx, nil, communityID, userID)
}

func (cs *communityService) MarkMessagesRead(ctx context.Context, communityID, userID uuid.UUID) error {
	if err := cs.requireMembership(ctx, communityID, userID); err != nil {
		return err
	}
	unread, err := cs.messageRepo.ListUnread(ctx, nil, communityID, userID)
	if err != nil {
		return err
	}
	for _, message := range unread {
		message.Read = true
		if err := cs.messageRepo.Save(ctx, nil, message); err != nil {
			cs.log.Warn("failed to mark message read", "message_id", message.ID, "error", err)
		}
	}
	return nil
}

// requireMembership re-verifies membership on every call; it is never
// cached because membership can change between requests.
func (cs *communityService) requireMembership(ctx context.Context, communityID, userID uuid.UUID) error {
	ok, err := cs.communityRepo.ExistsByIDAndMember(ctx, nil, communityID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apierr.Forbidden("you must be a member of this community")
	}
	return nil
}

func (cs *communityService) ReconcileLastMessage(ctx context.Context, communityID uuid.UUID) error {
	latest, err := cs.messageRepo.GetLatest(ctx, nil, communityID)
	if err != nil {
		return err
	}
	for attempt := 0; attempt < casRetries; attempt++ {
		community, err := cs.communityRepo.GetByID(ctx, nil, communityID)
		if err != nil {
			return err
		}
		if community == nil {
			return apierr.NotFound("community %s not found", communityID)
		}
		if latest == nil {
			community.LastMessagePreview = ""
			community.LastMessageTime = nil
		} else {
			community.LastMessagePreview = latest.Content
			t := latest.Timestamp
			community.LastMessageTime = &t
		}
		err = cs.communityRepo.Save(ctx, nil, community)
		if errors.Is(err, repos.ErrVersionConflict) {
			continue
		}
		return err
	}
	return apierr.Conflict("community %s was modified concurrently", communityID)
}

func (cs *communityService) ReconcileAllLastMessages(ctx context.Context) error {
	communities, err := cs.communityRepo.ListAll(ctx, nil)
	if err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, community := range communities {
		communityID := community.ID
		g.Go(func() error {
			return cs.ReconcileLastMessage(gctx, communityID)
		})
	}
	return g.Wait()
}
