package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IT22889256/PAF/internal/apierr"
	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/repos"
	"github.com/IT22889256/PAF/internal/sse"
	"github.com/IT22889256/PAF/internal/types"
)

const commentPreviewLimit = 30

// NotificationService derives notifications from completed mutations and
// dispatches them: persist first, then best-effort push to the recipient's
// live channel. No Notify* call may fail the triggering mutation.
type NotificationService interface {
	NotifyPostLike(ctx context.Context, postID, likerID, postOwnerID uuid.UUID)
	NotifyCommentLike(ctx context.Context, commentID, likerID, commentOwnerID uuid.UUID)
	NotifyNewComment(ctx context.Context, postID, commenterID, postOwnerID uuid.UUID, commentText string)
	NotifyNewFollower(ctx context.Context, followerID, followedID uuid.UUID)

	List(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) (*types.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
	userRepo         repos.UserRepo
	emit             SSEEmitter
}

func NewNotificationService(db *gorm.DB, log *logger.Logger, notificationRepo repos.NotificationRepo, userRepo repos.UserRepo, emit SSEEmitter) NotificationService {
	return &notificationService{
		db:               db,
		log:              log.With("service", "NotificationService"),
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		emit:             emit,
	}
}

func (ns *notificationService) NotifyPostLike(ctx context.Context, postID, likerID, postOwnerID uuid.UUID) {
	if likerID == postOwnerID {
		return
	}
	ns.dispatch(ctx, &types.Notification{
		RecipientID:     postOwnerID,
		SenderID:        likerID,
		Type:            types.NotificationPostLike,
		Content:         ns.actorName(ctx, likerID) + " liked your post",
		RelatedEntityID: postID,
	})
}

func (ns *notificationService) NotifyCommentLike(ctx context.Context, commentID, likerID, commentOwnerID uuid.UUID) {
	if likerID == commentOwnerID {
		return
	}
	ns.dispatch(ctx, &types.Notification{
		RecipientID:     commentOwnerID,
		SenderID:        likerID,
		Type:            types.NotificationCommentLike,
		Content:         ns.actorName(ctx, likerID) + " liked your comment",
		RelatedEntityID: commentID,
	})
}

func (ns *notificationService) NotifyNewComment(ctx context.Context, postID, commenterID, postOwnerID uuid.UUID, commentText string) {
	if commenterID == postOwnerID {
		return
	}
	ns.dispatch(ctx, &types.Notification{
		RecipientID:     postOwnerID,
		SenderID:        commenterID,
		Type:            types.NotificationNewComment,
		Content:         ns.actorName(ctx, commenterID) + " commented: " + previewText(commentText),
		RelatedEntityID: postID,
	})
}

func (ns *notificationService) NotifyNewFollower(ctx context.Context, followerID, followedID uuid.UUID) {
	if followerID == followedID {
		return
	}
	ns.dispatch(ctx, &types.Notification{
		RecipientID:     followedID,
		SenderID:        followerID,
		Type:            types.NotificationNewFollower,
		Content:         ns.actorName(ctx, followerID) + " started following you",
		RelatedEntityID: followerID,
	})
}

// actorName resolves the sender's display name at derivation time. The
// rendered content is a point-in-time record; later renames keep the old
// text. A missing profile falls back to "Someone" instead of failing the
// triggering mutation.
func (ns *notificationService) actorName(ctx context.Context, actorID uuid.UUID) string {
	user, err := ns.userRepo.GetByID(ctx, nil, actorID)
	if err != nil || user == nil || user.Name == "" {
		return "Someone"
	}
	return user.Name
}

func (ns *notificationService) dispatch(ctx context.Context, notification *types.Notification) {
	notification.ID = uuid.New()
	notification.CreatedAt = time.Now().UTC()

	if err := ns.notificationRepo.Create(ctx, nil, notification); err != nil {
		// Persist failure ends the notification step only; the primary
		// mutation already succeeded.
		ns.log.Error("failed to persist notification", "type", notification.Type, "recipient_id", notification.RecipientID, "error", err)
		return
	}

	ns.emit.Emit(ctx, sse.SSEMessage{
		Channel: sse.UserChannel(notification.RecipientID),
		Event:   sse.SSEEventNotificationCreated,
		Data:    notification,
	})
}

func previewText(content string) string {
	runes := []rune(content)
	if len(runes) <= commentPreviewLimit {
		return content
	}
	return string(runes[:commentPreviewLimit]) + "…"
}

func (ns *notificationService) List(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error) {
	return ns.notificationRepo.ListByRecipient(ctx, nil, userID)
}

func (ns *notificationService) MarkRead(ctx context.Context, notificationID uuid.UUID) (*types.Notification, error) {
	notification, err := ns.notificationRepo.GetByID(ctx, nil, notificationID)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, apierr.NotFound("notification %s not found", notificationID)
	}
	if notification.Read {
		return notification, nil
	}
	notification.Read = true
	if err := ns.notificationRepo.Save(ctx, nil, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// MarkAllRead flips each unread notification independently: one failed save
// is logged and skipped, the rest still go through.
func (ns *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	unread, err := ns.notificationRepo.ListUnread(ctx, nil, userID)
	if err != nil {
		return err
	}
	for _, notification := range unread {
		notification.Read = true
		if err := ns.notificationRepo.Save(ctx, nil, notification); err != nil {
			ns.log.Warn("failed to mark notification read", "notification_id", notification.ID, "error", err)
		}
	}
	return nil
}

func (ns *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return ns.notificationRepo.CountUnread(ctx, nil, userID)
}
