package types

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationPostLike    NotificationType = "POST_LIKE"
	NotificationCommentLike NotificationType = "COMMENT_LIKE"
	NotificationNewComment  NotificationType = "NEW_COMMENT"
	NotificationNewFollower NotificationType = "NEW_FOLLOWER"
)

// Notification content is rendered once at creation time and never
// recomputed; if the sender later renames themselves the historical text
// keeps the old name.
type Notification struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID     uuid.UUID        `gorm:"type:uuid;index;not null;column:recipient_id" json:"recipient_id"`
	SenderID        uuid.UUID        `gorm:"type:uuid;not null;column:sender_id" json:"sender_id"`
	Type            NotificationType `gorm:"not null;column:type" json:"type"`
	Content         string           `gorm:"not null;column:content" json:"content"`
	RelatedEntityID uuid.UUID        `gorm:"type:uuid;column:related_entity_id" json:"related_entity_id"`
	Read            bool             `gorm:"not null;default:false;column:read" json:"read"`
	CreatedAt       time.Time        `gorm:"not null" json:"created_at"`
}

func (Notification) TableName() string {
	return "notification"
}
