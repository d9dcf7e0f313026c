package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Community struct {
	ID                 uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string                         `gorm:"not null;column:name" json:"name"`
	Description        string                         `gorm:"column:description" json:"description"`
	OwnerID            uuid.UUID                      `gorm:"type:uuid;index;not null;column:owner_id" json:"owner_id"`
	IsPrivate          bool                           `gorm:"not null;default:false;column:is_private" json:"is_private"`
	Members            datatypes.JSONSlice[uuid.UUID] `gorm:"column:members" json:"members"`
	Tags               datatypes.JSONSlice[string]    `gorm:"column:tags" json:"tags"`
	LastMessagePreview string                         `gorm:"column:last_message_preview" json:"last_message_preview"`
	LastMessageTime    *time.Time                     `gorm:"column:last_message_time" json:"last_message_time"`
	Version            int64                          `gorm:"not null;default:0;column:version" json:"-"`
	CreatedAt          time.Time                      `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time                      `gorm:"not null" json:"updated_at"`
}

func (Community) TableName() string {
	return "community"
}

func (c *Community) HasMember(userID uuid.UUID) bool {
	return ContainsID(c.Members, userID)
}

type CommunityMessage struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CommunityID uuid.UUID `gorm:"type:uuid;index;not null;column:community_id" json:"community_id"`
	SenderID    uuid.UUID `gorm:"type:uuid;not null;column:sender_id" json:"sender_id"`
	Content     string    `gorm:"not null;column:content" json:"content"`
	Timestamp   time.Time `gorm:"not null;column:timestamp" json:"timestamp"`
	// Read is a single flag per message, not per recipient. A multi-member
	// community therefore conflates "read by anyone" with "read by me".
	Read bool `gorm:"not null;default:false;column:read" json:"read"`
}

func (CommunityMessage) TableName() string {
	return "community_message"
}
