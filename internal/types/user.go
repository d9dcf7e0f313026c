package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID               uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string                         `gorm:"not null;column:name" json:"name"`
	Email            string                         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password         string                         `gorm:"not null;column:password" json:"-"`
	Bio              string                         `gorm:"column:bio" json:"bio"`
	Location         string                         `gorm:"column:location" json:"location"`
	ProfilePicture   string                         `gorm:"column:profile_picture" json:"profile_picture"`
	Skills           datatypes.JSONSlice[string]    `gorm:"column:skills" json:"skills"`
	Interests        datatypes.JSONSlice[string]    `gorm:"column:interests" json:"interests"`
	Communities      datatypes.JSONSlice[uuid.UUID] `gorm:"column:communities" json:"communities"`
	OwnedCommunities datatypes.JSONSlice[uuid.UUID] `gorm:"column:owned_communities" json:"owned_communities"`
	Following        datatypes.JSONSlice[uuid.UUID] `gorm:"column:following" json:"following"`
	Followers        datatypes.JSONSlice[uuid.UUID] `gorm:"column:followers" json:"followers"`
	PostIDs          datatypes.JSONSlice[uuid.UUID] `gorm:"column:post_ids" json:"post_ids"`
	CreatedAt        time.Time                      `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time                      `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
