package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Comment lives only inside its parent Post's comments column. It is never
// persisted on its own and disappears when the post does.
type Comment struct {
	ID        uuid.UUID   `json:"id"`
	AuthorID  uuid.UUID   `json:"author_id"`
	Content   string      `json:"content"`
	Likes     []uuid.UUID `json:"likes"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type Post struct {
	ID        uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID  uuid.UUID                      `gorm:"type:uuid;index;not null;column:author_id" json:"author_id"`
	Content   string                         `gorm:"column:content" json:"content"`
	MediaURLs datatypes.JSONSlice[string]    `gorm:"column:media_urls" json:"media_urls"`
	Tags      datatypes.JSONSlice[string]    `gorm:"column:tags" json:"tags"`
	Category  string                         `gorm:"index;column:category" json:"category"`
	Likes     datatypes.JSONSlice[uuid.UUID] `gorm:"column:likes" json:"likes"`
	Comments  datatypes.JSONSlice[Comment]   `gorm:"column:comments" json:"comments"`
	Version   int64                          `gorm:"not null;default:0;column:version" json:"-"`
	CreatedAt time.Time                      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time                      `gorm:"not null" json:"updated_at"`
}

func (Post) TableName() string {
	return "post"
}

func (p *Post) FindComment(commentID uuid.UUID) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}
