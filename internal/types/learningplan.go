package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PlanTopic struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Resources   []string   `json:"resources"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type LearningPlan struct {
	ID          uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID                      `gorm:"type:uuid;index;not null;column:owner_id" json:"owner_id"`
	Title       string                         `gorm:"not null;column:title" json:"title"`
	Description string                         `gorm:"column:description" json:"description"`
	Category    string                         `gorm:"index;column:category" json:"category"`
	// Progress is derived from the topic set and is never settable by a
	// client.
	Progress    int                            `gorm:"not null;default:0;column:progress" json:"progress"`
	Topics      datatypes.JSONSlice[PlanTopic] `gorm:"column:topics" json:"topics"`
	Version     int64                          `gorm:"not null;default:0;column:version" json:"-"`
	CreatedAt   time.Time                      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time                      `gorm:"not null" json:"updated_at"`
}

func (LearningPlan) TableName() string {
	return "learning_plan"
}

func (p *LearningPlan) FindTopic(topicID uuid.UUID) *PlanTopic {
	for i := range p.Topics {
		if p.Topics[i].ID == topicID {
			return &p.Topics[i]
		}
	}
	return nil
}
