package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IT22889256/PAF/internal/apierr"
	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/repos"
	"github.com/IT22889256/PAF/internal/types"
)

type CreatePlanInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Topics      []AddTopicInput `json:"topics"`
}

type AddTopicInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Resources   []string `json:"resources"`
}

// PlanPatch carries partial updates: only non-nil fields are applied.
// Progress is absent on purpose, it is always derived from the topics.
type PlanPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

type LearningPlanService interface {
	CreatePlan(ctx context.Context, ownerID uuid.UUID, input CreatePlanInput) (*types.LearningPlan, error)
	GetPlan(ctx context.Context, planID uuid.UUID) (*types.LearningPlan, error)
	ListPlans(ctx context.Context, ownerID uuid.UUID) ([]*types.LearningPlan, error)
	UpdatePlan(ctx context.Context, planID, actorID uuid.UUID, patch PlanPatch) (*types.LearningPlan, error)
	DeletePlan(ctx context.Context, planID, actorID uuid.UUID) error
	AddTopic(ctx context.Context, planID, actorID uuid.UUID, input AddTopicInput) (*types.LearningPlan, error)
	RemoveTopic(ctx context.Context, planID, topicID, actorID uuid.UUID) (*types.LearningPlan, error)
	CompleteTopic(ctx context.Context, planID, topicID, actorID uuid.UUID, completed bool) (*types.LearningPlan, error)
}

type learningPlanService struct {
	db       *gorm.DB
	log      *logger.Logger
	planRepo repos.LearningPlanRepo
}

func NewLearningPlanService(db *gorm.DB, log *logger.Logger, planRepo repos.LearningPlanRepo) LearningPlanService {
	return &learningPlanService{
		db:       db,
		log:      log.With("service", "LearningPlanService"),
		planRepo: planRepo,
	}
}

func (ls *learningPlanService) CreatePlan(ctx context.Context, ownerID uuid.UUID, input CreatePlanInput) (*types.LearningPlan, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apierr.Validation("plan title required")
	}

	topics := make([]types.PlanTopic, 0, len(input.Topics))
	for _, t := range input.Topics {
		if strings.TrimSpace(t.Title) == "" {
			return nil, apierr.Validation("topic title required")
		}
		topics = append(topics, types.PlanTopic{
			ID:          uuid.New(),
			Title:       t.Title,
			Description: t.Description,
			Resources:   t.Resources,
		})
	}

	now := time.Now().UTC()
	plan := &types.LearningPlan{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Topics:      topics,
		Progress:    planProgress(topics),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := ls.planRepo.Create(ctx, nil, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (ls *learningPlanService) GetPlan(ctx context.Context, planID uuid.UUID) (*types.LearningPlan, error) {
	plan, err := ls.planRepo.GetByID(ctx, nil, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, apierr.NotFound("learning plan %s not found", planID)
	}
	return plan, nil
}

func (ls *learningPlanService) ListPlans(ctx context.Context, ownerID uuid.UUID) ([]*types.LearningPlan, error) {
	return ls.planRepo.ListByOwner(ctx, nil, ownerID)
}

func (ls *learningPlanService) UpdatePlan(ctx context.Context, planID, actorID uuid.UUID, patch PlanPatch) (*types.LearningPlan, error) {
	return ls.mutatePlan(ctx, planID, actorID, func(plan *types.LearningPlan) error {
		if patch.Title != nil {
			if strings.TrimSpace(*patch.Title) == "" {
				return apierr.Validation("plan title required")
			}
			plan.Title = *patch.Title
		}
		if patch.Description != nil {
			plan.Description = *patch.Description
		}
		if patch.Category != nil {
			plan.Category = *patch.Category
		}
		return nil
	})
}

func (ls *learningPlanService) DeletePlan(ctx context.Context, planID, actorID uuid.UUID) error {
	plan, err := ls.planRepo.GetByID(ctx, nil, planID)
	if err != nil {
		return err
	}
	if plan == nil {
		return apierr.NotFound("learning plan %s not found", planID)
	}
	if plan.OwnerID != actorID {
		return apierr.Unauthorized("only the owner can delete this plan")
	}
	return ls.planRepo.Delete(ctx, nil, planID)
}

func (ls *learningPlanService) AddTopic(ctx context.Context, planID, actorID uuid.UUID, input AddTopicInput) (*types.LearningPlan, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apierr.Validation("topic title required")
	}
	return ls.mutatePlan(ctx, planID, actorID, func(plan *types.LearningPlan) error {
		plan.Topics = append(plan.Topics, types.PlanTopic{
			ID:          uuid.New(),
			Title:       input.Title,
			Description: input.Description,
			Resources:   input.Resources,
		})
		return nil
	})
}

func (ls *learningPlanService) RemoveTopic(ctx context.Context, planID, topicID, actorID uuid.UUID) (*types.LearningPlan, error) {
	return ls.mutatePlan(ctx, planID, actorID, func(plan *types.LearningPlan) error {
		if plan.FindTopic(topicID) == nil {
			return apierr.NotFound("topic %s not found", topicID)
		}
		kept := make([]types.PlanTopic, 0, len(plan.Topics)-1)
		for _, t := range plan.Topics {
			if t.ID != topicID {
				kept = append(kept, t)
			}
		}
		plan.Topics = kept
		return nil
	})
}

func (ls *learningPlanService) CompleteTopic(ctx context.Context, planID, topicID, actorID uuid.UUID, completed bool) (*types.LearningPlan, error) {
	return ls.mutatePlan(ctx, planID, actorID, func(plan *types.LearningPlan) error {
		topic := plan.FindTopic(topicID)
		if topic == nil {
			return apierr.NotFound("topic %s not found", topicID)
		}
		if topic.Completed == completed {
			return nil
		}
		topic.Completed = completed
		if completed {
			now := time.Now().UTC()
			topic.CompletedAt = &now
		} else {
			topic.CompletedAt = nil
		}
		return nil
	})
}

// mutatePlan runs an owner-gated read-modify-write with a bounded retry on
// version conflicts and recomputes the progress after every mutation.
func (ls *learningPlanService) mutatePlan(ctx context.Context, planID, actorID uuid.UUID, mutate func(plan *types.LearningPlan) error) (*types.LearningPlan, error) {
	for attempt := 0; attempt < casRetries; attempt++ {
		plan, err := ls.planRepo.GetByID(ctx, nil, planID)
		if err != nil {
			return nil, err
		}
		if plan == nil {
			return nil, apierr.NotFound("learning plan %s not found", planID)
		}
		if plan.OwnerID != actorID {
			return nil, apierr.Unauthorized("only the owner can modify this plan")
		}
		if err := mutate(plan); err != nil {
			return nil, err
		}
		plan.Progress = planProgress(plan.Topics)
		plan.UpdatedAt = time.Now().UTC()
		err = ls.planRepo.Save(ctx, nil, plan)
		if errors.Is(err, repos.ErrVersionConflict) {
			ls.log.Debug("plan save lost version race, retrying", "plan_id", planID, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}
		return plan, nil
	}
	return nil, apierr.Conflict("learning plan %s was modified concurrently", planID)
}

// planProgress is floor(100 * completed / total), 0 for an empty plan.
func planProgress(topics []types.PlanTopic) int {
	if len(topics) == 0 {
		return 0
	}
	completed := 0
	for _, t := range topics {
		if t.Completed {
			completed++
		}
	}
	return 100 * completed / len(topics)
}
