package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IT22889256/PAF/internal/apierr"
)

func TestPlanProgressDerivation(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Alice")
	ctx := context.Background()

	plan, err := env.plans.CreatePlan(ctx, owner.ID, CreatePlanInput{
		Title: "learn go",
		Topics: []AddTopicInput{
			{Title: "syntax"},
			{Title: "interfaces"},
			{Title: "goroutines"},
			{Title: "generics"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, plan.Progress)

	plan, err = env.plans.CompleteTopic(ctx, plan.ID, plan.Topics[0].ID, owner.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 25, plan.Progress)
	require.NotNil(t, plan.Topics[0].CompletedAt)

	plan, err = env.plans.CompleteTopic(ctx, plan.ID, plan.Topics[1].ID, owner.ID, true)
	require.NoError(t, err)
	plan, err = env.plans.CompleteTopic(ctx, plan.ID, plan.Topics[2].ID, owner.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 75, plan.Progress)

	// Un-completing recomputes downward and clears the completion time.
	plan, err = env.plans.CompleteTopic(ctx, plan.ID, plan.Topics[2].ID, owner.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 50, plan.Progress)
	assert.Nil(t, plan.Topics[2].CompletedAt)
}

func TestPlanProgressRoundsDown(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Alice")
	ctx := context.Background()

	plan, err := env.plans.CreatePlan(ctx, owner.ID, CreatePlanInput{
		Title: "three topics",
		Topics: []AddTopicInput{
			{Title: "a"}, {Title: "b"}, {Title: "c"},
		},
	})
	require.NoError(t, err)

	plan, err = env.plans.CompleteTopic(ctx, plan.ID, plan.Topics[0].ID, owner.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 33, plan.Progress)

	plan, err = env.plans.CompleteTopic(ctx, plan.ID, plan.Topics[1].ID, owner.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 66, plan.Progress)
}

func TestEmptyPlanProgressIsZero(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Alice")
	ctx := context.Background()

	plan, err := env.plans.CreatePlan(ctx, owner.ID, CreatePlanInput{Title: "empty"})
	require.NoError(t, err)
	assert.Equal(t, 0, plan.Progress)

	// Removing the only topic drops the plan back to zero rather than a
	// division by zero.
	plan, err = env.plans.AddTopic(ctx, plan.ID, owner.ID, AddTopicInput{Title: "solo"})
	require.NoError(t, err)
	plan, err = env.plans.CompleteTopic(ctx, plan.ID, plan.Topics[0].ID, owner.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 100, plan.Progress)

	plan, err = env.plans.RemoveTopic(ctx, plan.ID, plan.Topics[0].ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, plan.Progress)
}

func TestPlanOwnerOnlyMutations(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Alice")
	other := env.createUser(t, "Bob")
	ctx := context.Background()

	plan, err := env.plans.CreatePlan(ctx, owner.ID, CreatePlanInput{
		Title:  "private",
		Topics: []AddTopicInput{{Title: "a"}},
	})
	require.NoError(t, err)

	_, err = env.plans.AddTopic(ctx, plan.ID, other.ID, AddTopicInput{Title: "sneaky"})
	assert.True(t, apierr.IsCode(err, apierr.CodeUnauthorized))

	_, err = env.plans.CompleteTopic(ctx, plan.ID, plan.Topics[0].ID, other.ID, true)
	assert.True(t, apierr.IsCode(err, apierr.CodeUnauthorized))

	err = env.plans.DeletePlan(ctx, plan.ID, other.ID)
	assert.True(t, apierr.IsCode(err, apierr.CodeUnauthorized))

	title := "renamed"
	updated, err := env.plans.UpdatePlan(ctx, plan.ID, owner.ID, PlanPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
}

func TestCompleteMissingTopic(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Alice")
	ctx := context.Background()

	plan, err := env.plans.CreatePlan(ctx, owner.ID, CreatePlanInput{Title: "plan"})
	require.NoError(t, err)

	_, err = env.plans.CompleteTopic(ctx, plan.ID, owner.ID, owner.ID, true)
	assert.True(t, apierr.IsCode(err, apierr.CodeNotFound))
}
