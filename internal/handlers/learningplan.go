package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IT22889256/PAF/internal/apierr"
	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/services"
)

type LearningPlanHandler interface {
	CreatePlan(c *gin.Context)
	GetPlan(c *gin.Context)
	ListPlans(c *gin.Context)
	UpdatePlan(c *gin.Context)
	DeletePlan(c *gin.Context)
	AddTopic(c *gin.Context)
	RemoveTopic(c *gin.Context)
	CompleteTopic(c *gin.Context)
}

type learningPlanHandler struct {
	log   *logger.Logger
	plans services.LearningPlanService
}

func NewLearningPlanHandler(log *logger.Logger, plans services.LearningPlanService) LearningPlanHandler {
	return &learningPlanHandler{
		log:   log.With("handler", "LearningPlanHandler"),
		plans: plans,
	}
}

func (h *learningPlanHandler) CreatePlan(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var input services.CreatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, apierr.Validation("invalid request body"))
		return
	}
	plan, err := h.plans.CreatePlan(c.Request.Context(), actorID, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *learningPlanHandler) GetPlan(c *gin.Context) {
	planID, err := pathID(c, "planID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	plan, err := h.plans.GetPlan(c.Request.Context(), planID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *learningPlanHandler) ListPlans(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	plans, err := h.plans.ListPlans(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *learningPlanHandler) UpdatePlan(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	planID, err := pathID(c, "planID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var patch services.PlanPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, h.log, apierr.Validation("invalid request body"))
		return
	}
	plan, err := h.plans.UpdatePlan(c.Request.Context(), planID, actorID, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *learningPlanHandler) DeletePlan(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	planID, err := pathID(c, "planID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.plans.DeletePlan(c.Request.Context(), planID, actorID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *learningPlanHandler) AddTopic(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	planID, err := pathID(c, "planID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var input services.AddTopicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, apierr.Validation("invalid request body"))
		return
	}
	plan, err := h.plans.AddTopic(c.Request.Context(), planID, actorID, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *learningPlanHandler) RemoveTopic(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	planID, err := pathID(c, "planID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	topicID, err := pathID(c, "topicID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	plan, err := h.plans.RemoveTopic(c.Request.Context(), planID, topicID, actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *learningPlanHandler) CompleteTopic(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	planID, err := pathID(c, "planID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	topicID, err := pathID(c, "topicID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var body struct {
		Completed *bool `json:"completed"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.log, apierr.Validation("invalid request body"))
		return
	}
	completed := true
	if body.Completed != nil {
		completed = *body.Completed
	}
	plan, err := h.plans.CompleteTopic(c.Request.Context(), planID, topicID, actorID, completed)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
