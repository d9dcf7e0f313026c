package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IT22889256/PAF/internal/apierr"
	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/services"
)

type CommunityHandler interface {
	CreateCommunity(c *gin.Context)
	GetCommunity(c *gin.Context)
	ListCommunities(c *gin.Context)
	JoinCommunity(c *gin.Context)
	LeaveCommunity(c *gin.Context)
	SendMessage(c *gin.Context)
	GetMessages(c *gin.Context)
	UnreadMessageCount(c *gin.Context)
	MarkMessagesRead(c *gin.Context)
	ReconcileLastMessage(c *gin.Context)
}

type communityHandler struct {
	log         *logger.Logger
	communities services.CommunityService
}

func NewCommunityHandler(log *logger.Logger, communities services.CommunityService) CommunityHandler {
	return &communityHandler{
		log:         log.With("handler", "CommunityHandler"),
		communities: communities,
	}
}

func (h *communityHandler) CreateCommunity(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var input services.CreateCommunityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, apierr.Validation("invalid request body"))
		return
	}
	community, err := h.communities.CreateCommunity(c.Request.Context(), actorID, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, community)
}

func (h *communityHandler) GetCommunity(c *gin.Context) {
	communityID, err := pathID(c, "communityID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	community, err := h.communities.GetCommunity(c.Request.Context(), communityID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, community)
}

// ListCommunities returns public communities by default, or the caller's
// communities with ?mine=true.
func (h *communityHandler) ListCommunities(c *gin.Context) {
	ctx := c.Request.Context()
	if c.Query("mine") == "true" {
		actorID, err := callerID(c)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		communities, err := h.communities.ListUserCommunities(ctx, actorID)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, communities)
		return
	}
	communities, err := h.communities.ListPublicCommunities(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, communities)
}

func (h *communityHandler) JoinCommunity(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	communityID, err := pathID(c, "communityID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	community, err := h.communities.JoinCommunity(c.Request.Context(), communityID, actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, community)
}

func (h *communityHandler) LeaveCommunity(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	communityID, err := pathID(c, "communityID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	community, err := h.communities.LeaveCommunity(c.Request.Context(), communityID, actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, community)
}

func (h *communityHandler) SendMessage(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	communityID, err := pathID(c, "communityID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.log, apierr.Validation("invalid request body"))
		return
	}
	message, err := h.communities.SendMessage(c.Request.Context(), communityID, actorID, body.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *communityHandler) GetMessages(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	communityID, err := pathID(c, "communityID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	messages, err := h.communities.GetMessages(c.Request.Context(), communityID, actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *communityHandler) UnreadMessageCount(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	communityID, err := pathID(c, "communityID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	count, err := h.communities.UnreadMessageCount(c.Request.Context(), communityID, actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *communityHandler) MarkMessagesRead(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	communityID, err := pathID(c, "communityID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.communities.MarkMessagesRead(c.Request.Context(), communityID, actorID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *communityHandler) ReconcileLastMessage(c *gin.Context) {
	communityID, err := pathID(c, "communityID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.communities.ReconcileLastMessage(c.Request.Context(), communityID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
