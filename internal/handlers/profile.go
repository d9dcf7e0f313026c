package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IT22889256/PAF/internal/apierr"
	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/services"
)

type ProfileHandler interface {
	GetMe(c *gin.Context)
	GetUser(c *gin.Context)
	UpdateProfile(c *gin.Context)
	UpdatePicture(c *gin.Context)
	Follow(c *gin.Context)
	Unfollow(c *gin.Context)
}

type profileHandler struct {
	log   *logger.Logger
	users services.UserService
}

func NewProfileHandler(log *logger.Logger, users services.UserService) ProfileHandler {
	return &profileHandler{
		log:   log.With("handler", "ProfileHandler"),
		users: users,
	}
}

func (h *profileHandler) GetMe(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *profileHandler) GetUser(c *gin.Context) {
	userID, err := pathID(c, "userID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *profileHandler) UpdateProfile(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var patch services.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, h.log, apierr.Validation("invalid request body"))
		return
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), actorID, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *profileHandler) UpdatePicture(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var body struct {
		PictureURL string `json:"picture_url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.log, apierr.Validation("invalid request body"))
		return
	}
	user, err := h.users.UpdatePicture(c.Request.Context(), actorID, body.PictureURL)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *profileHandler) Follow(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	followedID, err := pathID(c, "userID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	followed, err := h.users.Follow(c.Request.Context(), actorID, followedID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, followed)
}

func (h *profileHandler) Unfollow(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	followedID, err := pathID(c, "userID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	followed, err := h.users.Unfollow(c.Request.Context(), actorID, followedID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, followed)
}
