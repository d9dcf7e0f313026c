package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IT22889256/PAF/internal/apierr"
	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/services"
)

type AuthHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
}

type authHandler struct {
	log  *logger.Logger
	auth services.AuthService
}

func NewAuthHandler(log *logger.Logger, auth services.AuthService) AuthHandler {
	return &authHandler{
		log:  log.With("handler", "AuthHandler"),
		auth: auth,
	}
}

func (h *authHandler) Register(c *gin.Context) {
	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, apierr.Validation("invalid request body"))
		return
	}
	result, err := h.auth.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *authHandler) Login(c *gin.Context) {
	var input services.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, apierr.Validation("invalid request body"))
		return
	}
	result, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
