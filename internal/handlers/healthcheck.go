package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthcheckHandler interface {
	Healthcheck(c *gin.Context)
}

type healthcheckHandler struct{}

func NewHealthcheckHandler() HealthcheckHandler {
	return &healthcheckHandler{}
}

func (h *healthcheckHandler) Healthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
