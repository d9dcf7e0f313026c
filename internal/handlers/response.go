package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/IT22889256/PAF/internal/apierr"
	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/requestdata"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// respondError maps any service error onto the wire envelope. Unknown
// errors become opaque 500s so internals never leak.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	ae := apierr.From(err)
	message := ae.Error()
	if ae.Status >= 500 {
		log.Error("request failed", "path", c.FullPath(), "error", err)
		message = "internal server error"
	}
	c.JSON(ae.Status, errorEnvelope{Error: errorBody{
		Code:    ae.Code,
		Message: message,
	}})
}

// callerID pulls the authenticated user out of the request context. The
// auth middleware guarantees it is present on protected routes.
func callerID(c *gin.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		return uuid.Nil, apierr.Unauthorized("missing request identity")
	}
	return rd.UserID, nil
}

func pathID(c *gin.Context, name string) (uuid.UUID, error) {
	return pathUUID(c.Param(name), name)
}

func pathUUID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierr.Validation("invalid %s", name)
	}
	return id, nil
}
