package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/IT22889256/PAF/internal/apierr"
	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/services"
	"github.com/IT22889256/PAF/internal/sse"
)

type SSEHandler interface {
	Stream(c *gin.Context)
	Subscribe(c *gin.Context)
	Unsubscribe(c *gin.Context)
}

type sseHandler struct {
	log         *logger.Logger
	hub         *sse.SSEHub
	communities services.CommunityService

	mu      sync.Mutex
	clients map[uuid.UUID]*sse.SSEClient
}

func NewSSEHandler(log *logger.Logger, hub *sse.SSEHub, communities services.CommunityService) SSEHandler {
	return &sseHandler{
		log:         log.With("handler", "SSEHandler"),
		hub:         hub,
		communities: communities,
		clients:     make(map[uuid.UUID]*sse.SSEClient),
	}
}

// Stream opens the event stream. Every client is subscribed to its own
// user channel; community channels are added per request via Subscribe.
func (h *sseHandler) Stream(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	client := h.hub.NewSSEClient(actorID)
	h.hub.AddChannel(client, sse.UserChannel(actorID))

	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, client.ID)
		h.mu.Unlock()
		h.hub.CloseClient(client)
	}()

	c.Writer.Header().Set("X-SSE-Client-ID", client.ID.String())
	h.hub.ServeHTTP(c.Writer, c.Request, client)
}

func (h *sseHandler) Subscribe(c *gin.Context) {
	h.changeSubscription(c, true)
}

func (h *sseHandler) Unsubscribe(c *gin.Context) {
	h.changeSubscription(c, false)
}

func (h *sseHandler) changeSubscription(c *gin.Context, subscribing bool) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var body struct {
		ClientID    uuid.UUID `json:"client_id"`
		CommunityID uuid.UUID `json:"community_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.log, apierr.Validation("invalid request body"))
		return
	}

	h.mu.Lock()
	client, ok := h.clients[body.ClientID]
	h.mu.Unlock()
	if !ok || client.UserID != actorID {
		respondError(c, h.log, apierr.NotFound("sse client %s not found", body.ClientID))
		return
	}

	if subscribing {
		// Only members may listen to a community's chat channel.
		community, err := h.communities.GetCommunity(c.Request.Context(), body.CommunityID)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		if !community.HasMember(actorID) {
			respondError(c, h.log, apierr.Forbidden("you must be a member of this community"))
			return
		}
		h.hub.AddChannel(client, sse.CommunityChannel(body.CommunityID))
	} else {
		h.hub.RemoveChannel(client, sse.CommunityChannel(body.CommunityID))
	}
	c.Status(http.StatusNoContent)
}
