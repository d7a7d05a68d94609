package handlers

import (
	"io"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/dto"
	"github.com/SscSPs/hr_admin_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const streamHeartbeat = 25 * time.Second

type auditHandler struct {
	auditService portssvc.AuditSvcFacade
	liveFeed     portssvc.LiveFeedSvc
	heartbeat    time.Duration
}

func registerAuditRoutes(rg *gin.RouterGroup, audit portssvc.AuditSvcFacade, feed portssvc.LiveFeedSvc) {
	h := &auditHandler{auditService: audit, liveFeed: feed, heartbeat: streamHeartbeat}

	rg.GET("/audit", h.listEvents)
	rg.GET("/stream", h.stream)
}

// listEvents godoc
// @Summary Recent audit events
// @Description Newest first. q matches action, actor email and entity name or id, ignoring case and accents.
// @Tags audit
// @Produce json
// @Param limit query int false "Max events" default(50)
// @Param q query string false "Text filter"
// @Param action query string false "Action, e.g. employee:create"
// @Param entityType query string false "employee|department|system"
// @Param before query string false "nextToken of the previous page"
// @Success 200 {object} dto.ListAuditEventsResponse
// @Security BearerAuth
// @Router /audit [get]
func (h *auditHandler) listEvents(c *gin.Context) {
	var params dto.ListAuditEventsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, err, "Invalid query parameters")
		return
	}
	filter, err := params.ToFilter()
	if err != nil {
		respondError(c, err, "Invalid pagination token")
		return
	}
	events, err := h.auditService.ListEvents(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to list audit events")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAuditEventsResponse(events, params.Limit))
}

// stream godoc
// @Summary Live change stream
// @Description Server-sent events, one "change" event per committed write. EventSource clients pass the token as access_token.
// @Tags audit
// @Produce text/event-stream
// @Param access_token query string false "Bearer token for clients that cannot set headers"
// @Success 200 {object} domain.ChangeEvent
// @Security BearerAuth
// @Router /stream [get]
func (h *auditHandler) stream(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	events, err := h.liveFeed.Subscribe(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to subscribe to changes")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	logger.Info("Live stream opened")
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("change", ev)
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
	logger.Info("Live stream closed")
}
