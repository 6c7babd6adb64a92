package handler

import (
	"strconv"
	"time"

	securityapp "github.com/brandcert/backend/internal/application/security"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SecurityHandler exposes the brand's security audit log
type SecurityHandler struct {
	BaseHandler
	securityService *securityapp.Service
}

// NewSecurityHandler creates a new SecurityHandler
func NewSecurityHandler(securityService *securityapp.Service) *SecurityHandler {
	return &SecurityHandler{securityService: securityService}
}

// ListEvents godoc
// @ID           listSecurityEvents
// @Summary      List the brand's security events
// @Description  Audit log of logins, failures, token anomalies and administrative actions
// @Tags         security
// @Produce      json
// @Param        user_id query string false "Filter by user"
// @Param        type query string false "Filter by event type"
// @Param        severity query string false "Filter by severity"
// @Param        from query string false "RFC 3339 lower bound"
// @Param        to query string false "RFC 3339 upper bound"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[securityapp.EventListResult]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /security/events [get]
func (h *SecurityHandler) ListEvents(c *gin.Context) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	input := securityapp.ListEventsInput{
		Type:     c.Query("type"),
		Severity: c.Query("severity"),
		Page:     page,
		PageSize: pageSize,
		SortBy:   c.Query("sort_by"),
		SortDir:  c.Query("sort_dir"),
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid user_id filter")
			return
		}
		input.UserID = &id
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "Invalid from timestamp")
			return
		}
		input.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "Invalid to timestamp")
			return
		}
		input.To = to
	}

	result, err := h.securityService.ListEvents(c.Request.Context(), brandID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Events, result.Total, result.Page, result.PageSize)
}

// Summary godoc
// @ID           securitySummary
// @Summary      Summarize recent security events
// @Description  Counts events by type and severity over a trailing window (default 24h, max 30 days)
// @Tags         security
// @Produce      json
// @Param        window query string false "Trailing window as a Go duration" default(24h)
// @Success      200 {object} APIResponse[security.EventSummary]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /security/summary [get]
func (h *SecurityHandler) Summary(c *gin.Context) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	window := 24 * time.Hour
	if raw := c.Query("window"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			h.BadRequest(c, "Invalid window duration")
			return
		}
		window = parsed
	}
	if window > 30*24*time.Hour {
		window = 30 * 24 * time.Hour
	}

	result, err := h.securityService.Summary(c.Request.Context(), brandID, window)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
