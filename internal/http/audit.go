package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	auditRepo "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	auditDefaultLimit = 25
	auditMaxLimit     = 100
)

type AuditController struct {
	audit AuditReader
}

func NewAuditController(reader AuditReader) *AuditController {
	return &AuditController{audit: reader}
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/audit
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, limit := parsePagination(c, auditDefaultLimit, auditMaxLimit)
	offset := (page - 1) * limit

	filter := auditRepo.Filter{
		EventType: entities.AuditEventType(c.Query("type")),
		EntityID:  c.Query("entity_id"),
	}

	events, total, err := ac.audit.GetEvents(c.Request.Context(), filter, limit, offset)
	if err != nil {
		respondInternalError(c, err, "audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       events,
		Total:      total,
		Page:       page,
		Limit:      limit,
		HasMore:    int64(offset+len(events)) < total,
		TotalPages: totalPages,
	})
}

// GetAuditEvent returns a single audit event.
// GET /api/audit/:id
func (ac *AuditController) GetAuditEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	event, err := ac.audit.GetEvent(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "audit event")
		return
	}
	if event == nil {
		respondNotFound(c, "Audit event")
		return
	}
	c.JSON(http.StatusOK, event)
}
