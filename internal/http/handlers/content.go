package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/readbridge-backend/internal/http/response"
	"github.com/yungbote/readbridge-backend/internal/services"
)

type ContentHandler struct {
	contentService    services.ContentService
	adaptationService services.AdaptationService
}

func NewContentHandler(contentService services.ContentService, adaptationService services.AdaptationService) *ContentHandler {
	return &ContentHandler{
		contentService:    contentService,
		adaptationService: adaptationService,
	}
}

// POST /api/content
// body: { "title": "...", "body": "...", "language": "" | "english" | "japanese" }
func (ch *ContentHandler) Ingest(c *gin.Context) {
	var req struct {
		Title    string `json:"title"`
		Body     string `json:"body"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid request body"))
		return
	}
	item, snapshot, err := ch.contentService.Ingest(c.Request.Context(), req.Title, req.Body, req.Language)
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"content": item, "analysis": snapshot})
}

// GET /api/content?language=english&level=intermediate&limit=50
func (ch *ContentHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}
	items, err := ch.contentService.List(c.Request.Context(), c.Query("language"), c.Query("level"), limit)
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"content": items})
}

// GET /api/content/:id
func (ch *ContentHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	item, snapshot, err := ch.contentService.Get(c.Request.Context(), id)
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"content": item, "analysis": snapshot})
}

// POST /api/content/:id/analyze
func (ch *ContentHandler) Analyze(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	snapshot, err := ch.contentService.Analyze(c.Request.Context(), id)
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"analysis": snapshot})
}

// POST /api/content/:id/adapt
// body: { "target_level": "beginner" | ... , "preserve_meaning": bool }
func (ch *ContentHandler) Adapt(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		TargetLevel     string `json:"target_level"`
		PreserveMeaning *bool  `json:"preserve_meaning"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid request body"))
		return
	}
	preserve := true
	if req.PreserveMeaning != nil {
		preserve = *req.PreserveMeaning
	}
	result, err := ch.adaptationService.Adapt(c.Request.Context(), id, req.TargetLevel, preserve)
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"adaptation": result})
}

// POST /api/content/reanalyze
// body: { "ids": ["..."] }
func (ch *ContentHandler) Reanalyze(c *gin.Context) {
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("ids are required"))
		return
	}
	if err := ch.contentService.Reanalyze(c.Request.Context(), req.IDs); err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true, "count": len(req.IDs)})
}

// GET /api/content/:id/adaptations
func (ch *ContentHandler) AdaptationHistory(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	rows, err := ch.adaptationService.History(c.Request.Context(), id)
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"adaptations": rows})
}

func parseIDParam(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q", c.Param("id"))
	}
	return id, nil
}
