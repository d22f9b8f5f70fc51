package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/readbridge-backend/internal/http/response"
	"github.com/yungbote/readbridge-backend/internal/requestdata"
	"github.com/yungbote/readbridge-backend/internal/services"
)

type BehaviorHandler struct {
	behaviorService services.BehaviorService
}

func NewBehaviorHandler(behaviorService services.BehaviorService) *BehaviorHandler {
	return &BehaviorHandler{behaviorService: behaviorService}
}

// POST /api/behavior
func (bh *BehaviorHandler) Record(c *gin.Context) {
	var req struct {
		ContentID      uuid.UUID                   `json:"content_id"`
		StartedAt      time.Time                   `json:"started_at"`
		EndedAt        time.Time                   `json:"ended_at"`
		CompletionRate float64                     `json:"completion_rate"`
		ReadingSpeed   float64                     `json:"reading_speed"`
		Pauses         []services.PauseEvent       `json:"pauses"`
		Interactions   []services.InteractionEvent `json:"interactions"`
		Context        services.SessionContext     `json:"context"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid request body"))
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	out, err := bh.behaviorService.Record(c.Request.Context(), services.RecordBehaviorInput{
		UserID:         rd.UserID,
		ContentID:      req.ContentID,
		StartedAt:      req.StartedAt,
		EndedAt:        req.EndedAt,
		CompletionRate: req.CompletionRate,
		ReadingSpeed:   req.ReadingSpeed,
		Pauses:         req.Pauses,
		Interactions:   req.Interactions,
		Context:        req.Context,
	})
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondCreated(c, out)
}
