package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/readbridge-backend/internal/http/response"
	"github.com/yungbote/readbridge-backend/internal/requestdata"
	"github.com/yungbote/readbridge-backend/internal/services"
)

type ProgressHandler struct {
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// GET /api/progress
func (ph *ProgressHandler) GetAnalytics(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	analytics, err := ph.progressService.Analytics(c.Request.Context(), rd.UserID)
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": analytics})
}
