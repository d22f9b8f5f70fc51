package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/readbridge-backend/internal/http/response"
	"github.com/yungbote/readbridge-backend/internal/modules/recommendation"
	"github.com/yungbote/readbridge-backend/internal/requestdata"
	"github.com/yungbote/readbridge-backend/internal/services"
)

type RecommendationHandler struct {
	recService services.RecommendationService
}

func NewRecommendationHandler(recService services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recService: recService}
}

const defaultRecommendationLimit = 10

// GET /api/recommendations?limit=10&available_minutes=15&time_of_day=evening&location=home
func (rh *RecommendationHandler) GetContextual(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	reqCtx := recommendation.Context{}
	if mins := c.Query("available_minutes"); mins != "" {
		if v, err := strconv.ParseFloat(mins, 64); err == nil && v > 0 {
			reqCtx.AvailableMinutes = v
		}
	}
	sessCtx := services.SessionContext{
		TimeOfDay: c.Query("time_of_day"),
		Location:  c.Query("location"),
	}
	reqCtx.Key = sessCtx.Key()

	recs, err := rh.recService.Contextual(c.Request.Context(), rd.UserID, reqCtx, limitQuery(c))
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"recommendations": recs})
}

// GET /api/recommendations/discovery?limit=10
func (rh *RecommendationHandler) GetDiscovery(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	recs, err := rh.recService.Discovery(c.Request.Context(), rd.UserID, limitQuery(c))
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"recommendations": recs})
}

func limitQuery(c *gin.Context) int {
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			return v
		}
	}
	return defaultRecommendationLimit
}
