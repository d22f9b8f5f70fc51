package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/readbridge-backend/internal/http/response"
	"github.com/yungbote/readbridge-backend/internal/requestdata"
	"github.com/yungbote/readbridge-backend/internal/services"
)

type UserHandler struct {
	userService    services.UserService
	profileService services.ProfileService
}

func NewUserHandler(userService services.UserService, profileService services.ProfileService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		profileService: profileService,
	}
}

// GET /api/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	me, err := uh.userService.Get(c.Request.Context(), rd.UserID)
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// PATCH /api/user/name
// body: { "first_name": "...", "last_name": "..." }
func (uh *UserHandler) ChangeName(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid request body"))
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	u, err := uh.userService.UpdateName(c.Request.Context(), rd.UserID, req.FirstName, req.LastName)
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

// PATCH /api/user/language
// body: { "primary_language": "english" | "japanese" }
func (uh *UserHandler) ChangePrimaryLanguage(c *gin.Context) {
	var req struct {
		PrimaryLanguage string `json:"primary_language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid request body"))
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	u, err := uh.userService.UpdatePrimaryLanguage(c.Request.Context(), rd.UserID, req.PrimaryLanguage)
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

// GET /api/profile
func (uh *UserHandler) GetProfile(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	view, err := uh.profileService.Get(c.Request.Context(), rd.UserID)
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": view})
}
