package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/shopmind-backend/internal/pkg/apierr"
	"github.com/yungbote/shopmind-backend/internal/services"
)

type UserHandler struct {
	catalog        services.CatalogService
	recommendation services.RecommendationService
}

func NewUserHandler(catalog services.CatalogService, recommendation services.RecommendationService) *UserHandler {
	return &UserHandler{catalog: catalog, recommendation: recommendation}
}

type createUserRequest struct {
	Email              string `json:"email" binding:"required"`
	ProfileDescription string `json:"profile_description"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondAPIError(c, apierr.Validation(err))
		return
	}
	user, err := h.catalog.CreateUser(c.Request.Context(), req.Email, req.ProfileDescription)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, gin.H{"user": user})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondAPIError(c, apierr.Validation(err))
		return
	}
	user, err := h.catalog.GetUser(c.Request.Context(), id)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"user": user})
}

func (h *UserHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondAPIError(c, apierr.Validation(err))
		return
	}
	var patch services.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondAPIError(c, apierr.Validation(err))
		return
	}
	user, err := h.catalog.UpdateUser(c.Request.Context(), id, patch)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"user": user})
}

// Profile renders the customer info block (profile plus joined search
// history) used as the human-readable view of what recommendation sees.
func (h *UserHandler) Profile(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondAPIError(c, apierr.Validation(err))
		return
	}
	profile, err := h.recommendation.CustomerProfile(c.Request.Context(), id)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"profile": profile})
}
