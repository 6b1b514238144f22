package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/shopmind-backend/internal/pkg/apierr"
	"github.com/yungbote/shopmind-backend/internal/services"
)

type RecommendationHandler struct {
	recommendation services.RecommendationService
}

func NewRecommendationHandler(recommendation services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendation: recommendation}
}

func (h *RecommendationHandler) Recommend(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondAPIError(c, apierr.Validation(err))
		return
	}
	result, err := h.recommendation.Recommend(c.Request.Context(), id)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, gin.H{"recommendation": result})
}
