package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/shopmind-backend/internal/pkg/apierr"
	"github.com/yungbote/shopmind-backend/internal/services"
)

type FeedbackHandler struct {
	feedback services.FeedbackService
}

func NewFeedbackHandler(feedback services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

type recordFeedbackRequest struct {
	UserID uint `json:"user_id" binding:"required"`
	Rating *int `json:"rating" binding:"required"`
}

func (h *FeedbackHandler) Record(c *gin.Context) {
	recID, err := pathID(c, "id")
	if err != nil {
		RespondAPIError(c, apierr.Validation(err))
		return
	}
	var req recordFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondAPIError(c, apierr.Validation(err))
		return
	}
	feedback, err := h.feedback.RecordFeedback(c.Request.Context(), req.UserID, recID, *req.Rating)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, gin.H{"feedback": feedback})
}

func (h *FeedbackHandler) Summary(c *gin.Context) {
	counts, err := h.feedback.Summary(c.Request.Context())
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"ratings": counts})
}
