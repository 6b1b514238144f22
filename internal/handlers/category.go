package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/shopmind-backend/internal/pkg/apierr"
	"github.com/yungbote/shopmind-backend/internal/services"
)

type CategoryHandler struct {
	catalog services.CatalogService
}

func NewCategoryHandler(catalog services.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondAPIError(c, apierr.Validation(err))
		return
	}
	category, err := h.catalog.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, gin.H{"category": category})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondAPIError(c, apierr.Validation(err))
		return
	}
	category, err := h.catalog.GetCategory(c.Request.Context(), id)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"category": category})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondAPIError(c, apierr.Validation(err))
		return
	}
	var patch services.CategoryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondAPIError(c, apierr.Validation(err))
		return
	}
	category, err := h.catalog.UpdateCategory(c.Request.Context(), id, patch)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"category": category})
}
