package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/shopmind-backend/internal/pkg/apierr"
	"github.com/yungbote/shopmind-backend/internal/services"
)

type ProductHandler struct {
	catalog  services.CatalogService
	embedder services.EmbeddingService
}

func NewProductHandler(catalog services.CatalogService, embedder services.EmbeddingService) *ProductHandler {
	return &ProductHandler{catalog: catalog, embedder: embedder}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondAPIError(c, apierr.Validation(err))
		return
	}
	product, err := h.catalog.CreateProduct(c.Request.Context(), input)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, gin.H{"product": product})
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondAPIError(c, apierr.Validation(err))
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"product": product})
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondAPIError(c, apierr.Validation(err))
		return
	}
	var patch services.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondAPIError(c, apierr.Validation(err))
		return
	}
	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, patch)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"product": product})
}

// Reembed re-derives and re-indexes a product's vector on demand. This is the
// recovery path for indexing failures logged during create or update.
func (h *ProductHandler) Reembed(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		RespondAPIError(c, apierr.Validation(err))
		return
	}
	if _, err := h.catalog.GetProduct(c.Request.Context(), id); err != nil {
		RespondAPIError(c, err)
		return
	}
	if err := h.embedder.ReembedProduct(c.Request.Context(), id); err != nil {
		RespondAPIError(c, apierr.UpstreamUnavailable(err))
		return
	}
	RespondOK(c, gin.H{"reembedded": id})
}
