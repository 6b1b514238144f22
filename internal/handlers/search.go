package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/shopmind-backend/internal/pkg/apierr"
	"github.com/yungbote/shopmind-backend/internal/services"
)

type SearchHandler struct {
	search services.SearchService
	// defaultThreshold applies when the caller enables the vector path
	// without naming a similarity cutoff.
	defaultThreshold float64
}

func NewSearchHandler(search services.SearchService, defaultThreshold float64) *SearchHandler {
	return &SearchHandler{search: search, defaultThreshold: defaultThreshold}
}

// Search is the hybrid product search endpoint. Query parameters:
// q, user_id, min_price, max_price, min_stock, use_vector, threshold.
func (h *SearchHandler) Search(c *gin.Context) {
	params := services.SearchParams{
		Query:               c.Query("q"),
		SimilarityThreshold: h.defaultThreshold,
	}

	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			RespondAPIError(c, apierr.Validation(fmt.Errorf("invalid user_id %q", raw)))
			return
		}
		uid := uint(id)
		params.UserID = &uid
	}
	if raw := c.Query("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			RespondAPIError(c, apierr.Validation(fmt.Errorf("invalid min_price %q", raw)))
			return
		}
		params.MinPrice = &v
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			RespondAPIError(c, apierr.Validation(fmt.Errorf("invalid max_price %q", raw)))
			return
		}
		params.MaxPrice = &v
	}
	if params.MinPrice != nil && params.MaxPrice != nil && *params.MinPrice > *params.MaxPrice {
		RespondAPIError(c, apierr.Validation(fmt.Errorf("min_price exceeds max_price")))
		return
	}
	if raw := c.Query("min_stock"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			RespondAPIError(c, apierr.Validation(fmt.Errorf("invalid min_stock %q", raw)))
			return
		}
		params.MinStock = &v
	}
	if raw := c.Query("use_vector"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			RespondAPIError(c, apierr.Validation(fmt.Errorf("invalid use_vector %q", raw)))
			return
		}
		params.UseVector = v
	}
	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			RespondAPIError(c, apierr.Validation(fmt.Errorf("invalid threshold %q", raw)))
			return
		}
		params.SimilarityThreshold = v
	}

	products, err := h.search.Search(c.Request.Context(), params)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"products": products, "count": len(products)})
}
