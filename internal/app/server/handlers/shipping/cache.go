package shipping

import (
	"github.com/gin-gonic/gin"

	"oip/dprate/internal/app/domains/apimodel/response"
	"oip/dprate/internal/app/pkg/ginx"
)

// RefreshCache 清除缓存并立即重建
// POST /api/v1/shipping/cache/refresh
func (h *RateHandler) RefreshCache(c *gin.Context) {
	agg, err := h.rates.Refresh(c.Request.Context())
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, &response.RefreshResponse{
		Countries: len(agg.Countries),
		Tabs:      agg.TabCount,
	})
}

// ClearCache 清除缓存，下次查询时重建
// DELETE /api/v1/shipping/cache
func (h *RateHandler) ClearCache(c *gin.Context) {
	if err := h.rates.ClearCache(c.Request.Context()); err != nil {
		h.logger.Errorf(c.Request.Context(), "[RateHandler] clear cache failed: %v", err)
		ginx.InternalError(c, "clear cache failed")
		return
	}

	ginx.Success(c, gin.H{"cleared": true})
}
