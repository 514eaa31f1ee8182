package shipping

import (
	"github.com/gin-gonic/gin"

	"oip/dprate/internal/app/domains/apimodel/response"
	"oip/dprate/internal/app/pkg/ginx"
)

// Countries godoc
// @Summary      国家列表
// @Description  返回有可用线路的国家（常用国家优先），及每个国家的分区与线路信息
// @Tags         shipping
// @Produce      json
// @Success      200 {object} ginx.Response{data=response.CountriesResponse} "查询成功"
// @Failure      503 {object} ginx.Response "费率表不可用"
// @Router       /shipping/countries [get]
func (h *RateHandler) Countries(c *gin.Context) {
	listing, err := h.rates.ListCountries(c.Request.Context())
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromCountryListing(listing))
}
