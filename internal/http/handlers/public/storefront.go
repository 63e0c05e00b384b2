package public

import (
	"time"

	"github.com/kaddo-next/internal/cache"
	"github.com/kaddo-next/internal/http/response"
	"github.com/kaddo-next/internal/service"

	"github.com/gin-gonic/gin"
)

const storefrontCacheTTL = 60 * time.Second

// Storefront 店面首页数据：经销商资料加在售模板
func (h *Handler) Storefront(c *gin.Context) {
	subdomain := c.GetString("subdomain")

	var cached service.StorefrontView
	cacheKey := "storefront:" + subdomain
	if hit, err := cache.GetJSON(c.Request.Context(), cacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	view, err := h.DistributorService.Storefront(subdomain)
	if err != nil {
		respondWithMappedError(c, err, purchaseErrorRules, response.CodeInternal, "failed to load storefront")
		return
	}
	if err := cache.SetJSON(c.Request.Context(), cacheKey, view, storefrontCacheTTL); err != nil {
		requestLog(c).Warnw("storefront_cache_write_failed", "subdomain", subdomain, "error", err)
	}
	response.Success(c, view)
}

// ActiveTemplates 在售模板列表
func (h *Handler) ActiveTemplates(c *gin.Context) {
	distributorID, ok := getDistributorID(c)
	if !ok {
		return
	}
	templates, err := h.CatalogService.ActiveTemplates(distributorID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load templates", err)
		return
	}
	response.Success(c, templates)
}
