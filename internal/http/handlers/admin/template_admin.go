package admin

import (
	"github.com/kaddo-next/internal/cache"
	"github.com/kaddo-next/internal/constants"
	"github.com/kaddo-next/internal/http/response"
	"github.com/kaddo-next/internal/service"

	"github.com/gin-gonic/gin"
)

// TemplateFormSummary 模板编辑表单预填数据
func (h *Handler) TemplateFormSummary(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	summary, err := h.CatalogService.FormSummary(principal)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load templates", err)
		return
	}
	response.Success(c, summary)
}

// LatestTemplates 每类模板的最新版本
func (h *Handler) LatestTemplates(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	templates, err := h.CatalogService.LatestTemplates(principal.DistributorID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load templates", err)
		return
	}
	response.Success(c, templates)
}

// PublishTemplatesRequest 模板发布请求
type PublishTemplatesRequest struct {
	Kind   string                  `json:"kind" binding:"required"`
	Drafts []service.TemplateDraft `json:"drafts" binding:"required"`
}

// PublishTemplates 发布一组新模板。类型字符串在入口处解析，未知值直接拒绝。
func (h *Handler) PublishTemplates(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	var req PublishTemplatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid publish request", err)
		return
	}
	kind, err := constants.ParseVoucherKind(req.Kind)
	if err != nil {
		respondError(c, response.CodeBadRequest, "unknown voucher kind", err)
		return
	}

	published, err := h.CatalogService.PublishSet(principal, kind, req.Drafts)
	if err != nil {
		respondWithMappedError(c, err, nil, response.CodeInternal, "failed to publish templates")
		return
	}

	h.invalidateStorefrontCache(c, principal)
	requestLog(c).Infow("templates_published",
		"distributor_id", principal.DistributorID,
		"kind", kind.String(),
		"count", len(published),
	)
	response.Success(c, published)
}

// invalidateStorefrontCache 发布或改资料后清掉店面缓存
func (h *Handler) invalidateStorefrontCache(c *gin.Context, principal service.Principal) {
	distributor, err := h.DistributorRepo.GetByID(principal.DistributorID)
	if err != nil || distributor == nil {
		return
	}
	if err := cache.Del(c.Request.Context(), "storefront:"+distributor.Subdomain); err != nil {
		requestLog(c).Warnw("storefront_cache_invalidate_failed", "subdomain", distributor.Subdomain, "error", err)
	}
}
