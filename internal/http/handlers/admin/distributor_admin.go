package admin

import (
	"github.com/kaddo-next/internal/http/response"
	"github.com/kaddo-next/internal/service"

	"github.com/gin-gonic/gin"
)

// Profile “我的店铺”资料读取
func (h *Handler) Profile(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	distributor, err := h.DistributorService.Profile(principal)
	if err != nil {
		respondWithMappedError(c, err, profileErrorRules, response.CodeInternal, "failed to load profile")
		return
	}
	response.Success(c, distributor)
}

// UpdateProfile “我的店铺”资料更新
func (h *Handler) UpdateProfile(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	var req service.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid profile update", err)
		return
	}
	distributor, err := h.DistributorService.UpdateProfile(principal, req)
	if err != nil {
		respondWithMappedError(c, err, profileErrorRules, response.CodeInternal, "failed to update profile")
		return
	}
	h.invalidateStorefrontCache(c, principal)
	response.Success(c, distributor)
}
