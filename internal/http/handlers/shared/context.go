package shared

import (
	"github.com/kaddo-next/internal/http/response"
	"github.com/kaddo-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PrincipalKey 员工身份在上下文中的键名
const PrincipalKey = "principal"

// GetPrincipal 从上下文读取已认证的员工身份，缺失时返回 401。
func GetPrincipal(c *gin.Context) (service.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "authentication required", nil)
		return service.Principal{}, false
	}
	principal, ok := value.(service.Principal)
	if !ok {
		RespondError(c, response.CodeInternal, "invalid principal in context", nil)
		return service.Principal{}, false
	}
	return principal, true
}

// GetDistributorID 从上下文读取店面中间件解析出的经销商 ID。
func GetDistributorID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("distributor_id")
	if !exists {
		RespondError(c, response.CodeNotFound, "unknown storefront", nil)
		return 0, false
	}
	id, ok := value.(uint)
	if !ok || id == 0 {
		RespondError(c, response.CodeNotFound, "unknown storefront", nil)
		return 0, false
	}
	return id, true
}
