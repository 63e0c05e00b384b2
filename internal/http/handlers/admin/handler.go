package admin

import (
	"github.com/kaddo-next/internal/http/handlers/shared"
	"github.com/kaddo-next/internal/provider"
	"github.com/kaddo-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 经销商后台接口处理器入口
// 说明：除登录外全部要求员工令牌。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return shared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	shared.RespondError(c, code, msg, err)
}

func getPrincipal(c *gin.Context) (service.Principal, bool) {
	return shared.GetPrincipal(c)
}
