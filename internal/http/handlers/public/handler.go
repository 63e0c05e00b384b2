package public

import (
	"github.com/kaddo-next/internal/http/handlers/shared"
	"github.com/kaddo-next/internal/provider"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 店面/公开接口处理器入口
// 说明：该处理器仅用于购买人与收礼人侧 API。
type Handler struct {
	*provider.Container
}

// New 创建店面处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return shared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	shared.RespondError(c, code, msg, err)
}

func getDistributorID(c *gin.Context) (uint, bool) {
	return shared.GetDistributorID(c)
}
