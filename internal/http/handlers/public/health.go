package public

import (
	"github.com/cart-tracker/internal/http/response"
	"github.com/cart-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

// Healthz 健康检查，探测数据库连接
func (h *Handler) Healthz(c *gin.Context) {
	if err := models.Ping(c.Request.Context(), h.DB); err != nil {
		respondError(c, response.CodeUnavailable, msgDatabaseDown, err)
		return
	}
	response.Success(c, gin.H{"status": "ok"})
}
