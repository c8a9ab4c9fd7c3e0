package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/shopdesk/pkg/health"
)

// HealthHandler 存活/就绪检查
type HealthHandler struct {
	health *health.Health
}

func NewHealthHandler(h *health.Health) *HealthHandler {
	return &HealthHandler{health: h}
}

// Ping
// @Summary  Ping
// @Tags     健康检查
// @Produce  json
// @Success  200 {object} map[string]string
// @Router   /ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Liveness 进程存活即返回200
// @Summary  存活检查
// @Tags     健康检查
// @Produce  json
// @Success  200 {object} map[string]interface{}
// @Router   /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": health.StatusOK,
		"uptime": h.health.Uptime().Round(time.Second).String(),
	})
}

// Readiness 并行检查数据库和Redis
// @Summary  就绪检查
// @Tags     健康检查
// @Produce  json
// @Success  200 {object} health.Report
// @Failure  503 {object} health.Report
// @Router   /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	report := h.health.Check(c.Request.Context())
	status := http.StatusOK
	if !report.OK() {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
