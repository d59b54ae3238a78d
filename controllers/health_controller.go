// controllers/health_controller.go
package controllers

import (
	"context"
	"time"

	"wellnest/database"
	"wellnest/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type HealthController struct {
	redisClient *redis.Client
	version     string
	startedAt   time.Time
}

func NewHealthController(redisClient *redis.Client, version string) *HealthController {
	return &HealthController{
		redisClient: redisClient,
		version:     version,
		startedAt:   time.Now(),
	}
}

// Health reports liveness and dependency status
// @Summary Health check
// @Description Report service, database and cache health
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (hc *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	statuses := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}

	if !database.IsConnected() {
		statuses["database"] = "unavailable"
	}

	if hc.redisClient == nil {
		statuses["redis"] = "disabled"
	} else if err := hc.redisClient.Ping(ctx).Err(); err != nil {
		statuses["redis"] = "unavailable"
	}

	uptime := time.Since(hc.startedAt).Round(time.Second).String()
	c.JSON(200, utils.HealthCheckResponse(statuses, hc.version, uptime))
}
