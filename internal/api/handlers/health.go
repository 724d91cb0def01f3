package handlers

import (
	"net/http"

	"github.com/toneforge/toneforge-api/internal/host"
	"github.com/toneforge/toneforge-api/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db         *gorm.DB
	hostClient *host.Client
}

func NewHealthHandler(db *gorm.DB, hostClient *host.Client) *HealthHandler {
	return &HealthHandler{db: db, hostClient: hostClient}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	hostStatus := "disabled"
	if h.hostClient != nil {
		if reachable, err := h.hostClient.Ping(c.Request.Context()); err == nil && reachable {
			hostStatus = "reachable"
		} else {
			hostStatus = "unreachable"
		}
	}

	dbStatus := "healthy"
	sqlDB, err := h.db.DB()
	if err != nil {
		h.respondUnhealthy(c, "error: "+err.Error(), hostStatus)
		return
	}
	if err := sqlDB.Ping(); err != nil {
		h.respondUnhealthy(c, "error: "+err.Error(), hostStatus)
		return
	}

	var userCount int64
	if err := h.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		h.respondUnhealthy(c, "error: cannot query database - "+err.Error(), hostStatus)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": gin.H{"status": dbStatus},
		"host":     gin.H{"status": hostStatus},
	})
}

func (h *HealthHandler) respondUnhealthy(c *gin.Context, dbStatus, hostStatus string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"status":   "unhealthy",
		"database": gin.H{"status": dbStatus},
		"host":     gin.H{"status": hostStatus},
	})
}

// HealthCheck is a dependency-free liveness probe kept for callers that only
// need to know the process is up, not that its dependencies are reachable.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"note":   "liveness only - use NewHealthHandler for a dependency check",
	})
}
