package handler

import (
	"net/http"

	"pos-service/internal/model"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GetSyncStatus reports connectivity and the pending-operation count.
func GetSyncStatus(c echo.Context) error {
	pending := monitor.PendingCount(c.Request().Context())
	prometheus.SetPendingOperations(float64(pending))

	return c.JSON(http.StatusOK, echo.Map{
		"online":             monitor.Online(),
		"pending_operations": pending,
	})
}

// FlushPending triggers a drain of the pending queue right now, instead of
// waiting for the background syncer's next pass.
func FlushPending(c echo.Context) error {
	log := logger.FromContext(c)

	if !monitor.Online() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "offline, cannot flush"})
	}

	delivered, err := syncer.Drain(c.Request().Context())
	pending := monitor.PendingCount(c.Request().Context())
	prometheus.SetPendingOperations(float64(pending))

	if err != nil {
		prometheus.RecordSyncFlush("retried")
		log.Warn("Flush incomplete",
			zap.Int("delivered", delivered),
			zap.Int64("still_pending", pending),
			zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error":              "flush incomplete",
			"delivered":          delivered,
			"pending_operations": pending,
		})
	}

	prometheus.RecordSyncFlush("delivered")
	log.Info("Pending queue flushed", zap.Int("delivered", delivered))
	return c.JSON(http.StatusOK, echo.Map{
		"delivered":          delivered,
		"pending_operations": pending,
	})
}

// InvalidateCache drops the cached snapshot for one collection. This is the
// hook the realtime change-notification listener calls when a remote row
// changes.
func InvalidateCache(c echo.Context) error {
	log := logger.FromContext(c)

	col := model.Collection(c.Param("collection"))
	if !col.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown collection"})
	}

	if err := cacheStore.Invalidate(c.Request().Context(), col); err != nil {
		log.Error("Cache invalidation failed", zap.String("collection", col.String()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to invalidate cache"})
	}

	log.Info("Cache invalidated", zap.String("collection", col.String()))
	return c.JSON(http.StatusOK, echo.Map{"message": "cache invalidated", "collection": col})
}

// SetConnectivity is the hook for environment connectivity signals: the
// deployment's network watcher posts transitions here.
func SetConnectivity(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Online *bool `json:"online"`
	}
	if err := c.Bind(&req); err != nil || req.Online == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body must be {\"online\": true|false}"})
	}

	monitor.SetOnline(*req.Online)
	log.Info("Connectivity set", zap.Bool("online", *req.Online))
	return c.JSON(http.StatusOK, echo.Map{"online": monitor.Online()})
}
