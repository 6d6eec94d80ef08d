package handler

import (
	"net/http"
	"time"

	"pos-service/internal/cache"
	"pos-service/internal/model"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListSales handles retrieving sale records through the offline-aware reader,
// with optional payment-method and customer filters.
func ListSales(c echo.Context) error {
	log := logger.FromContext(c)

	filters := cache.Filters{}
	if method := c.QueryParam("payment_method"); method != "" {
		filters["payment_method"] = method
	}
	if customerID := c.QueryParam("customer_id"); customerID != "" {
		filters["customer_id"] = customerID
	}

	sales, fromRemote, err := reader.Sales(c.Request().Context(), filters)
	if err != nil {
		log.Warn("Sales list served from cache", zap.Error(err))
	}

	log.Info("Sales retrieved", zap.Int("count", len(sales)), zap.Bool("online", fromRemote))
	return listResponse(c, model.CollectionSales, sales, fromRemote, err)
}

// GetSalesTrend aggregates sales in a date range by day and payment method.
// Range defaults to the last 30 days.
func GetSalesTrend(c echo.Context) error {
	log := logger.FromContext(c)

	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if v := c.QueryParam("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid 'from' date, expected YYYY-MM-DD"})
		}
		from = parsed
	}
	if v := c.QueryParam("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid 'to' date, expected YYYY-MM-DD"})
		}
		// Include the whole end day.
		to = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if from.After(to) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "'from' must not be after 'to'"})
	}

	defer prometheus.TrackDBOperation("sales_trend")(time.Now())
	report, err := dataStore.SalesTrend(c.Request().Context(), from, to)
	if err != nil {
		log.Error("Failed to build sales trend", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to build report"})
	}

	log.Info("Sales trend built",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int64("sales", report.TotalCount))
	return c.JSON(http.StatusOK, report)
}
