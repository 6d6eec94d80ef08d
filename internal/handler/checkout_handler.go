package handler

import (
	"errors"
	"net/http"

	"pos-service/internal/checkout"
	"pos-service/internal/middleware"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProcessCheckout runs one checkout attempt through the orchestrator.
//
// Per-line failure detail stays in the logs; the client gets a single generic
// error. A Failed response still reports the records that were written before
// the failing line, because they are not rolled back.
func ProcessCheckout(c echo.Context) error {
	log := logger.FromContext(c)

	var req checkout.Request
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid checkout request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}
	req.UserID = userID
	if req.SessionID == "" {
		// Fall back to one checkout at a time per operator.
		if username, ok := c.Get("username").(string); ok {
			req.SessionID = username
		}
	}

	result, err := orchestrator.Checkout(c.Request().Context(), req)

	switch {
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInvalidPayment),
		errors.Is(err, checkout.ErrCustomerRequired),
		errors.Is(err, checkout.ErrInvalidQuantity):
		prometheus.RecordCheckout(string(req.PaymentMethod), "validation_error")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})

	case errors.Is(err, checkout.ErrCheckoutInFlight):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})

	case err != nil:
		prometheus.RecordCheckout(string(req.PaymentMethod), "failed")
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error":  "checkout failed",
			"result": result,
		})
	}

	prometheus.RecordCheckout(string(req.PaymentMethod), "completed")
	for range result.Records {
		if result.Online {
			prometheus.RecordSaleWrite("remote")
		} else {
			prometheus.RecordSaleWrite("queued")
		}
	}
	if !result.Online {
		prometheus.SetPendingOperations(float64(monitor.PendingCount(c.Request().Context())))
	}

	log.Info("Checkout completed",
		zap.String("session_id", req.SessionID),
		zap.Int("records", len(result.Records)),
		zap.Bool("online", result.Online))
	return c.JSON(http.StatusCreated, result)
}
