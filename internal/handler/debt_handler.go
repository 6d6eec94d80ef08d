package handler

import (
	"net/http"
	"time"

	"pos-service/internal/middleware"
	"pos-service/internal/model"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DebtPaymentRequest defines the structure for debt payment requests
type DebtPaymentRequest struct {
	CustomerID    uint                `json:"customer_id" validate:"required"`
	Amount        float64             `json:"amount" validate:"required,gt=0"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	Reference     string              `json:"reference"`
}

// RecordDebtPayment records a customer paying down their balance. The payment
// row and the balance decrement commit in one remote transaction.
func RecordDebtPayment(c echo.Context) error {
	log := logger.FromContext(c)

	var req DebtPaymentRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid debt payment request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.CustomerID == 0 || req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id and a positive amount are required"})
	}
	method := req.PaymentMethod
	if method == "" {
		method = model.PaymentCash
	}
	if method == model.PaymentDebt || !method.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "debt payments must be settled in cash or mobile money"})
	}

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
	}

	payment := model.DebtPayment{
		ID:            uuid.NewString(),
		UserID:        userID,
		CustomerID:    req.CustomerID,
		Amount:        req.Amount,
		PaymentMethod: method,
		Reference:     req.Reference,
		Timestamp:     time.Now(),
		Synced:        true,
	}

	defer prometheus.TrackDBOperation("debt_payment")(time.Now())
	if err := dataStore.RecordDebtPayment(c.Request().Context(), &payment); err != nil {
		log.Error("Failed to record debt payment",
			zap.Uint("customer_id", req.CustomerID),
			zap.Float64("amount", req.Amount),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to record payment"})
	}

	log.Info("Debt payment recorded",
		zap.String("payment_id", payment.ID),
		zap.Uint("customer_id", payment.CustomerID),
		zap.Float64("amount", payment.Amount))
	return c.JSON(http.StatusCreated, payment)
}
