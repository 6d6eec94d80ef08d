package handler

import (
	"net/http"
	"strconv"

	"pos-service/internal/cache"
	"pos-service/internal/model"
	"pos-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CustomerRequest defines the structure for customer creation/update requests
type CustomerRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
}

// ListCustomers handles retrieving all customers through the offline-aware
// reader, with optional phone filtering.
func ListCustomers(c echo.Context) error {
	log := logger.FromContext(c)

	filters := cache.Filters{}
	if phone := c.QueryParam("phone"); phone != "" {
		filters["phone"] = phone
	}

	customers, fromRemote, err := reader.Customers(c.Request().Context(), filters)
	if err != nil {
		log.Warn("Customer list served from cache", zap.Error(err))
	}

	log.Info("Customers retrieved", zap.Int("count", len(customers)), zap.Bool("online", fromRemote))
	return listResponse(c, model.CollectionCustomers, customers, fromRemote, err)
}

// GetCustomer handles retrieving a single customer by ID
func GetCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}

	customer, err := dataStore.GetCustomer(c.Request().Context(), uint(id))
	if err != nil {
		log.Error("Customer not found", zap.Uint64("customer_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
	}

	return c.JSON(http.StatusOK, customer)
}

// CreateCustomer handles creating a new customer
func CreateCustomer(c echo.Context) error {
	log := logger.FromContext(c)

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	customer := model.Customer{
		Name:  req.Name,
		Phone: req.Phone,
	}
	if err := dataStore.CreateCustomer(c.Request().Context(), &customer); err != nil {
		log.Error("Failed to create customer", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create customer"})
	}

	log.Info("Customer created",
		zap.Uint("customer_id", customer.ID),
		zap.String("name", customer.Name))
	return c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer handles updating a customer's contact details. Balance and
// purchase accumulators are only moved by sales and debt payments, never here.
func UpdateCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint64("customer_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	customer, err := dataStore.GetCustomer(c.Request().Context(), uint(id))
	if err != nil {
		log.Error("Customer not found for update", zap.Uint64("customer_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
	}

	customer.Name = req.Name
	customer.Phone = req.Phone
	if err := dataStore.UpdateCustomer(c.Request().Context(), customer); err != nil {
		log.Error("Failed to update customer", zap.Uint64("customer_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update customer"})
	}

	log.Info("Customer updated", zap.Uint("customer_id", customer.ID))
	return c.JSON(http.StatusOK, customer)
}
