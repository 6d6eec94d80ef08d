package handler

import (
	"net/http"
	"strconv"

	"pos-service/internal/cache"
	"pos-service/internal/model"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name         string  `json:"name" validate:"required"`
	Category     string  `json:"category"`
	SellingPrice float64 `json:"selling_price" validate:"required,gt=0"`
	CostPrice    float64 `json:"cost_price"`
	CurrentStock *int    `json:"current_stock"`
}

// listResponse is the envelope for offline-aware list endpoints: the data,
// whether it came from the remote store, and the remote error when the
// response was served stale from cache.
func listResponse(c echo.Context, collection model.Collection, data any, fromRemote bool, err error) error {
	source := "remote"
	if !fromRemote {
		source = "cache"
	}
	prometheus.RecordCacheRead(collection.String(), source)

	resp := echo.Map{"data": data, "online": fromRemote}
	if err != nil {
		resp["error"] = "remote store unavailable, serving cached data"
	}
	return c.JSON(http.StatusOK, resp)
}

// ListProducts handles retrieving all products with optional filtering.
// Served through the offline-aware reader: cached data when disconnected,
// remote data (refreshing the cache) when online.
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	filters := cache.Filters{}
	if category := c.QueryParam("category"); category != "" {
		filters["category"] = category
		log.Info("Filtering products by category", zap.String("category", category))
	}

	products, fromRemote, err := reader.Products(c.Request().Context(), filters)
	if err != nil {
		log.Warn("Product list served from cache", zap.Error(err))
	}

	log.Info("Products retrieved", zap.Int("count", len(products)), zap.Bool("online", fromRemote))
	return listResponse(c, model.CollectionProducts, products, fromRemote, err)
}

// GetProduct handles retrieving a single product by ID
func GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	product, err := dataStore.GetProduct(c.Request().Context(), uint(id))
	if err != nil {
		log.Error("Product not found", zap.Uint64("product_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" || req.SellingPrice <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and a positive selling_price are required"})
	}

	stock := model.StockUnknown
	if req.CurrentStock != nil {
		stock = *req.CurrentStock
	}
	product := model.Product{
		Name:         req.Name,
		Category:     req.Category,
		SellingPrice: req.SellingPrice,
		CostPrice:    req.CostPrice,
		CurrentStock: stock,
	}

	if err := dataStore.CreateProduct(c.Request().Context(), &product); err != nil {
		log.Error("Failed to create product", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create product"})
	}

	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint64("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	product, err := dataStore.GetProduct(c.Request().Context(), uint(id))
	if err != nil {
		log.Error("Product not found for update", zap.Uint64("product_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	product.Name = req.Name
	product.Category = req.Category
	product.SellingPrice = req.SellingPrice
	product.CostPrice = req.CostPrice
	if req.CurrentStock != nil {
		product.CurrentStock = *req.CurrentStock
	}

	if err := dataStore.UpdateProduct(c.Request().Context(), product); err != nil {
		log.Error("Failed to update product", zap.Uint64("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}

	log.Info("Product updated",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles deleting a product (soft delete)
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	rows, err := dataStore.DeleteProduct(c.Request().Context(), uint(id))
	if err != nil {
		log.Error("Failed to delete product", zap.Uint64("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}
	if rows == 0 {
		log.Warn("Product not found for deletion", zap.Uint64("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	log.Info("Product deleted", zap.Uint64("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}
