package handler

import (
	"net/http"

	"pos-service/internal/cache"
	"pos-service/internal/checkout"
	"pos-service/internal/connectivity"
	"pos-service/internal/offline"
	"pos-service/internal/store"
	"pos-service/pkg/config"

	"github.com/labstack/echo/v4"
)

// Package-level collaborators, wired once at startup.
var (
	appConfig    *config.Config
	dataStore    *store.Store
	cacheStore   cache.Store
	reader       *offline.Reader
	orchestrator *checkout.Orchestrator
	syncer       *offline.Syncer
	monitor      *connectivity.Monitor
)

// Deps carries everything the handlers need.
type Deps struct {
	Config       *config.Config
	Store        *store.Store
	Cache        cache.Store
	Reader       *offline.Reader
	Orchestrator *checkout.Orchestrator
	Syncer       *offline.Syncer
	Monitor      *connectivity.Monitor
}

// Health reports service liveness.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "ok",
		"service": appConfig.ServiceName,
	})
}

// Init wires the handler package. Must be called before registering routes.
func Init(d Deps) {
	appConfig = d.Config
	dataStore = d.Store
	cacheStore = d.Cache
	reader = d.Reader
	orchestrator = d.Orchestrator
	syncer = d.Syncer
	monitor = d.Monitor
}
