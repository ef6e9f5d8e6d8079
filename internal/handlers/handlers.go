package handlers

import (
	"ConnKeeper/internal/config"
	"ConnKeeper/internal/middleware"
	"ConnKeeper/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	catalogService *service.CatalogService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	// логирование снаружи: видит исходный Content-Encoding и сжатый размер ответа
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithAuth(config.AuthSecret))

	catalogHandler := NewCatalogHandler(catalogService, logger, config)

	r.Get("/api/status", catalogHandler.Status)
	r.Post("/api/decode", catalogHandler.Decode)

	// Catalog routes (auth)
	r.Post("/api/catalog/import", catalogHandler.Import)
	r.Get("/api/catalog", catalogHandler.List)
	r.Get("/api/catalog/{nodeID}", catalogHandler.Get)

	return &Handler{Router: r}
}
