package transfer

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the transfer feature.
func NewFeature(store Store, resolver Resolver, local *LocalFallback, logger *zap.Logger, cfg Config, publicURL string) *Feature {
	svc := NewService(store, resolver, local, logger, cfg)
	h := NewHandler(svc, publicURL)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "transfer"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service exposes the underlying service for commands.
func (f *Feature) Service() *Service {
	return f.service
}
