package catalog

import (
	"github.com/aouiniamine/eyecheck/internal/features/catalog/controller"
	"github.com/aouiniamine/eyecheck/internal/features/catalog/repository"
	"github.com/aouiniamine/eyecheck/internal/features/catalog/service"
	"github.com/aouiniamine/eyecheck/pkg/logger"
	"github.com/aouiniamine/eyecheck/pkg/metrics"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
)

// RootMessage is the fixed payload of the catalog's GET /.
const RootMessage = "Hello from the FARM Stack!"

type Feature struct {
	Controller *controller.CatalogController
	Service    service.CatalogService
	Repository repository.ItemRepository
}

func New(collection *mongo.Collection, log logger.Logger, m *metrics.Manager) *Feature {
	repo := repository.New(collection)
	svc := service.New(repo)
	ctrl := controller.New(svc, log.Named("catalog"), m)

	return &Feature{
		Controller: ctrl,
		Service:    svc,
		Repository: repo,
	}
}

func (f *Feature) RegisterRoutes(e *echo.Echo) {
	f.Controller.RegisterRoutes(e)
}
