package health

import (
	"github.com/aouiniamine/eyecheck/internal/features/health/controller"
	"github.com/aouiniamine/eyecheck/internal/features/health/service"
	"github.com/labstack/echo/v4"
)

type Feature struct {
	Controller *controller.HealthController
	Service    service.HealthService
}

func New(root interface{}, checks ...service.Check) *Feature {
	svc := service.New(checks...)
	ctrl := controller.New(svc, root)

	return &Feature{
		Controller: ctrl,
		Service:    svc,
	}
}

func (f *Feature) RegisterRoutes(e *echo.Echo) {
	f.Controller.RegisterRoutes(e)
}
