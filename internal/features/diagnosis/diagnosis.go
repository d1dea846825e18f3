package diagnosis

import (
	"github.com/aouiniamine/eyecheck/internal/features/diagnosis/controller"
	"github.com/aouiniamine/eyecheck/internal/features/diagnosis/service"
	"github.com/labstack/echo/v4"
)

// RootStatus is the fixed payload of the diagnosis GET /.
const RootStatus = "Backend is running"

type Feature struct {
	Controller *controller.DiagnosisController
	Service    service.DiagnosisService
}

func New(opts service.Options) *Feature {
	svc := service.New(opts)
	ctrl := controller.New(svc)

	return &Feature{
		Controller: ctrl,
		Service:    svc,
	}
}

func (f *Feature) RegisterRoutes(e *echo.Echo) {
	f.Controller.RegisterRoutes(e)
}
