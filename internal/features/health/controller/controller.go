package controller

import (
	"net/http"

	"github.com/aouiniamine/eyecheck/internal/features/health/service"
	"github.com/aouiniamine/eyecheck/pkg/response"
	"github.com/labstack/echo/v4"
)

type HealthController struct {
	service service.HealthService
	root    interface{}
}

// New serves root unchanged on GET / and readiness on GET /ready.
func New(svc service.HealthService, root interface{}) *HealthController {
	return &HealthController{
		service: svc,
		root:    root,
	}
}

func (h *HealthController) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/ready", h.Ready)
}

// Root godoc
// @Summary Health check
// @Description Fixed status payload; independent of database and model state
// @Tags health
// @Produce json
// @Success 200 {object} object
// @Router / [get]
func (h *HealthController) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, h.root)
}

// Ready godoc
// @Summary Readiness check
// @Description Probes every dependency of the service
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=dto.ReadyResponse}
// @Failure 503 {object} response.Response{data=dto.ReadyResponse}
// @Router /ready [get]
func (h *HealthController) Ready(c echo.Context) error {
	status := h.service.Check(c.Request().Context())
	if status.Status != service.StatusHealthy {
		return response.ServiceUnavailable(c, status)
	}
	return response.Success(c, status)
}
