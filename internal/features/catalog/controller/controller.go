package controller

import (
	"net/http"

	"github.com/aouiniamine/eyecheck/internal/features/catalog/service"
	"github.com/aouiniamine/eyecheck/pkg/logger"
	"github.com/aouiniamine/eyecheck/pkg/metrics"
	"github.com/aouiniamine/eyecheck/pkg/response"
	"github.com/labstack/echo/v4"
)

type CatalogController struct {
	service service.CatalogService
	log     logger.Logger
	metrics *metrics.Manager
}

func New(svc service.CatalogService, log logger.Logger, m *metrics.Manager) *CatalogController {
	return &CatalogController{
		service: svc,
		log:     log,
		metrics: m,
	}
}

func (c *CatalogController) RegisterRoutes(e *echo.Echo) {
	e.GET("/items", c.List)
}

// List godoc
// @Summary List items
// @Description Return every document in the items collection with _id as a string
// @Tags items
// @Produce json
// @Success 200 {array} dto.Document
// @Failure 500 {object} response.Response
// @Router /items [get]
func (c *CatalogController) List(ctx echo.Context) error {
	items, err := c.service.List(ctx.Request().Context())
	if err != nil {
		c.log.Error(ctx.Request().Context(), "failed to list items", logger.Error(err))
		if c.metrics != nil {
			c.metrics.RecordCatalogError()
		}
		return response.InternalError(ctx, "failed to list items")
	}

	if c.metrics != nil {
		c.metrics.RecordDocumentsServed(len(items))
	}
	return ctx.JSON(http.StatusOK, items)
}
