package controller

import (
	"net/http"

	"github.com/aouiniamine/eyecheck/internal/features/diagnosis/dto"
	"github.com/aouiniamine/eyecheck/internal/features/diagnosis/service"
	"github.com/aouiniamine/eyecheck/pkg/response"
	"github.com/labstack/echo/v4"
)

type DiagnosisController struct {
	service service.DiagnosisService
}

func New(svc service.DiagnosisService) *DiagnosisController {
	return &DiagnosisController{service: svc}
}

func (c *DiagnosisController) RegisterRoutes(e *echo.Echo) {
	e.POST("/predict", c.Predict)
}

// Predict godoc
// @Summary Diagnose both eyes
// @Description Classify a base64 image per eye (optionally data-URI prefixed). Each eye is labelled independently: Myopia, Normal, Unknown, Error, or Model Error when no model is loaded.
// @Tags diagnosis
// @Accept json
// @Produce json
// @Param request body dto.PredictRequest true "Eye images"
// @Success 200 {object} dto.PredictResponse
// @Failure 422 {object} response.Response
// @Router /predict [post]
func (c *DiagnosisController) Predict(ctx echo.Context) error {
	var req dto.PredictRequest
	if err := ctx.Bind(&req); err != nil {
		return response.UnprocessableEntity(ctx, "request body must be a JSON object with string fields left_eye and right_eye")
	}
	if req.LeftEye == nil {
		return response.UnprocessableEntity(ctx, "left_eye is required")
	}
	if req.RightEye == nil {
		return response.UnprocessableEntity(ctx, "right_eye is required")
	}

	result := c.service.Diagnose(ctx.Request().Context(), *req.LeftEye, *req.RightEye)
	return ctx.JSON(http.StatusOK, result)
}
