package handler

import (
	"github.com/labstack/echo/v4"

	"campusx/internal/usecase"
	"campusx/pkg/response"
)

type AdminHandler struct {
	reportUseCase *usecase.ReportUseCase
}

func NewAdminHandler(reportUseCase *usecase.ReportUseCase) *AdminHandler {
	return &AdminHandler{
		reportUseCase: reportUseCase,
	}
}

type handleReportRequest struct {
	Action string `json:"action" validate:"required,oneof=resolve dismiss removeListing suspendUser"`
}

func (h *AdminHandler) ListReports(c echo.Context) error {
	reports, err := h.reportUseCase.ListReports(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, reports)
}

func (h *AdminHandler) HandleReport(c echo.Context) error {
	var req handleReportRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	report, err := h.reportUseCase.HandleReport(c.Request().Context(), c.Param("id"), req.Action)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, report)
}
