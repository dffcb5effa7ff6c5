package handler

import (
	"github.com/labstack/echo/v4"

	"campusx/internal/usecase"
	"campusx/pkg/response"
)

type ReportHandler struct {
	reportUseCase *usecase.ReportUseCase
}

func NewReportHandler(reportUseCase *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{
		reportUseCase: reportUseCase,
	}
}

type createReportRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=listing user"`
	TargetID   string `json:"target_id" validate:"required"`
	Reason     string `json:"reason" validate:"required,min=3"`
}

func (h *ReportHandler) CreateReport(c echo.Context) error {
	var req createReportRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	report, err := h.reportUseCase.CreateReport(c.Request().Context(), userID, req.TargetType, req.TargetID, req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, report)
}
