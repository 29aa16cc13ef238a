package handler

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/pkg/response"
	"Murmur/internal/pkg/util"
	"Murmur/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportSvc service.ReportService
}

func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

func (s *ReportHandler) Create(c *gin.Context) {
	userId := c.GetUint64("user_id")

	var req dto.CreateReportReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.reportSvc.CreateReport(c.Request.Context(), userId, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
