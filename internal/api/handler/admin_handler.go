package handler

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/pkg/response"
	"Murmur/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AdminHandler 管理端：封禁、举报处置、运营统计
type AdminHandler struct {
	userSvc   service.UserService
	reportSvc service.ReportService
	statsSvc  service.StatsService
}

func NewAdminHandler(userSvc service.UserService, reportSvc service.ReportService, statsSvc service.StatsService) *AdminHandler {
	return &AdminHandler{
		userSvc:   userSvc,
		reportSvc: reportSvc,
		statsSvc:  statsSvc,
	}
}

func (s *AdminHandler) BanUser(c *gin.Context) {
	targetId, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.userSvc.BanUser(c.Request.Context(), targetId); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AdminHandler) UnBanUser(c *gin.Context) {
	targetId, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.userSvc.UnBanUser(c.Request.Context(), targetId); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AdminHandler) ListReports(c *gin.Context) {
	// -1 表示不筛选状态
	status, err := strconv.ParseInt(c.DefaultQuery("status", "-1"), 10, 8)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	limit, offset := getPagination(c)

	list, err := s.reportSvc.ListReports(c.Request.Context(), int8(status), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *AdminHandler) HandleReport(c *gin.Context) {
	handlerId := c.GetUint64("user_id")
	reportId, err := strconv.ParseUint(c.Param("report_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.HandleReportReq
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err = s.reportSvc.HandleReport(c.Request.Context(), handlerId, reportId, req.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AdminHandler) GetStatsOverview(c *gin.Context) {
	var req dto.StatsQueryReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	overview, err := s.statsSvc.GetOverview(c.Request.Context(), req.From, req.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, overview)
}

func (s *AdminHandler) GetMetricSeries(c *gin.Context) {
	var req dto.StatsQueryReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}
	if req.Metric == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	series, err := s.statsSvc.GetMetricSeries(c.Request.Context(), req.Metric, req.From, req.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, series)
}
