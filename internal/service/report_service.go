package service

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/model"
	"Murmur/internal/repository"
	"context"
	"time"
)

// ReportService 举报受理与后台处置
type ReportService interface {
	CreateReport(ctx context.Context, reporterID uint64, req *dto.CreateReportReq) error
	ListReports(ctx context.Context, status int8, limit, offset int) (*dto.ReportListDTO, error)
	HandleReport(ctx context.Context, handlerID, reportID uint64, status int8) error
}

type reportServiceImpl struct {
	reportRepo repository.ReportRepo
	analytics  AnalyticsService
}

func NewReportService(reportRepo repository.ReportRepo, analytics AnalyticsService) ReportService {
	return &reportServiceImpl{reportRepo: reportRepo, analytics: analytics}
}

func (s *reportServiceImpl) CreateReport(ctx context.Context, reporterID uint64, req *dto.CreateReportReq) error {
	// 同一目标的未处理举报只收一次
	exists, err := s.reportRepo.HasPendingReport(ctx, reporterID, req.TargetType, req.TargetID)
	if err != nil {
		return err
	}
	if exists {
		return ErrReportDuplicate
	}

	report := &model.Report{
		ReporterID: reporterID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
	}
	if err = s.reportRepo.CreateReport(ctx, report); err != nil {
		return err
	}

	s.analytics.Track(ctx, EventReportCreated, reporterID, map[string]string{
		"target_type": req.TargetType,
	})
	return nil
}

func (s *reportServiceImpl) ListReports(ctx context.Context, status int8, limit, offset int) (*dto.ReportListDTO, error) {
	reports, total, err := s.reportRepo.ListReports(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.ReportDTO, 0, len(reports))
	for _, r := range reports {
		item := &dto.ReportDTO{
			ID:         r.ID,
			ReporterID: r.ReporterID,
			TargetType: r.TargetType,
			TargetID:   r.TargetID,
			Reason:     r.Reason,
			Status:     r.Status,
			HandledBy:  r.HandledBy,
			CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		}
		if r.HandledAt != nil {
			item.HandledAt = r.HandledAt.Format(time.RFC3339)
		}
		list = append(list, item)
	}

	return &dto.ReportListDTO{Total: total, List: list}, nil
}

// HandleReport 处置举报，只允许处理待处理状态的记录
func (s *reportServiceImpl) HandleReport(ctx context.Context, handlerID, reportID uint64, status int8) error {
	rows, err := s.reportRepo.HandleReport(ctx, reportID, status, handlerID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrReportNotFound
	}
	return nil
}
