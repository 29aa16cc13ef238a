package repository

import (
	"Murmur/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ReportRepo interface {
	CreateReport(ctx context.Context, report *model.Report) error
	GetReportById(ctx context.Context, id uint64) (*model.Report, error)
	// ListReports status 为 -1 表示不过滤
	ListReports(ctx context.Context, status int8, limit, offset int) ([]*model.Report, int64, error)
	HandleReport(ctx context.Context, id uint64, status int8, handlerID uint64) (int64, error)
	// HasPendingReport 同一举报人对同一目标的待处理举报去重
	HasPendingReport(ctx context.Context, reporterID uint64, targetType, targetID string) (bool, error)
}

type ReportRepoImpl struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepo {
	return &ReportRepoImpl{db: db}
}

func (s *ReportRepoImpl) CreateReport(ctx context.Context, report *model.Report) error {
	return s.db.WithContext(ctx).Create(report).Error
}

func (s *ReportRepoImpl) GetReportById(ctx context.Context, id uint64) (*model.Report, error) {
	report := &model.Report{}
	result := s.db.WithContext(ctx).First(report, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return report, nil
}

func (s *ReportRepoImpl) ListReports(ctx context.Context, status int8, limit, offset int) ([]*model.Report, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Report{})
	if status >= 0 {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	reports := make([]*model.Report, 0)
	err := query.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// HandleReport 只允许处理待处理状态的举报
func (s *ReportRepoImpl) HandleReport(ctx context.Context, id uint64, status int8, handlerID uint64) (int64, error) {
	now := time.Now()
	result := s.db.WithContext(ctx).Model(&model.Report{}).
		Where("id = ? AND status = 0", id).
		Updates(map[string]interface{}{
			"status":     status,
			"handled_by": handlerID,
			"handled_at": now,
		})
	return result.RowsAffected, result.Error
}

func (s *ReportRepoImpl) HasPendingReport(ctx context.Context, reporterID uint64, targetType, targetID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Report{}).
		Where("reporter_id = ? AND target_type = ? AND target_id = ? AND status = 0",
			reporterID, targetType, targetID).
		Count(&count).Error
	return count > 0, err
}
