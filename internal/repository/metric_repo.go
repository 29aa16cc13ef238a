package repository

import (
	"Murmur/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MetricRepo interface {
	// UpsertDailyMetric 定时任务回刷 Redis 计数，同一天同一指标累加
	UpsertDailyMetric(ctx context.Context, day, metric string, value int64) error
	GetDailyMetrics(ctx context.Context, fromDay, toDay string) ([]*model.DailyMetric, error)
	GetMetricSeries(ctx context.Context, metric string, fromDay, toDay string) ([]*model.DailyMetric, error)
}

type MetricRepoImpl struct {
	db *gorm.DB
}

func NewMetricRepo(db *gorm.DB) MetricRepo {
	return &MetricRepoImpl{db: db}
}

func (s *MetricRepoImpl) UpsertDailyMetric(ctx context.Context, day, metric string, value int64) error {
	row := model.DailyMetric{Day: day, Metric: metric, Value: value}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day"}, {Name: "metric"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"value": gorm.Expr("daily_metrics.value + ?", value),
			}),
		}).
		Create(&row).Error
}

func (s *MetricRepoImpl) GetDailyMetrics(ctx context.Context, fromDay, toDay string) ([]*model.DailyMetric, error) {
	metrics := make([]*model.DailyMetric, 0)
	err := s.db.WithContext(ctx).
		Where("day >= ? AND day <= ?", fromDay, toDay).
		Order("day asc, metric asc").
		Find(&metrics).Error
	if err != nil {
		return nil, err
	}
	return metrics, nil
}

func (s *MetricRepoImpl) GetMetricSeries(ctx context.Context, metric string, fromDay, toDay string) ([]*model.DailyMetric, error) {
	metrics := make([]*model.DailyMetric, 0)
	err := s.db.WithContext(ctx).
		Where("metric = ? AND day >= ? AND day <= ?", metric, fromDay, toDay).
		Order("day asc").
		Find(&metrics).Error
	if err != nil {
		return nil, err
	}
	return metrics, nil
}
