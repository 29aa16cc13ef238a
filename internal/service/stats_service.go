package service

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/gateway"
	"Murmur/internal/repository"
	"context"
)

// StatsService 管理端统计查询
type StatsService interface {
	GetOverview(ctx context.Context, fromDay, toDay string) (*dto.StatsOverviewDTO, error)
	GetMetricSeries(ctx context.Context, metric, fromDay, toDay string) ([]*dto.DailyMetricDTO, error)
}

type statsServiceImpl struct {
	metricRepo repository.MetricRepo
	hub        *gateway.Hub
}

func NewStatsService(metricRepo repository.MetricRepo, hub *gateway.Hub) StatsService {
	return &statsServiceImpl{metricRepo: metricRepo, hub: hub}
}

func (s *statsServiceImpl) GetOverview(ctx context.Context, fromDay, toDay string) (*dto.StatsOverviewDTO, error) {
	metrics, err := s.metricRepo.GetDailyMetrics(ctx, fromDay, toDay)
	if err != nil {
		return nil, err
	}

	series := make([]*dto.DailyMetricDTO, 0, len(metrics))
	for _, m := range metrics {
		series = append(series, &dto.DailyMetricDTO{Day: m.Day, Metric: m.Metric, Value: m.Value})
	}

	return &dto.StatsOverviewDTO{
		OnlineUsers: s.hub.OnlineCount(),
		Series:      series,
	}, nil
}

func (s *statsServiceImpl) GetMetricSeries(ctx context.Context, metric, fromDay, toDay string) ([]*dto.DailyMetricDTO, error) {
	metrics, err := s.metricRepo.GetMetricSeries(ctx, metric, fromDay, toDay)
	if err != nil {
		return nil, err
	}

	series := make([]*dto.DailyMetricDTO, 0, len(metrics))
	for _, m := range metrics {
		series = append(series, &dto.DailyMetricDTO{Day: m.Day, Metric: m.Metric, Value: m.Value})
	}
	return series, nil
}
