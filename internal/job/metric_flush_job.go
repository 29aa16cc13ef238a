package job

import (
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/logger"
	"Murmur/internal/pkg/redis"
	"Murmur/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// MetricFlushJob 把 Redis 里的日计数回刷到 MySQL daily_metrics
type MetricFlushJob struct {
	metricRepo repository.MetricRepo
}

func NewMetricFlushJob(metricRepo repository.MetricRepo) *MetricFlushJob {
	return &MetricFlushJob{metricRepo: metricRepo}
}

func (s *MetricFlushJob) Run() {
	traceID := "job-metric-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	// 先把 dirty 集合整体换名，避免和消费端互相踩
	processingKey := consts.StatsDirtyKey + ":processing"
	if err := redis.Rename(ctx, consts.StatsDirtyKey, processingKey); err != nil {
		return
	}

	members, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get stats dirty set error", "err", err)
		return
	}

	flushed := 0
	for _, member := range members {
		// member 形如 2006-01-02:message_sent
		parts := strings.SplitN(member, ":", 2)
		if len(parts) != 2 {
			_ = redis.SRem(ctx, processingKey, member)
			continue
		}
		day, metric := parts[0], parts[1]

		val, err := redis.GetDel(ctx, consts.StatsDailyKey+member)
		if err != nil {
			log.ErrorContext(ctx, "read daily counter error", "member", member, "err", err)
			continue
		}
		if val == "" {
			_ = redis.SRem(ctx, processingKey, member)
			continue
		}

		count, err := strconv.ParseInt(val, 10, 64)
		if err != nil || count == 0 {
			_ = redis.SRem(ctx, processingKey, member)
			continue
		}

		if err = s.metricRepo.UpsertDailyMetric(ctx, day, metric, count); err != nil {
			// 回刷失败把计数塞回去，等下一轮
			log.ErrorContext(ctx, "upsert daily metric error", "member", member, "err", err)
			_, _ = redis.IncrBy(ctx, consts.StatsDailyKey+member, count)
			_ = redis.SAdd(ctx, consts.StatsDirtyKey, member)
			continue
		}

		_ = redis.SRem(ctx, processingKey, member)
		flushed++
	}

	if flushed > 0 {
		log.InfoContext(ctx, "metric flush job finished", "flushed", flushed)
	}
	_ = redis.DeleteKey(ctx, processingKey)
}
