package job

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/minio"
	"Murmur/internal/pkg/redis"
	"context"
	"encoding/json"
	log "log/slog"
	"time"
)

// MediaCleanupJob 清理超过 24 小时未被引用的临时媒体
type MediaCleanupJob struct{}

func NewMediaCleanupJob() *MediaCleanupJob {
	return &MediaCleanupJob{}
}

func (s *MediaCleanupJob) Run() {
	ctx := context.Background()
	log.Info("start media cleanup job")

	allMedia, err := redis.HGetAll(ctx, consts.MediaTempKey)
	if err != nil {
		log.Error("failed to get media temp hash", "err", err)
		return
	}

	now := time.Now().Unix()
	expiration := int64(24 * 60 * 60)
	count := 0

	for fileKey, val := range allMedia {
		var meta dto.MediaTempMetadata
		if err := json.Unmarshal([]byte(val), &meta); err != nil {
			log.Warn("invalid media meta format", "fileKey", fileKey)
			continue
		}

		if now-meta.CreatedAt > expiration {
			// 临时桶本身挂了生命周期规则，这里只负责补删和清索引
			if err = minio.DeleteTempFile(ctx, fileKey); err != nil {
				log.Error("failed to delete expired temp file", "fileKey", fileKey, "err", err)
				continue
			}

			if err = redis.HDel(ctx, consts.MediaTempKey, fileKey); err != nil {
				log.Error("failed to remove media token from redis", "fileKey", fileKey, "err", err)
			}

			count++
		}
	}

	if count > 0 {
		log.Info("media cleanup job finished", "cleaned_count", count)
	}
}
