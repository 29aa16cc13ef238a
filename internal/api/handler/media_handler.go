package handler

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/minio"
	"Murmur/internal/pkg/redis"
	"Murmur/internal/pkg/response"
	"Murmur/internal/pkg/util"
	"Murmur/internal/service"
	log "log/slog"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type MediaHandler struct{}

func NewMediaHandler() *MediaHandler {
	return &MediaHandler{}
}

// Upload 媒体先进临时桶，发布内容时再转正；
// 元数据进 Redis 哈希，给后续校验和清理任务用
func (s *MediaHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	isImage := strings.HasPrefix(contentType, consts.MimePrefixImage)
	isVideo := strings.HasPrefix(contentType, consts.MimePrefixVideo)
	isAudio := strings.HasPrefix(contentType, consts.MimePrefixAudio)
	if !isImage && !isVideo && !isAudio {
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	var width, height int
	if isImage {
		w, h, err := util.GetImageDimensions(reader)
		if err != nil {
			log.WarnContext(c.Request.Context(), "failed to decode image dimensions", "err", err)
		} else {
			width, height = w, h
		}
	}

	ext := path.Ext(file.Filename)
	objectName := time.Now().Format("2006/01/02/") + uuid.NewString() + ext

	fileKey, err := minio.UploadTempFile(c.Request.Context(), objectName, reader, file.Size, contentType)
	if err != nil {
		log.ErrorContext(c.Request.Context(), "MinIO upload failed", "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	// 图片同步生成缩略图，进临时桶一起等转正
	var thumbKey string
	if isImage {
		if _, err = reader.Seek(0, 0); err == nil {
			thumb, _, _, thumbErr := util.MakeThumbnail(reader, util.ThumbMaxSize)
			if thumbErr != nil {
				log.WarnContext(c.Request.Context(), "thumbnail generation failed", "fileKey", fileKey, "err", thumbErr)
			} else {
				thumbName := objectName + "_thumb.jpg"
				thumbKey, err = minio.UploadTempFile(c.Request.Context(), thumbName, thumb, int64(thumb.Len()), "image/jpeg")
				if err != nil {
					log.WarnContext(c.Request.Context(), "thumbnail upload failed", "fileKey", fileKey, "err", err)
					thumbKey = ""
				}
			}
		}
	}

	meta := dto.MediaTempMetadata{
		MimeType:  contentType,
		Width:     width,
		Height:    height,
		CreatedAt: time.Now().Unix(),
	}
	metaBytes, _ := json.Marshal(meta)
	_ = redis.HSet(c.Request.Context(), consts.MediaTempKey, fileKey, string(metaBytes))
	if thumbKey != "" {
		_ = redis.HSet(c.Request.Context(), consts.MediaTempKey, thumbKey, string(metaBytes))
	}

	log.InfoContext(c.Request.Context(), "media upload success and metadata cached", "fileKey", fileKey, "type", contentType)
	response.Success(c, &dto.MediaUploadDTO{
		URL:      fileKey,
		ThumbURL: thumbKey,
		MimeType: contentType,
		Width:    width,
		Height:   height,
	})
}
