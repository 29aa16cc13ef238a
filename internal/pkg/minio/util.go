package minio

import (
	"Murmur/internal/api/config"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
)

// UploadFile 上传文件到主桶
func UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	return uploadTo(ctx, MainBucket, objectName, reader, size, contentType)
}

// UploadTempFile 上传文件到临时桶，未晋升的对象由生命周期策略清理
func UploadTempFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	return uploadTo(ctx, TempBucket, objectName, reader, size, contentType)
}

func uploadTo(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}

	uploadInfo, err := Client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return uploadInfo.Key, nil
}

// PromoteTempObject 将临时对象复制到主桶，正式引用后调用
func PromoteTempObject(ctx context.Context, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}

	_, err := Client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: MainBucket, Object: objectName},
		minio.CopySrcOptions{Bucket: TempBucket, Object: objectName},
	)
	if err != nil {
		return fmt.Errorf("failed to promote temp object: %w", err)
	}
	return nil
}

// StatTempFile 检查临时对象是否存在
func StatTempFile(ctx context.Context, objectName string) (bool, error) {
	if Client == nil {
		return false, fmt.Errorf("minio client is not initialized")
	}
	_, err := Client.StatObject(ctx, TempBucket, objectName, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteFile 删除主桶中的文件
func DeleteFile(ctx context.Context, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}

	err := Client.RemoveObject(ctx, MainBucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// DeleteTempFile 删除临时桶中的文件
func DeleteTempFile(ctx context.Context, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}

	err := Client.RemoveObject(ctx, TempBucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete temp file: %w", err)
	}

	return nil
}

// GetPublicURL 获取文件的公共访问URL
func GetPublicURL(objectName string) string {
	if objectName == "" {
		return ""
	}
	cfg := config.Cfg.MinIO

	protocol := "http"
	if cfg.UsePublicLink {
		protocol = "https"
	}

	return fmt.Sprintf("%s://%s/%s/%s", protocol, cfg.ExternalEndpoint, MainBucket, objectName)
}

// GetPresignedURL 私有对象的限时访问链接
func GetPresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}
	u, err := Client.PresignedGetObject(ctx, MainBucket, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
