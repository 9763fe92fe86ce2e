package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"notehub/internal/api/config"

	"github.com/minio/minio-go/v7"
)

// UploadFile 上传文件到MinIO
func UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}

	uploadInfo, err := Client.PutObject(ctx, MediaBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return uploadInfo.Key, nil
}

// DeleteFile 删除MinIO中的文件
func DeleteFile(ctx context.Context, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}

	err := Client.RemoveObject(ctx, MediaBucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// PresignedPutURL 生成上传用的预签名地址
func PresignedPutURL(ctx context.Context, objectName string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}
	expiry := presignExpiry()
	u, err := Client.PresignedPutObject(ctx, MediaBucket, objectName, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign put url: %w", err)
	}
	return u.String(), nil
}

// PresignedGetURL 生成下载用的预签名地址
func PresignedGetURL(ctx context.Context, objectName string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}
	expiry := presignExpiry()
	u, err := Client.PresignedGetObject(ctx, MediaBucket, objectName, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign get url: %w", err)
	}
	return u.String(), nil
}

// GetPublicURL 获取文件的公共访问URL
func GetPublicURL(objectName string) string {
	cfg := config.Cfg.MinIO
	return fmt.Sprintf("https://%s/%s/%s", cfg.ExternalEndpoint, MediaBucket, objectName)
}

func presignExpiry() time.Duration {
	expiry := config.Cfg.MinIO.PresignExpiry
	if expiry <= 0 {
		expiry = 900
	}
	return time.Duration(expiry) * time.Second
}
