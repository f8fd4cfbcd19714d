// Package objstore 封装 MinIO 对象存储客户端
//
// 当前只存放用户头像。头像以用户 ID 作为对象名，重复上传直接覆盖。
package objstore

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"raktkosh/internal/config"
)

// avatarPrefix 头像对象的 key 前缀
const avatarPrefix = "avatars/"

// Client MinIO 客户端封装
type Client struct {
	mc     *minio.Client
	bucket string
}

// NewClient 创建 MinIO 客户端
func NewClient(cfg config.MinIOConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio access_key and secret_key are required")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "raktkosh"
	}

	return &Client{mc: mc, bucket: bucket}, nil
}

// EnsureBucket 确保 bucket 存在
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := c.mc.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		log.Printf("[minio] Created bucket: %s", c.bucket)
	}
	return nil
}

// AvatarKey 返回用户头像的对象 key
func AvatarKey(userID string) string {
	return avatarPrefix + userID
}

// UploadAvatar 上传用户头像，同一用户再次上传覆盖旧对象
func (c *Client) UploadAvatar(ctx context.Context, userID string, reader io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := AvatarKey(userID)
	_, err := c.mc.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// DownloadAvatar 下载用户头像，返回内容和 Content-Type
// 调用方负责关闭返回的 ReadCloser
func (c *Client) DownloadAvatar(ctx context.Context, userID string) (io.ReadCloser, string, error) {
	key := AvatarKey(userID)
	obj, err := c.mc.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("download %s: %w", key, err)
	}
	// 验证对象存在（GetObject 不会立即返回错误）
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, "", fmt.Errorf("stat %s: %w", key, err)
	}
	return obj, info.ContentType, nil
}

// AvatarExists 检查用户头像是否存在
func (c *Client) AvatarExists(ctx context.Context, userID string) (bool, error) {
	_, err := c.mc.StatObject(ctx, c.bucket, AvatarKey(userID), minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteAvatar 删除用户头像
func (c *Client) DeleteAvatar(ctx context.Context, userID string) error {
	return c.mc.RemoveObject(ctx, c.bucket, AvatarKey(userID), minio.RemoveObjectOptions{})
}
