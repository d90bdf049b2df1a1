package sync

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client S3客户端实现
type S3Client struct {
	client *s3.Client
	config *Config
}

// NewS3Client 创建新的S3客户端
func NewS3Client(cfg *Config) (*S3Client, error) {
	// 创建AWS配置
	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// 创建S3客户端选项
	options := func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}

	client := s3.NewFromConfig(awsCfg, options)

	return &S3Client{
		client: client,
		config: cfg,
	}, nil
}

// Upload 上传数据到S3
func (c *S3Client) Upload(ctx context.Context, key string, data []byte) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.config.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})

	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

// Download 从S3下载数据
func (c *S3Client) Download(ctx context.Context, key string) ([]byte, error) {
	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.config.Bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to download from S3: %w", err)
	}

	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// GetVersion 获取文件版本信息
func (c *S3Client) GetVersion(ctx context.Context, key string) (string, time.Time, error) {
	result, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.config.Bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to get object metadata: %w", err)
	}

	timestamp := time.Time{}
	if result.LastModified != nil {
		timestamp = *result.LastModified
	}

	// 版本号直接使用LastModified的Unix时间戳
	version := fmt.Sprintf("%d", timestamp.Unix())

	return version, timestamp, nil
}

// TestConnection 测试S3连接
func (c *S3Client) TestConnection(ctx context.Context) error {
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.config.Bucket),
	})

	if err != nil {
		return fmt.Errorf("failed to connect to S3 bucket: %w", err)
	}

	return nil
}
