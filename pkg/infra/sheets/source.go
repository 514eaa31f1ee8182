package sheets

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// WorkbookSource 工作簿来源
type WorkbookSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}

// FileSource 本地 xlsx 文件
type FileSource struct {
	Path string
}

// NewFileSource 创建本地文件来源
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Open 打开文件
func (s *FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.Path, err)
	}
	return f, nil
}

// Name 来源描述
func (s *FileSource) Name() string {
	return "file://" + s.Path
}

// S3GetObjectAPI S3 GetObject 能力（便于测试替换）
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source S3 上的 xlsx 对象
type S3Source struct {
	client S3GetObjectAPI
	bucket string
	key    string
}

// NewS3Source 使用默认凭证链创建 S3 来源，profile 为空时使用默认 profile
func NewS3Source(ctx context.Context, region, profile, bucket, key string) (*S3Source, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for rate workbook: %w", err)
	}
	return NewS3SourceWithClient(s3.NewFromConfig(cfg), bucket, key), nil
}

// NewS3SourceWithClient 使用已有客户端创建 S3 来源
func NewS3SourceWithClient(client S3GetObjectAPI, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

// Open 下载对象
func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("S3 GetObject %s/%s: %w", s.bucket, s.key, err)
	}
	return resp.Body, nil
}

// Name 来源描述
func (s *S3Source) Name() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}
