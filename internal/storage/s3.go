package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API はS3Storageが必要とするS3クライアント操作の部分集合。
// テストでのモック差し替えのために定義する。
type s3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
}

// S3Storage はS3互換オブジェクトストレージのStorage実装。
type S3Storage struct {
	client s3API
	bucket string
}

// S3Config はS3バックエンドの接続設定。
// 静的クレデンシャルは両方指定するか、両方省略して
// AWSデフォルトのクレデンシャルチェーンに任せるかのいずれかとする。
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string // S3互換ストア（MinIO等）向けのカスタムエンドポイント
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// NewS3 はS3Storageを生成する。
func NewS3(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket name is not configured")
	}
	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		return nil, fmt.Errorf("incomplete s3 static credentials: set both S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY, or neither")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// カスタムエンドポイントはバーチャルホスト形式に対応しないことが多い
			o.UsePathStyle = true
		}
	})

	return &S3Storage{client: client, bucket: cfg.Bucket}, nil
}

// newS3WithClient はクライアントを注入してS3Storageを生成する。テスト用。
func newS3WithClient(client s3API, bucket string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket}
}

// ListDirectories はprefix直下の共通プレフィックス（ディレクトリ）名を返す。
func (s *S3Storage) ListDirectories(ctx context.Context, prefix string) ([]string, error) {
	prefix = ensureTrailingSlash(prefix)

	var dirs []string
	var continuation *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			Delimiter:         aws.String("/"),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list directories under %q: %w", prefix, err)
		}

		for _, cp := range out.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), "/")
			if name != "" {
				dirs = append(dirs, name)
			}
		}

		if !aws.ToBool(out.IsTruncated) {
			break
		}
		continuation = out.NextContinuationToken
	}

	return dirs, nil
}

// ListFiles はディレクトリ直下のオブジェクト一覧を返す。
// ディレクトリプレースホルダー（キーがプレフィックスと一致するオブジェクト）は除外する。
func (s *S3Storage) ListFiles(ctx context.Context, dir string) ([]File, error) {
	prefix := ensureTrailingSlash(dir)

	var files []File
	var continuation *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			Delimiter:         aws.String("/"),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list files under %q: %w", prefix, err)
		}

		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			name := strings.TrimPrefix(key, prefix)
			if name == "" {
				continue
			}
			files = append(files, File{
				Name:      name,
				CreatedAt: aws.ToTime(obj.LastModified),
				Size:      aws.ToInt64(obj.Size),
			})
		}

		if !aws.ToBool(out.IsTruncated) {
			break
		}
		continuation = out.NextContinuationToken
	}

	return files, nil
}

// CopyFile はバケット内でオブジェクトをコピーする。
func (s *S3Storage) CopyFile(ctx context.Context, src, dst string) error {
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(s.bucket + "/" + src),
		Key:        aws.String(dst),
	})
	if err != nil {
		return fmt.Errorf("failed to copy %q to %q: %w", src, dst, err)
	}
	return nil
}

func ensureTrailingSlash(p string) string {
	if p == "" || strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

// compile-time interface check
var _ Storage = (*S3Storage)(nil)
