package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/utils"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Config struct {
	URL       string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
}

// SupabaseStorage talks to Supabase Storage through its S3 compatible endpoint.
type SupabaseStorage struct {
	client     *s3.Client
	bucket     string
	publicBase string
	cb         *gobreaker.CircuitBreaker
	tracer     trace.Tracer
	logger     *zap.Logger
}

func NewSupabaseStorage(ctx context.Context, cfg Config, logger *zap.Logger) (*SupabaseStorage, error) {
	if cfg.URL == "" {
		return nil, errors.New("supabase url is required")
	}

	base := strings.TrimRight(cfg.URL, "/")

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(base + "/storage/v1/s3")
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	return &SupabaseStorage{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: base + "/storage/v1/object/public/" + cfg.Bucket + "/",
		cb:         utils.NewBreaker("SupabaseStorage", logger),
		tracer:     otel.Tracer("storage/supabase"),
		logger:     logger,
	}, nil
}

func (s *SupabaseStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	ctx, span := s.tracer.Start(ctx, "SupabaseStorage.Upload")
	defer span.End()

	span.SetAttributes(
		attribute.String("storage.bucket", s.bucket),
		attribute.String("storage.key", key),
		attribute.Int64("storage.size", size),
	)

	_, err := utils.ExecuteWithBreaker(s.cb, func() (*s3.PutObjectOutput, error) {
		return s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(key),
			Body:          body,
			ContentLength: aws.Int64(size),
			ContentType:   aws.String(contentType),
			CacheControl:  aws.String("max-age=3600"),
		})
	})
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Failed to upload object",
			zap.String("key", key),
			zap.Error(err),
		)

		return fmt.Errorf("upload %s: %w", key, err)
	}

	mylogger.Debug(ctx, s.logger, "Object uploaded", zap.String("key", key))
	return nil
}

func (s *SupabaseStorage) Delete(ctx context.Context, key string) error {
	ctx, span := s.tracer.Start(ctx, "SupabaseStorage.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("storage.key", key))

	_, err := utils.ExecuteWithBreaker(s.cb, func() (*s3.DeleteObjectOutput, error) {
		return s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}

// PublicURL escapes every key segment, so filenames with spaces, '#' or '?'
// still address their object.
func (s *SupabaseStorage) PublicURL(key string) string {
	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return s.publicBase + strings.Join(segments, "/")
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *SupabaseStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *s3types.NotFound
	if !errors.As(err, &notFound) {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}

	if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		var owned *s3types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}

	mylogger.Info(ctx, s.logger, "Storage bucket created", zap.String("bucket", s.bucket))
	return nil
}
