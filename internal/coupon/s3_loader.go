package coupon

import (
	"context"
	"fmt"
	"strings"

	appconfig "mediplus/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// bucketLoader reads catalog objects from one S3 bucket.
type bucketLoader struct {
	objects objectGetter
	bucket  string
	logger  zerolog.Logger
}

// NewS3Loader builds a Loader over cfg.Bucket using the default AWS credential chain.
// A non-empty cfg.Endpoint switches to path-style addressing against that endpoint.
func NewS3Loader(ctx context.Context, cfg appconfig.S3Config, logger zerolog.Logger) (Loader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger = logger.With().
		Str("component", "s3-coupon-loader").
		Str("bucket", cfg.Bucket).
		Logger()
	logger.Info().
		Str("region", cfg.Region).
		Str("endpoint", cfg.Endpoint).
		Msg("coupon bucket configured")

	return newBucketLoader(client, cfg.Bucket, logger), nil
}

func newBucketLoader(objects objectGetter, bucket string, logger zerolog.Logger) *bucketLoader {
	return &bucketLoader{objects: objects, bucket: bucket, logger: logger}
}

// Load fetches and decodes the object stored under key.
func (l *bucketLoader) Load(ctx context.Context, key string) (Catalog, error) {
	out, err := l.objects.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch s3://%s/%s: %w", l.bucket, key, err)
	}
	defer out.Body.Close()

	catalog, err := decodeCatalog(ctx, out.Body, key)
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("key", key).
		Int("coupons", catalog.Size()).
		Msg("coupon catalog fetched")
	return catalog, nil
}

// remoteFirstLoader prefers the bucket copy of a catalog and falls back to disk.
type remoteFirstLoader struct {
	remote Loader
	local  Loader
	prefix string
	logger zerolog.Logger
}

// NewFallbackLoader returns a Loader that asks remote for prefix+name and
// reads name from local when remote is nil, disabled or failing.
func NewFallbackLoader(remote, local Loader, prefix string, remoteEnabled bool, logger zerolog.Logger) Loader {
	if !remoteEnabled {
		remote = nil
	}
	return &remoteFirstLoader{
		remote: remote,
		local:  local,
		prefix: prefix,
		logger: logger.With().Str("component", "coupon-source").Logger(),
	}
}

func (l *remoteFirstLoader) Load(ctx context.Context, name string) (Catalog, error) {
	if l.remote != nil {
		key := objectKey(l.prefix, name)
		catalog, err := l.remote.Load(ctx, key)
		if err == nil {
			return catalog, nil
		}
		l.logger.Warn().Err(err).Str("key", key).Msg("remote coupon catalog unavailable, reading local copy")
	}
	return l.local.Load(ctx, name)
}

// objectKey joins prefix and name with exactly one slash.
func objectKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(name, "/")
}
