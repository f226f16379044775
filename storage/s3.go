package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/kelseyhightower/envconfig"
)

type S3Config struct {
	Bucket   string `envconfig:"PARSER_S3_BUCKET" required:"true"`
	Region   string `envconfig:"PARSER_S3_REGION" default:"us-east-1"`
	Prefix   string `envconfig:"PARSER_S3_PREFIX" default:""`
	Endpoint string `envconfig:"PARSER_S3_ENDPOINT" default:""`
}

// S3Store keeps blobs as objects of one bucket.
type S3Store struct {
	bucket     string
	prefix     string
	uploader   s3manageriface.UploaderAPI
	downloader s3manageriface.DownloaderAPI
}

var _ Store = &S3Store{}

func NewS3Store() (*S3Store, error) {
	var cfg S3Config
	if err := envconfig.Process("", &cfg); err != nil {
		storeLogger.Err(err).Msg("Failed to get S3 variables from environment")
		return nil, err
	}
	awsCfg := aws.NewConfig().
		WithRegion(cfg.Region).
		WithMaxRetries(4)
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		storeLogger.Error().Err(err).Msg("Could not initialize S3 session")
		return nil, err
	}
	return NewS3StoreWith(cfg.Bucket, cfg.Prefix, s3manager.NewUploader(sess), s3manager.NewDownloader(sess)), nil
}

func NewS3StoreWith(bucket, prefix string, uploader s3manageriface.UploaderAPI, downloader s3manageriface.DownloaderAPI) *S3Store {
	return &S3Store{
		bucket:     bucket,
		prefix:     prefix,
		uploader:   uploader,
		downloader: downloader,
	}
}

func (s *S3Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	objectKey := s.objectKey(key)
	buf := aws.NewWriteAtBuffer([]byte{})
	size, err := s.downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound") {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, s.bucket, objectKey)
		}
		storeLogger.Error().Err(err).Str("bucket", s.bucket).Str("key", objectKey).Msg("Failed to download object")
		return nil, err
	}
	storeLogger.Debug().Str("key", objectKey).Int64("bytes", size).Msg("Downloaded object")
	return buf.Bytes(), nil
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte) error {
	objectKey := s.objectKey(key)
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		storeLogger.Error().Err(err).Str("bucket", s.bucket).Str("key", objectKey).Msg("Failed to upload object")
	}
	return err
}
