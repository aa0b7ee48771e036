package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Options struct {
	Bucket   string
	Region   string
	Endpoint string // empty for AWS, set for MinIO and friends
	Key      string
	Secret   string
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Storage struct {
	client objectPutter
	bucket string
	urlFmt string
}

func NewS3Storage(ctx context.Context, opts S3Options) (PictureStorage, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3 bucket is not set")
	}
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.Key, opts.Secret, "")),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Storage(client, opts), nil
}

func newS3Storage(client objectPutter, opts S3Options) *s3Storage {
	urlFmt := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%%s", opts.Bucket, opts.Region)
	if opts.Endpoint != "" {
		urlFmt = strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket + "/%s"
	}
	return &s3Storage{client: client, bucket: opts.Bucket, urlFmt: urlFmt}
}

func (s *s3Storage) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := "pictures/" + name
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return fmt.Sprintf(s.urlFmt, key), nil
}
