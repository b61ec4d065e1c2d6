// Package blobstore issues presigned S3 URLs for message attachments. The
// server never proxies attachment bytes; clients upload and download the
// already encrypted blob directly against the bucket.
package blobstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// PresignExpiry is how long an issued URL stays valid.
const PresignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Presigner is what the message service needs from object storage.
type Presigner interface {
	PresignPut(ctx context.Context, key string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

type S3Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
}

type S3Presigner struct {
	cfg S3Config
}

func NewS3Presigner(cfg S3Config) *S3Presigner {
	return &S3Presigner{cfg: cfg}
}

// NewStorageKey returns a fresh object key partitioned by date.
func NewStorageKey(t time.Time) string {
	return fmt.Sprintf("messages/%04d/%02d/%02d/%v", t.Year(), t.Month(), t.Day(), uuid.New())
}

func (p *S3Presigner) client(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(p.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.cfg.AccessKey,
			p.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if p.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(p.cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3PresignClient(client), nil
}

func (p *S3Presigner) PresignPut(ctx context.Context, key string) (string, error) {
	pc, err := p.client(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (p *S3Presigner) PresignGet(ctx context.Context, key string) (string, error) {
	pc, err := p.client(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
