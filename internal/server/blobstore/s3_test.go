package blobstore

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() S3Config {
	return S3Config{
		Region:       "us-east-1",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		BaseEndpoint: "http://127.0.0.1:9000",
		Bucket:       "gophchat",
	}
}

// stubClient replaces the AWS constructors and restores them on cleanup.
func stubClient(t *testing.T) *string {
	t.Helper()
	origLoad, origNew, origPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient = origLoad, origNew, origPre
		presignPutObject, presignGetObject = origPut, origGet
	})

	var endpoint string
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint != nil {
			endpoint = *opts.BaseEndpoint
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
	return &endpoint
}

func TestPresignPut(t *testing.T) {
	endpoint := stubClient(t)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "gophchat", *in.Bucket)
		assert.Equal(t, "messages/k", *in.Key)
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, PresignExpiry, po.Expires)
		return &v4.PresignedHTTPRequest{URL: "https://put"}, nil
	}

	url, err := NewS3Presigner(testConfig()).PresignPut(context.Background(), "messages/k")
	require.NoError(t, err)
	assert.Equal(t, "https://put", url)
	assert.Equal(t, "http://127.0.0.1:9000", *endpoint)
}

func TestPresignGet_Error(t *testing.T) {
	stubClient(t)

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("sign failed")
	}

	_, err := NewS3Presigner(testConfig()).PresignGet(context.Background(), "k")
	assert.EqualError(t, err, "sign failed")
}

func TestPresign_ConfigError(t *testing.T) {
	stubClient(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Presigner(testConfig()).PresignPut(context.Background(), "k")
	assert.EqualError(t, err, "no config")
}

func TestNewStorageKey(t *testing.T) {
	key := NewStorageKey(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^messages/2026/03/09/[0-9a-f-]{36}$`), key)
}
