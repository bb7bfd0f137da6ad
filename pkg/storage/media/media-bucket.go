package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

// objectAPI is the subset of the S3 client used by Bucket.
type objectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// BucketConfig describes an S3 compatible bucket, such as MinIO or AWS itself.
type BucketConfig struct {
	Name      string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Bucket keeps media files as objects in an S3 compatible bucket.
type Bucket struct {
	client objectAPI
	name   string
	prefix string
	logger logrus.FieldLogger
}

var (
	loadAWSConfig = awsconfig.LoadDefaultConfig
	newS3Client   = s3.NewFromConfig
)

func NewBucket(ctx context.Context, logger logrus.FieldLogger, cfg BucketConfig) (*Bucket, error) {
	if cfg.Name == "" {
		return nil, errors.New("bucket name is required")
	}
	logger.WithField("bucket", cfg.Name).Info("initialising media bucket")

	var options = []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	// fall back on the default credentials chain when no static keys are given
	if cfg.AccessKey != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := loadAWSConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}

	client := newS3Client(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Bucket{client: client, name: cfg.Name, prefix: cfg.Prefix, logger: logger}, nil
}

func (b *Bucket) key(name string) string {
	if b.prefix == "" {
		return name
	}
	return b.prefix + "/" + name
}

func (b *Bucket) Exists(ctx context.Context, name string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(b.key(name)),
	})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, fmt.Errorf("checking object %q: %w", b.key(name), err)
}

func (b *Bucket) Put(ctx context.Context, name string, content []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.name),
		Key:           aws.String(b.key(name)),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String(contentType(name)),
	})
	if err != nil {
		return fmt.Errorf("uploading object %q: %w", b.key(name), err)
	}
	b.logger.WithField("key", b.key(name)).Debug("media object uploaded")
	return nil
}
