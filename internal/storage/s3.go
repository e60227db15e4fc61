// Package storage provides remote template sources and the result cache.
package storage

import (
	"fmt"
	"io"

	"dice-reader/internal/dice"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Config identifies the bucket holding the face templates.
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Prefix          string
}

// S3Source reads templates stored as <Prefix>/<face>.png in a bucket.
type S3Source struct {
	client s3iface.S3API
	bucket string
	prefix string
}

var _ dice.TemplateSource = (*S3Source)(nil)

// NewS3Source opens a session with static credentials when they are given,
// falling back to the default AWS credential chain otherwise.
func NewS3Source(cfg S3Config) (*S3Source, error) {
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return NewS3SourceWithClient(s3.New(sess), cfg.Bucket, cfg.Prefix), nil
}

// NewS3SourceWithClient wraps an existing S3 client.
func NewS3SourceWithClient(client s3iface.S3API, bucket, prefix string) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

// Open fetches the template object for face.
func (s *S3Source) Open(face int) (io.ReadCloser, error) {
	key := dice.TemplatePath(s.prefix, face)
	out, err := s.client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", s.bucket, key, err)
	}
	return out.Body, nil
}
