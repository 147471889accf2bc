// Package media proxies uploaded asset bytes to an S3-compatible bucket and
// owns the object key layout. Nothing is stored locally; the bucket is the
// source of truth for images.
package media

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	awssession "github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// ErrKeyOutsidePrefix is returned when a delete targets a key outside the
// configured environment prefix.
var ErrKeyOutsidePrefix = errors.New("object key outside environment prefix")

// objectAPI is the subset of the S3 client the store uses.
type objectAPI interface {
	PutObjectWithContext(aws.Context, *s3.PutObjectInput, ...request.Option) (*s3.PutObjectOutput, error)
	DeleteObjectWithContext(aws.Context, *s3.DeleteObjectInput, ...request.Option) (*s3.DeleteObjectOutput, error)
}

// Store writes and deletes media objects in one bucket under one environment
// prefix, so staging and production can share a bucket without collisions.
type Store struct {
	api       objectAPI
	bucket    string
	envPrefix string
	baseURL   string
	now       func() time.Time
}

// NewStore creates a media Store on an AWS session. baseURL is the public
// root under which uploaded keys are reachable, without a trailing slash.
func NewStore(sess *awssession.Session, bucket, envPrefix, baseURL string) *Store {
	return &Store{
		api:       s3.New(sess),
		bucket:    bucket,
		envPrefix: envPrefix,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		now:       time.Now,
	}
}

// UploadPortfolioImage stores an image for a portfolio entry and returns the
// object key and public URL.
func (s *Store) UploadPortfolioImage(ctx aws.Context, slug, filename, contentType string, body io.ReadSeeker) (string, string, error) {
	key := PortfolioKey(s.envPrefix, slug, filename, s.now())
	return s.put(ctx, key, contentType, body)
}

// UploadPartnerAvatar stores a partner avatar and returns the object key and
// public URL.
func (s *Store) UploadPartnerAvatar(ctx aws.Context, partnerName, filename, contentType string, body io.ReadSeeker) (string, string, error) {
	key := PartnerAvatarKey(s.envPrefix, partnerName, filename, s.now())
	return s.put(ctx, key, contentType, body)
}

// Delete removes an object. Keys outside the environment prefix are rejected
// so one environment cannot delete another's assets.
func (s *Store) Delete(ctx aws.Context, key string) error {
	if !strings.HasPrefix(key, s.envPrefix+"/") {
		return fmt.Errorf("%q: %w", key, ErrKeyOutsidePrefix)
	}
	_, err := s.api.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// URL returns the public URL for a key.
func (s *Store) URL(key string) string {
	return s.baseURL + "/" + key
}

func (s *Store) put(ctx aws.Context, key, contentType string, body io.ReadSeeker) (string, string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.api.PutObjectWithContext(ctx, input); err != nil {
		return "", "", fmt.Errorf("put object: %w", err)
	}
	return key, s.URL(key), nil
}
