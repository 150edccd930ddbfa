package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"docingest-backend/internal/shared/storage/blob"
	"docingest-backend/internal/shared/util"
)

// Store implements blob.Store on Amazon S3. The blob name maps directly to an
// object key under the configured prefix, so saving an existing name
// overwrites the prior object just like the local backend.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// New creates an S3-backed blob store.
func New(ctx context.Context, region, bucket, prefix string) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
	}, nil
}

// Save uploads the reader contents under the blob's name.
func (s *Store) Save(ctx context.Context, name string, r io.Reader) (int64, error) {
	sanitized, err := util.SanitizeFileName(name)
	if err != nil {
		return 0, fmt.Errorf("sanitize file name: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	objectKey := s.applyPrefix(sanitized)
	counter := &countingReader{r: r}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        counter,
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return 0, fmt.Errorf("s3 put object bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}

	return counter.n, nil
}

// Open downloads a stored blob for reading. A missing object maps to
// blob.ErrNotFound.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	sanitized, err := util.SanitizeFileName(name)
	if err != nil {
		return nil, fmt.Errorf("sanitize file name: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	objectKey := s.applyPrefix(sanitized)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("open blob %s: %w", sanitized, blob.ErrNotFound)
		}
		return nil, fmt.Errorf("s3 get object bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}
	return out.Body, nil
}

func (s *Store) applyPrefix(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

var _ blob.Store = (*Store)(nil)
