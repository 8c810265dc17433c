package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"analysis-backend/internal/shared/storage/object"
	"analysis-backend/internal/shared/util"
)

// api is the part of *s3.Client the store uses.
type api interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Config selects the bucket. Endpoint points at an S3-compatible server
// (MinIO, LocalStack) and switches to path-style addressing.
type Config struct {
	Region   string
	Bucket   string
	Prefix   string
	KMSKeyID string
	Endpoint string
}

// Store keeps uploads in an S3 bucket.
type Store struct {
	client   api
	bucket   string
	prefix   string
	kmsKeyID string
}

// New loads AWS credentials from the default chain and builds a store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return newStore(client, cfg), nil
}

func newStore(client api, cfg Config) *Store {
	return &Store{
		client:   client,
		bucket:   cfg.Bucket,
		prefix:   strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
		kmsKeyID: strings.TrimSpace(cfg.KMSKeyID),
	}
}

// Save uploads r. The body is buffered so the SDK gets a seekable payload
// with a known length; upload size is already capped by the HTTP layer.
func (s *Store) Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (object.Saved, error) {
	key, err := object.NewKey(ownerID, fileName)
	if err != nil {
		return object.Saved{}, err
	}

	mimeType, body, err := object.Sniff(r)
	if err != nil {
		return object.Saved{}, err
	}
	hr := util.NewHashingReader(body)
	data, err := io.ReadAll(hr)
	if err != nil {
		return object.Saved{}, fmt.Errorf("read body: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return object.Saved{}, err
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.objectKey(key)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(mimeType),
		Metadata:      map[string]string{"sha256": hr.Sum()},
	}
	s.applyEncryption(input)

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return object.Saved{}, fmt.Errorf("s3 put %s: %w", aws.ToString(input.Key), err)
	}
	return object.Saved{
		Key:       key,
		SizeBytes: hr.N(),
		MimeType:  mimeType,
		Checksum:  hr.Sum(),
	}, nil
}

// Open streams a stored object.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(storageKey)),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, object.ErrNotFound
		}
		return nil, fmt.Errorf("s3 get %s: %w", s.objectKey(storageKey), err)
	}
	return out.Body, nil
}

// Delete removes a stored object. S3 reports success for missing keys.
func (s *Store) Delete(ctx context.Context, storageKey string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(storageKey)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", s.objectKey(storageKey), err)
	}
	return nil
}

func (s *Store) applyEncryption(input *s3.PutObjectInput) {
	if s.kmsKeyID != "" {
		input.ServerSideEncryption = s3types.ServerSideEncryptionAwsKms
		input.SSEKMSKeyId = aws.String(s.kmsKeyID)
		return
	}
	input.ServerSideEncryption = s3types.ServerSideEncryptionAes256
}

func (s *Store) objectKey(key string) string {
	return applyPrefix(s.prefix, key)
}

func applyPrefix(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	key = strings.TrimLeft(key, "/")
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	}
	return prefix + "/" + key
}

var _ object.ObjectStore = (*Store)(nil)
