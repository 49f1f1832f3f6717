// Package s3 keeps blobs in an S3 bucket, encrypted at rest.
package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"jobboard-backend/internal/shared/storage/object"
)

// API is the subset of the S3 client the store calls.
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Store struct {
	Client   API
	Bucket   string
	Prefix   string
	KMSKeyID string
}

// New loads the default AWS credential chain and builds a Store.
func New(ctx context.Context, region, bucket, prefix, kmsKeyID string) (*Store, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("S3_BUCKET is required when OBJECT_STORE=s3")
	}
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Store{
		Client:   s3.NewFromConfig(cfg),
		Bucket:   bucket,
		Prefix:   strings.Trim(strings.TrimSpace(prefix), "/"),
		KMSKeyID: strings.TrimSpace(kmsKeyID),
	}, nil
}

func (s *Store) Put(ctx context.Context, u object.Upload) (object.Object, error) {
	key, err := object.NewKey(u.Owner, u.Name)
	if err != nil {
		return object.Object{}, err
	}
	body := &object.CountingReader{R: u.Body}
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.objectKey(key)),
		Body:   body,
	}
	if u.ContentType != "" {
		in.ContentType = aws.String(u.ContentType)
	}
	if s.KMSKeyID != "" {
		in.ServerSideEncryption = s3types.ServerSideEncryptionAwsKms
		in.SSEKMSKeyId = aws.String(s.KMSKeyID)
	} else {
		in.ServerSideEncryption = s3types.ServerSideEncryptionAes256
	}
	if _, err := s.Client.PutObject(ctx, in); err != nil {
		return object.Object{}, fmt.Errorf("s3 put %s: %w", key, err)
	}
	return object.Object{Key: key, Size: body.N, ContentType: u.ContentType}, nil
}

func (s *Store) Open(ctx context.Context, key string) (*object.Reader, error) {
	if !object.ValidKey(key) {
		return nil, object.ErrInvalidKey
	}
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, object.ErrNotFound
		}
		return nil, fmt.Errorf("s3 get %s: %w", key, err)
	}
	return &object.Reader{ReadCloser: out.Body, ContentType: aws.ToString(out.ContentType)}, nil
}

// Delete succeeds for missing keys, as S3 does.
func (s *Store) Delete(ctx context.Context, key string) error {
	if !object.ValidKey(key) {
		return object.ErrInvalidKey
	}
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) objectKey(key string) string {
	if s.Prefix == "" {
		return key
	}
	return s.Prefix + "/" + key
}

var _ object.ObjectStore = (*Store)(nil)
