package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-backend/internal/shared/storage/object"
)

type storedObject struct {
	body        []byte
	contentType string
}

// fakeS3 keeps objects in a map and records the last put.
type fakeS3 struct {
	objects map[string]storedObject
	lastPut *s3.PutObjectInput
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]storedObject{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.lastPut = in
	f.objects[aws.ToString(in.Key)] = storedObject{body: body, contentType: aws.ToString(in.ContentType)}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(obj.body)), ContentType: aws.String(obj.contentType)}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestPutOpenDeleteWithPrefix(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	store := &Store{Client: fake, Bucket: "blobs", Prefix: "jobboard"}

	obj, err := store.Put(ctx, object.Upload{Owner: "user-1", Name: "avatar.png", ContentType: "image/png", Body: strings.NewReader("png-bytes")})
	require.NoError(t, err)
	assert.Equal(t, int64(len("png-bytes")), obj.Size)
	assert.Equal(t, "jobboard/"+obj.Key, aws.ToString(fake.lastPut.Key))
	assert.Equal(t, s3types.ServerSideEncryptionAes256, fake.lastPut.ServerSideEncryption)

	r, err := store.Open(ctx, obj.Key)
	require.NoError(t, err)
	body, _ := io.ReadAll(r)
	_ = r.Close()
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, "image/png", r.ContentType)

	require.NoError(t, store.Delete(ctx, obj.Key))
	_, err = store.Open(ctx, obj.Key)
	assert.True(t, errors.Is(err, object.ErrNotFound))
}

func TestPutUsesKMSWhenConfigured(t *testing.T) {
	fake := newFakeS3()
	store := &Store{Client: fake, Bucket: "blobs", KMSKeyID: "alias/jobboard"}

	_, err := store.Put(context.Background(), object.Upload{Owner: "company-1", Name: "logo.png", Body: strings.NewReader("x")})
	require.NoError(t, err)
	assert.Equal(t, s3types.ServerSideEncryptionAwsKms, fake.lastPut.ServerSideEncryption)
	assert.Equal(t, "alias/jobboard", aws.ToString(fake.lastPut.SSEKMSKeyId))
	assert.Nil(t, fake.lastPut.ContentType)
}

func TestRejectsInvalidKeys(t *testing.T) {
	store := &Store{Client: newFakeS3(), Bucket: "blobs"}
	_, err := store.Open(context.Background(), "../secret")
	assert.ErrorIs(t, err, object.ErrInvalidKey)
	assert.ErrorIs(t, store.Delete(context.Background(), "/abs"), object.ErrInvalidKey)
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), "eu-west-1", " ", "", "")
	assert.Error(t, err)
}
