package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familyhub/internal/supabase"
)

var (
	_ Store = (*S3Store)(nil)
	_ Store = (*supabase.StorageClient)(nil)
)

func TestPathFromPublicURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		bucket string
		want   string
		ok     bool
	}{
		{
			name:   "media object",
			url:    "https://abc.supabase.co/storage/v1/object/public/media/ABCDE/photo.jpg",
			bucket: "media",
			want:   "ABCDE/photo.jpg",
			ok:     true,
		},
		{
			name:   "escaped characters",
			url:    "https://abc.supabase.co/storage/v1/object/public/media/ABCDE/my%20photo.jpg",
			bucket: "media",
			want:   "ABCDE/my photo.jpg",
			ok:     true,
		},
		{
			name:   "query string dropped",
			url:    "https://abc.supabase.co/storage/v1/object/public/avatars/u1/1-a.png?t=123",
			bucket: "avatars",
			want:   "u1/1-a.png",
			ok:     true,
		},
		{
			name:   "other bucket",
			url:    "https://abc.supabase.co/storage/v1/object/public/avatars/u1/1-a.png",
			bucket: "media",
		},
		{
			name:   "external url",
			url:    "https://example.com/cat.gif",
			bucket: "media",
		},
		{
			name:   "bucket root only",
			url:    "https://abc.supabase.co/storage/v1/object/public/media/",
			bucket: "media",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PathFromPublicURL(tt.url, tt.bucket)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAvatarPath(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	p := AvatarPath("user-1", "Me.PNG", now)
	assert.True(t, strings.HasPrefix(p, "user-1/1700000000123-"), p)
	assert.True(t, strings.HasSuffix(p, ".png"), p)

	p = AvatarPath("user-1", "blob", now)
	assert.True(t, strings.HasSuffix(p, ".jpg"), p)

	assert.NotEqual(t, AvatarPath("user-1", "a.png", now), AvatarPath("user-1", "a.png", now))
}

type fakeS3 struct {
	puts      []*s3.PutObjectInput
	deletes   []*s3.DeleteObjectsInput
	deleteErr []types.Error
	err       error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, params)
	return &s3.PutObjectOutput{}, f.err
}

func (f *fakeS3) DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	f.deletes = append(f.deletes, params)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.DeleteObjectsOutput{Errors: f.deleteErr}, nil
}

func TestS3StoreUpload(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3StoreWithClient(fake, "https://abc.supabase.co/")

	require.NoError(t, store.Upload(context.Background(), BucketAvatars, "u1/a.png", []byte("img"), "image/png"))
	require.Len(t, fake.puts, 1)

	put := fake.puts[0]
	assert.Equal(t, "avatars", aws.ToString(put.Bucket))
	assert.Equal(t, "u1/a.png", aws.ToString(put.Key))
	assert.Equal(t, "image/png", aws.ToString(put.ContentType))
	body, _ := io.ReadAll(put.Body)
	assert.Equal(t, "img", string(body))
}

func TestS3StorePublicURLRoundTrips(t *testing.T) {
	store := NewS3StoreWithClient(&fakeS3{}, "https://abc.supabase.co")

	u := store.PublicURL(BucketMedia, "ABCDE/x.jpg")
	assert.Equal(t, "https://abc.supabase.co/storage/v1/object/public/media/ABCDE/x.jpg", u)

	p, ok := PathFromPublicURL(u, BucketMedia)
	require.True(t, ok)
	assert.Equal(t, "ABCDE/x.jpg", p)
}

func TestS3StoreRemove(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3StoreWithClient(fake, "https://abc.supabase.co")

	require.NoError(t, store.Remove(context.Background(), BucketMedia))
	assert.Empty(t, fake.deletes)

	require.NoError(t, store.Remove(context.Background(), BucketMedia, "a.jpg", "b.jpg"))
	require.Len(t, fake.deletes, 1)
	assert.Len(t, fake.deletes[0].Delete.Objects, 2)

	fake.deleteErr = []types.Error{{Key: aws.String("a.jpg"), Message: aws.String("AccessDenied")}}
	assert.Error(t, store.Remove(context.Background(), BucketMedia, "a.jpg"))

	fake.err = errors.New("network down")
	assert.Error(t, store.Remove(context.Background(), BucketMedia, "a.jpg"))
}
