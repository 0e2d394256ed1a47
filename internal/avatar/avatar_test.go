package avatar

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key, err := objectKey("u1", "Me.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "avatars/u1/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	_, err = objectKey("u1", "notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedExt)
}

func TestObjectKey_RejectsPathLikeUserIDs(t *testing.T) {
	for _, id := range []string{"", "../../x", "..", "a/b", `a\b`, "x/../y"} {
		_, err := objectKey(id, "me.png")
		assert.ErrorIs(t, err, ErrInvalidUser, "user id %q", id)
	}
}

func TestLocalStore_DoesNotEscapeDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "avatars-root")
	s := NewLocalStore(dir)

	_, err := s.Put(context.Background(), "../../x", "me.png", strings.NewReader("img"))
	require.ErrorIs(t, err, ErrInvalidUser)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadLimited(t *testing.T) {
	_, err := readLimited(bytes.NewReader(make([]byte, MaxSize+1)))
	assert.ErrorIs(t, err, ErrTooLarge)

	data, err := readLimited(strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), data)
}

func TestLocalStore_Put(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir)

	uri, err := s.Put(context.Background(), "u1", "face.jpg", strings.NewReader("jpegbytes"))
	require.NoError(t, err)

	u, err := url.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "file", u.Scheme)

	got, err := os.ReadFile(filepath.FromSlash(u.Path))
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(got))
	assert.Contains(t, u.Path, "/avatars/u1/")
}

func TestLocalStore_RejectsUnsupported(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	_, err := s.Put(context.Background(), "u1", "face.bmp", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedExt)
}

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func stubS3(t *testing.T, fp *fakePutter) *s3.Options {
	t.Helper()
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew })

	var opts s3.Options
	loadDefaultAWSConfig = func(ctx context.Context, fns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{Region: "us-east-1"}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		for _, fn := range optFns {
			fn(&opts)
		}
		return fp
	}
	return &opts
}

func TestS3Store_PutWithEndpoint(t *testing.T) {
	fp := &fakePutter{}
	opts := stubS3(t, fp)

	s, err := NewS3Store(context.Background(), S3Config{
		Bucket: "avatars", Region: "us-east-1", AccessKey: "minioadmin", SecretKey: "minioadmin",
		BaseEndpoint: "http://127.0.0.1:9000/",
	})
	require.NoError(t, err)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000/", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)

	uri, err := s.Put(context.Background(), "u1", "me.png", strings.NewReader("pngbytes"))
	require.NoError(t, err)

	require.NotNil(t, fp.in)
	assert.Equal(t, "avatars", aws.ToString(fp.in.Bucket))
	assert.Equal(t, "image/png", aws.ToString(fp.in.ContentType))
	assert.Equal(t, "pngbytes", string(fp.body))
	assert.Equal(t, "http://127.0.0.1:9000/avatars/"+aws.ToString(fp.in.Key), uri)
}

func TestS3Store_PutWithoutEndpoint(t *testing.T) {
	fp := &fakePutter{}
	opts := stubS3(t, fp)

	s, err := NewS3Store(context.Background(), S3Config{Bucket: "b", Region: "eu-west-1"})
	require.NoError(t, err)
	assert.Nil(t, opts.BaseEndpoint)

	uri, err := s.Put(context.Background(), "u1", "me.jpg", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "https://b.s3.eu-west-1.amazonaws.com/avatars/u1/"))
}

func TestS3Store_Errors(t *testing.T) {
	fp := &fakePutter{err: errors.New("access denied")}
	stubS3(t, fp)

	s, err := NewS3Store(context.Background(), S3Config{Bucket: "b", Region: "r"})
	require.NoError(t, err)
	_, err = s.Put(context.Background(), "u1", "me.jpg", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")

	loadDefaultAWSConfig = func(context.Context, ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no region")
	}
	_, err = NewS3Store(context.Background(), S3Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load aws config")
}
