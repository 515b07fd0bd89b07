package media

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd.jpg":   "etc_passwd.jpg",
		"my cat.png":             "my_cat.png",
		`C:\Users\x\évian.jpeg`: "C_Users_x_evian.jpeg",
		".hidden.jpg":            "hidden.jpg",
		"photo<script>.gif":      "photoscript.gif",
		"../..":                  "",
		"":                       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentType("a.JPG"))
	assert.Equal(t, "image/png", ContentType("a.png"))
	assert.Equal(t, "application/octet-stream", ContentType("noext"))
}

func TestFSStoreTraversalStaysInDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "uploads")
	store, err := NewFSStore(dir)
	require.NoError(t, err)

	name, err := store.Save(context.Background(), "../../etc/passwd.jpg", strings.NewReader("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "etc_passwd.jpg", name)

	data, err := os.ReadFile(filepath.Join(dir, "etc_passwd.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1, "nothing written outside the upload dir")
}

func TestFSStoreRoundTripAndOverwrite(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Save(ctx, "a.png", strings.NewReader("first"))
	require.NoError(t, err)
	_, err = store.Save(ctx, "a.png", strings.NewReader("second"))
	require.NoError(t, err)

	obj, err := store.Open(ctx, "a.png")
	require.NoError(t, err)
	defer obj.Body.Close()

	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "second", string(body))
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, int64(6), obj.Size)
}

func TestFSStoreOpenMissingAndUnsafe(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Open(ctx, "missing.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Open(ctx, "../secret.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSStoreDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	name, err := store.Save(ctx, "cat.png", strings.NewReader("meow"))
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, name))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, name), "already gone")
	assert.ErrorIs(t, store.Delete(ctx, "../cat.png"), ErrInvalidName)
}

func TestFSStoreRejectsEmptyName(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "../", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestFSStoreConcurrentSameName(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(dir)
	require.NoError(t, err)

	payloads := []string{strings.Repeat("a", 64<<10), strings.Repeat("b", 64<<10)}
	var wg sync.WaitGroup
	for _, p := range payloads {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			_, err := store.Save(context.Background(), "race.jpg", strings.NewReader(p))
			assert.NoError(t, err)
		}(p)
	}
	wg.Wait()

	data, err := os.ReadFile(filepath.Join(dir, "race.jpg"))
	require.NoError(t, err)
	assert.Contains(t, payloads, string(data), "file is one complete upload")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files cleaned up")
}

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
	}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StoreDelete(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	store := NewS3StoreWithClient(fake, "photos", "uploads")
	ctx := context.Background()

	name, err := store.Save(ctx, "cat.png", strings.NewReader("meow"))
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, name))
	assert.NotContains(t, fake.objects, "uploads/cat.png")

	_, err = store.Open(ctx, name)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "../cat.png"), ErrInvalidName)
}

func TestS3StoreUsesPrefixAndSanitizedKey(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	store := NewS3StoreWithClient(fake, "photos", "uploads")
	ctx := context.Background()

	name, err := store.Save(ctx, "../x/dog pic.jpg", strings.NewReader("woof"))
	require.NoError(t, err)
	assert.Equal(t, "x_dog_pic.jpg", name)
	assert.Contains(t, fake.objects, "uploads/x_dog_pic.jpg")

	obj, err := store.Open(ctx, name)
	require.NoError(t, err)
	defer obj.Body.Close()
	assert.Equal(t, "image/jpeg", obj.ContentType)
	assert.Equal(t, int64(4), obj.Size)

	_, err = store.Open(ctx, "nope.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}
