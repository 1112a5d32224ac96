package media

import (
	"context"
	"io"
	"testing"

	"gramosi/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func newMemStorage(t *testing.T) service.MediaStorage {
	t.Helper()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	return NewBlobStorage(bucket, "https://cdn.gramosi.app/")
}

func TestBlobStorage_PutOpenDelete(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage(t)

	url, err := storage.Put(ctx, "posts/a.jpg", "image/jpeg", []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.gramosi.app/posts/a.jpg", url)

	obj, err := storage.Open(ctx, "posts/a.jpg")
	require.NoError(t, err)
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	require.NoError(t, obj.Body.Close())
	assert.Equal(t, "jpeg-bytes", string(body))
	assert.Equal(t, "image/jpeg", obj.ContentType)
	assert.Equal(t, int64(len("jpeg-bytes")), obj.Size)

	require.NoError(t, storage.Delete(ctx, "posts/a.jpg"))

	_, err = storage.Open(ctx, "posts/a.jpg")
	assert.ErrorIs(t, err, service.ErrMediaObjectNotFound)
}

func TestBlobStorage_DeleteMissingIsNoop(t *testing.T) {
	storage := newMemStorage(t)

	assert.NoError(t, storage.Delete(context.Background(), "posts/missing.jpg"))
}

func TestNewBlobStorage_DefaultBaseURL(t *testing.T) {
	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	url, err := NewBlobStorage(bucket, "").Put(context.Background(), "k.jpg", "image/jpeg", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/media/k.jpg", url)
}
