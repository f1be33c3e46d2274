package storage

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDriver(t *testing.T) *LocalDriver {
	t.Helper()
	return NewLocalDriver(t.TempDir(), "test-url-secret")
}

func TestLocalDriver_UploadAndOpen(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)

	err := driver.Upload(ctx, "u1/p1/video.mp4", strings.NewReader("file contents"))
	require.NoError(t, err)

	r, err := driver.Open(ctx, "u1/p1/video.mp4")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "file contents", string(data))
}

func TestLocalDriver_Exists(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)

	ok, err := driver.Exists(ctx, "missing.bin")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, driver.Upload(ctx, "present.bin", strings.NewReader("x")))

	ok, err = driver.Exists(ctx, "present.bin")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalDriver_Delete(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)

	require.NoError(t, driver.Upload(ctx, "a/b/c.txt", strings.NewReader("x")))
	require.NoError(t, driver.Delete(ctx, "a/b/c.txt"))

	ok, err := driver.Exists(ctx, "a/b/c.txt")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing object is not an error
	assert.NoError(t, driver.Delete(ctx, "a/b/c.txt"))
}

func TestLocalDriver_OpenMissing(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)

	_, err := driver.Open(ctx, "nope.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalDriver_SignedURL(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)

	require.NoError(t, driver.Upload(ctx, "u1/doc.pdf", strings.NewReader("x")))

	signed, err := driver.SignedURL(ctx, "u1/doc.pdf", 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signed, "/files/u1/doc.pdf?"), "unexpected URL: %s", signed)

	u, err := url.Parse(signed)
	require.NoError(t, err)

	expires, err := strconv.ParseInt(u.Query().Get("expires"), 10, 64)
	require.NoError(t, err)
	sig := u.Query().Get("signature")
	require.NotEmpty(t, sig)

	assert.True(t, driver.Verify("u1/doc.pdf", expires, sig))
}

func TestLocalDriver_SignedURL_Missing(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)

	_, err := driver.SignedURL(ctx, "never-uploaded.bin", time.Minute)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalDriver_Verify(t *testing.T) {
	driver := newTestDriver(t)

	expires := time.Now().Add(time.Minute).Unix()
	sig := driver.sign("key.txt", expires)

	t.Run("valid", func(t *testing.T) {
		assert.True(t, driver.Verify("key.txt", expires, sig))
	})

	t.Run("tampered key", func(t *testing.T) {
		assert.False(t, driver.Verify("other.txt", expires, sig))
	})

	t.Run("tampered signature", func(t *testing.T) {
		assert.False(t, driver.Verify("key.txt", expires, sig+"00"))
	})

	t.Run("expired", func(t *testing.T) {
		past := time.Now().Add(-time.Minute).Unix()
		pastSig := driver.sign("key.txt", past)
		assert.False(t, driver.Verify("key.txt", past, pastSig))
	})
}

func TestNewDriver_Factory(t *testing.T) {
	ctx := context.Background()

	t.Run("local", func(t *testing.T) {
		d, err := NewDriver(ctx, &Config{Driver: "local", BasePath: t.TempDir(), URLSecret: "s"})
		require.NoError(t, err)
		assert.IsType(t, &LocalDriver{}, d)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewDriver(ctx, &Config{Driver: "ftp"})
		assert.Error(t, err)
	})
}
