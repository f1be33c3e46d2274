package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// LocalDriver stores objects on the local filesystem. Signed URLs are
// HMAC-authenticated paths verified by the download handler.
type LocalDriver struct {
	basePath string
	secret   []byte
}

// NewLocalDriver creates a local filesystem driver
func NewLocalDriver(basePath, urlSecret string) *LocalDriver {
	return &LocalDriver{
		basePath: basePath,
		secret:   []byte(urlSecret),
	}
}

// Upload writes an object under the given key
func (d *LocalDriver) Upload(ctx context.Context, key string, r io.Reader) error {
	fullPath := filepath.Join(d.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Delete removes an object from the filesystem
func (d *LocalDriver) Delete(ctx context.Context, key string) error {
	fullPath := filepath.Join(d.basePath, filepath.FromSlash(key))

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	d.removeEmptyDirs(filepath.Dir(fullPath))
	return nil
}

// SignedURL returns an HMAC-signed download path with an expiry
func (d *LocalDriver) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	ok, err := d.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNotFound
	}

	expires := time.Now().Add(ttl).Unix()
	sig := d.sign(key, expires)

	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", sig)

	return fmt.Sprintf("/files/%s?%s", key, q.Encode()), nil
}

// Verify checks a signature produced by SignedURL. It returns false
// for tampered keys and for expired URLs.
func (d *LocalDriver) Verify(key string, expires int64, signature string) bool {
	if time.Now().Unix() > expires {
		return false
	}
	expected := d.sign(key, expires)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (d *LocalDriver) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, d.secret)
	fmt.Fprintf(mac, "%s:%d", key, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

// Exists checks whether an object is present
func (d *LocalDriver) Exists(ctx context.Context, key string) (bool, error) {
	fullPath := filepath.Join(d.basePath, filepath.FromSlash(key))
	_, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return true, nil
}

// Open returns a reader over the object's contents
func (d *LocalDriver) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath := filepath.Join(d.basePath, filepath.FromSlash(key))
	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// removeEmptyDirs removes empty parent directories up to basePath
func (d *LocalDriver) removeEmptyDirs(dir string) {
	rel, err := filepath.Rel(d.basePath, dir)
	if err != nil || rel == "." {
		return
	}

	if err := os.Remove(dir); err == nil {
		d.removeEmptyDirs(filepath.Dir(dir))
	}
}
