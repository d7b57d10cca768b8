package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-demo/forum/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStore_Put(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "avatars/u1_abc.png", "image/png", strings.NewReader("png-bytes"), 9)
	require.NoError(t, err)

	assert.Equal(t, "/uploads/avatars/u1_abc.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "avatars", "u1_abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalStore_Put_KeyStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(filepath.Join(dir, "uploads"), "/uploads")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "../../escape.txt", "text/plain", strings.NewReader("x"), 1)
	require.NoError(t, err)

	assert.Equal(t, "/uploads/escape.txt", url)
	_, err = os.Stat(filepath.Join(dir, "uploads", "escape.txt"))
	assert.NoError(t, err)
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestLocalStore_Put_FailedCopyLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads")
	require.NoError(t, err)

	body := io.MultiReader(strings.NewReader("partial"), failingReader{})
	_, err = store.Put(context.Background(), "avatars/u1_broken.png", "image/png", body, 100)
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(dir, "avatars", "u1_broken.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStore_Put_EmptyKey(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "/", "text/plain", strings.NewReader("x"), 1)
	assert.Error(t, err)
}

func TestNew_SelectsDriver(t *testing.T) {
	local, err := New(context.Background(), &config.StorageConfig{Driver: "local", LocalDir: t.TempDir(), PublicURL: "/uploads"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, local)

	s3Store, err := New(context.Background(), &config.StorageConfig{
		Driver:            "s3",
		S3Bucket:          "avatars",
		S3Endpoint:        "http://localhost:9000",
		S3Region:          "auto",
		S3AccessKeyID:     "key",
		S3SecretAccessKey: "secret",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/avatars", s3Store.(*S3Store).publicURL)

	_, err = New(context.Background(), &config.StorageConfig{Driver: "ftp"}, zap.NewNop())
	assert.Error(t, err)
}
