package storage_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketquery/backend/internal/config"
	"github.com/marketquery/backend/internal/storage"
)

func newStore(t *testing.T, maxSize int64) (*storage.Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.New(&config.Config{
		Upload: config.UploadConfig{Dir: dir, MaxSize: maxSize},
	})
	require.NoError(t, err)
	return store, dir
}

// fileHeader builds a real multipart.FileHeader the same way gin would hand
// one to a handler, including the part's Content-Type.
func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="gambar"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	reader := multipart.NewReader(&buf, w.Boundary())
	form, err := reader.ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	headers := form.File["gambar"]
	require.Len(t, headers, 1)
	return headers[0]
}

func TestSaveStoresImage(t *testing.T) {
	store, dir := newStore(t, 5*1024*1024)

	name, err := store.Save(fileHeader(t, "photo.png", "image/png", []byte("png-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.True(t, store.Exists(name))

	content, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), content)
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	store, _ := newStore(t, 5*1024*1024)

	first, err := store.Save(fileHeader(t, "same.jpg", "image/jpeg", []byte("a")))
	require.NoError(t, err)
	second, err := store.Save(fileHeader(t, "same.jpg", "image/jpeg", []byte("b")))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, store.Exists(first))
	assert.True(t, store.Exists(second))
}

func TestSaveRejectsNonImage(t *testing.T) {
	store, dir := newStore(t, 5*1024*1024)

	_, err := store.Save(fileHeader(t, "doc.pdf", "application/pdf", []byte("%PDF-1.4")))
	assert.ErrorIs(t, err, storage.ErrNotImage)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	store, _ := newStore(t, 16)

	_, err := store.Save(fileHeader(t, "big.png", "image/png", bytes.Repeat([]byte("x"), 64)))
	assert.ErrorIs(t, err, storage.ErrTooLarge)
}

func TestRemoveIsIdempotent(t *testing.T) {
	store, _ := newStore(t, 5*1024*1024)

	name, err := store.Save(fileHeader(t, "photo.png", "image/png", []byte("png-bytes")))
	require.NoError(t, err)

	store.Remove(name)
	assert.False(t, store.Exists(name))

	// Removing again, or removing something that never existed, must not panic.
	store.Remove(name)
	store.Remove("never-existed.png")
	store.Remove("")
}

func TestRemoveIgnoresPathTraversal(t *testing.T) {
	store, dir := newStore(t, 5*1024*1024)

	outside := filepath.Join(filepath.Dir(dir), "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))
	t.Cleanup(func() { os.Remove(outside) })

	store.Remove("../outside.txt")

	_, err := os.Stat(outside)
	assert.NoError(t, err)
}
