package storage_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edulegal/internal/service/storage"
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("attachments", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["attachments"][0]
}

func TestService_SaveUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("Text file is stored under a dated key", func(t *testing.T) {
		root := t.TempDir()
		svc := storage.NewService(storage.NewDiskStore(root))

		stored, err := svc.SaveUpload(ctx, "complaints", fileHeader(t, "My Statement.txt", []byte("what happened")))

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(stored.Path, "uploads/complaints/"))
		assert.True(t, strings.HasSuffix(stored.Filename, "-my-statement.txt"))
		assert.Equal(t, "My Statement.txt", stored.OriginalName)
		assert.Equal(t, "text/plain", stored.ContentType)

		key := strings.TrimPrefix(stored.Path, "uploads/")
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
		require.NoError(t, err)
		assert.Equal(t, "what happened", string(data))

		rc, err := svc.Open(ctx, stored.Path)
		require.NoError(t, err)
		defer rc.Close()
		opened, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "what happened", string(opened))

		require.NoError(t, svc.Remove(ctx, stored.Path))
		_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Content is sniffed, not trusted from the name", func(t *testing.T) {
		svc := storage.NewService(storage.NewDiskStore(t.TempDir()))
		exe := append([]byte("MZ"), bytes.Repeat([]byte{0x90}, 128)...)

		_, err := svc.SaveUpload(ctx, "complaints", fileHeader(t, "report.pdf", exe))

		var uploadErr *storage.UploadError
		require.ErrorAs(t, err, &uploadErr)
		assert.Contains(t, uploadErr.Message, "Invalid file type")
	})

	t.Run("Oversized file", func(t *testing.T) {
		svc := storage.NewService(storage.NewDiskStore(t.TempDir()))
		fh := fileHeader(t, "big.txt", []byte("x"))
		fh.Size = storage.MaxFileSize + 1

		_, err := svc.SaveUpload(ctx, "complaints", fh)

		var uploadErr *storage.UploadError
		require.ErrorAs(t, err, &uploadErr)
		assert.Equal(t, "File too large. Maximum size is 10MB", uploadErr.Message)
	})

	t.Run("Removing a missing file is not an error", func(t *testing.T) {
		svc := storage.NewService(storage.NewDiskStore(t.TempDir()))

		assert.NoError(t, svc.Remove(ctx, "uploads/complaints/2026/10/gone.txt"))
	})
}
