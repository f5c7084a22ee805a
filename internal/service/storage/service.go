package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// PathPrefix is prepended to every stored key; it doubles as the static route.
	PathPrefix = "uploads"

	MaxFileSize = 10 << 20
)

// AllowedTypes is the upload allow-list, matched against sniffed content.
var AllowedTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"image/jpeg",
	"image/png",
	"image/gif",
	"text/plain",
	"video/mp4",
	"video/mpeg",
	"audio/mpeg",
	"audio/wav",
}

// UploadError is a client-facing rejection of an uploaded file.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string {
	return e.Message
}

type StoredFile struct {
	Filename     string
	OriginalName string
	Path         string
	ContentType  string
	Size         int64
}

type Service interface {
	SaveUpload(ctx context.Context, dir string, fh *multipart.FileHeader) (*StoredFile, error)
	Open(ctx context.Context, storedPath string) (io.ReadCloser, error)
	Remove(ctx context.Context, storedPath string) error
}

type service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) Service {
	return &service{store: store, now: time.Now}
}

func (s *service) SaveUpload(ctx context.Context, dir string, fh *multipart.FileHeader) (*StoredFile, error) {
	if fh.Size > MaxFileSize {
		return nil, &UploadError{Message: fmt.Sprintf("File too large. Maximum size is %dMB", MaxFileSize>>20)}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open upload", goerr.V("filename", fh.Filename))
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to detect upload type", goerr.V("filename", fh.Filename))
	}
	if !isAllowed(mtype) {
		return nil, &UploadError{Message: fmt.Sprintf("Invalid file type: %s. Allowed types are PDF, DOC, DOCX, JPEG, PNG, GIF, TXT, MP4, MPEG, MP3, WAV", mtype.String())}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, goerr.Wrap(err, "failed to rewind upload", goerr.V("filename", fh.Filename))
	}

	now := s.now()
	filename := storedName(fh.Filename, mtype.Extension())
	key := path.Join(dir, now.Format("2006/01"), filename)
	contentType := strings.SplitN(mtype.String(), ";", 2)[0]

	if err := s.store.Put(ctx, key, f, fh.Size, contentType); err != nil {
		return nil, err
	}

	return &StoredFile{
		Filename:     filename,
		OriginalName: fh.Filename,
		Path:         path.Join(PathPrefix, key),
		ContentType:  contentType,
		Size:         fh.Size,
	}, nil
}

func (s *service) Open(ctx context.Context, storedPath string) (io.ReadCloser, error) {
	return s.store.Get(ctx, keyOf(storedPath))
}

func (s *service) Remove(ctx context.Context, storedPath string) error {
	return s.store.Remove(ctx, keyOf(storedPath))
}

func isAllowed(m *mimetype.MIME) bool {
	for _, allowed := range AllowedTypes {
		if m.Is(allowed) {
			return true
		}
	}
	return false
}

// storedName keeps a readable slug of the client filename behind a unique prefix.
func storedName(original, detectedExt string) string {
	ext := strings.ToLower(path.Ext(original))
	if ext == "" {
		ext = detectedExt
	}
	base := slug.Make(strings.TrimSuffix(original, path.Ext(original)))
	if base == "" {
		base = "file"
	}
	if len(base) > 60 {
		base = base[:60]
	}
	return fmt.Sprintf("%s-%s%s", uuid.NewString()[:8], base, ext)
}

func keyOf(storedPath string) string {
	return strings.TrimPrefix(strings.TrimPrefix(storedPath, "/"), PathPrefix+"/")
}
