package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/minio/minio-go/v7"
)

// Store persists uploaded blobs under a relative key such as
// "complaints/2026/10/<file>".
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

type diskStore struct {
	root string
}

func NewDiskStore(root string) Store {
	return &diskStore{root: root}
}

func (s *diskStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *diskStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	dst := s.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create upload directory", goerr.V("key", key))
	}

	f, err := os.Create(dst)
	if err != nil {
		return goerr.Wrap(err, "failed to create upload file", goerr.V("key", key))
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(dst)
		return goerr.Wrap(err, "failed to write upload file", goerr.V("key", key))
	}
	return nil
}

func (s *diskStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return os.Open(s.path(key))
}

func (s *diskStore) Remove(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

type minioStore struct {
	client *minio.Client
	bucket string
}

func NewMinIOStore(client *minio.Client, bucket string) Store {
	return &minioStore{client: client, bucket: bucket}
}

func (s *minioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to upload to MinIO", goerr.V("key", key))
	}
	return nil
}

func (s *minioStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get object", goerr.V("key", key))
	}
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, goerr.Wrap(err, "failed to stat object", goerr.V("key", key))
	}
	return obj, nil
}

func (s *minioStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
