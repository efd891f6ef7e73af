package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/mbeier/famsync/internal/model"
)

// Internal adapter interface to enable mocking without a real MinIO server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// Wrapper to adapt *minio.Client to minioAPI.
type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}
func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}
func (w minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := w.c.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}
func (w minioClientWrapper) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	return w.c.ListObjects(ctx, bucketName, opts)
}

var _ model.RemoteRegistry = (*Registry)(nil)

// Registry is a RemoteRegistry backed by a shared object-storage bucket.
// Registry paths map directly to object keys, one JSON object per record.
type Registry struct {
	api    minioAPI
	bucket string
}

// New creates a registry using a real *minio.Client instance.
func New(ctx context.Context, client *minio.Client, bucket string) (*Registry, error) {
	return NewWithAPI(ctx, minioClientWrapper{c: client}, bucket)
}

// NewWithAPI allows injecting a mockable API (used in tests).
func NewWithAPI(ctx context.Context, api minioAPI, bucket string) (*Registry, error) {
	r := &Registry{
		api:    api,
		bucket: bucket,
	}

	if err := r.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return r, nil
}

func (r *Registry) ensureBucketExists(ctx context.Context) error {
	exists, err := r.api.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := r.api.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func (r *Registry) ReadFamily(ctx context.Context, code string) (model.FamilyProfile, error) {
	var family model.FamilyProfile
	if err := r.readJSON(ctx, "families/"+strings.ToUpper(code), &family); err != nil {
		return model.FamilyProfile{}, err
	}
	return family, nil
}

func (r *Registry) WriteFamily(ctx context.Context, family model.FamilyProfile) error {
	return r.writeJSON(ctx, "families/"+strings.ToUpper(family.Code), family)
}

func (r *Registry) WriteMessage(ctx context.Context, code string, message model.ChatMessage) error {
	return r.writeJSON(ctx, "chats/"+strings.ToUpper(code)+"/"+message.ID, message)
}

func (r *Registry) ReadMessages(ctx context.Context, code string) ([]model.ChatMessage, error) {
	prefix := "chats/" + strings.ToUpper(code) + "/"

	var messages []model.ChatMessage
	for info := range r.api.ListObjects(ctx, r.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", info.Err)
		}
		var message model.ChatMessage
		if err := r.readJSON(ctx, info.Key, &message); err != nil {
			continue
		}
		messages = append(messages, message)
	}

	return messages, nil
}

func (r *Registry) Available(ctx context.Context) bool {
	exists, err := r.api.BucketExists(ctx, r.bucket)
	return err == nil && exists
}

func (r *Registry) writeJSON(ctx context.Context, key string, src any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("failed to marshal object: %w", err)
	}

	_, err = r.api.PutObject(ctx, r.bucket, key, bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

func (r *Registry) readJSON(ctx context.Context, key string, dest any) error {
	obj, err := r.api.GetObject(ctx, r.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to get object: %w", err)
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to read object: %w", err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		// A record that cannot be decoded is treated as missing.
		return model.ErrNotFound
	}
	return nil
}
