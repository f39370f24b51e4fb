// Package storage stores attachment bytes in an S3-compatible object store.
// Content is streamed; nothing touches local disk.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"
)

// PutObjectOptions describe an upload. Size is the exact byte count, or -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object store used for attachments.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get streams an object's content. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a download URL valid for expiry.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// AttachmentKey builds the object key for an upload: attachments/<owner>/<id><ext>.
// The extension is taken from filename and lower-cased.
func AttachmentKey(ownerID, id, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, `\`, "/"))))
	return path.Join("attachments", ownerID, id+ext)
}
