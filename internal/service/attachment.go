package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"adaptagent/internal/model"
	"adaptagent/internal/repository"
	"adaptagent/internal/storage"
)

const (
	// MaxUploadSize is the largest accepted attachment.
	MaxUploadSize = 5 << 20
	// PresignExpiry is how long a download URL stays valid.
	PresignExpiry = 15 * time.Minute

	sniffLen = 512
)

// allowedTypes maps accepted file extensions to the content type the bytes must carry.
var allowedTypes = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
}

// AttachmentView is an attachment with a time-limited download URL.
type AttachmentView struct {
	model.Attachment
	URL string `json:"url"`
}

// AttachmentService handles file uploads kept in object storage.
type AttachmentService interface {
	// Upload streams the content to object storage and saves its metadata.
	// The stored object is removed again when the metadata cannot be saved.
	Upload(ctx context.Context, ownerID string, r io.Reader, originalFilename string, size int64) (*model.Attachment, error)
	List(ctx context.Context, ownerID string, limit, offset int) (*ListResult[model.Attachment], error)
	Get(ctx context.Context, ownerID, id string) (*AttachmentView, error)
	// Delete removes the object, then its metadata.
	Delete(ctx context.Context, ownerID, id string) error
}

type attachmentService struct {
	store storage.Storage
	repo  repository.AttachmentRepository
	now   func() time.Time
}

// NewAttachmentService constructs a new AttachmentService.
func NewAttachmentService(store storage.Storage, repo repository.AttachmentRepository) AttachmentService {
	return &attachmentService{store: store, repo: repo, now: time.Now}
}

func (s *attachmentService) Upload(ctx context.Context, ownerID string, r io.Reader, originalFilename string, size int64) (*model.Attachment, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	name := filepath.Base(strings.ReplaceAll(originalFilename, `\`, "/"))
	ext := strings.ToLower(filepath.Ext(name))
	want, ok := allowedTypes[ext]
	if !ok {
		return nil, ErrUnsupportedType
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if !mimetype.Detect(head).Is(want) {
		return nil, ErrUnsupportedType
	}

	id := uuid.NewString()
	key := storage.AttachmentKey(ownerID, id, name)

	objInfo, err := s.store.Put(ctx, key, io.MultiReader(bytes.NewReader(head), r), storage.PutObjectOptions{
		Size:        size,
		ContentType: want,
		Metadata: map[string]string{
			"original-filename": name,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	stored, err := s.repo.Create(ctx, &model.Attachment{
		ID:          id,
		OwnerID:     ownerID,
		Filename:    name,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: want,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *attachmentService) List(ctx context.Context, ownerID string, limit, offset int) (*ListResult[model.Attachment], error) {
	pq := pageQuery(limit, offset)
	res, err := s.repo.List(ctx, ownerID, pq)
	if err != nil {
		return nil, err
	}
	return listResult(res, pq), nil
}

func (s *attachmentService) Get(ctx context.Context, ownerID, id string) (*AttachmentView, error) {
	a, err := s.find(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	url, err := s.store.PresignGet(ctx, a.StoragePath, PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign: %w", err)
	}
	return &AttachmentView{Attachment: *a, URL: url}, nil
}

func (s *attachmentService) Delete(ctx context.Context, ownerID, id string) error {
	a, err := s.find(ctx, ownerID, id)
	if err != nil {
		return err
	}
	// storage first: a failed object delete keeps the row pointing at it
	if err := s.store.Delete(ctx, a.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

func (s *attachmentService) find(ctx context.Context, ownerID, id string) (*model.Attachment, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}
