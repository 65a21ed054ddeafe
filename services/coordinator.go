package services

import (
	"context"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"chess-academy-backend/models"
	"chess-academy-backend/storage"
)

// ImageUpload is an image payload taken from a multipart form.
type ImageUpload struct {
	Data        []byte
	ContentType string
	Filename    string
}

// MutationCoordinator sequences blob-store and record-store writes so the two
// never diverge into "live record pointing at a dead blob" under partial
// failure. The ordering trade-off is always the same: a leaked blob is a
// cleanup-job concern, a dangling image URL is user-facing breakage.
type MutationCoordinator struct {
	Blobs storage.BlobStore
}

func NewMutationCoordinator(blobs storage.BlobStore) *MutationCoordinator {
	return &MutationCoordinator{Blobs: blobs}
}

func (m *MutationCoordinator) objectName(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	base := slug.Make(strings.TrimSuffix(filepath.Base(filename), ext))
	if base == "" {
		base = "image"
	}
	return base + "-" + uuid.NewString()[:8] + ext
}

// CreateWithImage uploads img (when present), then calls persist with the
// uploaded URL ("" when no image). If persist fails the fresh upload is
// deleted best-effort and the persist error is returned unchanged.
func (m *MutationCoordinator) CreateWithImage(ctx context.Context, img *ImageUpload, folder string, persist func(url string) error) error {
	var url, handle string
	if img != nil {
		var err error
		url, handle, err = m.Blobs.Upload(ctx, img.Data, img.ContentType, folder, m.objectName(img.Filename))
		if err != nil {
			return &models.UpstreamError{Op: "image upload", Err: err}
		}
	}
	if err := persist(url); err != nil {
		if handle != "" {
			if derr := m.Blobs.Delete(ctx, handle); derr != nil {
				log.Printf("[Coordinator] cleanup of %s after failed save also failed: %v", handle, derr)
			}
		}
		return err
	}
	return nil
}

// ReplaceImage uploads the replacement image, calls persist with its URL, and
// only after a successful persist deletes the previously referenced blob.
// If persist fails the new upload is deleted best-effort and the old blob is
// left untouched, since the stored record still references it.
func (m *MutationCoordinator) ReplaceImage(ctx context.Context, img *ImageUpload, folder, oldURL string, persist func(url string) error) error {
	url, handle, err := m.Blobs.Upload(ctx, img.Data, img.ContentType, folder, m.objectName(img.Filename))
	if err != nil {
		return &models.UpstreamError{Op: "image upload", Err: err}
	}
	if err := persist(url); err != nil {
		if derr := m.Blobs.Delete(ctx, handle); derr != nil {
			log.Printf("[Coordinator] cleanup of %s after failed save also failed: %v", handle, derr)
		}
		return err
	}
	if oldURL != "" {
		if old, ok := m.Blobs.HandleFromURL(oldURL); ok {
			if derr := m.Blobs.Delete(ctx, old); derr != nil {
				log.Printf("[Coordinator] failed to delete replaced image %s: %v", old, derr)
			}
		}
	}
	return nil
}

// DeleteWithImage deletes the blob referenced by imageURL (best-effort), then
// calls remove to delete the record. A blob-store failure never blocks the
// record deletion.
func (m *MutationCoordinator) DeleteWithImage(ctx context.Context, imageURL string, remove func() error) error {
	if imageURL != "" {
		if handle, ok := m.Blobs.HandleFromURL(imageURL); ok {
			if err := m.Blobs.Delete(ctx, handle); err != nil {
				log.Printf("[Coordinator] failed to delete image %s: %v", handle, err)
			}
		}
	}
	return remove()
}
