package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iackson05/streakd/internal/storage"
	"github.com/iackson05/streakd/internal/validation"
)

const (
	FolderPosts           = "posts"
	FolderProfilePictures = "profile-pictures"
)

// MediaService validates uploaded images and manages their blobs.
type MediaService struct {
	storage storage.Storage
}

func NewMediaService(storage storage.Storage) *MediaService {
	return &MediaService{storage: storage}
}

// Upload validates an image by content and extension and stores it under
// folder. It returns the public URL.
func (s *MediaService) Upload(ctx context.Context, data []byte, filename, folder string) (string, error) {
	contentType, err := validation.ValidateFile(data, filename, validation.ImageConstraints)
	if err != nil {
		return "", invalidInput("%s", err.Error())
	}

	url, err := s.storage.Put(ctx, data, contentType, folder)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			return "", ErrUploadsDisabled
		}
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return url, nil
}

// Release deletes blobs best-effort. Callers invoke it after the rows
// pointing at the blobs are committed as deleted; failures are only logged.
func (s *MediaService) Release(ctx context.Context, urls ...string) {
	ctx = context.WithoutCancel(ctx)

	for _, url := range urls {
		if url == "" {
			continue
		}

		err := s.storage.Delete(ctx, url)
		if err != nil {
			slog.Error("failed to delete blob", "error", err, "url", url)
		}
	}
}
