package files

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/mindweave-labs/mindweave/domain/graph"
	"github.com/mindweave-labs/mindweave/internal/storage"
	"github.com/mindweave-labs/mindweave/pkg/apperror"
	"github.com/mindweave-labs/mindweave/pkg/logger"
)

// MaxUploadBytes caps a single upload at 50 MiB.
const MaxUploadBytes = 50 << 20

// Service handles file uploads and their graph projection.
type Service struct {
	repo    *Repository
	graph   *graph.Repository
	storage *storage.Service
	log     *slog.Logger
}

func NewService(repo *Repository, graphRepo *graph.Repository, storageSvc *storage.Service, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		graph:   graphRepo,
		storage: storageSvc,
		log:     log.With(logger.Scope("files.service")),
	}
}

// Upload stores the object, then records the file and its graph node
// atomically. If the database insert fails the uploaded object is removed
// again so storage never holds orphans the database does not know about.
func (s *Service) Upload(ctx context.Context, userID int64, filename, contentType string, size int64, data io.Reader) (*File, error) {
	if !s.storage.Enabled() {
		return nil, apperror.ErrProviderUnavailable.WithMessage("file storage is not configured")
	}
	if filename == "" {
		return nil, apperror.ErrValidation.WithMessage("filename is required")
	}
	if size <= 0 || size > MaxUploadBytes {
		return nil, apperror.ErrValidation.WithMessage("file size must be between 1 byte and 50 MiB")
	}

	key := storage.GenerateFileKey(userID, filename)
	result, err := s.storage.Upload(ctx, key, data, size, storage.UploadOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, apperror.NewInternal("failed to store file", err)
	}

	file := &File{
		UserID:      userID,
		Filename:    storage.SanitizeFilename(filename),
		ObjectKey:   key,
		ContentType: result.ContentType,
		SizeBytes:   size,
	}
	if file.ContentType == "" {
		file.ContentType = "application/octet-stream"
	}

	if _, err := s.repo.CreateWithNode(ctx, file); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.log.Warn("failed to clean up orphaned object",
				slog.String("key", key),
				logger.Error(delErr),
			)
		}
		return nil, err
	}

	s.log.Info("file uploaded",
		slog.Int64("file_id", file.ID),
		slog.Int64("size_bytes", size),
	)
	return file, nil
}

// Get returns an owned file's metadata.
func (s *Service) Get(ctx context.Context, userID, fileID int64) (*File, error) {
	return s.repo.GetByID(ctx, userID, fileID)
}

// List returns the user's files.
func (s *Service) List(ctx context.Context, userID int64) ([]*File, error) {
	result, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []*File{}
	}
	return result, nil
}

// DownloadURL returns a time-limited signed URL for an owned file.
func (s *Service) DownloadURL(ctx context.Context, userID, fileID int64) (string, error) {
	file, err := s.repo.GetByID(ctx, userID, fileID)
	if err != nil {
		return "", err
	}

	url, err := s.storage.GetSignedDownloadURL(ctx, file.ObjectKey, storage.GetSignedDownloadURLOptions{
		ExpiresIn:                  15 * time.Minute,
		ResponseContentDisposition: `attachment; filename="` + file.Filename + `"`,
	})
	if err != nil {
		return "", apperror.NewInternal("failed to sign download url", err)
	}
	return url, nil
}

// Delete removes the file row, then its graph node and stored object.
// Object and node cleanup are best-effort once the row is gone.
func (s *Service) Delete(ctx context.Context, userID, fileID int64) error {
	file, err := s.repo.GetByID(ctx, userID, fileID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, fileID); err != nil {
		return err
	}

	if file.GraphNodeID != nil {
		if err := s.graph.DeleteNode(ctx, userID, *file.GraphNodeID); err != nil {
			s.log.Warn("failed to delete graph node for file",
				slog.Int64("file_id", fileID),
				logger.Error(err),
			)
		}
	}
	if err := s.storage.Delete(ctx, file.ObjectKey); err != nil {
		s.log.Warn("failed to delete stored object",
			slog.String("key", file.ObjectKey),
			logger.Error(err),
		)
	}
	return nil
}
