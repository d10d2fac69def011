package service

import (
	"context"
	"mime"
	"path/filepath"
	"strings"

	"rpl-backend/internal/model"
	"rpl-backend/internal/repository"
	"rpl-backend/pkg/apperr"

	"github.com/google/uuid"
)

// FileService stores and serves supporting documents.
type FileService interface {
	// Upload persists the bytes and returns the blob id applications
	// reference.
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
	Download(ctx context.Context, id string) (*model.StoredFile, error)
}

type fileService struct {
	files repository.FileRepository
}

func NewFileService(files repository.FileRepository) FileService {
	return &fileService{files: files}
}

func (s *fileService) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	filename = sanitizeFilename(filename)
	if filename == "" {
		return "", apperr.New(apperr.Validation, "no file")
	}
	if len(data) == 0 {
		return "", apperr.New(apperr.Validation, "empty file")
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	file := model.StoredFile{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
	}
	if err := s.files.Store(ctx, &file); err != nil {
		return "", err
	}
	return file.ID.String(), nil
}

func (s *fileService) Download(ctx context.Context, id string) (*model.StoredFile, error) {
	fileID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation, err, "invalid file id")
	}
	file, err := s.files.Fetch(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.ContentType == "" {
		file.ContentType = mime.TypeByExtension(filepath.Ext(file.Filename))
		if file.ContentType == "" {
			file.ContentType = "application/octet-stream"
		}
	}
	return file, nil
}

// sanitizeFilename keeps just the base name and drops path separators, so
// a stored name can never traverse directories when echoed back.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == 0 {
			return '_'
		}
		return r
	}, name)
}
