package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/gauravkatara53/Topic-Backend/internal/models"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// FileStorage stores uploaded files (listing photos, notes, papers) and
// returns a URL clients can fetch them from.
type FileStorage interface {
	Upload(ctx context.Context, userID, filename string, file io.Reader) (*models.FileUploadResponse, error)
	Delete(ctx context.Context, userID, objectName string) error
}

// GCSFileStorage stores files in a Google Cloud Storage bucket under
// uploads/<userID>/<uuid><ext> and tags each object with its uploader so
// Delete can enforce ownership.
type GCSFileStorage struct {
	client *storage.Client
	bucket string
}

func NewGCSFileStorage(ctx context.Context, bucket string) (*GCSFileStorage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSFileStorage{client: client, bucket: bucket}, nil
}

func (s *GCSFileStorage) Upload(ctx context.Context, userID, filename string, file io.Reader) (*models.FileUploadResponse, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	objectName := fmt.Sprintf("uploads/%s/%s%s", userID, uuid.New().String(), ext)

	obj := s.client.Bucket(s.bucket).Object(objectName)
	w := obj.NewWriter(ctx)
	w.Metadata = map[string]string{"userId": userID}

	if _, err := io.Copy(w, file); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize object: %w", err)
	}

	return &models.FileUploadResponse{
		URL:      publicObjectURL(s.bucket, objectName),
		Filename: objectName,
	}, nil
}

func (s *GCSFileStorage) Delete(ctx context.Context, userID, objectName string) error {
	obj := s.client.Bucket(s.bucket).Object(objectName)

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return ErrFileNotFound
		}
		return err
	}
	if attrs.Metadata["userId"] != userID {
		return ErrUnauthorized
	}

	return obj.Delete(ctx)
}

func (s *GCSFileStorage) Close() error {
	return s.client.Close()
}

func publicObjectURL(bucket, objectName string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, url.PathEscape(objectName))
}

// LocalFileStorage writes uploads to a directory on disk. Used when no
// bucket is configured (local runs and tests).
type LocalFileStorage struct {
	mu        sync.RWMutex
	uploadDir string
	owners    map[string]string // object name -> uploader ID
}

func NewLocalFileStorage(uploadDir string) *LocalFileStorage {
	os.MkdirAll(uploadDir, 0755)

	return &LocalFileStorage{
		uploadDir: uploadDir,
		owners:    make(map[string]string),
	}
}

func (s *LocalFileStorage) Upload(ctx context.Context, userID, filename string, file io.Reader) (*models.FileUploadResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	objectName := uuid.New().String() + ext
	filePath := filepath.Join(s.uploadDir, objectName)

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	s.owners[objectName] = userID

	return &models.FileUploadResponse{
		URL:      "/uploads/" + objectName,
		Filename: objectName,
	}, nil
}

func (s *LocalFileStorage) Delete(ctx context.Context, userID, objectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, exists := s.owners[objectName]
	if !exists {
		return ErrFileNotFound
	}
	if owner != userID {
		return ErrUnauthorized
	}

	filePath := filepath.Join(s.uploadDir, objectName)
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	delete(s.owners, objectName)
	return nil
}
