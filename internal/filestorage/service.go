package filestorage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/config"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/crypto"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// PublicPrefix is the URL prefix the upload directory is served under.
const PublicPrefix = "/uploads"

// Kind selects the sub-directory an upload is written to.
type Kind string

const (
	KindTaskImage          Kind = "tasks"
	KindProviderProfile    Kind = "providers/profile"
	KindProviderSampleWork Kind = "providers/samples"
	KindUserAvatar         Kind = "users/avatars"
)

// ErrUnsupportedFileType is returned for uploads whose type cannot be determined or is not allowed.
var ErrUnsupportedFileType = errors.New("unsupported file type")

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".pdf": true,
}

// maxImageBytes bounds how much of an upload is buffered for resizing.
const maxImageBytes = 25 << 20

// Store is what the domain services need from the upload directory.
type Store interface {
	Save(fileHeader *multipart.FileHeader, kind Kind) (string, error)
	// SaveAll saves every file or none: on failure the files already written are removed.
	SaveAll(fileHeaders []*multipart.FileHeader, kind Kind) ([]string, error)
	Delete(relativePath string) error
	// DeleteQuietly removes files best-effort, logging failures.
	DeleteQuietly(relativePaths ...string)
}

// Service stores uploads on local disk under a base directory.
type Service struct {
	storagePath  string
	maxDimension int
	logger       *zap.Logger
	now          func() time.Time
}

var _ Store = (*Service)(nil)

// NewService creates the upload directory if needed.
func NewService(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	return NewDiskService(cfg.UploadDir, cfg.ImageMaxDimension, logger)
}

// NewDiskService is NewService without the config dependency.
func NewDiskService(storagePath string, maxDimension int, logger *zap.Logger) (*Service, error) {
	if storagePath == "" {
		return nil, fmt.Errorf("storage path cannot be empty")
	}
	if err := os.MkdirAll(storagePath, os.ModePerm); err != nil {
		logger.Error("Failed to create storage path directory", zap.String("path", storagePath), zap.Error(err))
		return nil, fmt.Errorf("failed to create storage path %s: %w", storagePath, err)
	}
	logger = logger.Named("filestorage")
	logger.Info("File storage initialized", zap.String("storagePath", storagePath), zap.Int("maxDimension", maxDimension))
	return &Service{storagePath: storagePath, maxDimension: maxDimension, logger: logger, now: time.Now}, nil
}

// BasePath is the directory uploads are written under.
func (s *Service) BasePath() string {
	return s.storagePath
}

// Save writes one upload and returns its path relative to the storage root,
// e.g. "tasks/1700000000000000000-a1b2c3d4e5f6.jpg".
func (s *Service) Save(fileHeader *multipart.FileHeader, kind Kind) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("fileHeader cannot be nil")
	}

	extension, err := extensionFor(fileHeader)
	if err != nil {
		return "", err
	}

	src, err := fileHeader.Open()
	if err != nil {
		s.logger.Error("Failed to open uploaded file", zap.Error(err))
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	suffix, err := crypto.RandomHex(6)
	if err != nil {
		return "", fmt.Errorf("failed to generate file name: %w", err)
	}
	uniqueFilename := fmt.Sprintf("%d-%s%s", s.now().UnixNano(), suffix, extension)

	subDir := filepath.FromSlash(string(kind))
	if clean := filepath.Clean(subDir); clean != subDir || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		s.logger.Error("Invalid upload kind", zap.String("kind", string(kind)))
		return "", fmt.Errorf("invalid upload kind %q", kind)
	}

	destinationDir := filepath.Join(s.storagePath, subDir)
	if err := os.MkdirAll(destinationDir, os.ModePerm); err != nil {
		s.logger.Error("Failed to create sub-directory for file storage", zap.String("path", destinationDir), zap.Error(err))
		return "", fmt.Errorf("failed to create directory %s: %w", destinationDir, err)
	}

	destinationPath := filepath.Join(destinationDir, uniqueFilename)
	if err := s.write(destinationPath, src, extension); err != nil {
		_ = os.Remove(destinationPath)
		s.logger.Error("Failed to write uploaded file", zap.String("path", destinationPath), zap.Error(err))
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	s.logger.Debug("File saved", zap.String("path", destinationPath))
	return path.Join(string(kind), uniqueFilename), nil
}

func (s *Service) SaveAll(fileHeaders []*multipart.FileHeader, kind Kind) ([]string, error) {
	saved := make([]string, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		rel, err := s.Save(fh, kind)
		if err != nil {
			s.DeleteQuietly(saved...)
			return nil, err
		}
		saved = append(saved, rel)
	}
	return saved, nil
}

// Delete removes a file given its path relative to the storage root.
// Missing files are not an error.
func (s *Service) Delete(relativePath string) error {
	if relativePath == "" {
		return fmt.Errorf("relative path cannot be empty")
	}

	cleanRelativePath := filepath.Clean(filepath.FromSlash(relativePath))
	if strings.Contains(cleanRelativePath, "..") || filepath.IsAbs(cleanRelativePath) {
		s.logger.Warn("Attempt to delete file with path traversal", zap.String("relativePath", relativePath))
		return fmt.Errorf("invalid file path for deletion")
	}

	fullPath := filepath.Join(s.storagePath, cleanRelativePath)
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("Attempt to delete non-existent file", zap.String("path", fullPath))
			return nil
		}
		return fmt.Errorf("failed to delete file %s: %w", fullPath, err)
	}

	s.logger.Debug("File deleted", zap.String("path", fullPath))
	return nil
}

func (s *Service) DeleteQuietly(relativePaths ...string) {
	for _, rel := range relativePaths {
		if rel == "" {
			continue
		}
		if err := s.Delete(rel); err != nil {
			s.logger.Warn("Best-effort file cleanup failed", zap.String("relativePath", rel), zap.Error(err))
		}
	}
}

// write copies src to dst, downscaling decodable images wider or taller
// than maxDimension. Anything that does not decode is written unchanged.
func (s *Service) write(dst string, src io.Reader, extension string) error {
	format, isImage := imageFormat(extension)
	if !isImage || s.maxDimension <= 0 {
		return copyTo(dst, src)
	}

	data, err := io.ReadAll(io.LimitReader(src, maxImageBytes+1))
	if err != nil {
		return err
	}
	if len(data) > maxImageBytes {
		return fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		s.logger.Debug("Upload did not decode as an image; storing as-is", zap.Error(err))
		return copyTo(dst, bytes.NewReader(data))
	}

	b := img.Bounds()
	if b.Dx() <= s.maxDimension && b.Dy() <= s.maxDimension {
		return copyTo(dst, bytes.NewReader(data))
	}

	resized := imaging.Fit(img, s.maxDimension, s.maxDimension, imaging.Lanczos)
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := imaging.Encode(out, resized, format); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyTo(dst string, src io.Reader) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func imageFormat(extension string) (imaging.Format, bool) {
	switch extension {
	case ".jpg", ".jpeg":
		return imaging.JPEG, true
	case ".png":
		return imaging.PNG, true
	case ".gif":
		return imaging.GIF, true
	default:
		return 0, false
	}
}

func extensionFor(fileHeader *multipart.FileHeader) (string, error) {
	extension := strings.ToLower(filepath.Ext(filepath.Base(fileHeader.Filename)))
	if extension == "" {
		contentType := fileHeader.Header.Get("Content-Type")
		switch {
		case strings.HasPrefix(contentType, "image/jpeg"):
			extension = ".jpg"
		case strings.HasPrefix(contentType, "image/png"):
			extension = ".png"
		case strings.HasPrefix(contentType, "image/gif"):
			extension = ".gif"
		case strings.HasPrefix(contentType, "image/webp"):
			extension = ".webp"
		case strings.HasPrefix(contentType, "application/pdf"):
			extension = ".pdf"
		default:
			return "", fmt.Errorf("%w: missing extension, content type %q", ErrUnsupportedFileType, contentType)
		}
	}
	if !allowedExtensions[extension] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, extension)
	}
	return extension, nil
}

// PublicPath maps a stored relative path to the URL path it is served at.
func PublicPath(relativePath string) string {
	if relativePath == "" {
		return ""
	}
	return PublicPrefix + "/" + strings.TrimPrefix(relativePath, "/")
}

// PublicPaths maps PublicPath over a slice.
func PublicPaths(relativePaths []string) []string {
	out := make([]string, len(relativePaths))
	for i, p := range relativePaths {
		out[i] = PublicPath(p)
	}
	return out
}
