package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ImageService stores uploaded media under the configured upload directory.
// Stored files get generated names so uploads can never collide.
type ImageService struct {
	uploadDir string
	log       zerolog.Logger
}

func NewImageService(uploadDir string, logger zerolog.Logger) (*ImageService, error) {
	absolute, err := filepath.Abs(uploadDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(absolute, 0o755); err != nil {
		return nil, fmt.Errorf("could not create upload directory %s: %w", absolute, err)
	}

	logger.Info().Str("dir", absolute).Msg("upload directory initialized")
	return &ImageService{uploadDir: absolute, log: logger}, nil
}

// Store writes the file under an optional subdirectory and returns the
// relative filename to reference it by.
func (s *ImageService) Store(file io.Reader, originalFilename, subdirectory string) (string, error) {
	extension := strings.TrimPrefix(filepath.Ext(originalFilename), ".")
	newFilename := uuid.NewString()
	if extension != "" {
		newFilename += "." + extension
	}

	targetDir := s.uploadDir
	if subdirectory != "" {
		targetDir = filepath.Join(s.uploadDir, subdirectory)
		if err := os.MkdirAll(targetDir, 0o755); err != nil {
			return "", err
		}
	}

	targetPath := filepath.Join(targetDir, newFilename)
	out, err := os.Create(targetPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(targetPath)
		return "", err
	}

	s.log.Info().Str("path", targetPath).Msg("stored file")

	if subdirectory != "" {
		return subdirectory + "/" + newFilename, nil
	}
	return newFilename, nil
}

// Resolve maps a stored filename to an absolute path, refusing anything
// that escapes the upload directory.
func (s *ImageService) Resolve(filename string) (string, error) {
	path := filepath.Join(s.uploadDir, filepath.Clean("/"+filename))
	if !strings.HasPrefix(path, s.uploadDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid filename: %s", filename)
	}
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *ImageService) Delete(filename string) error {
	path, err := s.Resolve(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return err
	}
	s.log.Info().Str("path", path).Msg("deleted file")
	return nil
}

func (s *ImageService) Exists(filename string) bool {
	_, err := s.Resolve(filename)
	return err == nil
}
