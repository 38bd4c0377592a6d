package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobapply-backend/internal/shared/util"
)

// Subdirectories by attachment kind. Paths under them are exposed publicly
// as /uploads/<subdir>/<name> and served statically.
const (
	SubDirPhotos = "photos"
	SubDirFiles  = "files"
)

// Store writes uploaded files under a configured root directory and decides,
// per save, whether a slot keeps a newly uploaded file or carries forward a
// previously stored path.
type Store struct {
	baseDir string
}

// New creates a store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// BaseDir returns the root directory uploads are written to.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Resolve returns the public path for one attachment slot. A non-empty
// uploaded file wins and is written to disk; otherwise previousPath is
// carried forward verbatim so that re-saving a draft without re-uploading
// does not lose the file. An empty result means no attachment.
func (s *Store) Resolve(ctx context.Context, file *multipart.FileHeader, subDir, previousPath string) (string, error) {
	if file != nil && file.Size > 0 {
		return s.save(ctx, file, subDir)
	}
	return strings.TrimSpace(previousPath), nil
}

func (s *Store) save(ctx context.Context, file *multipart.FileHeader, subDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dirPath := filepath.Join(s.baseDir, subDir)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	name := fmt.Sprintf("%s_%d%s", uuid.NewString(), time.Now().UnixMilli(), safeExt(file.Filename))
	fullPath := filepath.Join(dirPath, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write body: %w", err)
	}

	return "/uploads/" + subDir + "/" + name, nil
}

// safeExt keeps the original extension when it looks like one.
func safeExt(fileName string) string {
	clean, err := util.SanitizeFileName(fileName)
	if err != nil {
		return ""
	}
	ext := filepath.Ext(clean)
	if ext == "." {
		return ""
	}
	return ext
}
