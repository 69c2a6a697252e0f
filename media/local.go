package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local writes images below dir and serves them from baseURL + "/uploads".
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) *Local {
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (l *Local) Dir() string {
	return l.dir
}

func (l *Local) Upload(ctx context.Context, folder string, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", ErrNoImage
	}
	saveDir := filepath.Join(l.dir, filepath.Base(folder))
	if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	filename := uuid.NewString() + ext

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(saveDir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return fmt.Sprintf("%s/uploads/%s/%s", l.baseURL, filepath.Base(folder), filename), nil
}

// Delete removes the file behind url. Missing files are not an error.
func (l *Local) Delete(ctx context.Context, url string) error {
	id := PublicID(url)
	if id == "" {
		return nil
	}
	folder, name, _ := strings.Cut(id, "/")
	matches, err := filepath.Glob(filepath.Join(l.dir, folder, name+".*"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove image: %w", err)
		}
	}
	return nil
}
