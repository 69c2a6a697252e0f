// Package media stores uploaded catalog images.
package media

import (
	"context"
	"errors"
	"mime/multipart"
	"path"
	"strings"
)

const (
	ProductsFolder   = "productos"
	CategoriesFolder = "categories"
)

// ErrNoImage is returned when an upload carries no file.
var ErrNoImage = errors.New("image is required")

// Store uploads images into a folder and deletes them by their public URL.
type Store interface {
	Upload(ctx context.Context, folder string, file *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, url string) error
}

// PublicID returns "<folder>/<name without extension>" for an image URL,
// or "" when the URL has no folder segment.
func PublicID(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	parts := strings.Split(strings.TrimRight(url, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	folder, file := parts[len(parts)-2], parts[len(parts)-1]
	if folder == "" || file == "" {
		return ""
	}
	name := strings.TrimSuffix(file, path.Ext(file))
	if name == "" {
		return ""
	}
	return folder + "/" + name
}
