// Package storage persists uploaded images and returns public URLs for them.
package storage

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// KeyPrefix groups every upload under one folder
const KeyPrefix = "agri_ai"

var preferredExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// objectName returns a collision-free name that keeps the upload's extension
func objectName(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = preferredExt[contentType]
	}
	if ext == "" && contentType != "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	return uuid.NewString() + ext
}

func joinURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(name, "/")
}
