package catalog

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/ims/backend/internal/domain/shared"
)

// MaxImageSize is the largest accepted product image
const MaxImageSize = 2 << 20

// ImageKeyPrefix is where product images live in the bucket
const ImageKeyPrefix = "products/"

// ObjectStorage stores product images
type ObjectStorage interface {
	// Upload writes data under key
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	// PublicURL returns the URL clients use to fetch key
	PublicURL(key string) string
}

// ImageUpload is an image file received with a product request
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Validate checks the content type and size
func (u *ImageUpload) Validate() error {
	verr := shared.NewValidationError()
	if !strings.HasPrefix(u.ContentType, "image/") {
		verr.Add("image", "File must be an image")
	}
	if len(u.Data) == 0 {
		verr.Add("image", "File is empty")
	}
	if len(u.Data) > MaxImageSize {
		verr.Add("image", "Image must be 2 MB or smaller")
	}
	return verr.OrNil()
}

// ImageKey builds products/<unix-ms>-<random>.<ext> for the upload
func (u *ImageUpload) ImageKey(now time.Time) string {
	return fmt.Sprintf("%s%d-%s%s", ImageKeyPrefix, now.UnixMilli(), randomSuffix(), u.extension())
}

func (u *ImageUpload) extension() string {
	if ext := strings.ToLower(filepath.Ext(u.Filename)); ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(u.ContentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

func randomSuffix() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
