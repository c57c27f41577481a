package panelapp

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sellerdesk/panel/internal/infrastructure/storage"
)

// AllowedImageTypes is the whitelist for product image uploads. SVG is
// excluded because it can carry scripts.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MaxAttachmentSize caps a single product image upload.
const MaxAttachmentSize = 5 << 20

var (
	ErrAttachmentTooLarge       = errors.New("panel: attachment exceeds the size limit")
	ErrAttachmentTypeNotAllowed = errors.New("panel: attachment content type not allowed")
)

// AttachmentService stores product images and hands back public URLs the
// upstream catalogue can reference.
type AttachmentService struct {
	store  storage.AttachmentStore
	logger *zap.Logger
}

// NewAttachmentService creates an AttachmentService.
func NewAttachmentService(store storage.AttachmentStore, logger *zap.Logger) *AttachmentService {
	return &AttachmentService{store: store, logger: logger}
}

// Upload stores one product image and returns its public URL. The key is
// namespaced per product so bulk cleanup stays a prefix operation.
func (s *AttachmentService) Upload(ctx context.Context, productID, filename, contentType string, data []byte) (string, error) {
	if len(data) > MaxAttachmentSize {
		return "", ErrAttachmentTooLarge
	}
	ext, ok := AllowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrAttachmentTypeNotAllowed, contentType)
	}

	// The filename extension is only trusted when it maps back into the
	// whitelist, so a renamed file cannot smuggle a .svg key past the
	// content-type check.
	if e := strings.ToLower(path.Ext(filename)); e != "" && allowedExtension(e) {
		ext = e
	}
	key := fmt.Sprintf("products/%s/%s%s", productID, uuid.New().String(), ext)

	url, err := s.store.Upload(ctx, key, data, contentType)
	if err != nil {
		return "", fmt.Errorf("upload attachment: %w", err)
	}

	s.logger.Info("attachment uploaded",
		zap.String("product_id", productID),
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)
	return url, nil
}

func allowedExtension(ext string) bool {
	if ext == ".jpeg" {
		return true
	}
	for _, allowed := range AllowedImageTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Delete removes an attachment by its storage key.
func (s *AttachmentService) Delete(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}
