package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Bingusala/rosy-glow/internal/core/ports"
)

// MaxUploadSize is the client-side cap on image uploads.
const MaxUploadSize = 5 << 20 // 5 MiB

var allowedImageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// UploadService implements the validate-then-upload contract for product
// images: reject anything outside the allowlist or over the size cap before
// a single byte leaves the client, then hand the rest to the gateway. The
// storage pipeline behind the endpoint is an external collaborator.
type UploadService struct {
	gw ports.Gateway
}

func NewUploadService(gw ports.Gateway) *UploadService {
	return &UploadService{gw: gw}
}

// ValidateImage checks a candidate upload against the allowlist and size
// cap without touching the network.
func (s *UploadService) ValidateImage(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedImageExts[ext]; !ok {
		return fmt.Errorf("unsupported image type %q (allowed: jpg, jpeg, png, gif, webp)", ext)
	}
	if size <= 0 {
		return fmt.Errorf("empty upload")
	}
	if size > MaxUploadSize {
		return fmt.Errorf("image exceeds the %d MiB limit", MaxUploadSize>>20)
	}
	return nil
}

// UploadImage validates and uploads a product image, returning the stored
// image URL.
func (s *UploadService) UploadImage(ctx context.Context, filename string, size int64, content io.Reader) (string, error) {
	if err := s.ValidateImage(filename, size); err != nil {
		return "", err
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := s.gw.Upload(ctx, "/upload", "file", filepath.Base(filename), io.LimitReader(content, MaxUploadSize), &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
