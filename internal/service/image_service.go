package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif" // Register GIF decoder
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"yatube/internal/config"
	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultMediaRoot            = "media"
	DefaultImageMaxUploadSizeMB = 5
	// ThumbnailWidth and ThumbnailHeight are the card image size on post pages.
	ThumbnailWidth  = 960
	ThumbnailHeight = 339
	WebPQuality     = 70

	postsDir  = "posts"
	thumbsDir = "cache/thumbs"
)

// InvalidImageMessage is the form error for uploads that do not decode as images.
const InvalidImageMessage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

// ImageUpload is a file received from a multipart form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ImageStore persists post images. ImageService is the disk-backed implementation.
type ImageStore interface {
	Save(ctx context.Context, in ImageUpload) (string, error)
	Remove(ctx context.Context, name string)
}

// ImageService stores uploads under MEDIA_ROOT/posts and keeps a WebP
// thumbnail for each one under MEDIA_ROOT/cache/thumbs.
type ImageService struct {
	mediaRoot          string
	maxUploadSizeBytes int64
}

func NewImageService(cfg *config.Config) *ImageService {
	mediaRoot := DefaultMediaRoot
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB

	if cfg != nil {
		if cfg.MediaRoot != "" {
			mediaRoot = cfg.MediaRoot
		}
		if cfg.ImageMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
		}
	}

	return &ImageService{
		mediaRoot:          mediaRoot,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// MediaRoot is the directory served under /media.
func (s *ImageService) MediaRoot() string {
	return s.mediaRoot
}

// Save validates and stores the upload and returns its media-relative name,
// e.g. "posts/3f2c....png".
func (s *ImageService) Save(ctx context.Context, in ImageUpload) (string, error) {
	if len(in.Content) == 0 {
		return "", models.NewFieldError("image", InvalidImageMessage)
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return "", models.NewFieldError("image", fmt.Sprintf("Ensure the file is at most %dMB.", s.maxUploadSizeBytes/(1024*1024)))
	}
	if !isAllowedImageMIME(http.DetectContentType(in.Content)) {
		return "", models.NewFieldError("image", InvalidImageMessage)
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil || !isSupportedDecodedFormat(format) {
		return "", models.NewFieldError("image", InvalidImageMessage)
	}

	name := path.Join(postsDir, uuid.NewString()+extensionFor(format))
	if err := writeBytesToFile(s.absPath(name), in.Content); err != nil {
		return "", models.NewInternalError(err)
	}

	thumb := resizeToFit(cropToAspect(decoded, ThumbnailWidth, ThumbnailHeight), ThumbnailWidth, ThumbnailHeight)
	encoded, err := encodeWebP(thumb, WebPQuality)
	if err != nil {
		s.Remove(ctx, name)
		return "", models.NewInternalError(err)
	}
	if err := writeBytesToFile(s.absPath(ThumbnailPath(name)), encoded); err != nil {
		s.Remove(ctx, name)
		return "", models.NewInternalError(err)
	}
	return name, nil
}

// Remove deletes a stored image and its thumbnail. Missing files are
// ignored; other failures are logged.
func (s *ImageService) Remove(ctx context.Context, name string) {
	if !isMediaName(name) {
		return
	}
	for _, p := range []string{s.absPath(name), s.absPath(ThumbnailPath(name))} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			middleware.Logger.WarnContext(ctx, "failed to remove media file",
				slog.String("path", p),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *ImageService) absPath(name string) string {
	return filepath.Join(s.mediaRoot, filepath.FromSlash(name))
}

// ThumbnailPath maps "posts/<id>.<ext>" to "cache/thumbs/<id>.webp".
func ThumbnailPath(name string) string {
	if name == "" {
		return ""
	}
	base := path.Base(name)
	return path.Join(thumbsDir, strings.TrimSuffix(base, path.Ext(base))+".webp")
}

func isMediaName(name string) bool {
	return strings.HasPrefix(name, postsDir+"/") && !strings.Contains(name, "..")
}

// cropToAspect center-crops src to the w:h aspect ratio.
func cropToAspect(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 || w <= 0 || h <= 0 {
		return src
	}
	target := float64(w) / float64(h)
	ratio := float64(b.Dx()) / float64(b.Dy())

	cropW, cropH := b.Dx(), b.Dy()
	if ratio > target {
		cropW = max(int(float64(b.Dy())*target), 1)
	} else {
		cropH = max(int(float64(b.Dx())/target), 1)
	}
	x := b.Min.X + (b.Dx()-cropW)/2
	y := b.Min.Y + (b.Dy()-cropH)/2

	dst := image.NewRGBA(image.Rect(0, 0, cropW, cropH))
	draw.Draw(dst, dst.Bounds(), src, image.Point{X: x, Y: y}, draw.Src)
	return dst
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scale := min(float64(maxWidth)/float64(w), float64(maxHeight)/float64(h))
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isSupportedDecodedFormat(format string) bool {
	return extensionFor(format) != ""
}

func extensionFor(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return ".jpg"
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	case "webp":
		return ".webp"
	default:
		return ""
	}
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// MaxUploadSizeMB is the largest accepted upload.
func (s *ImageService) MaxUploadSizeMB() int {
	return int(s.maxUploadSizeBytes / (1024 * 1024))
}
