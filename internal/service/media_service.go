package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"tourdiary/internal/config"
	"tourdiary/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"

	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultUploadDir       = "/tmp/tourdiary/uploads"
	DefaultMaxUploadSizeMB = 50
	ThumbnailMaxSize       = 256
	ThumbWebPQuality       = 70
)

// Media kinds returned by Upload.
const (
	MediaKindPicture = "picture"
	MediaKindVideo   = "video"
)

var pictureExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

var videoExts = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".webm": true,
}

// UploadMediaInput carries one uploaded file.
type UploadMediaInput struct {
	UserID   string
	Filename string
	Content  []byte
}

// UploadedMedia describes a stored file.
type UploadedMedia struct {
	Kind         string `json:"kind"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// MediaService stores diary pictures and videos on disk. Pictures get a WebP
// thumbnail alongside the original.
type MediaService struct {
	uploadDir          string
	baseURL            string
	maxUploadSizeBytes int64
}

// NewMediaService creates a media service from the application config.
func NewMediaService(cfg *config.Config) *MediaService {
	uploadDir := DefaultUploadDir
	maxUploadSizeMB := DefaultMaxUploadSizeMB
	baseURL := "/uploads"

	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		if cfg.UploadBaseURL != "" {
			baseURL = strings.TrimSuffix(cfg.UploadBaseURL, "/")
		}
		if cfg.MaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.MaxUploadSizeMB
		}
	}

	return &MediaService{
		uploadDir:          uploadDir,
		baseURL:            baseURL,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// UploadDir returns the disk root, used to mount the static file route.
func (s *MediaService) UploadDir() string {
	return s.uploadDir
}

// MediaKind classifies a filename by extension.
func MediaKind(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case pictureExts[ext]:
		return MediaKindPicture
	case videoExts[ext]:
		return MediaKindVideo
	default:
		return ""
	}
}

// Upload stores one file and returns its public URLs.
func (s *MediaService) Upload(in UploadMediaInput) (*UploadedMedia, error) {
	if in.UserID == "" {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	kind := MediaKind(in.Filename)
	if kind == "" {
		return nil, models.NewValidationError("Unsupported file type")
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	hash := buildMediaHash(in.UserID, in.Content)

	switch kind {
	case MediaKindPicture:
		return s.storePicture(hash, ext, in.Content)
	default:
		return s.storeVideo(hash, ext, in.Content)
	}
}

func (s *MediaService) storePicture(hash, ext string, content []byte) (*UploadedMedia, error) {
	if !strings.HasPrefix(http.DetectContentType(content), "image/") {
		return nil, models.NewValidationError("Invalid image file")
	}
	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	rel := filepath.ToSlash(filepath.Join("pictures", hash+ext))
	if err := writeMediaFile(filepath.Join(s.uploadDir, rel), content); err != nil {
		return nil, models.NewInternalError(err)
	}

	thumb := resizeToFit(decoded, ThumbnailMaxSize, ThumbnailMaxSize)
	thumbBytes, err := encodeWebP(thumb, ThumbWebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	thumbRel := filepath.ToSlash(filepath.Join("pictures", hash+"_thumb.webp"))
	if err := writeMediaFile(filepath.Join(s.uploadDir, thumbRel), thumbBytes); err != nil {
		_ = os.Remove(filepath.Join(s.uploadDir, rel))
		return nil, models.NewInternalError(err)
	}

	return &UploadedMedia{
		Kind:         MediaKindPicture,
		URL:          s.baseURL + "/" + rel,
		ThumbnailURL: s.baseURL + "/" + thumbRel,
	}, nil
}

func (s *MediaService) storeVideo(hash, ext string, content []byte) (*UploadedMedia, error) {
	rel := filepath.ToSlash(filepath.Join("videos", hash+ext))
	if err := writeMediaFile(filepath.Join(s.uploadDir, rel), content); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &UploadedMedia{
		Kind: MediaKindVideo,
		URL:  s.baseURL + "/" + rel,
	}, nil
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

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

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

func buildMediaHash(userID string, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%s:", userID)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func writeMediaFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
