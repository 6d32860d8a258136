// Package staging persists uploaded media to temporary storage for the
// duration of one summarization request.
package staging

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"videosummary_backend/platform/apperr"
)

// allowedVideoTypes defines the allowed MIME types for video uploads,
// keyed to the temp file extension used when staging.
var allowedVideoTypes = map[string]string{
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"video/x-msvideo": ".avi",
}

// UploadedMedia is one user-submitted video blob. Owned exclusively by the
// stager for the duration of one request.
type UploadedMedia struct {
	Data        []byte
	ContentType string
	Filename    string // diagnostics only
}

// Handle references staged media on disk. It stays valid for the full
// duration of one backend call and must be released exactly once, on every
// exit path of the orchestration.
type Handle struct {
	path     string
	mimeType string
	released atomic.Bool
}

// Path returns the temporary file location of the staged media.
func (h *Handle) Path() string {
	return h.path
}

// MIMEType returns the validated media type.
func (h *Handle) MIMEType() string {
	return h.mimeType
}

// Stager validates and stages uploaded media.
type Stager struct {
	dir         string
	maxFileSize int64
}

// New creates a stager writing to dir (the OS temp dir when empty).
func New(dir string, maxFileSize int64) *Stager {
	return &Stager{dir: dir, maxFileSize: maxFileSize}
}

// AllowedContentTypes returns the video types accepted for staging.
// Useful for frontend validation.
func AllowedContentTypes() []string {
	types := make([]string, 0, len(allowedVideoTypes))
	for ct := range allowedVideoTypes {
		types = append(types, ct)
	}
	return types
}

// Stage validates the media and persists it to a uniquely named temporary
// file. Nothing is persisted when validation fails.
func (s *Stager) Stage(media UploadedMedia) (*Handle, error) {
	contentType := normalizeContentType(media.ContentType)
	ext, ok := allowedVideoTypes[contentType]
	if !ok {
		return nil, apperr.UnsupportedFormat(
			fmt.Sprintf("content type %q is not a supported video format", media.ContentType))
	}

	if len(media.Data) == 0 {
		return nil, apperr.Validation("uploaded file is empty")
	}
	if s.maxFileSize > 0 && int64(len(media.Data)) > s.maxFileSize {
		return nil, apperr.Validation(
			fmt.Sprintf("file size %d bytes exceeds maximum allowed size of %d bytes", len(media.Data), s.maxFileSize))
	}

	tmp, err := os.CreateTemp(s.dir, "staged-*"+ext)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStaging, "failed to create temporary media file", err)
	}

	if _, err := tmp.Write(media.Data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, apperr.Wrap(apperr.KindStaging, "failed to write staged media", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, apperr.Wrap(apperr.KindStaging, "failed to finalize staged media", err)
	}

	return &Handle{path: tmp.Name(), mimeType: contentType}, nil
}

// Release deletes the staged media. Idempotent and nil-safe, so callers can
// release unconditionally on every exit path.
func (s *Stager) Release(handle *Handle) error {
	if handle == nil || handle.path == "" {
		return nil
	}
	if !handle.released.CompareAndSwap(false, true) {
		return nil
	}

	if err := os.Remove(handle.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to release staged media %s: %w", handle.path, err)
	}
	return nil
}

// normalizeContentType strips parameters like charset and lowercases the type.
func normalizeContentType(contentType string) string {
	normalized := strings.Split(contentType, ";")[0]
	return strings.TrimSpace(strings.ToLower(normalized))
}
