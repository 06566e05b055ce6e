package orchestrator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pagemonk/pagemonk/internal/domain"
)

// MaxUploadBytes is the size ceiling for the single-file upload flow.
// Enforced before any network call.
const MaxUploadBytes = 10 << 20 // 10 MB

// acceptedExtensions maps accepted file extensions to their MIME type.
// PDF, common raster images, plain text/markdown and Word formats.
var acceptedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tiff": "image/tiff",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ValidateFile checks a file's kind and size before any network call.
// Returns an UnsupportedTypeError or FileTooLargeError on rejection.
func ValidateFile(path string, size int64) error {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := acceptedExtensions[ext]; !ok {
		return domain.NewUnsupportedTypeError(
			fmt.Sprintf("unsupported file type %q (accepted: pdf, images, text, word)", ext))
	}
	if size > MaxUploadBytes {
		return domain.NewFileTooLargeError(
			fmt.Sprintf("file is %.2f MB, exceeds the %d MB upload limit",
				float64(size)/(1024*1024), MaxUploadBytes>>20))
	}
	return nil
}

// FileKind returns the MIME type for an accepted file extension, or
// empty when the extension is not accepted.
func FileKind(path string) string {
	return acceptedExtensions[strings.ToLower(filepath.Ext(path))]
}
