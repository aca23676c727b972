package mediatypes

import (
	"mime"
	"path/filepath"
	"strings"
)

// FileType represents the type of an uploaded file.
type FileType string

const (
	// FileTypeVideo represents a recognized video container.
	FileTypeVideo FileType = "video"
	// FileTypeOther represents an unknown file type.
	FileTypeOther FileType = "other"
)

// OutputExtension is the extension of every converted artifact.
const OutputExtension = ".mp4"

// VideoExtensions maps file extensions to whether they are known video containers.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".qt":   true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
	".ts":   true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".qt":   "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".ts":   "video/mp2t",
}

// extensionsByMime is the preferred extension for each MIME type.
var extensionsByMime = map[string]string{
	"video/mp4":        ".mp4",
	"video/x-matroska": ".mkv",
	"video/x-msvideo":  ".avi",
	"video/quicktime":  ".mov",
	"video/x-ms-wmv":   ".wmv",
	"video/x-flv":      ".flv",
	"video/webm":       ".webm",
	"video/x-m4v":      ".m4v",
	"video/mpeg":       ".mpeg",
	"video/3gpp":       ".3gp",
	"video/mp2t":       ".ts",
}

// GetFileType returns the FileType for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".mov").
// Other files are still handed to the engine, which decides whether it can
// read them; the type only drives naming and logging.
func GetFileType(ext string) FileType {
	if VideoExtensions[ext] {
		return FileTypeVideo
	}
	return FileTypeOther
}

// GetMimeType returns the MIME type for a given file extension.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if m, ok := MimeTypes[ext]; ok {
		return m
	}
	return "application/octet-stream"
}

// ExtensionForMime returns the preferred extension for a Content-Type
// header value, or "" if it is not a known video type.
func ExtensionForMime(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return extensionsByMime[strings.ToLower(mediaType)]
}

// UploadExtension chooses the extension for a stored upload. A known
// video extension on the file name wins, then the part's Content-Type,
// then whatever extension the file name had.
func UploadExtension(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if GetFileType(ext) == FileTypeVideo {
		return ext
	}
	if fromMime := ExtensionForMime(contentType); fromMime != "" {
		return fromMime
	}
	return ext
}
