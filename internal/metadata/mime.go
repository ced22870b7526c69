package metadata

import (
	"strings"
)

// mimeTypes maps file extensions to MIME types.
var mimeTypes = map[string]string{
	// Documents
	".pdf":  "application/pdf",
	".epub": "application/epub+zip",
	".mobi": "application/x-mobipocket-ebook",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".rtf":  "application/rtf",

	// Text
	".txt": "text/plain",
	".md":  "text/markdown",
	".csv": "text/csv",

	// Archives
	".zip": "application/zip",
	".rar": "application/vnd.rar",
	".7z":  "application/x-7z-compressed",
	".tar": "application/x-tar",
	".gz":  "application/gzip",

	// Images
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",

	// Audio/Video
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",

	// Data
	".json": "application/json",
	".yaml": "text/x-yaml",
	".yml":  "text/x-yaml",
	".xml":  "text/xml",
}

// specialFilenames maps specific filenames to MIME types.
var specialFilenames = map[string]string{
	"Makefile": "text/x-makefile",
	"README":   "text/plain",
	"LICENSE":  "text/plain",
}

// MIMETypeForPath returns the MIME type for a file path.
// It checks special filenames first, then the file extension.
// Returns "application/octet-stream" for unknown types.
func MIMETypeForPath(path string) string {
	base := baseName(path)

	if mime, ok := specialFilenames[base]; ok {
		return mime
	}

	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		if mime, ok := mimeTypes[strings.ToLower(base[i:])]; ok {
			return mime
		}
	}

	return "application/octet-stream"
}
