package constants

import "strings"

// Media types accepted by the Text Extractor.
const (
	MediaPDF   = "application/pdf"
	MediaDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaPlain = "text/plain"
)

// NormalizeMediaType lowercases and strips any parameters ("; charset=utf-8").
func NormalizeMediaType(mt string) string {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

// MapExtToMediaType resolves a filename extension to a supported media type.
// Returns "" when the extension is not supported.
func MapExtToMediaType(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "pdf":
		return MediaPDF
	case "docx":
		return MediaDOCX
	case "txt", "text":
		return MediaPlain
	default:
		return ""
	}
}
