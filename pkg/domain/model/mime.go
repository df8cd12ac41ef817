package model

import (
	"path/filepath"
	"strings"
)

// DefaultMIMEType is used when neither a declared type nor a known extension is available
const DefaultMIMEType = "text/plain"

var mimeByExtension = map[string]string{
	".md":  "text/markdown",
	".txt": "text/plain",
	".pdf": "application/pdf",
	".csv": "text/csv",
}

// ResolveMIMEType returns declared when non-empty, otherwise the type registered for the file extension
func ResolveMIMEType(fileName, declared string) string {
	if declared = strings.TrimSpace(declared); declared != "" {
		return declared
	}

	if t, ok := mimeByExtension[strings.ToLower(filepath.Ext(fileName))]; ok {
		return t
	}
	return DefaultMIMEType
}

// IsPlainText reports whether the type can be decoded as UTF-8 text without an external extractor
func IsPlainText(mimeType string) bool {
	base, _, _ := strings.Cut(mimeType, ";")
	base = strings.TrimSpace(strings.ToLower(base))
	return strings.HasPrefix(base, "text/") || base == "application/json"
}
