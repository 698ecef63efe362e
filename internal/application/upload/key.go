package upload

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-video-drop/internal/pkg/id"
)

// GenerateKey derives a storage key from the client-supplied name:
// <base>_<unix millis>_<random token><ext>. Directory components and unsafe
// characters never reach the key.
func GenerateKey(originalName string, now time.Time) string {
	name := path.Base(strings.ReplaceAll(originalName, "\\", "/"))
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if ext == name {
		// dotfile such as ".mp4": treat the whole thing as the base
		base, ext = name, ""
	}
	safeBase := sanitizeFilename(base)
	for strings.Contains(safeBase, "..") {
		safeBase = strings.ReplaceAll(safeBase, "..", "_")
	}
	if strings.Trim(safeBase, "._") == "" {
		safeBase = "upload"
	}
	return fmt.Sprintf("%s_%d_%s%s", safeBase, now.UnixMilli(), id.Token(now), sanitizeExt(ext))
}

// sanitizeFilename keeps only safe characters (alphanumeric, dot, dash,
// underscore) so the key is a single flat path segment.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func sanitizeExt(ext string) string {
	if ext == "" || ext == "." {
		return ""
	}
	return "." + sanitizeFilename(ext[1:])
}

// validKey rejects keys that could escape the flat namespace.
func validKey(key string) bool {
	return key != "" &&
		!strings.HasPrefix(key, "/") &&
		!strings.Contains(key, "..") &&
		!strings.Contains(key, "\\")
}
