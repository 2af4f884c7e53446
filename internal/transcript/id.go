package transcript

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// DocumentID derives a stable, filesystem-friendly identifier from a
// transcript path. The sanitized file stem keeps it readable, the digest
// suffix keeps it unique when two files share a name.
func DocumentID(path string) string {
	digest := sha256.Sum256([]byte(filepath.ToSlash(path)))
	suffix := hex.EncodeToString(digest[:])[:10]

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var b strings.Builder
	for _, ch := range stem {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			b.WriteRune(ch)
		default:
			b.WriteRune('_')
		}
	}
	safe := strings.Trim(b.String(), "_")
	if safe == "" {
		safe = "document"
	}
	return safe + "-" + suffix
}
