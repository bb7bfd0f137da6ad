package media

import (
	"strings"
)

// headerLength is the number of leading bytes inspected by Extension.
const headerLength = 20

// signatures are checked in order; the first token found wins.
var signatures = []struct {
	token     string
	extension string
}{
	{"jpeg", ".jpg"},
	{"png", ".png"},
	{"mp4", ".mp4"},
	{"webm", ".webm"},
	{"ogg", ".ogg"},
}

const defaultExtension = ".jpg"

// Extension guesses a file extension for uploaded content. It's a best-effort heuristic, not a format sniffer:
// the leading bytes are decoded as text, invalid UTF-8 sequences are dropped, and the lowercased result is
// searched for a handful of format names. Content that merely mentions "png" near its start is classified as a PNG,
// and anything unrecognised is treated as a JPEG.
func Extension(content []byte) string {
	if len(content) > headerLength {
		content = content[:headerLength]
	}
	var header = strings.ToLower(strings.ToValidUTF8(string(content), ""))
	for _, signature := range signatures {
		if strings.Contains(header, signature.token) {
			return signature.extension
		}
	}
	return defaultExtension
}
