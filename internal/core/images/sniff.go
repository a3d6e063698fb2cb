package images

import "bytes"

// matcher recognizes one image container by its magic bytes. The list is
// static and owned here; nothing mutates shared sniffer state at runtime.
type matcher struct {
	format string
	match  func(head []byte) bool
}

func prefix(p []byte) func([]byte) bool {
	return func(head []byte) bool { return bytes.HasPrefix(head, p) }
}

var matchers = []matcher{
	{"jpeg", prefix([]byte{0xFF, 0xD8, 0xFF})},
	{"png", prefix([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})},
	{"gif", prefix([]byte("GIF8"))},
	{"webp", func(head []byte) bool {
		return len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WEBP"))
	}},
}

// SniffFormat returns the recognized image format of head, or "" when the
// content is not an allowed image type.
func SniffFormat(head []byte) string {
	for _, m := range matchers {
		if m.match(head) {
			return m.format
		}
	}
	return ""
}
