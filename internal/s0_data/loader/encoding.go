package loader

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names reported by Decode
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
	EncodingLatin1      = "iso-8859-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts a DVF export to UTF-8.
// Order: UTF-8 → Windows-1252 → ISO-8859-1 (Latin-1 decodes any byte, so it is last).
func Decode(data []byte) ([]byte, string) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, EncodingUTF8
	}

	if out, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil && !hasUndefined(out) {
		return out, EncodingWindows1252
	}

	out, _ := charmap.ISO8859_1.NewDecoder().Bytes(data)
	return out, EncodingLatin1
}

// hasUndefined detects bytes Windows-1252 leaves unassigned (0x81, 0x8D, 0x8F, 0x90, 0x9D).
// They decode to U+FFFD or to the matching C1 control depending on the table.
func hasUndefined(decoded []byte) bool {
	for _, r := range string(decoded) {
		if r == utf8.RuneError || (r >= 0x80 && r <= 0x9F) {
			return true
		}
	}
	return false
}
