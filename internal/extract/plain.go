package extract

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// extractPlain returns content as valid UTF-8. A leading byte-order mark
// selects UTF-16 (as saved by Windows Notepad) and is removed; anything else
// is read as UTF-8 with invalid bytes replaced.
func extractPlain(content []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, content)
	if err != nil {
		return "", err
	}
	s := string(out)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\ufffd")
	}
	return s, nil
}
