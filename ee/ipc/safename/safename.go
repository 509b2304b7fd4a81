// Package safename maps arbitrary text to a token that is safe to embed in a
// file name, a unix socket name, or a windows named pipe name.
package safename

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

const substitute = "_"

// unsafeChars are replaced with the substitute regardless of platform.
const unsafeChars = `\|?*<":>+/`

var whitespace = regexp.MustCompile(`\s`)

// ASCIIFilename transliterates s to ASCII and removes everything that is not
// safe in a file name. Distinct inputs can produce the same output.
func ASCIIFilename(s string) string {
	ascii := toASCII(s)

	var b strings.Builder
	b.Grow(len(ascii))
	for _, r := range ascii {
		if r < 32 || r == unicode.MaxASCII || strings.ContainsRune(unsafeChars, r) {
			b.WriteString(substitute)
			continue
		}
		b.WriteRune(r)
	}

	return sanitizeFileName(b.String())
}

// Token is ASCIIFilename with spaces collapsed to underscores, the form used
// when a name is embedded in an IPC address.
func Token(s string) string {
	return strings.ReplaceAll(ASCIIFilename(s), " ", substitute)
}

// toASCII transliterates non-ASCII runes with unidecode tables, so "Иван"
// becomes "Ivan" and "Straße" becomes "Strasse". Input is composed first so
// decomposed and precomposed spellings agree.
func toASCII(s string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(s) {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
			continue
		}
		for _, t := range unidecode.Unidecode(string(r)) {
			if t > unicode.MaxASCII {
				t = '_'
			}
			b.WriteRune(t)
		}
	}

	return b.String()
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(whitespace.ReplaceAllString(name, " "))

	base, ext := splitExt(name)
	if strings.Trim(base, ".") == "" && base != "" {
		base = substitute
	}
	name = strings.ReplaceAll(base, "..", substitute) + ext

	// Windows rejects path components ending in a period or space.
	if strings.HasSuffix(name, ".") || strings.HasSuffix(name, " ") {
		name = name[:len(name)-1] + substitute
	}

	// Leading periods hide files on unix.
	if strings.HasPrefix(name, ".") {
		name = substitute + name[1:]
	}

	return name
}

// splitExt splits off a trailing extension. Leading periods are part of the
// base name, so ".profile" has no extension.
func splitExt(name string) (string, string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name, ""
	}
	if strings.Trim(name[:i], ".") == "" {
		return name, ""
	}
	return name[:i], name[i:]
}
