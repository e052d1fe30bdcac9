package parser

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// IsCSVName reports whether name carries a .csv extension, in any case.
func IsCSVName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// DecodeUTF8 validates b as UTF-8 and strips a leading byte order mark.
func DecodeUTF8(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrNotUTF8
	}
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(b)
	if err != nil {
		return "", ErrNotUTF8
	}
	return string(out), nil
}
