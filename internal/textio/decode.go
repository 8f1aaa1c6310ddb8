// Package textio reads text artifacts written by extractors, tolerating
// bytes that are not valid UTF-8.
package textio

import (
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadPermissive reads path as UTF-8, dropping any undecodable bytes.
// Only I/O errors are returned.
func ReadPermissive(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return DecodePermissive(data), nil
}

// DecodePermissive decodes data as UTF-8 and drops invalid sequences.
func DecodePermissive(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	out := make([]rune, 0, len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r != utf8.RuneError || size > 1 {
			out = append(out, r)
		}
		data = data[size:]
	}
	return string(out)
}

// ReadWithFallback reads path as strict UTF-8 and falls back to ISO-8859-1
// when the content is not valid UTF-8. Only I/O errors are returned.
func ReadWithFallback(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return DecodeWithFallback(data), nil
}

// DecodeWithFallback decodes data as UTF-8, or as ISO-8859-1 if that fails.
// ISO-8859-1 maps every byte to a code point, so the fallback cannot fail.
func DecodeWithFallback(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return DecodePermissive(data)
	}
	return string(decoded)
}
