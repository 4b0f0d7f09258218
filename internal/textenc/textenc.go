// Package textenc decodes free-form text files whose encoding is not
// declared anywhere, such as a dataset README. Detection is byte-order-mark
// and validity driven; undecodable content falls back to latin-1, which
// accepts every byte sequence, so decoding never fails.
package textenc

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names reported by Decode.
const (
	EncUTF8    = "utf-8"
	EncUTF8BOM = "utf-8-bom"
	EncUTF16LE = "utf-16le"
	EncUTF16BE = "utf-16be"
	EncLatin1  = "latin-1"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode converts raw file content to a string, returning the text and the
// name of the detected encoding.
//
// Detection order: UTF-8 BOM, UTF-16 BOM (either endianness), valid UTF-8,
// latin-1 fallback. A UTF-8 BOM is stripped from the result. Malformed
// UTF-16 payload bytes decode to replacement runes.
func Decode(raw []byte) (string, string) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		payload := raw[len(bomUTF8):]
		if utf8.Valid(payload) {
			return string(payload), EncUTF8BOM
		}
		return decodeLatin1(raw), EncLatin1

	case bytes.HasPrefix(raw, bomUTF16LE):
		if text, ok := decodeUTF16(raw, unicode.LittleEndian); ok {
			return text, EncUTF16LE
		}
		return decodeLatin1(raw), EncLatin1

	case bytes.HasPrefix(raw, bomUTF16BE):
		if text, ok := decodeUTF16(raw, unicode.BigEndian); ok {
			return text, EncUTF16BE
		}
		return decodeLatin1(raw), EncLatin1

	case utf8.Valid(raw):
		return string(raw), EncUTF8

	default:
		return decodeLatin1(raw), EncLatin1
	}
}

func decodeUTF16(raw []byte, endianness unicode.Endianness) (string, bool) {
	dec := unicode.UTF16(endianness, unicode.ExpectBOM).NewDecoder()
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", false
	}
	return string(out), true
}

func decodeLatin1(raw []byte) string {
	// Latin-1 maps every byte to a code point, so this cannot fail.
	out, _ := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	return string(out)
}
