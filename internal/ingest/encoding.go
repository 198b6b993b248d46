package ingest

import (
	"bytes"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type textDecoder struct {
	name   string
	decode func(data []byte) (string, bool)
}

// csvDecoders are tried in order; the first strict decode wins.
var csvDecoders = []textDecoder{
	{name: "utf-8-sig", decode: decodeUTF8BOM},
	{name: "utf-8", decode: decodeUTF8},
	{name: "cp949", decode: decodeCP949},
	{name: "euc-kr", decode: decodeEUCKR},
}

// decodeText converts raw CSV bytes to a string and reports which
// encoding was used. It never fails: when every strict decoder rejects the
// input, invalid bytes become U+FFFD.
func decodeText(data []byte) (string, string) {
	for _, d := range csvDecoders {
		if text, ok := d.decode(data); ok {
			return text, d.name
		}
	}
	slog.Warn("[Loader] No encoding matched, decoding with replacement characters",
		slog.Int("bytes", len(data)))
	text, _, err := transform.String(unicode.UTF8.NewDecoder(), string(data))
	if err != nil {
		return strings.ToValidUTF8(string(data), string(utf8.RuneError)), "utf-8-replace"
	}
	return text, "utf-8-replace"
}

func decodeUTF8BOM(data []byte) (string, bool) {
	if !utf8.Valid(bytes.TrimPrefix(data, utf8BOM)) {
		return "", false
	}
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	return string(out), true
}

func decodeUTF8(data []byte) (string, bool) {
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

// decodeCP949 decodes Unified Hangul Code. x/text's EUCKR decoder covers
// the full CP949 range and substitutes U+FFFD for invalid sequences, which
// is treated as a failure here.
func decodeCP949(data []byte) (string, bool) {
	out, err := korean.EUCKR.NewDecoder().Bytes(data)
	if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

// decodeEUCKR accepts only the KS X 1001 subset: both bytes of every
// double-byte character must lie in 0xA1-0xFE.
func decodeEUCKR(data []byte) (string, bool) {
	for i := 0; i < len(data); i++ {
		b := data[i]
		if b < 0x80 {
			continue
		}
		if b < 0xA1 || b == 0xFF || i+1 >= len(data) {
			return "", false
		}
		if t := data[i+1]; t < 0xA1 || t == 0xFF {
			return "", false
		}
		i++
	}
	return decodeCP949(data)
}
