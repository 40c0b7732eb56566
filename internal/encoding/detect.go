package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names the encoding an input was decoded from.
type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF8BOM     Charset = "UTF-8 (BOM)"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO88599    Charset = "ISO-8859-9"
)

const sniffLen = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Detect guesses the charset of an input from its leading bytes.
//
// Detection order:
//  1. Byte order mark
//  2. Valid UTF-8
//  3. Heuristic detection via chardet
//  4. Fallback to Windows-1252
func Detect(prefix []byte) Charset {
	switch {
	case bytes.HasPrefix(prefix, bomUTF8):
		return UTF8BOM
	case bytes.HasPrefix(prefix, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(prefix, bomUTF16BE):
		return UTF16BE
	case utf8.Valid(trimPartialRune(prefix)):
		return UTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(prefix)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return UTF8
		case "ISO-8859-9":
			return ISO88599
		}
	}

	return Windows1252
}

func (c Charset) decoder() *xenc.Decoder {
	switch c {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case Windows1252:
		return charmap.Windows1252.NewDecoder()
	case ISO88599:
		return charmap.ISO8859_9.NewDecoder()
	}

	return nil
}

// NewUTF8Reader detects the encoding of r and returns a reader yielding its
// content as UTF-8, along with the detected charset. A UTF-8 BOM is stripped.
func NewUTF8Reader(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	prefix, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	charset := Detect(prefix)

	if charset == UTF8BOM {
		_, _ = br.Discard(len(bomUTF8))
		return br, charset, nil
	}

	if dec := charset.decoder(); dec != nil {
		return transform.NewReader(br, dec), charset, nil
	}

	return br, charset, nil
}

// trimPartialRune drops an incomplete multi-byte sequence cut off by the
// sniff window so valid UTF-8 is not mistaken for a legacy charset.
func trimPartialRune(b []byte) []byte {
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		r := b[len(b)-i]
		if !utf8.RuneStart(r) {
			continue
		}

		if !utf8.FullRune(b[len(b)-i:]) {
			return b[:len(b)-i]
		}

		break
	}

	return b
}
