// Package textconv converts between message text and the raw bytes that the
// block codec encrypts.
package textconv

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/vaultsandbox/textbookrsa/internal/rsaerrors"
)

// Codec is a reversible mapping between text and bytes.
type Codec interface {
	// Name identifies the codec in configuration.
	Name() string
	// Bytes expands text into its byte representation.
	Bytes(text string) ([]byte, error)
	// Text maps bytes produced by Bytes back to the original text.
	Text(data []byte) (string, error)
}

// Codec names accepted by ByName.
const (
	NameUTF8    = "utf-8"
	NameUTF16LE = "utf-16le"
)

// UTF8 passes Go's native string bytes through unchanged.
var UTF8 Codec = utf8Codec{}

// UTF16LE expands every UTF-16 code unit to two little-endian bytes.
var UTF16LE Codec = utf16Codec{}

type utf8Codec struct{}

func (utf8Codec) Name() string { return NameUTF8 }

func (utf8Codec) Bytes(text string) ([]byte, error) {
	return []byte(text), nil
}

func (utf8Codec) Text(data []byte) (string, error) {
	return string(data), nil
}

type utf16Codec struct{}

var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func (utf16Codec) Name() string { return NameUTF16LE }

func (utf16Codec) Bytes(text string) ([]byte, error) {
	out, err := utf16LE.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode utf-16le: %w", err)
	}
	return out, nil
}

// Text decodes data as UTF-16LE. An odd trailing byte is treated as the low
// byte of a final code unit whose zero high byte was trimmed as padding.
func (utf16Codec) Text(data []byte) (string, error) {
	if len(data)%2 != 0 {
		padded := make([]byte, len(data)+1)
		copy(padded, data)
		data = padded
	}

	out, err := utf16LE.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode utf-16le: %w", err)
	}
	return string(out), nil
}

// ByName returns the codec registered under name (case-insensitive).
// An empty name selects UTF8.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameUTF8, "utf8":
		return UTF8, nil
	case NameUTF16LE, "utf16le", "utf-16":
		return UTF16LE, nil
	default:
		return nil, rsaerrors.InvalidArgument("ByName", "unknown text codec %q", name)
	}
}
