package output

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// NewEncodedWriter оборачивает w перекодировщиком из UTF-8 в charset
// (имена по WHATWG: "windows-1251", "koi8-r", "iso-8859-1", ...).
// Пустое имя и UTF-8 оставляют вывод как есть.
// Close дописывает буферизованный хвост, но не закрывает w.
func NewEncodedWriter(w io.Writer, charset string) (io.WriteCloser, error) {
	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8") {
		return nopCloser{w}, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("неизвестная кодировка вывода %q: %w", charset, err)
	}
	// символы вне charset заменяются, а не обрывают вывод
	return transform.NewWriter(w, encoding.ReplaceUnsupported(enc.NewEncoder())), nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
