package output

import (
	"encoding/json"
	"io"
	"strings"
)

// Поддерживаемые форматы вывода.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Writer форматирует Result и пишет его в w.
type Writer interface {
	Write(w io.Writer, result *Result) error
}

// NewWriter возвращает Writer для формата (без учёта регистра).
// Неизвестный формат → TextWriter.
func NewWriter(format string) Writer {
	if strings.EqualFold(format, FormatJSON) {
		return JSONWriter{}
	}
	return TextWriter{}
}

// JSONWriter сериализует Result в JSON с отступами.
type JSONWriter struct{}

// Write не мутирует result: Summary переносится в копию Metadata.
func (JSONWriter) Write(w io.Writer, result *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if result == nil {
		return enc.Encode(result)
	}

	out := *result
	if result.Summary != nil {
		var meta Metadata
		if result.Metadata != nil {
			meta = *result.Metadata
		} else {
			meta.APIVersion = APIVersion
		}
		meta.Summary = result.Summary
		out.Metadata = &meta
	}
	return enc.Encode(&out)
}
