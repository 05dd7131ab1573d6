package logging

import (
	"bytes"
	"sync"
)

// LineWriter — io.Writer, пересылающий каждую завершённую строку в Logger
// на уровне Debug. Используется для трансляции вывода движка анализа в лог.
// Незавершённый хвост буферизуется до следующей записи или Flush.
type LineWriter struct {
	mu     sync.Mutex
	logger Logger
	stream string
	buf    bytes.Buffer
}

// NewLineWriter создаёт LineWriter; stream попадает в атрибут "stream".
func NewLineWriter(logger Logger, stream string) *LineWriter {
	return &LineWriter{logger: logger, stream: stream}
}

// Write реализует io.Writer.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadBytes('\n')
		if err != nil {
			// неполная строка остаётся в буфере
			w.buf.Reset()
			w.buf.Write(line)
			break
		}
		w.emit(line[:len(line)-1])
	}
	return len(p), nil
}

// Flush выводит буферизованный хвост без перевода строки.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emit(w.buf.Bytes())
		w.buf.Reset()
	}
}

func (w *LineWriter) emit(line []byte) {
	line = bytes.TrimRight(line, "\r")
	if len(line) == 0 {
		return
	}
	w.logger.Debug(string(line), "stream", w.stream)
}
