package progress

import (
	"fmt"
	"time"
)

var spinnerFrames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

// spinner рисует анимацию в одной строке терминала.
type spinner struct {
	opts    Options
	message string
	frame   int
	elapsed time.Duration
}

func newSpinner(opts Options) *spinner {
	return &spinner{opts: opts}
}

func (s *spinner) Start(message string) {
	s.message = message
	s.frame = 0
	s.elapsed = 0
	s.draw()
}

func (s *spinner) Tick(elapsed time.Duration) {
	s.elapsed = elapsed
	s.frame = (s.frame + 1) % len(spinnerFrames)
	s.draw()
}

func (s *spinner) Finish(ok bool) {
	mark := '✓'
	if !ok {
		mark = '✗'
	}
	_, _ = fmt.Fprintf(s.opts.Output, "\r%c %s (%s)\033[K\n", mark, s.message, FormatDuration(s.elapsed)) //nolint:errcheck // terminal output
}

func (s *spinner) draw() {
	budget := ""
	if s.opts.Budget > 0 {
		budget = " / " + FormatDuration(s.opts.Budget)
	}
	_, _ = fmt.Fprintf(s.opts.Output, "\r%c %s (%s%s)\033[K", //nolint:errcheck // terminal output
		spinnerFrames[s.frame], s.message, FormatDuration(s.elapsed), budget)
}
