package progress

import (
	"encoding/json"
	"time"
)

// Event — JSON-lines событие прогресса.
type Event struct {
	Type          string `json:"type"` // progress_start, progress, progress_end
	Message       string `json:"message,omitempty"`
	ElapsedMs     int64  `json:"elapsed_ms"`
	BudgetPercent *int   `json:"budget_percent,omitempty"`
	OK            *bool  `json:"ok,omitempty"`
}

type jsonProgress struct {
	opts    Options
	enc     *json.Encoder
	message string
	elapsed time.Duration
}

func newJSON(opts Options) *jsonProgress {
	return &jsonProgress{opts: opts, enc: json.NewEncoder(opts.Output)}
}

func (p *jsonProgress) Start(message string) {
	p.message = message
	p.emit(Event{Type: "progress_start", Message: message})
}

func (p *jsonProgress) Tick(elapsed time.Duration) {
	p.elapsed = elapsed
	ev := Event{Type: "progress", ElapsedMs: elapsed.Milliseconds()}
	if pct := budgetPercent(elapsed, p.opts.Budget); pct >= 0 {
		ev.BudgetPercent = &pct
	}
	p.emit(ev)
}

func (p *jsonProgress) Finish(ok bool) {
	p.emit(Event{Type: "progress_end", Message: p.message, ElapsedMs: p.elapsed.Milliseconds(), OK: &ok})
}

func (p *jsonProgress) emit(ev Event) {
	if err := p.enc.Encode(ev); err != nil {
		p.opts.Logger.Debug("progress: не удалось записать событие", "error", err.Error())
	}
}
