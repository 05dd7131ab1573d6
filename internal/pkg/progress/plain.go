package progress

import "time"

// plain пишет строки лога не чаще ReportInterval. Для CI-логов без терминала.
type plain struct {
	opts       Options
	message    string
	lastReport time.Duration
	elapsed    time.Duration
}

func newPlain(opts Options) *plain {
	return &plain{opts: opts}
}

func (p *plain) Start(message string) {
	p.message = message
	p.lastReport = 0
	p.elapsed = 0
	p.opts.Logger.Info("Операция начата", "message", message, "budget", FormatDuration(p.opts.Budget))
}

func (p *plain) Tick(elapsed time.Duration) {
	p.elapsed = elapsed
	if elapsed-p.lastReport < p.opts.ReportInterval {
		return
	}
	p.lastReport = elapsed
	args := []any{"message", p.message, "elapsed", FormatDuration(elapsed)}
	if pct := budgetPercent(elapsed, p.opts.Budget); pct >= 0 {
		args = append(args, "budget_percent", pct)
	}
	p.opts.Logger.Info("Операция выполняется", args...)
}

func (p *plain) Finish(ok bool) {
	p.opts.Logger.Info("Операция завершена", "message", p.message, "ok", ok, "elapsed", FormatDuration(p.elapsed))
}
