package output

import (
	"fmt"
	"sort"
	"strings"
)

// Plan — план операций, выводимый вместо выполнения в режиме dry-run.
type Plan struct {
	Command string     `json:"command"`
	Steps   []PlanStep `json:"steps"`

	// CommandLine — итоговая командная строка движка (секреты замаскированы).
	CommandLine []string `json:"command_line,omitempty"`

	Summary string `json:"summary,omitempty"`
}

// PlanStep — один шаг плана.
type PlanStep struct {
	Order      int            `json:"order"`
	Operation  string         `json:"operation"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Skipped    bool           `json:"skipped,omitempty"`
	SkipReason string         `json:"skip_reason,omitempty"`
}

// AddStep добавляет шаг с очередным порядковым номером.
func (p *Plan) AddStep(operation string, params map[string]any) {
	p.Steps = append(p.Steps, PlanStep{Order: len(p.Steps) + 1, Operation: operation, Parameters: params})
}

// AddSkipped добавляет пропущенный шаг.
func (p *Plan) AddSkipped(operation, reason string) {
	p.Steps = append(p.Steps, PlanStep{Order: len(p.Steps) + 1, Operation: operation, Skipped: true, SkipReason: reason})
}

func (p *Plan) writeText(ew *errWriter) {
	ew.printf("\n=== DRY RUN ===\nКоманда: %s\n\nПлан выполнения:\n", p.Command)
	for _, step := range p.Steps {
		if step.Skipped {
			ew.printf("  %d. [SKIP] %s: %s\n", step.Order, step.Operation, step.SkipReason)
			continue
		}
		ew.printf("  %d. %s\n", step.Order, step.Operation)

		keys := make([]string, 0, len(step.Parameters))
		for k := range step.Parameters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			ew.printf("      %s: %s\n", k, sanitizeValue(step.Parameters[k]))
		}
	}
	if len(p.CommandLine) > 0 {
		ew.printf("\nКомандная строка:\n  %s\n", sanitizeValue(strings.Join(p.CommandLine, " ")))
	}
	if p.Summary != "" {
		ew.printf("\nИтого: %s\n", p.Summary)
	}
	ew.printf("=== END DRY RUN ===\n")
}

// sanitizeValue удаляет ANSI escape-последовательности и управляющие символы,
// переводы строк и табы заменяются пробелами.
func sanitizeValue(v any) string {
	s := fmt.Sprintf("%v", v)
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
		case r == '\n' || r == '\t':
			b.WriteRune(' ')
		case r < 32 || r == 127:
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
