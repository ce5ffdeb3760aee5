package diag

import (
	"strings"

	"github.com/fatih/color"

	"ionc/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	noteColor    = color.New(color.FgBlue)
)

// FormatShort renders one line per diagnostic (and per note):
//
//	error CG1001 pkg/a.ion:12 message
//
// Multi-line messages are flattened so every entry stays on one line.
func FormatShort(diags []Diagnostic, colorize bool) string {
	var sb strings.Builder
	for i, d := range diags {
		if i > 0 {
			sb.WriteByte('\n')
		}
		writeEntry(&sb, severityLabel(d.Severity, colorize), d.Code, where(d.Primary), d.Message)
		for _, n := range d.Notes {
			sb.WriteByte('\n')
			writeEntry(&sb, paint(noteColor, "note", colorize), d.Code, where(n.Pos), n.Msg)
		}
	}
	return sb.String()
}

// where prints "-" for diagnostics without a source line (I/O, project).
func where(pos source.Pos) string {
	if !pos.IsValid() {
		return "-"
	}
	return pos.String()
}

func writeEntry(sb *strings.Builder, label string, code Code, where, msg string) {
	sb.WriteString(label)
	sb.WriteByte(' ')
	sb.WriteString(code.ID())
	sb.WriteByte(' ')
	sb.WriteString(where)
	sb.WriteByte(' ')
	sb.WriteString(strings.Join(strings.Fields(msg), " "))
}

func severityLabel(sev Severity, colorize bool) string {
	switch sev {
	case SevError:
		return paint(errorColor, "error", colorize)
	case SevWarning:
		return paint(warningColor, "warning", colorize)
	default:
		return paint(infoColor, "info", colorize)
	}
}

func paint(c *color.Color, s string, colorize bool) string {
	if !colorize {
		return s
	}
	return c.Sprint(s)
}
