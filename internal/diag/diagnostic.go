package diag

import (
	"ionc/internal/source"
)

type Note struct {
	Pos source.Pos
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Pos
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Pos, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Pos, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(pos source.Pos, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Pos: pos, Msg: msg})
	return d
}
