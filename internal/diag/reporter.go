package diag

import "ionc/internal/source"

// Reporter - минимальный контракт получения диагностик от фаз.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Pos, msg string, notes []Note)
}

// BagReporter - адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Pos, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}

// ReportErr forwards err to r, wrapping plain errors as UnknownCode.
func ReportErr(r Reporter, err error) {
	if r == nil || err == nil {
		return
	}
	if d, ok := AsDiagnostic(err); ok {
		r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
		return
	}
	r.Report(UnknownCode, SevError, source.NoPos, err.Error(), nil)
}
