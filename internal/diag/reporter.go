package diag

// Reporter receives diagnostics from validators.
type Reporter interface {
	Report(code Code, sev Severity, subject, msg string, notes []string)
}

// ReportError is a shorthand for an error diagnostic without notes.
func ReportError(r Reporter, code Code, subject, msg string) {
	if r == nil {
		return
	}
	r.Report(code, SevError, subject, msg, nil)
}

// ReportWarning is a shorthand for a warning diagnostic without notes.
func ReportWarning(r Reporter, code Code, subject, msg string) {
	if r == nil {
		return
	}
	r.Report(code, SevWarning, subject, msg, nil)
}

type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, subject, msg string, notes []string) {
	if r.Bag == nil {
		return
	}
	d := New(sev, code, subject, msg)
	if len(notes) > 0 {
		d.Notes = append([]string(nil), notes...)
	}
	r.Bag.Add(d)
}
