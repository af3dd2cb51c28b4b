package diag

import (
	"fmt"
	"strings"
)

// Diagnostic is one validation finding.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Subject  string
	Message  string
	Notes    []string
}

func New(sev Severity, code Code, subject, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Subject: subject, Message: msg}
}

func NewError(code Code, subject, msg string) Diagnostic {
	return New(SevError, code, subject, msg)
}

func (d Diagnostic) WithNote(msg string) Diagnostic {
	d.Notes = append(d.Notes, msg)
	return d
}

// String renders "ERROR CAT1003 type "p": pointer depth 2 (notes...)".
func (d Diagnostic) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", d.Severity, d.Code.ID())
	if d.Subject != "" {
		sb.WriteString(" ")
		sb.WriteString(d.Subject)
	}
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	for _, n := range d.Notes {
		sb.WriteString("; ")
		sb.WriteString(n)
	}
	return sb.String()
}

// Error makes a Diagnostic usable as an error value.
func (d Diagnostic) Error() string {
	return d.String()
}
