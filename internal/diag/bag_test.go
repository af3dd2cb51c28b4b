package diag

import (
	"errors"
	"strings"
	"testing"
)

func TestBagLimitAndErr(t *testing.T) {
	b := NewBag(2)
	r := BagReporter{Bag: b}
	ReportWarning(r, CfgStrLen, "config", "suspicious")
	ReportError(r, CatPointerDepth, `type "p"`, "pointer depth 2")
	ReportError(r, CatEmptyFlags, `type "f"`, "dropped")
	if b.Len() != 2 {
		t.Fatalf("expected limit of 2, got %d", b.Len())
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatalf("expected both errors and warnings")
	}
	err := b.Err()
	if err == nil {
		t.Fatalf("expected error")
	}
	var d Diagnostic
	if !errors.As(err, &d) || d.Code != CatPointerDepth {
		t.Fatalf("expected joined error to expose the diagnostic, got %v", err)
	}
	if strings.Contains(err.Error(), "suspicious") {
		t.Fatalf("warnings must not be part of the error: %v", err)
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevWarning, CfgStrLen, "b", "w"))
	b.Add(NewError(RelShape, "a", "x"))
	b.Add(NewError(CatEmptyUnion, "a", "y"))
	b.Add(NewError(CatEmptyUnion, "a", "y"))
	b.Dedup()
	b.Sort()
	items := b.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items after dedup, got %d", len(items))
	}
	if items[0].Code != CatEmptyUnion || items[2].Severity != SevWarning {
		t.Fatalf("unexpected order: %v", items)
	}
}

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{CatPointerDepth, "CAT1003"},
		{RelShape, "REL2002"},
		{CfgStrLen, "CFG3002"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Fatalf("expected %s, got %s", tt.want, got)
		}
	}
}

func TestEmptyBagErrIsNil(t *testing.T) {
	if err := NewBag(4).Err(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestSeverityNames(t *testing.T) {
	cases := []struct {
		sev          Severity
		upper, lower string
	}{
		{SevInfo, "INFO", "info"},
		{SevWarning, "WARNING", "warning"},
		{SevError, "ERROR", "error"},
		{Severity(9), "UNKNOWN", "unknown"},
	}
	for _, tc := range cases {
		if tc.sev.String() != tc.upper || tc.sev.Label() != tc.lower {
			t.Fatalf("expected %s/%s, got %s/%s", tc.upper, tc.lower, tc.sev.String(), tc.sev.Label())
		}
	}
}
