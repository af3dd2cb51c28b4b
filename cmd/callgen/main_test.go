package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadOutputFormat(t *testing.T) {
	cases := []struct {
		input   string
		want    outputFormat
		wantErr bool
	}{
		{"", formatText, false},
		{"text", formatText, false},
		{" JSON ", formatJSON, false},
		{"msgpack", formatMsgpack, false},
		{"yaml", "", true},
	}
	for _, tc := range cases {
		got, err := readOutputFormat(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("readOutputFormat(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("readOutputFormat(%q) = %q, %v, want %q", tc.input, got, err, tc.want)
		}
	}
}

func TestReadUIMode(t *testing.T) {
	for input, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(input)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v, want %q", input, got, err, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error for unknown ui mode")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerateStoreAndShow(t *testing.T) {
	config := filepath.Join("..", "..", "examples", "fs", "callgen.toml")
	dir := t.TempDir()

	out, err := execute(t, "generate", "--config", config, "-n", "3", "--seed", "9",
		"--format", "msgpack", "--out", dir, "--ui", "off", "--color", "off", "--quiet")
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, out)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read out dir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 stored programs, got %d", len(entries))
	}

	out, err = execute(t, "show", filepath.Join(dir, "prog-000001.mp"), "--color", "off")
	if err != nil {
		t.Fatalf("show: %v\n%s", err, out)
	}
	if !strings.Contains(out, "# seed 9, program 1") || !strings.Contains(out, "# group fs") {
		t.Fatalf("unexpected show output:\n%s", out)
	}

	first := filepath.Join(dir, "prog-000000.mp")
	if out, err = execute(t, "diff", first, first, "--color", "off"); err != nil || out != "" {
		t.Fatalf("expected identical programs, got %v\n%s", err, out)
	}
}

func TestCheckReportsProblems(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.toml")
	data := `
[[type]]
name = "fd"
kind = "res"
elem = "u32"

[[type]]
name = "u32"
kind = "num"
width = 32

[[group]]
name = "g"
relations = ["NN", "NN"]

  [[group.fn]]
  name = "close"
  params = [{ name = "fd", type = "fd" }]
`
	if err := os.WriteFile(bad, []byte(data), 0o600); err != nil {
		t.Fatalf("write target: %v", err)
	}
	out, err := execute(t, "check", bad, "--color", "off")
	if err == nil {
		t.Fatalf("expected check to fail, output:\n%s", out)
	}
	if !strings.Contains(out, "error[") {
		t.Fatalf("expected an error diagnostic, got:\n%s", out)
	}
}
