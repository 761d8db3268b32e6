package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"text", ModeText},
		{"txt", ModeText},
		{"MD", ModeMarkdown},
		{"markdown", ModeMarkdown},
		{"json", ModeJSON},
		{"auto", ModeAuto},
		{"", ModeAuto},
		{"bogus", ModeAuto},
	}
	for _, tt := range tests {
		if got := Mode(tt.in); got != tt.want {
			t.Errorf("Mode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEffectiveMode_NonTTYDefaultsToMarkdown(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeAuto)
	if got := r.EffectiveMode(); got != ModeMarkdown {
		t.Errorf("EffectiveMode() = %q, want markdown for non-TTY", got)
	}
}

func TestEffectiveMode_ExplicitWins(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeJSON)
	if got := r.EffectiveMode(); got != ModeJSON {
		t.Errorf("EffectiveMode() = %q, want json", got)
	}
}

func TestRenderer_PlainWriters(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)

	r.Println("hello")
	r.Printf("%d items\n", 3)
	r.Errorf("warn: %s\n", "careful")

	if !strings.Contains(out.String(), "hello") || !strings.Contains(out.String(), "3 items") {
		t.Errorf("out = %q", out.String())
	}
	if !strings.Contains(errOut.String(), "careful") {
		t.Errorf("errOut = %q", errOut.String())
	}
}

func TestRenderer_StyledOutputIsPlainOffTTY(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out, ModeText)

	r.Header("Results")
	r.Success("done")
	r.Warn("careful")
	r.Muted("Run abc recorded")

	// Bold and Faint attributes must not leak into piped output.
	if strings.Contains(out.String(), "\x1b[") {
		t.Errorf("styled output contains escape codes off TTY: %q", out.String())
	}
	for _, want := range []string{"Results", "done", "careful", "Run abc recorded"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q: %q", want, out.String())
		}
	}
}

func TestRenderer_HeaderMarkdownMode(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out, ModeMarkdown)

	r.Header("Permit requirements")

	if !strings.Contains(out.String(), "## Permit requirements") {
		t.Errorf("markdown header not rendered: %q", out.String())
	}
}

func TestRenderer_JSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out, ModeJSON)
	if err := r.JSON(map[string]int{"rows": 2}); err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if !strings.Contains(out.String(), `"rows": 2`) {
		t.Errorf("out = %q", out.String())
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := FormatHeader(2, "Metrics"); got != "## Metrics" {
		t.Errorf("FormatHeader = %q", got)
	}
	if got := FormatHeader(0, "Top"); got != "# Top" {
		t.Errorf("FormatHeader = %q", got)
	}
	if got := FormatKeyValue("Rows", "50"); got != "- **Rows**: 50" {
		t.Errorf("FormatKeyValue = %q", got)
	}
	if FormatBool(true) != "yes" || FormatBool(false) != "no" {
		t.Error("FormatBool mismatch")
	}
}
