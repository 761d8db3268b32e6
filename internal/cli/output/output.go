// Package output renders command output in text, markdown, or JSON,
// adapting automatically to whether stdout is a terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// OutputMode selects how command results are rendered.
type OutputMode string

const (
	// ModeAuto picks text on a TTY and markdown otherwise.
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Mode normalizes a user-supplied output format string.
func Mode(s string) OutputMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt":
		return ModeText
	case "markdown", "md":
		return ModeMarkdown
	case "json":
		return ModeJSON
	default:
		return ModeAuto
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	out     io.Writer
	errOut  io.Writer
	mode    OutputMode
	isTTY   bool
	profile termenv.Profile
}

// NewRenderer creates a renderer for the given writers and mode.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}

	profile := termenv.Ascii
	if isTTY {
		profile = termenv.NewOutput(os.Stdout).Profile
	}

	return &Renderer{
		out:     out,
		errOut:  errOut,
		mode:    mode,
		isTTY:   isTTY,
		profile: profile,
	}
}

// EffectiveMode resolves ModeAuto against the TTY check.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// Out returns the underlying output writer.
func (r *Renderer) Out() io.Writer {
	return r.out
}

// Println writes a line to the output writer.
func (r *Renderer) Println(args ...any) {
	_, _ = fmt.Fprintln(r.out, args...)
}

// Printf writes a formatted string to the output writer.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Errorf writes a formatted string to the error writer.
func (r *Renderer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errOut, format, args...)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Header writes a section header: a markdown heading in markdown mode,
// styled text on a TTY, plain text otherwise.
func (r *Renderer) Header(text string) {
	if r.EffectiveMode() == ModeMarkdown {
		_, _ = fmt.Fprintln(r.out, FormatHeader(2, text))
		return
	}
	if r.isTTY {
		text = termenv.String(text).Foreground(r.profile.Color("14")).Bold().String()
	}
	_, _ = fmt.Fprintln(r.out, text)
}

// Success writes a success line, colored on a TTY.
func (r *Renderer) Success(text string) {
	if r.isTTY {
		text = termenv.String(text).Foreground(r.profile.Color("10")).String()
	}
	_, _ = fmt.Fprintln(r.out, text)
}

// Warn writes a warning line to the error writer, colored on a TTY.
func (r *Renderer) Warn(text string) {
	if r.isTTY {
		text = termenv.String(text).Foreground(r.profile.Color("11")).String()
	}
	_, _ = fmt.Fprintln(r.errOut, text)
}

// Muted writes a low-emphasis line, faint on a TTY.
func (r *Renderer) Muted(text string) {
	if r.isTTY {
		text = termenv.String(text).Faint().String()
	}
	_, _ = fmt.Fprintln(r.out, text)
}

// FormatHeader renders a markdown header.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue renders a markdown key-value bullet.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s**: %s", key, value)
}

// FormatBool renders a boolean as yes/no.
func FormatBool(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
