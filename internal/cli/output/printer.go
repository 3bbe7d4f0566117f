package output

import (
	"fmt"
	"io"
	"strings"
)

// ANSI color codes for console messages.
const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
)

// Printer writes user-facing console messages, optionally colored.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a new Printer.
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

// Writer returns the printer's output writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Println prints a message followed by a newline.
func (p *Printer) Println(args ...any) {
	_, _ = fmt.Fprintln(p.out, args...)
}

// Printf prints a formatted message.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// Success prints a success message in green.
func (p *Printer) Success(msg string) {
	p.colored(colorGreen, msg)
}

// Error prints an error message in red.
func (p *Printer) Error(msg string) {
	p.colored(colorRed, msg)
}

// Warning prints a warning message in yellow.
func (p *Printer) Warning(msg string) {
	p.colored(colorYellow, msg)
}

// Notice prints an informational highlight in cyan.
func (p *Printer) Notice(msg string) {
	p.colored(colorCyan, msg)
}

// Banner prints title framed by rules of width columns.
func (p *Printer) Banner(title string, width int) {
	rule := strings.Repeat("=", width)
	p.Println(rule)
	p.colored(colorMagenta, "  "+title)
	p.Println(rule)
}

func (p *Printer) colored(color, msg string) {
	if p.color {
		_, _ = fmt.Fprintf(p.out, "%s%s%s\n", color, msg, colorReset)
		return
	}
	_, _ = fmt.Fprintln(p.out, msg)
}
