// Package cli provides the command-line wiring around report.Config and
// report.Report: flag parsing via kong, styled success/error printing via
// lipgloss (mirroring the teacher's cli package), and a plain-text terminal
// renderer for postings and account totals.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", successStyle.Render(successSymbol), message)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", errorStyle.Render(errorSymbol), errorStyle.Render(message))
}

func printInfof(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, "%s %s\n", infoStyle.Render(infoSymbol), fmt.Sprintf(format, args...))
}

// FileOrStdin accepts either a file path or "-" (or the empty string) for
// stdin, the way the teacher's cli.FileOrStdin does for a beancount source
// file — adapted here to open a fixture-format journal instead of loading
// an AST.
type FileOrStdin struct {
	Filename string
	Contents []byte
}

// Decode implements kong.MapperValue.
func (f *FileOrStdin) Decode(ctx *kong.DecodeContext) error {
	var filename string
	if err := ctx.Scan.PopValueInto("filename", &filename); err != nil {
		return err
	}
	f.Filename = filename
	return nil
}

// Open returns a reader over the fixture source: stdin when Filename is
// empty or "-", the named file otherwise. The caller must close it unless
// it is stdin.
func (f *FileOrStdin) Open() (io.ReadCloser, error) {
	if f.Filename == "" || f.Filename == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(f.Filename)
}
