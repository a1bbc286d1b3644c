package runner

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette.
var (
	ColorPass   = lipgloss.Color("#10B981") // Emerald
	ColorFail   = lipgloss.Color("#EF4444") // Red
	ColorSkip   = lipgloss.Color("#F59E0B") // Amber
	ColorMuted  = lipgloss.Color("#6B7280") // Gray
	ColorDim    = lipgloss.Color("#4B5563")
	ColorAccent = lipgloss.Color("#8B5CF6") // Violet
)

// Styles holds the styles formatters render with.
type Styles struct {
	Pass    lipgloss.Style
	Fail    lipgloss.Style
	Skip    lipgloss.Style
	Error   lipgloss.Style
	Running lipgloss.Style
	Muted   lipgloss.Style

	// Used by the live tree view.
	Bold           lipgloss.Style
	Dim            lipgloss.Style
	Path           lipgloss.Style
	Expression     lipgloss.Style
	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style

	SymbolPass string
	SymbolFail string
	SymbolSkip string
}

// DefaultStyles returns the colored styles used on terminals.
func DefaultStyles() *Styles {
	return &Styles{
		Pass:    lipgloss.NewStyle().Foreground(ColorPass).Bold(true),
		Fail:    lipgloss.NewStyle().Foreground(ColorFail).Bold(true),
		Skip:    lipgloss.NewStyle().Foreground(ColorSkip),
		Error:   lipgloss.NewStyle().Foreground(ColorFail),
		Running: lipgloss.NewStyle().Foreground(ColorAccent),
		Muted:   lipgloss.NewStyle().Foreground(ColorMuted).Italic(true),

		Bold:           lipgloss.NewStyle().Bold(true),
		Dim:            lipgloss.NewStyle().Foreground(ColorDim),
		Path:           lipgloss.NewStyle().Foreground(ColorMuted).Underline(true),
		Expression:     lipgloss.NewStyle(),
		ProgressFilled: lipgloss.NewStyle().Foreground(ColorPass),
		ProgressEmpty:  lipgloss.NewStyle().Foreground(ColorDim),

		SymbolPass: "✓",
		SymbolFail: "✗",
		SymbolSkip: "○",
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()

	return &Styles{
		Pass:    plain,
		Fail:    plain,
		Skip:    plain,
		Error:   plain,
		Running: plain,
		Muted:   plain,

		Bold:           plain,
		Dim:            plain,
		Path:           plain,
		Expression:     plain,
		ProgressFilled: plain,
		ProgressEmpty:  plain,

		SymbolPass: "ok",
		SymbolFail: "FAIL",
		SymbolSkip: "skip",
	}
}

// StylesFor picks colored styles when w is a terminal and plain ones otherwise.
func StylesFor(w io.Writer) *Styles {
	if IsTerminal(w) {
		return DefaultStyles()
	}

	return PlainStyles()
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// SpinnerFrames returns the frames of the running-case spinner.
func SpinnerFrames() []string {
	return []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
}

// ProgressChars returns the filled and empty progress bar cells.
func ProgressChars() (string, string) {
	return "━", "─"
}
