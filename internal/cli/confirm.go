package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// IsInteractive reports whether stdin is a terminal a prompt can use.
func IsInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func cadenceHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// HuhConfirm asks a yes/no question on the terminal. An aborted form
// counts as no.
func HuhConfirm(prompt string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Description("Dates will be written to the tracker.").
				Affirmative("Apply").
				Negative("Cancel").
				Value(&ok),
		),
	).WithTheme(cadenceHuhTheme()).WithShowHelp(false).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	return ok, nil
}

// confirmApply gates a tracker write. --yes or a nil Confirm skips the
// prompt. A declined prompt prints a notice and reports false.
func confirmApply(app *App, out io.Writer, prompt string) (bool, error) {
	if app.Flags.Yes || app.Confirm == nil {
		return true, nil
	}
	ok, err := app.Confirm(prompt)
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Fprintln(out, formatter.Dim("Aborted. Nothing was written."))
	}
	return ok, nil
}
