package ui

import "github.com/charmbracelet/lipgloss"

type theme struct {
	prompt  lipgloss.Style
	echo    lipgloss.Style
	ok      lipgloss.Style
	fail    lipgloss.Style
	confirm lipgloss.Style
}

func newTheme(asciiOnly bool) theme {
	t := theme{
		prompt:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		echo:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		confirm: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	}
	if asciiOnly {
		t.prompt = t.prompt.UnsetBold()
		t.confirm = t.confirm.UnsetBold()
	}
	return t
}

func (t theme) promptGlyph(asciiOnly bool) string {
	if asciiOnly {
		return "> "
	}
	return "❯ "
}
