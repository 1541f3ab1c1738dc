package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive explorer and blocks until it exits.
func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference(opts.Config.UI.Glyphs)

	m, err := newAppModel(opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
