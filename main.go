package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"perch/internal/config"
	"perch/internal/logger"
)

func main() {
	if err := logger.Init(); err != nil {
		// Diagnostics are optional; the browser still runs.
		logger.Disable()
	}
	defer logger.Close()

	m := initialModel(config.Default())
	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithMouseAllMotion())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
