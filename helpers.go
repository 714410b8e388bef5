package main

import (
	"fmt"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/skratchdot/open-golang/open"

	"perch/internal/fsops"
	"perch/internal/utils"
)

type editorFinishedMsg struct{ err error }

type editorMissingMsg struct{}

// openExternal hands the path to the platform default-application
// launcher, fire-and-forget. Neither success nor failure reaches the UI.
func openExternal(path string) tea.Cmd {
	return func() tea.Msg {
		open.Start(path)
		return nil
	}
}

// editorCmd suspends the UI and blocks inside the first editor found on
// PATH, preferring nvim over vim. With neither installed the caller
// gets an editorMissingMsg instead.
func editorCmd(path string) tea.Cmd {
	for _, editor := range []string{"nvim", "vim"} {
		bin, err := exec.LookPath(editor)
		if err != nil {
			continue
		}
		cmd := exec.Command(bin, path)
		return tea.ExecProcess(cmd, func(err error) tea.Msg {
			return editorFinishedMsg{err: err}
		})
	}
	return func() tea.Msg {
		return editorMissingMsg{}
	}
}

// renderProps builds the body of the properties popup.
func renderProps(path string) string {
	props, err := fsops.Stat(path)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	kind := "File"
	if props.IsDir {
		kind = "Directory"
	}

	lines := []string{
		fmt.Sprintf("Name: %s", props.Name),
		fmt.Sprintf("Path: %s", props.Path),
		fmt.Sprintf("Size: %s (%d bytes)", utils.FormatSize(props.Size), props.Size),
		fmt.Sprintf("Type: %s", kind),
		fmt.Sprintf("Permissions: %s", props.Mode),
		fmt.Sprintf("Modified: %s", props.ModTime.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Created: %s", props.CTime.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Owner: %d", props.UID),
		fmt.Sprintf("Group: %d", props.GID),
		fmt.Sprintf("Inode: %d", props.Inode),
		"",
		"Press any key to close...",
	}

	return strings.Join(lines, "\n")
}
