package main

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"perch/internal/fsops"
	"perch/internal/layout"
	"perch/internal/logger"
)

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("🐦 perch"),
		tea.EnableMouseAllMotion,
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
	}
	if m.clickedIdx != -1 && time.Since(m.lastClick.at) > clickFlashWindow {
		m.clickedIdx = -1
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.syncViewport()
		m.updatePreview()
		return m, nil

	case editorFinishedMsg:
		if msg.err != nil {
			logger.Error("editor exited: %v", msg.err)
			m.setStatus(3*time.Second, "Editor error: %v", msg.err)
		}
		return m, nil

	case editorMissingMsg:
		m.popupText = "Neither neovim nor vim found in PATH\n\nPress any key to continue..."
		m.mode = modeError
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.handleSearchKey(msg)
		case modeCreateFile, modeCreateDir, modeRename:
			return m.handlePromptKey(msg)
		case modeConfirmDelete:
			return m.handleConfirmKey(msg)
		case modeMenu:
			return m.handleMenuKey(msg)
		case modeProperties, modeHelp, modeError:
			// Informational popups close on any key.
			m.mode = modeNormal
			m.popupText = ""
			return m, nil
		default:
			return m.handleNormalKey(msg)
		}
	}

	return m, nil
}

func (m *model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		m.moveCursor(1)

	case "k", "up":
		m.moveCursor(-1)

	case "enter", "right":
		return m, m.activateSelected()

	case "b", "left":
		parent := filepath.Dir(m.currentDir)
		if parent != m.currentDir {
			m.enterDir(parent)
		}

	case "/":
		m.mode = modeSearch
		m.saved = m.entries
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, textinput.Blink

	case "h":
		m.opts.ShowHidden = !m.opts.ShowHidden
		m.offset = 0
		m.loadEntries()
		if m.opts.ShowHidden {
			m.setStatus(2*time.Second, "Showing hidden files")
		} else {
			m.setStatus(2*time.Second, "Hiding hidden files")
		}

	case "s":
		m.opts.SortDirsFirst = !m.opts.SortDirsFirst
		m.loadEntries()
		if m.opts.SortDirsFirst {
			m.setStatus(2*time.Second, "Sorting directories first")
		} else {
			m.setStatus(2*time.Second, "Sorting alphabetically")
		}

	case "r":
		m.loadEntries()
		m.setStatus(2*time.Second, "Refreshed")

	case "n":
		m.mode = modeCreateFile
		m.textInput.SetValue("")
		m.textInput.Placeholder = "New file name..."
		m.textInput.Focus()
		return m, textinput.Blink

	case "m":
		m.mode = modeCreateDir
		m.textInput.SetValue("")
		m.textInput.Placeholder = "New directory name..."
		m.textInput.Focus()
		return m, textinput.Blink

	case "f2":
		return m, m.dispatch(actionRename)

	case "d":
		return m, m.dispatch(actionDelete)

	case "o":
		return m, m.dispatch(actionOpenDefault)

	case "e":
		return m, m.dispatch(actionOpenEditor)

	case "y":
		return m, m.dispatch(actionCopyPath)

	case "i":
		return m, m.dispatch(actionProperties)

	case " ":
		if _, ok := m.selected(); ok {
			m.openMenu(-1, -1)
		}

	case "?":
		m.mode = modeHelp
	}

	return m, nil
}

func (m *model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.entries = m.saved
		m.cursor = 0
		m.offset = 0
		m.syncViewport()
		m.updatePreview()
		return m, nil

	case "enter":
		// Keep whatever the query filtered down to.
		m.mode = modeNormal
		m.searchInput.Blur()
		m.cursor = 0
		m.offset = 0
		m.syncViewport()
		m.updatePreview()
		return m, nil

	case "up", "down":
		if msg.String() == "down" {
			m.moveCursor(1)
		} else {
			m.moveCursor(-1)
		}
		return m, nil

	default:
		prev := m.searchInput.Value()
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		if m.searchInput.Value() != prev {
			m.runSearch()
		}
		return m, cmd
	}
}

func (m *model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.textInput.SetValue("")
		m.textInput.Blur()
		return m, nil

	case "enter":
		name := strings.TrimSpace(m.textInput.Value())
		submitted := m.mode
		m.mode = modeNormal
		m.textInput.SetValue("")
		m.textInput.Blur()
		if name != "" {
			m.submitPrompt(submitted, name)
		}
		return m, nil

	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
}

// submitPrompt applies the text a prompt popup collected.
func (m *model) submitPrompt(from mode, name string) {
	switch from {
	case modeCreateFile:
		if err := fsops.CreateFile(m.currentDir, name); err != nil {
			logger.Error("create file %s: %v", name, err)
			m.setStatus(3*time.Second, "Error creating file: %v", err)
		} else {
			m.setStatus(2*time.Second, "Created file: %s", name)
			m.loadEntries()
		}

	case modeCreateDir:
		if err := fsops.CreateDir(m.currentDir, name); err != nil {
			logger.Error("create directory %s: %v", name, err)
			m.setStatus(3*time.Second, "Error creating directory: %v", err)
		} else {
			m.setStatus(2*time.Second, "Created directory: %s", name)
			m.loadEntries()
		}

	case modeRename:
		sel, ok := m.selected()
		if !ok {
			return
		}
		if err := fsops.Rename(sel.path, name); err != nil {
			logger.Error("rename %s -> %s: %v", sel.path, name, err)
			m.setStatus(3*time.Second, "Error renaming: %v", err)
		} else {
			m.setStatus(2*time.Second, "Renamed to: %s", name)
			m.loadEntries()
		}
	}
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	// Only the designated confirm key proceeds; every other key cancels.
	if msg.String() == "y" {
		m.deleteSelected()
	}
	return m, nil
}

func (m *model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case key == "esc":
		m.closeMenu()
		return m, nil

	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		idx := int(key[0] - '1')
		m.closeMenu()
		if idx >= 0 && idx < len(menuActions) {
			return m, m.dispatch(menuActions[idx].act)
		}
		return m, nil
	}
	return m, nil
}

func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.mode == modeNormal || m.mode == modeSearch {
			m.moveCursor(-wheelStep)
			m.clickedIdx = -1
		}

	case tea.MouseButtonWheelDown:
		if m.mode == modeNormal || m.mode == modeSearch {
			m.moveCursor(wheelStep)
			m.clickedIdx = -1
		}

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		if m.mode == modeMenu {
			return m.menuClick(msg.X, msg.Y)
		}
		if m.mode != modeNormal {
			return m, nil
		}
		idx, ok := m.clickRegions[msg.Y]
		if !ok {
			return m, nil
		}
		now := time.Now()
		doubled := idx == m.lastClick.index && now.Sub(m.lastClick.at) < doubleClickWindow
		m.cursor = idx
		m.clickedIdx = idx
		m.lastClick = clickState{index: idx, at: now}
		m.syncViewport()
		m.updatePreview()
		if doubled {
			return m, m.activateSelected()
		}

	case tea.MouseButtonRight:
		if msg.Action != tea.MouseActionPress || m.mode != modeNormal {
			return m, nil
		}
		if idx, ok := m.clickRegions[msg.Y]; ok {
			m.cursor = idx
			m.syncViewport()
			m.updatePreview()
			m.openMenu(msg.X, msg.Y)
		}
	}

	return m, nil
}

// menuClick resolves a left press while the context menu is open: a
// press on an option row runs it, anywhere else closes the menu. The
// hit regions are derived from the same origin the current frame was
// drawn at, so they survive a resize while the menu is up.
func (m *model) menuClick(x, y int) (tea.Model, tea.Cmd) {
	mx, my := m.menuOrigin()
	inside := x >= mx && x < mx+menuWidth && y >= my && y < my+menuHeight()
	regions := layout.Regions(my+1, 0, len(menuActions), len(menuActions))
	idx, onRow := regions[y]
	m.closeMenu()
	if inside && onRow {
		return m, m.dispatch(menuActions[idx].act)
	}
	return m, nil
}

func (m *model) moveCursor(delta int) {
	m.cursor = layout.Clamp(m.cursor+delta, len(m.entries))
	m.syncViewport()
	m.updatePreview()
}

// activateSelected enters a directory or opens a file with the default
// application.
func (m *model) activateSelected() tea.Cmd {
	sel, ok := m.selected()
	if !ok {
		return nil
	}
	if fsops.IsDir(sel.path) {
		m.enterDir(sel.path)
		return nil
	}
	return openExternal(sel.path)
}

// dispatch runs one of the shared actions against the selected entry.
// Both the keyboard path and the context menu end up here.
func (m *model) dispatch(act action) tea.Cmd {
	sel, ok := m.selected()
	if !ok {
		return nil
	}

	switch act {
	case actionOpenDefault:
		return openExternal(sel.path)

	case actionOpenEditor:
		return editorCmd(sel.path)

	case actionRename:
		m.mode = modeRename
		m.textInput.SetValue(filepath.Base(sel.path))
		m.textInput.Placeholder = "New name..."
		m.textInput.Focus()
		return textinput.Blink

	case actionDelete:
		if m.opts.ConfirmDelete {
			m.mode = modeConfirmDelete
			return nil
		}
		m.deleteSelected()

	case actionCopyPath:
		// Clipboard failures are ignored.
		if err := clipboard.WriteAll(sel.path); err == nil {
			m.setStatus(2*time.Second, "Copied: %s", sel.path)
		} else {
			logger.Warn("clipboard write: %v", err)
		}

	case actionProperties:
		m.popupText = renderProps(sel.path)
		m.mode = modeProperties
	}

	return nil
}

func (m *model) deleteSelected() {
	sel, ok := m.selected()
	if !ok {
		return
	}
	if err := fsops.Delete(sel.path); err != nil {
		logger.Error("delete %s: %v", sel.path, err)
		m.setStatus(3*time.Second, "Error deleting: %v", err)
	} else {
		m.setStatus(2*time.Second, "Deleted: %s", sel.display)
	}
	m.loadEntries()
}

func (m *model) openMenu(x, y int) {
	m.mode = modeMenu
	m.menuX = x
	m.menuY = y
}

func (m *model) closeMenu() {
	m.mode = modeNormal
	m.menuX = -1
	m.menuY = -1
}

// menuOrigin returns the top-left cell of the context menu: the click
// anchor clamped to the screen, or centered for keyboard invocation.
func (m *model) menuOrigin() (int, int) {
	h := menuHeight()
	x, y := m.menuX, m.menuY
	if x < 0 || y < 0 {
		return maxInt(0, (m.width-menuWidth)/2), maxInt(0, (m.height-h)/2)
	}
	if x+menuWidth > m.width {
		x = maxInt(0, m.width-menuWidth)
	}
	if y+h > m.height {
		y = maxInt(0, m.height-h)
	}
	return x, y
}

func menuHeight() int {
	return len(menuActions) + 2 // border rows
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
