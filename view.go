package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"perch/internal/fsops"
	"perch/internal/utils"
)

const menuWidth = 25

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	dirStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	execStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	fileStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	selectedStyle  = lipgloss.NewStyle().Reverse(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	searchBarStyle = lipgloss.NewStyle().Reverse(true)
	popupStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
	popupTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
)

func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var main string
	switch m.mode {
	case modeCreateFile:
		main = m.renderPrompt("New File")
	case modeCreateDir:
		main = m.renderPrompt("New Directory")
	case modeRename:
		main = m.renderPrompt("Rename")
	case modeConfirmDelete:
		main = m.renderConfirm()
	case modeMenu:
		main = m.renderMenu()
	case modeProperties:
		main = m.renderPopup("Properties", m.popupText)
	case modeError:
		main = m.renderPopup("Error", m.popupText)
	case modeHelp:
		main = m.renderPopup("Help", helpText)
	default:
		listPane := m.renderList(m.width / 2)
		previewPane := m.renderPreview(m.width - m.width/2)
		main = lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)
	}

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m *model) renderList(width int) string {
	paneHeight := m.height - 1

	var title string
	if m.mode == modeSearch {
		title = "🔍 Search Results"
	} else {
		name := filepath.Base(m.currentDir)
		if name == "" || name == "." {
			name = m.currentDir
		}
		title = fmt.Sprintf("📁 %s", name)
		if n := m.hiddenCount(); n > 0 && !m.opts.ShowHidden {
			title += fmt.Sprintf(" (+%d hidden)", n)
		}
	}

	lines := []string{
		" " + titleStyle.Render(utils.Truncate(title, width-2)),
		" " + separatorStyle.Render(strings.Repeat("─", maxInt(0, width-3))),
	}

	if len(m.entries) == 0 {
		empty := "(Empty directory)"
		if m.mode == modeSearch {
			empty = "(No matches)"
		}
		lines = append(lines, "", "   "+dimStyle.Render(empty))
	} else {
		end := utils.Min(m.offset+m.listHeight(), len(m.entries))
		for i := m.offset; i < end; i++ {
			lines = append(lines, m.renderRow(i, width))
		}
	}

	return lipgloss.NewStyle().Width(width).Height(paneHeight).MaxHeight(paneHeight).
		Render(strings.Join(lines, "\n"))
}

func (m *model) renderRow(i int, width int) string {
	item := m.entries[i]

	marker := " "
	if i == m.clickedIdx {
		marker = ">"
	}

	style := fileStyle
	isDir := fsops.IsDir(item.path)
	if isDir {
		style = dirStyle
	} else if fsops.IsExecutable(item.path) {
		style = execStyle
	}

	sizeStr := ""
	if !isDir {
		if info, err := os.Stat(item.path); err == nil {
			sizeStr = utils.FormatSizeColored(info.Size())
		}
	}

	name := fmt.Sprintf("%s %s", utils.FileIcon(item.path), item.display)
	nameWidth := width - 4 - lipgloss.Width(sizeStr)
	name = utils.Truncate(name, maxInt(4, nameWidth))

	pad := width - 3 - lipgloss.Width(name) - lipgloss.Width(sizeStr)
	if pad < 1 {
		pad = 1
	}

	row := name + strings.Repeat(" ", pad) + sizeStr
	if i == m.cursor {
		return " " + marker + selectedStyle.Render(row)
	}
	return " " + marker + style.Render(row)
}

func (m *model) renderPreview(width int) string {
	paneHeight := m.height - 1

	body := m.previewText
	lines := strings.Split(body, "\n")
	if len(lines) > paneHeight {
		lines = lines[:paneHeight-1]
		lines = append(lines, dimStyle.Render("..."))
	}

	return lipgloss.NewStyle().
		Width(width-1).
		Height(paneHeight).
		MaxHeight(paneHeight).
		PaddingLeft(1).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("240")).
		Render(strings.Join(lines, "\n"))
}

func (m *model) renderStatusBar() string {
	if m.mode == modeSearch {
		bar := fmt.Sprintf("Search: %s", m.searchInput.Value()) + "_"
		return searchBarStyle.Width(m.width).Render(utils.Truncate(bar, m.width-1))
	}

	left := m.statusMsg
	if left == "" {
		name := filepath.Base(m.currentDir)
		if name == "" || name == "." {
			name = m.currentDir
		}
		left = fmt.Sprintf("📁 %s (%d items)", name, len(m.entries))
		if sel, ok := m.selected(); ok {
			left += fmt.Sprintf(" | %s", sel.display)
		}
	}

	help := " ?:help q:quit /:search [mouse enabled]"
	avail := m.width - lipgloss.Width(help)
	left = utils.Truncate(left, maxInt(0, avail))

	pad := m.width - lipgloss.Width(left) - lipgloss.Width(help)
	if pad < 0 {
		pad = 0
	}
	return statusStyle.Render(left) + strings.Repeat(" ", pad) + dimStyle.Render(help)
}

// center renders a popup box in the middle of the main content area.
func (m *model) center(box string) string {
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box)
}

func (m *model) renderPrompt(title string) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		popupTitleStyle.Render(title),
		"",
		m.textInput.View(),
		"",
		dimStyle.Render("Enter to confirm, Esc to cancel"),
	)
	return m.center(popupStyle.Width(utils.Min(56, m.width-4)).Render(body))
}

func (m *model) renderConfirm() string {
	name := ""
	if sel, ok := m.selected(); ok {
		name = sel.display
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		popupTitleStyle.Render("Confirm"),
		"",
		fmt.Sprintf("Delete '%s' permanently?", name),
		"",
		dimStyle.Render("Press 'y' to confirm, any other key to cancel"),
	)
	return m.center(popupStyle.Width(utils.Min(56, m.width-4)).Render(body))
}

func (m *model) renderPopup(title, text string) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		popupTitleStyle.Render(title),
		"",
		text,
	)
	return m.center(popupStyle.Width(utils.Min(64, m.width-4)).Render(body))
}

// renderMenu draws the context menu at its anchor. The row positions
// must line up with the hit regions menuClick derives from menuOrigin.
func (m *model) renderMenu() string {
	labels := make([]string, len(menuActions))
	for i, opt := range menuActions {
		labels[i] = opt.label
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("39")).
		Width(menuWidth - 2).
		Render(strings.Join(labels, "\n"))

	mx, my := m.menuOrigin()
	var b strings.Builder
	b.WriteString(strings.Repeat("\n", my))
	b.WriteString(lipgloss.NewStyle().MarginLeft(mx).Render(box))
	return lipgloss.NewStyle().Height(m.height - 1).MaxHeight(m.height - 1).Render(b.String())
}

func (m *model) hiddenCount() int {
	entries, err := os.ReadDir(m.currentDir)
	if err != nil {
		return 0
	}
	count := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			count++
		}
	}
	return count
}

const helpText = `Navigation:
  ↑/k, ↓/j     - Move up/down
  Enter/→      - Enter directory / open file
  b/←          - Go to parent directory

Operations:
  n            - Create new file
  m            - Create new directory
  F2           - Rename selected item
  d            - Delete selected item
  o            - Open with system default
  e            - Open in editor (nvim/vim)
  y            - Copy path to clipboard
  i            - Properties

Mouse:
  Left click   - Select
  Double click - Open file / enter directory
  Right click  - Context menu
  Wheel        - Move selection by 3

Toggles:
  h            - Show/hide hidden files
  s            - Directories-first sorting

Other:
  /            - Search (Esc exits, Enter keeps results)
  r            - Refresh
  ?            - This help
  q            - Quit

Press any key to close...`
