package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"perch/internal/config"
	"perch/internal/fsops"
	"perch/internal/layout"
	"perch/internal/logger"
	"perch/internal/preview"
	"perch/internal/search"
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeCreateFile
	modeCreateDir
	modeRename
	modeConfirmDelete
	modeMenu
	modeProperties
	modeHelp
	modeError
)

// action is the unified operation set shared by the keyboard handler
// and the context menu, so the two dispatch paths cannot drift.
type action int

const (
	actionOpenDefault action = iota
	actionOpenEditor
	actionRename
	actionDelete
	actionCopyPath
	actionProperties
)

// menuActions is the context menu in display order; digit key n selects
// menuActions[n-1].
var menuActions = []struct {
	label string
	act   action
}{
	{"1. Open with default", actionOpenDefault},
	{"2. Open in editor", actionOpenEditor},
	{"3. Rename", actionRename},
	{"4. Delete", actionDelete},
	{"5. Copy Path", actionCopyPath},
	{"6. Properties", actionProperties},
}

// entry is one navigable item. A plain entry is a name resolved against
// the current directory; a located entry carries the display path a
// search produced. A listing holds only one kind at a time.
type entry struct {
	display string
	path    string
	located bool
}

func plainEntry(dir, name string) entry {
	return entry{display: name, path: filepath.Join(dir, name)}
}

func locatedEntry(m search.Match) entry {
	return entry{display: m.DisplayPath, path: m.Path, located: true}
}

type clickState struct {
	index int
	at    time.Time
}

const (
	// doubleClickWindow is the debounce interval for activate-by-click.
	doubleClickWindow = 500 * time.Millisecond
	// clickFlashWindow is how long the pressed-row marker lingers.
	clickFlashWindow = 300 * time.Millisecond
	// wheelStep is rows moved per wheel event.
	wheelStep = 3
	// listTop is the screen row of the first list entry (title row,
	// separator row, then entries).
	listTop = 2
)

type model struct {
	opts       config.Options
	currentDir string

	entries []entry
	saved   []entry // pre-search snapshot, restored on Esc/empty query
	cursor  int
	offset  int

	mode        mode
	searchInput textinput.Model
	textInput   textinput.Model // rename/create prompts

	width  int
	height int

	clickRegions layout.ClickMap
	lastClick    clickState
	clickedIdx   int // row flashed by the last press, -1 when none
	menuX, menuY int // context menu anchor, -1 when centered

	previewText string
	popupText   string // properties / error popup body

	statusMsg    string
	statusExpiry time.Time
}

func initialModel(opts config.Options) model {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = string(os.PathSeparator)
	}

	si := textinput.New()
	si.Placeholder = "Type to search..."
	si.CharLimit = 256
	si.Width = 50

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50

	m := model{
		opts:        opts,
		currentDir:  currentDir,
		mode:        modeNormal,
		searchInput: si,
		textInput:   ti,
		clickedIdx:  -1,
		menuX:       -1,
		menuY:       -1,
	}

	m.loadEntries()
	return m
}

// listHeight is the number of entry rows that fit on screen: everything
// minus title, separator, and the status area.
func (m *model) listHeight() int {
	h := m.height - 4
	if h < 1 {
		return 1
	}
	return h
}

// loadEntries refreshes the listing of the current directory. The
// cursor is re-clamped but keeps its position where possible.
func (m *model) loadEntries() {
	names, err := fsops.List(m.currentDir, m.opts.ShowHidden, m.opts.SortDirsFirst)
	if err != nil {
		logger.Error("listing %s: %v", m.currentDir, err)
		m.setStatus(3*time.Second, "Error reading directory: %v", err)
		m.entries = nil
	} else {
		entries := make([]entry, 0, len(names))
		for _, name := range names {
			entries = append(entries, plainEntry(m.currentDir, name))
		}
		m.entries = entries
	}

	m.syncViewport()
	m.updatePreview()
}

// enterDir replaces the current directory and resets selection state.
func (m *model) enterDir(path string) {
	m.currentDir = path
	m.cursor = 0
	m.offset = 0
	m.loadEntries()
}

// selected returns the entry under the cursor.
func (m *model) selected() (entry, bool) {
	if len(m.entries) == 0 || m.cursor >= len(m.entries) {
		return entry{}, false
	}
	return m.entries[m.cursor], true
}

// syncViewport re-establishes the layout invariants after any mutation:
// the cursor is clamped into range, the scroll offset keeps it visible,
// and the click-region map is rebuilt for the next mouse event.
func (m *model) syncViewport() {
	m.cursor = layout.Clamp(m.cursor, len(m.entries))
	m.offset = layout.Scroll(m.cursor, m.offset, m.listHeight(), len(m.entries))
	m.clickRegions = layout.Regions(listTop, m.offset, m.listHeight(), len(m.entries))
}

func (m *model) updatePreview() {
	sel, ok := m.selected()
	if !ok {
		m.previewText = ""
		return
	}
	paneWidth := m.width - m.width/2 - 2
	m.previewText = preview.Render(sel.path, m.height-2, paneWidth, preview.Options{
		MaxLines:      m.opts.PreviewMaxLines,
		ShowHidden:    m.opts.ShowHidden,
		SortDirsFirst: m.opts.SortDirsFirst,
	})
}

// runSearch re-queries the tree from scratch for the current input. An
// emptied query restores the snapshot taken when search mode began.
func (m *model) runSearch() {
	query := m.searchInput.Value()
	if query == "" {
		m.entries = m.saved
	} else {
		matches := search.Run(m.currentDir, query, search.Options{
			MaxDepth:   m.opts.SearchMaxDepth,
			MaxResults: m.opts.SearchMaxResults,
			ShowHidden: m.opts.ShowHidden,
		})
		entries := make([]entry, 0, len(matches))
		for _, match := range matches {
			entries = append(entries, locatedEntry(match))
		}
		m.entries = entries
	}

	m.cursor = 0
	m.offset = 0
	m.syncViewport()
	m.updatePreview()
}

func (m *model) setStatus(ttl time.Duration, format string, args ...any) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusExpiry = time.Now().Add(ttl)
}
