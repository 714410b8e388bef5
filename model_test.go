package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"perch/internal/config"
	"perch/internal/logger"
)

func newTestModel(t *testing.T, dir string) *model {
	t.Helper()
	logger.Disable()

	m := initialModel(config.Default())
	m.currentDir = dir
	m.cursor = 0
	m.offset = 0
	m.loadEntries()
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return &m
}

func keyRunes(m *model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func keyType(m *model, k tea.KeyType) {
	m.Update(tea.KeyMsg{Type: k})
}

func leftPress(m *model, x, y int) tea.Cmd {
	_, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	return cmd
}

func names(m *model) []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.display
	}
	return out
}

func TestToggleHiddenReloads(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, ".h.txt"), []byte("x"), 0644)

	m := newTestModel(t, dir)
	if len(m.entries) != 1 {
		t.Fatalf("expected hidden file filtered, got %v", names(m))
	}

	keyRunes(m, "h")
	if len(m.entries) != 2 {
		t.Fatalf("expected hidden file shown after toggle, got %v", names(m))
	}

	// Park the cursor on the last entry, then re-hide: selection must
	// stay in range.
	keyRunes(m, "jjjj")
	keyRunes(m, "h")
	if len(m.entries) != 1 {
		t.Fatalf("expected hidden file filtered again, got %v", names(m))
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d after reload of 1-entry listing", m.cursor)
	}
}

func TestSelectionStaysInBounds(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644)
	}

	m := newTestModel(t, dir)
	keyRunes(m, "jjjjjjj")
	if m.cursor != 2 {
		t.Errorf("cursor = %d after overshooting down, want 2", m.cursor)
	}
	keyRunes(m, "kkkkkkk")
	if m.cursor != 0 {
		t.Errorf("cursor = %d after overshooting up, want 0", m.cursor)
	}
}

func TestEnterDirectoryResetsState(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	os.Mkdir(sub, 0755)
	os.WriteFile(filepath.Join(sub, "inner.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "z.txt"), []byte("x"), 0644)

	m := newTestModel(t, dir)
	// dirs-first puts "sub" at index 0
	keyType(m, tea.KeyEnter)

	if m.currentDir != sub {
		t.Fatalf("currentDir = %q, want %q", m.currentDir, sub)
	}
	if m.cursor != 0 || m.offset != 0 {
		t.Errorf("cursor/offset = %d/%d after entering directory", m.cursor, m.offset)
	}
	if len(m.entries) != 1 || m.entries[0].display != "inner.txt" {
		t.Errorf("entries = %v", names(m))
	}

	keyRunes(m, "b")
	if m.currentDir != dir {
		t.Errorf("currentDir = %q after going to parent, want %q", m.currentDir, dir)
	}
}

func TestSearchProducesLocatedEntries(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	os.Mkdir(sub, 0755)
	os.WriteFile(filepath.Join(sub, "needle.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "hay.txt"), []byte("x"), 0644)

	m := newTestModel(t, dir)
	keyRunes(m, "/")
	if m.mode != modeSearch {
		t.Fatal("'/' did not enter search mode")
	}
	keyRunes(m, "needle")

	if len(m.entries) != 1 {
		t.Fatalf("search entries = %v", names(m))
	}
	got := m.entries[0]
	if !got.located {
		t.Error("search result not tagged as located")
	}
	if got.display != filepath.Join("sub", "needle.txt") {
		t.Errorf("display = %q", got.display)
	}
	if got.path != filepath.Join(sub, "needle.txt") {
		t.Errorf("path = %q", got.path)
	}
}

func TestSearchEscapeRestoresSnapshot(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "b.txt"), []byte("x"), 0644)

	m := newTestModel(t, dir)
	keyRunes(m, "/")
	snapshot := m.saved
	keyRunes(m, "a")
	if len(m.entries) != 1 {
		t.Fatalf("filtered entries = %v", names(m))
	}

	keyType(m, tea.KeyEsc)
	if m.mode != modeNormal {
		t.Fatal("esc did not leave search mode")
	}
	// The restore must be the snapshot itself, not a re-listing.
	if len(m.entries) != len(snapshot) || &m.entries[0] != &snapshot[0] {
		t.Error("esc did not restore the identical pre-search listing")
	}
	if m.searchInput.Value() != "" {
		t.Errorf("query not cleared: %q", m.searchInput.Value())
	}
}

func TestSearchBackspaceToEmptyRestores(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644)

	m := newTestModel(t, dir)
	keyRunes(m, "/")
	snapshot := m.saved
	keyRunes(m, "z")
	if len(m.entries) != 0 {
		t.Fatalf("expected no matches for z, got %v", names(m))
	}

	keyType(m, tea.KeyBackspace)
	if len(m.entries) != len(snapshot) || &m.entries[0] != &snapshot[0] {
		t.Error("emptied query did not restore the identical pre-search listing")
	}
	if m.mode != modeSearch {
		t.Error("backspace should not leave search mode")
	}
}

func TestSearchEnterKeepsResults(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "drop.txt"), []byte("x"), 0644)

	m := newTestModel(t, dir)
	keyRunes(m, "/")
	keyRunes(m, "keep")
	keyType(m, tea.KeyEnter)

	if m.mode != modeNormal {
		t.Fatal("enter did not leave search mode")
	}
	if len(m.entries) != 1 || m.entries[0].display != "keep.txt" {
		t.Errorf("entries after enter = %v", names(m))
	}
}

func TestDoubleClickEntersDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	os.Mkdir(sub, 0755)
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644)

	m := newTestModel(t, dir)
	// Row listTop maps to index 0, the directory.
	leftPress(m, 3, listTop)
	if m.currentDir != dir {
		t.Fatal("single click must not activate")
	}
	leftPress(m, 3, listTop)

	if m.currentDir != sub {
		t.Fatalf("currentDir = %q after double click, want %q", m.currentDir, sub)
	}
	if m.cursor != 0 || m.offset != 0 {
		t.Errorf("cursor/offset = %d/%d after double click", m.cursor, m.offset)
	}
}

func TestSlowSecondClickDoesNotActivate(t *testing.T) {
	dir := t.TempDir()
	os.Mkdir(filepath.Join(dir, "sub"), 0755)

	m := newTestModel(t, dir)
	leftPress(m, 3, listTop)
	m.lastClick.at = time.Now().Add(-time.Second)
	leftPress(m, 3, listTop)

	if m.currentDir != dir {
		t.Error("stale click pair activated the entry")
	}
}

func TestClicksOnDifferentRowsDoNotActivate(t *testing.T) {
	dir := t.TempDir()
	os.Mkdir(filepath.Join(dir, "one"), 0755)
	os.Mkdir(filepath.Join(dir, "two"), 0755)

	m := newTestModel(t, dir)
	leftPress(m, 3, listTop)
	leftPress(m, 3, listTop+1)

	if m.currentDir != dir {
		t.Error("clicks on different rows activated an entry")
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestWheelMovesSelection(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644)
	}

	m := newTestModel(t, dir)
	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	if m.cursor != 3 {
		t.Errorf("cursor = %d after wheel down, want 3", m.cursor)
	}
	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	if m.cursor != 4 {
		t.Errorf("cursor = %d after second wheel down, want 4 (clamped)", m.cursor)
	}
	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp})
	if m.cursor != 1 {
		t.Errorf("cursor = %d after wheel up, want 1", m.cursor)
	}
	if m.mode != modeNormal {
		t.Error("wheel changed mode")
	}
}

func TestConfirmDelete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doomed.txt")
	os.WriteFile(path, []byte("x"), 0644)

	m := newTestModel(t, dir)

	// A printable non-confirm key cancels.
	keyRunes(m, "d")
	if m.mode != modeConfirmDelete {
		t.Fatal("'d' did not open the confirm popup")
	}
	keyRunes(m, "n")
	if m.mode != modeNormal {
		t.Error("non-confirm key did not close the popup")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal("file deleted despite cancel")
	}

	// A control key cancels too.
	keyRunes(m, "d")
	keyType(m, tea.KeyEsc)
	if _, err := os.Stat(path); err != nil {
		t.Fatal("file deleted despite esc")
	}

	// Only 'y' confirms.
	keyRunes(m, "d")
	keyRunes(m, "y")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still exists after confirmed delete")
	}
	if len(m.entries) != 0 {
		t.Errorf("entries = %v after delete", names(m))
	}
}

func TestWheelIgnoredWhilePopupOpen(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644)
	}

	m := newTestModel(t, dir)
	keyRunes(m, "d")
	if m.mode != modeConfirmDelete {
		t.Fatal("'d' did not open the confirm popup")
	}

	// Scrolling must not retarget the pending delete.
	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	if m.cursor != 0 {
		t.Fatalf("cursor = %d after wheel during confirm popup, want 0", m.cursor)
	}

	keyRunes(m, "y")
	if _, err := os.Stat(filepath.Join(dir, "a.txt")); !os.IsNotExist(err) {
		t.Error("confirmed delete did not remove the entry it was opened for")
	}
	if _, err := os.Stat(filepath.Join(dir, "d.txt")); err != nil {
		t.Error("delete removed a different entry")
	}

	// Same rule while the context menu is up.
	keyRunes(m, " ")
	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	if m.cursor != 0 {
		t.Errorf("cursor = %d after wheel during menu, want 0", m.cursor)
	}
	keyType(m, tea.KeyEsc)
}

func TestCreateFilePopup(t *testing.T) {
	dir := t.TempDir()
	m := newTestModel(t, dir)

	keyRunes(m, "n")
	if m.mode != modeCreateFile {
		t.Fatal("'n' did not open the create-file prompt")
	}
	keyRunes(m, "x.txt")
	keyType(m, tea.KeyEnter)

	if m.mode != modeNormal {
		t.Error("prompt did not close on enter")
	}
	if _, err := os.Stat(filepath.Join(dir, "x.txt")); err != nil {
		t.Errorf("created file missing: %v", err)
	}
	if len(m.entries) != 1 || m.entries[0].display != "x.txt" {
		t.Errorf("entries = %v after create", names(m))
	}
}

func TestCreateDirPopupCancel(t *testing.T) {
	dir := t.TempDir()
	m := newTestModel(t, dir)

	keyRunes(m, "m")
	keyRunes(m, "newdir")
	keyType(m, tea.KeyEsc)

	if m.mode != modeNormal {
		t.Error("esc did not close the prompt")
	}
	if len(m.entries) != 0 {
		t.Errorf("entries = %v after cancelled create", names(m))
	}
}

func TestRenameFlow(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644)

	m := newTestModel(t, dir)
	m.Update(tea.KeyMsg{Type: tea.KeyF2})
	if m.mode != modeRename {
		t.Fatal("F2 did not open the rename prompt")
	}
	if m.textInput.Value() != "a.txt" {
		t.Errorf("prompt pre-filled with %q", m.textInput.Value())
	}

	m.textInput.SetValue("b.txt")
	keyType(m, tea.KeyEnter)

	got := names(m)
	if len(got) != 1 || got[0] != "b.txt" {
		t.Errorf("listing after rename = %v, want [b.txt]", got)
	}
}

func TestRenameOntoExistingLeavesListing(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644)
	os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0644)

	m := newTestModel(t, dir)
	m.Update(tea.KeyMsg{Type: tea.KeyF2})
	m.textInput.SetValue("b.txt")
	keyType(m, tea.KeyEnter)

	got := strings.Join(names(m), ",")
	if got != "a.txt,b.txt" {
		t.Errorf("listing changed after failed rename: %v", got)
	}
	if m.statusMsg == "" {
		t.Error("failed rename produced no status message")
	}
}

func TestMenuDigitDispatch(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644)

	m := newTestModel(t, dir)
	keyRunes(m, " ")
	if m.mode != modeMenu {
		t.Fatal("space did not open the context menu")
	}

	keyRunes(m, "6")
	if m.mode != modeProperties {
		t.Fatalf("mode = %d after '6', want properties popup", m.mode)
	}
	if !strings.Contains(m.popupText, "Name: a.txt") {
		t.Errorf("properties popup = %q", m.popupText)
	}

	// Any key closes an informational popup.
	keyRunes(m, "x")
	if m.mode != modeNormal {
		t.Error("popup did not close")
	}
}

func TestMenuOutOfBoundsDigitCancels(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644)

	m := newTestModel(t, dir)
	keyRunes(m, " ")
	keyRunes(m, "9")
	if m.mode != modeNormal {
		t.Error("out-of-bounds digit did not cancel the menu")
	}
}

func TestMenuClickSelectsOption(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644)

	m := newTestModel(t, dir)
	keyRunes(m, " ")

	mx, my := m.menuOrigin()
	// Option 4 (Delete) sits three rows below the top border.
	leftPress(m, mx+2, my+1+3)
	if m.mode != modeConfirmDelete {
		t.Errorf("mode = %d after clicking Delete, want confirm popup", m.mode)
	}
}

func TestMenuClickTracksResize(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644)

	m := newTestModel(t, dir)
	keyRunes(m, " ")
	oldX, oldY := m.menuOrigin()

	// The centered menu moves when the window shrinks; hit testing has
	// to follow the redrawn position, not the one at open time.
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	mx, my := m.menuOrigin()
	if mx == oldX && my == oldY {
		t.Fatal("resize did not move the menu; fixture needs a bigger size change")
	}

	leftPress(m, mx+2, my+1+3)
	if m.mode != modeConfirmDelete {
		t.Errorf("mode = %d after clicking Delete at the post-resize position", m.mode)
	}
}

func TestMenuClickOutsideCloses(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644)

	m := newTestModel(t, dir)
	keyRunes(m, " ")
	leftPress(m, 0, 0)
	if m.mode != modeNormal {
		t.Error("click outside the menu did not close it")
	}
}

func TestRightClickOpensMenuOnRow(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "b.txt"), []byte("x"), 0644)

	m := newTestModel(t, dir)
	m.Update(tea.MouseMsg{X: 5, Y: listTop + 1, Button: tea.MouseButtonRight, Action: tea.MouseActionPress})

	if m.mode != modeMenu {
		t.Fatal("right click did not open the context menu")
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want the clicked row", m.cursor)
	}
}

func TestViewportInvariantWhileScrolling(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 30; i++ {
		os.WriteFile(filepath.Join(dir, string(rune('a'+i%26))+string(rune('0'+i/26))+".txt"), []byte("x"), 0644)
	}

	m := newTestModel(t, dir)
	h := m.listHeight()
	for i := 0; i < 40; i++ {
		keyRunes(m, "j")
		if m.cursor < m.offset || m.cursor >= m.offset+h {
			t.Fatalf("viewport invariant broken at step %d: offset %d cursor %d height %d",
				i, m.offset, m.cursor, h)
		}
	}
	for i := 0; i < 40; i++ {
		keyRunes(m, "k")
		if m.cursor < m.offset || m.cursor >= m.offset+h {
			t.Fatalf("viewport invariant broken scrolling up at step %d: offset %d cursor %d",
				i, m.offset, m.cursor)
		}
	}
}

func TestViewRendersEveryMode(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0644)

	m := newTestModel(t, dir)
	for _, md := range []mode{modeNormal, modeSearch, modeCreateFile, modeCreateDir,
		modeRename, modeConfirmDelete, modeMenu, modeProperties, modeHelp, modeError} {
		m.mode = md
		if out := m.View(); out == "" {
			t.Errorf("empty view in mode %d", md)
		}
	}
}
