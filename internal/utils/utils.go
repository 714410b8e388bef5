package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// fileIcons maps known extensions to their list icons. An extension
// appearing here also marks the file as a code/text type for previews.
var fileIcons = map[string]string{
	".py": "🐍", ".js": "🟨", ".ts": "🟦", ".html": "🌐", ".htm": "🌐",
	".css": "🎨", ".c": "🅲", ".cpp": "➕➕", ".go": "🐹", ".rs": "🦀",
	".php": "🐘", ".java": "☕", ".rb": "💎", ".md": "📄", ".txt": "📄",
	".sh": "🐚", ".bash": "🐚", ".json": "📋", ".xml": "📋",
	".yml": "⚙️", ".yaml": "⚙️", ".sql": "🗃️", ".log": "📜",
	".conf": "⚙️", ".cfg": "⚙️", ".ini": "⚙️", ".zip": "📦",
	".tar": "📦", ".gz": "📦", ".7z": "📦", ".rar": "📦",
	".jpg": "🖼️", ".jpeg": "🖼️", ".png": "🖼️", ".gif": "🖼️",
	".pdf": "📕", ".doc": "📄", ".docx": "📄", ".mp3": "🎵",
	".mp4": "🎬", ".avi": "🎬", ".mkv": "🎬",
}

// FileIcon returns the icon for the entry at path: directory, symlink,
// or extension lookup with a plain-file default.
func FileIcon(path string) string {
	info, err := os.Lstat(path)
	if err == nil {
		if info.IsDir() {
			return "📂"
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return "🔗"
		}
	}
	if icon, ok := fileIcons[strings.ToLower(filepath.Ext(path))]; ok {
		return icon
	}
	return "📄"
}

// IsCodeFile reports whether the file has a recognized code/text
// extension.
func IsCodeFile(path string) bool {
	_, ok := fileIcons[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsImageFile reports whether the file has an image extension.
func IsImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg":
		return true
	}
	return false
}

// IsDocumentFile reports whether the file has a binary document
// extension.
func IsDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".doc", ".docx", ".xls", ".xlsx":
		return true
	}
	return false
}

// IsTextContent sniffs the first 1024 bytes of a file and reports
// whether they all look printable. An unreadable file is not text.
func IsTextContent(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	buf := make([]byte, 1024)
	n, err := file.Read(buf)
	if n == 0 {
		// An empty file previews as text.
		return err == nil || errors.Is(err, io.EOF)
	}
	for _, b := range buf[:n] {
		if b == '\n' || b == '\r' || b == '\t' {
			continue
		}
		if b < 0x20 || b == 0x7f {
			return false
		}
	}
	return true
}

// FormatSize renders a byte count in the compact human form used by
// list rows and previews (512B, 2.5K, 1.2M, 3.0G).
func FormatSize(size int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case size < kb:
		return fmt.Sprintf("%dB", size)
	case size < mb:
		return fmt.Sprintf("%.1fK", float64(size)/kb)
	case size < gb:
		return fmt.Sprintf("%.1fM", float64(size)/mb)
	default:
		return fmt.Sprintf("%.1fG", float64(size)/gb)
	}
}

// FormatSizeColored styles a size string by magnitude: dim for tiny
// files, plain for typical ones, warm colors for large ones.
func FormatSizeColored(size int64) string {
	const (
		kb    = 1024
		mb    = 1024 * kb
		mb100 = 100 * mb
	)

	var style lipgloss.Style
	switch {
	case size < kb:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	case size < mb:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	case size < mb100:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	default:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	}

	return style.Render(FormatSize(size))
}

// Truncate shortens s to fit width terminal cells, appending an
// ellipsis when anything was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

// Min returns the smaller of two ints.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
