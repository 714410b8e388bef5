// Package preview builds the bounded textual representation of the
// selected entry shown in the right pane. Failures never propagate:
// every read or stat error degrades to an inline message in the
// returned text.
package preview

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"perch/internal/fsops"
	"perch/internal/utils"
)

// maxReadBytes caps how much of a text file is read for a preview.
const maxReadBytes = 4000

// Options carries the browser settings the renderer depends on.
type Options struct {
	MaxLines      int
	ShowHidden    bool
	SortDirsFirst bool
}

// Render produces the preview for path inside a pane of the given
// height and width.
func Render(path string, height, width int, opts Options) string {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Sprintf("%s Error\n%v", utils.FileIcon(path), err)
	}

	var text string
	switch {
	case info.IsDir():
		text = renderDirectory(path, opts)
	case utils.IsImageFile(path):
		text = fmt.Sprintf("%s Image File\n%s\n\n(Use external viewer to open)\n\nPath: %s",
			utils.FileIcon(path), statLine(path), path)
	case utils.IsDocumentFile(path):
		text = fmt.Sprintf("%s Document\n%s\n\n(Binary document - no preview)\n\nPath: %s",
			utils.FileIcon(path), statLine(path), path)
	case utils.IsCodeFile(path) || utils.IsTextContent(path):
		text = renderText(path, height, opts)
	default:
		text = fmt.Sprintf("%s Binary File\n%s\n\nPath: %s",
			utils.FileIcon(path), statLine(path), path)
	}

	return fitWidth(text, width)
}

// statLine is the one-line metadata header: permissions, size, mtime.
func statLine(path string) string {
	props, err := fsops.Stat(path)
	if err != nil {
		return "Unknown"
	}
	return fmt.Sprintf("%s %8s %s",
		props.Mode, utils.FormatSize(props.Size), props.ModTime.Format("2006-01-02 15:04"))
}

func renderDirectory(path string, opts Options) string {
	names, err := fsops.List(path, opts.ShowHidden, opts.SortDirsFirst)
	if err != nil {
		return fmt.Sprintf("%s Directory\nError reading directory: %v", utils.FileIcon(path), err)
	}

	shown := names
	if len(shown) > opts.MaxLines {
		shown = shown[:opts.MaxLines]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Directory\n%s\n\nContents (%d items):\n", utils.FileIcon(path), statLine(path), len(shown))

	if len(shown) == 0 {
		b.WriteString("(Empty directory)")
		return b.String()
	}

	for _, name := range shown {
		child := filepath.Join(path, name)
		sizeNote := ""
		if info, err := os.Stat(child); err == nil && !info.IsDir() {
			sizeNote = fmt.Sprintf(" (%s)", utils.FormatSize(info.Size()))
		}
		fmt.Fprintf(&b, "%s %s%s\n", utils.FileIcon(child), name, sizeNote)
	}

	if len(names) > len(shown) {
		fmt.Fprintf(&b, "... and %d more items", len(names)-len(shown))
	}
	return b.String()
}

func renderText(path string, height int, opts Options) string {
	header := fmt.Sprintf("%s %s\n%s\n\n", utils.FileIcon(path), filepath.Base(path), statLine(path))

	content, err := readHead(path)
	if err != nil {
		return header + fmt.Sprintf("Error reading file: %v", err)
	}

	body := content
	if utils.IsCodeFile(path) {
		if categorized, err := tokenize(path, content); err == nil {
			body = categorized
		}
	}

	lines := strings.Split(body, "\n")
	maxLines := utils.Min(height-6, opts.MaxLines)
	if maxLines < 1 {
		maxLines = 1
	}
	if len(lines) > maxLines {
		total := len(lines)
		lines = lines[:maxLines]
		lines = append(lines, fmt.Sprintf("... (showing %d of %d lines)", maxLines, total))
	}

	return header + strings.Join(lines, "\n")
}

func readHead(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	buf := make([]byte, maxReadBytes)
	n, err := file.Read(buf)
	if n == 0 && err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	head := buf[:n]
	if n == maxReadBytes {
		// The byte cap can land mid-rune; drop the split tail rather
		// than emit invalid UTF-8.
		for len(head) > 0 && n-len(head) < utf8.UTFMax && !utf8.Valid(head) {
			head = head[:len(head)-1]
		}
	}
	return string(head), nil
}

// tokenize runs the best-effort language tokenizer over content and
// reassembles the token stream. Unknown languages fall back to the
// plain-text lexer.
func tokenize(path string, content string) (string, error) {
	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := formatters.NoOp.Format(&b, styles.Fallback, iterator); err != nil {
		return "", err
	}
	return b.String(), nil
}

func fitWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = utils.Truncate(line, width)
	}
	return strings.Join(lines, "\n")
}
