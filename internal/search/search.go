// Package search implements the recursive name search behind the
// browser's search mode: a depth-bounded, result-capped, case-insensitive
// substring match over entry basenames.
package search

import (
	"os"
	"path/filepath"
	"strings"
)

// Match is one search hit. DisplayPath is relative to the search root,
// Path is absolute.
type Match struct {
	DisplayPath string
	Path        string
}

// Options bounds a search. MaxDepth counts directories below the root
// (0 searches only the root's own entries). Hidden entries are skipped
// unless ShowHidden.
type Options struct {
	MaxDepth   int
	MaxResults int
	ShowHidden bool
}

// Run walks root depth-first collecting entries whose basename contains
// query, case-insensitively, in traversal order. Directories are
// recorded as matches before being descended into. The walk stops the
// moment MaxResults matches exist; unreadable subdirectories are pruned
// silently. Every call is a full re-search, there is no cached state.
func Run(root, query string, opts Options) []Match {
	results := make([]Match, 0)
	if query == "" {
		return results
	}
	needle := strings.ToLower(query)
	walk(root, "", 0, needle, opts, &results)
	return results
}

func walk(dir, rel string, depth int, needle string, opts Options, results *[]Match) {
	if len(*results) >= opts.MaxResults || depth > opts.MaxDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// Permission or I/O failure prunes this branch.
		return
	}

	for _, entry := range entries {
		if len(*results) >= opts.MaxResults {
			return
		}

		name := entry.Name()
		if !opts.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}

		display := name
		if rel != "" {
			display = filepath.Join(rel, name)
		}
		full := filepath.Join(dir, name)

		if strings.Contains(strings.ToLower(name), needle) {
			*results = append(*results, Match{DisplayPath: display, Path: full})
		}

		if entry.IsDir() {
			walk(full, display, depth+1, needle, opts, results)
		}
	}
}
