package config

// Options holds the process-wide browser settings. There is no config
// file and no flags: the zero state comes from Default and the only
// mutations are runtime toggle keys. Each consumer receives the value
// explicitly instead of reading ambient globals.
type Options struct {
	ShowHidden       bool // include dotfiles in listings and searches
	SortDirsFirst    bool // directories before files, alphabetical within each group
	PreviewMaxLines  int  // upper bound on preview body lines
	SearchMaxDepth   int  // directories below the search root to descend
	SearchMaxResults int  // hard cap on matches per search
	ConfirmDelete    bool // gate destructive actions behind a confirm popup
}

// Default returns the startup settings.
func Default() Options {
	return Options{
		ShowHidden:       false,
		SortDirsFirst:    true,
		PreviewMaxLines:  50,
		SearchMaxDepth:   3,
		SearchMaxResults: 100,
		ConfirmDelete:    true,
	}
}
