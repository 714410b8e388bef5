// Package layout computes the visible window of a scrollable list and
// the screen-row to entry-index map used for mouse hit testing.
package layout

// Scroll returns the offset that keeps selection inside a window of
// height rows, adjusting the previous offset minimally: it clamps up
// when the selection moved above the window and down when it moved
// below, never re-centering. The result satisfies
// offset <= selection < offset+height for any non-empty list.
func Scroll(selection, prevOffset, height, total int) int {
	if total <= height || height <= 0 {
		return 0
	}

	offset := prevOffset
	if selection < offset {
		offset = selection
	} else if selection >= offset+height {
		offset = selection - height + 1
	}

	if max := total - height; offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// ClickMap maps an absolute screen row to the entry index rendered on
// it. It is rebuilt every frame and consumed by at most one input event.
type ClickMap map[int]int

// Regions returns the click map for a window of the list: rows
// top..top+n-1 hold entries offset..offset+n-1, where n is bounded by
// both the window height and the remaining entries.
func Regions(top, offset, height, total int) ClickMap {
	regions := make(ClickMap)
	for i := 0; i < height; i++ {
		idx := offset + i
		if idx >= total {
			break
		}
		regions[top+i] = idx
	}
	return regions
}

// Clamp bounds a selection index to [0, total-1], collapsing to 0 for
// an empty list.
func Clamp(selection, total int) int {
	if total == 0 {
		return 0
	}
	if selection >= total {
		return total - 1
	}
	if selection < 0 {
		return 0
	}
	return selection
}
