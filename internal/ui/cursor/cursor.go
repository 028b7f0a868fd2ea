// Package cursor tracks the selected row and scroll offset of a list.
package cursor

// Cursor is a list position plus the first visible row. The list length
// and viewport height are passed to each method since both change with the
// shown genre and the terminal size.
type Cursor struct {
	pos    int
	offset int
	margin int // rows kept visible above and below pos
}

// New creates a cursor at the top of the list.
func New(margin int) Cursor {
	return Cursor{margin: max(margin, 0)}
}

// Pos returns the selected index.
func (c Cursor) Pos() int {
	return c.pos
}

// Offset returns the first visible index.
func (c Cursor) Offset() int {
	return c.offset
}

// Move moves the selection by delta, clamped to the list.
func (c *Cursor) Move(delta, n, height int) {
	c.Jump(c.pos+delta, n, height)
}

// Jump selects pos, clamped to the list.
func (c *Cursor) Jump(pos, n, height int) {
	if n == 0 {
		c.Reset()
		return
	}
	c.pos = clamp(pos, n-1)
	c.scroll(n, height)
}

// HalfPage moves half a viewport down (dir > 0) or up (dir < 0).
func (c *Cursor) HalfPage(dir, n, height int) {
	step := max(height/2, 1)
	if dir < 0 {
		step = -step
	}
	c.Move(step, n, height)
}

// Fit re-clamps the cursor after the list or viewport changed size.
func (c *Cursor) Fit(n, height int) {
	c.Jump(c.pos, n, height)
}

// Reset returns to the top of the list.
func (c *Cursor) Reset() {
	c.pos = 0
	c.offset = 0
}

// Visible returns the visible index range [start, end).
func (c Cursor) Visible(n, height int) (start, end int) {
	if n == 0 || height <= 0 {
		return 0, 0
	}
	return c.offset, min(c.offset+height, n)
}

func (c *Cursor) scroll(n, height int) {
	if height <= 0 {
		return
	}
	margin := min(c.margin, (height-1)/2)

	if c.pos < c.offset+margin {
		c.offset = c.pos - margin
	}
	if c.pos >= c.offset+height-margin {
		c.offset = c.pos - height + margin + 1
	}
	c.offset = clamp(c.offset, max(n-height, 0))
}

func clamp(v, hi int) int {
	return min(max(v, 0), hi)
}
