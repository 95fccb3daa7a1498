// Package cursor implements wrap-around selection over a list of known length.
package cursor

// None is the index of an empty selection.
const None = -1

// Next returns the selection after current in a list of length n.
func Next(current, n int) int {
	if n <= 0 {
		return None
	}
	if current < 0 {
		return 0
	}
	return (current + 1) % n
}

// Previous returns the selection before current in a list of length n.
func Previous(current, n int) int {
	if n <= 0 {
		return None
	}
	if current < 0 {
		return 0
	}
	return (current - 1 + n) % n
}

// Cursor is a selection into a list whose length is supplied on every call.
// The zero value selects nothing.
type Cursor struct {
	i   int
	set bool
}

// Selected returns the selected index.
func (c Cursor) Selected() (int, bool) {
	return c.i, c.set
}

// Index returns the selected index or None.
func (c Cursor) Index() int {
	if !c.set {
		return None
	}
	return c.i
}

// Next advances the selection.
func (c *Cursor) Next(n int) {
	c.setIndex(Next(c.Index(), n))
}

// Previous moves the selection back.
func (c *Cursor) Previous(n int) {
	c.setIndex(Previous(c.Index(), n))
}

// Select sets the selection if i is within [0, n).
func (c *Cursor) Select(i, n int) {
	if i < 0 || i >= n {
		c.Reset()
		return
	}
	c.setIndex(i)
}

// Reset clears the selection.
func (c *Cursor) Reset() {
	*c = Cursor{}
}

// Clamp restores the invariant after the list changed length.
func (c *Cursor) Clamp(n int) {
	switch {
	case !c.set:
	case n <= 0:
		c.Reset()
	case c.i >= n:
		c.i = n - 1
	}
}

func (c *Cursor) setIndex(i int) {
	if i == None {
		c.Reset()
		return
	}
	c.i, c.set = i, true
}
