package pagination

import "fmt"

// Direction is a relative navigation step.
type Direction int

const (
	Previous Direction = iota - 1
	_
	Next
)

func (d Direction) String() string {
	switch d {
	case Previous:
		return "previous"
	case Next:
		return "next"
	}

	return fmt.Sprintf("Direction(%d)", int(d))
}

// Advance moves one page in direction d, saturating at 1 and total.
func Advance(d Direction, current, total int) int {
	total = max(total, 1)

	switch d {
	case Previous:
		return Clamp(current-1, total)
	case Next:
		return Clamp(current+1, total)
	}

	return Clamp(current, total)
}

// Clamp limits requested to [1, total].
func Clamp(requested, total int) int {
	return min(max(requested, 1), max(total, 1))
}

// TotalPages returns ceil(totalItems/pageSize), never less than 1.
func TotalPages(totalItems, pageSize int) int {
	pageSize = max(pageSize, 1)
	totalItems = max(totalItems, 0)

	return max(1, (totalItems+pageSize-1)/pageSize)
}

// Intent is a navigation request emitted by a pagination control. It carries
// either a literal target page or a relative direction.
type Intent struct {
	target    int
	direction Direction
	relative  bool
}

// GoTo returns an intent targeting page p.
func GoTo(p int) Intent {
	return Intent{target: p}
}

// Step returns a relative intent.
func Step(d Direction) Intent {
	return Intent{direction: d, relative: true}
}

// Resolve returns the page the intent lands on.
func (i Intent) Resolve(current, total int) int {
	if i.relative {
		return Advance(i.direction, current, total)
	}

	return Clamp(i.target, total)
}

func (i Intent) String() string {
	if i.relative {
		return i.direction.String()
	}

	return fmt.Sprintf("page %d", i.target)
}

// State is the pagination state of one search session.
type State struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalItems  int `json:"totalItems"`
}

// NewState returns a normalized state on page 1.
func NewState(pageSize int) State {
	return State{CurrentPage: 1, PageSize: pageSize}.Normalize()
}

// TotalPages returns the number of pages, at least 1.
func (s State) TotalPages() int {
	return TotalPages(s.TotalItems, s.PageSize)
}

// Normalize clamps every field into its valid range.
func (s State) Normalize() State {
	s.PageSize = max(s.PageSize, 1)
	s.TotalItems = max(s.TotalItems, 0)
	s.CurrentPage = Clamp(s.CurrentPage, s.TotalPages())

	return s
}

// Offset is the index of the first item on the current page.
func (s State) Offset() int {
	s = s.Normalize()

	return (s.CurrentPage - 1) * s.PageSize
}

// Window returns the token window for the current page.
func (s State) Window() []Token {
	s = s.Normalize()

	return Window(s.CurrentPage, s.TotalPages())
}

// Apply returns the state after navigating by i.
func (s State) Apply(i Intent) State {
	s = s.Normalize()
	s.CurrentPage = i.Resolve(s.CurrentPage, s.TotalPages())

	return s
}

// WithTotalItems returns the state for a new result count, keeping the
// current page where it still exists.
func (s State) WithTotalItems(n int) State {
	s.TotalItems = n

	return s.Normalize()
}
