package pagination

import (
	"strconv"
	"strings"
)

const (
	// MaxFullWindow is the largest page count shown without collapsing.
	MaxFullWindow = 5

	// CollapseText is the textual form of a collapse marker.
	CollapseText = "-"
)

// Token is an element of a page window: either a page number or a collapse
// marker. The zero value is a collapse marker.
type Token struct {
	page int
}

// Page returns a token for page p.
func Page(p int) Token {
	return Token{page: p}
}

// Collapse returns a collapse marker.
func Collapse() Token {
	return Token{}
}

// IsCollapse reports whether t stands for omitted pages.
func (t Token) IsCollapse() bool {
	return t.page < 1
}

// Page returns the page number and true, or 0 and false for a collapse marker.
func (t Token) Page() (int, bool) {
	if t.IsCollapse() {
		return 0, false
	}

	return t.page, true
}

func (t Token) String() string {
	if t.IsCollapse() {
		return CollapseText
	}

	return strconv.Itoa(t.page)
}

// Window returns the page tokens to render for the current page out of total
// pages.
//
// All pages are shown when total is at most [MaxFullWindow]. Otherwise the
// first and last pages are always kept, along with either the tail of the
// range, a neighborhood around current, or the head of the range.
func Window(current, total int) []Token {
	total = max(total, 1)
	current = Clamp(current, total)

	if total <= MaxFullWindow {
		return pageRange(1, total)
	}

	// Near the end and near the start use different thresholds; both are kept
	// as shipped.
	switch {
	case current+3 >= total:
		return join([]Token{Page(1), Collapse()}, pageRange(total-4, total))

	case current > 4:
		return join(
			[]Token{Page(1), Collapse()},
			pageRange(current-1, current+1),
			[]Token{Collapse(), Page(total)},
		)

	default:
		return join(pageRange(1, MaxFullWindow), []Token{Collapse(), Page(total)})
	}
}

// Strings converts tokens to their textual form.
func Strings(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.String()
	}

	return out
}

// Format renders tokens separated by single spaces, e.g. "1 - 5 6 7 - 10".
func Format(tokens []Token) string {
	return strings.Join(Strings(tokens), " ")
}

func pageRange(from, to int) []Token {
	tokens := make([]Token, 0, to-from+1)
	for p := from; p <= to; p++ {
		tokens = append(tokens, Page(p))
	}

	return tokens
}

func join(parts ...[]Token) []Token {
	n := 0
	for _, p := range parts {
		n += len(p)
	}

	out := make([]Token, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}
