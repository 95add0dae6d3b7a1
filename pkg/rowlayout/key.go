package rowlayout

import (
	"cmp"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Key is a comparable sort value: either a string or a number.
type Key struct {
	str   string
	num   float64
	isNum bool
}

// StringKey returns a key compared by locale-aware collation.
func StringKey(s string) Key { return Key{str: s} }

// NumberKey returns a key compared numerically.
func NumberKey(f float64) Key { return Key{num: f, isNum: true} }

// IsNumber reports whether k holds a number.
func (k Key) IsNumber() bool { return k.isNum }

// Number returns the numeric value, or 0 for string keys.
func (k Key) Number() float64 { return k.num }

// String returns the string value, or the formatted number for numeric keys.
func (k Key) String() string {
	if k.isNum {
		return strconv.FormatFloat(k.num, 'f', -1, 64)
	}
	return k.str
}

// CompareFunc orders two keys, returning a negative number when a sorts
// before b, zero when they are equal and a positive number otherwise.
type CompareFunc func(a, b Key) int

// NewCompare returns a CompareFunc that collates strings for the given
// language. Numbers compare numerically and sort before strings when the two
// kinds are mixed.
//
// The returned function is not safe for concurrent use because the underlying
// collator reuses internal buffers.
func NewCompare(tag language.Tag) CompareFunc {
	c := collate.New(tag)
	return func(a, b Key) int {
		switch {
		case a.isNum && b.isNum:
			return cmp.Compare(a.num, b.num)
		case a.isNum:
			return -1
		case b.isNum:
			return 1
		}
		return c.CompareString(a.str, b.str)
	}
}
