package rowlayout

import "errors"

var (
	// ErrInvalidSortColumn is returned when a sort column is not one of the
	// layout's registered columns, or when a row carries no key for one.
	ErrInvalidSortColumn = errors.New("invalid sort column")

	// ErrDuplicateRowID is returned when two rows share an ID.
	ErrDuplicateRowID = errors.New("duplicate row id")
)
