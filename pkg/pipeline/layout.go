package pipeline

import (
	stderrors "errors"

	"github.com/matzehuels/classviz/pkg/engagement"
	"github.com/matzehuels/classviz/pkg/errors"
	pkgio "github.com/matzehuels/classviz/pkg/io"
	"github.com/matzehuels/classviz/pkg/rowlayout"
)

// BuildLayout ranks the rows of ds by the initial sort in opts.
func BuildLayout(ds *pkgio.Dataset, opts Options) (*rowlayout.Layout, error) {
	l, err := rowlayout.New(ds.Rows(), engagement.Columns(ds.Kind),
		rowlayout.WithInitialSort(opts.InitialSort(ds.Kind)),
		rowlayout.WithLanguage(opts.LanguageTag()),
	)
	if err != nil {
		return nil, LayoutError(err)
	}
	return l, nil
}

// LayoutError attaches an error code to rowlayout sentinel errors so callers
// can tell bad requests from internal failures.
func LayoutError(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, rowlayout.ErrInvalidSortColumn):
		return errors.Wrap(errors.ErrCodeInvalidSortColumn, err, "cannot sort")
	case stderrors.Is(err, rowlayout.ErrDuplicateRowID):
		return errors.Wrap(errors.ErrCodeDuplicateRow, err, "cannot rank rows")
	}
	return err
}
