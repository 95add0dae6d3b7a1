package pipeline

import (
	"os"

	"github.com/matzehuels/classviz/pkg/engagement"
	"github.com/matzehuels/classviz/pkg/errors"
	pkgio "github.com/matzehuels/classviz/pkg/io"
)

// ReadInput returns the raw dataset: opts.Data if set, otherwise the
// contents of opts.Input.
func ReadInput(opts Options) ([]byte, error) {
	if len(opts.Data) > 0 {
		return opts.Data, nil
	}
	data, err := os.ReadFile(opts.Input)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", opts.Input)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", opts.Input)
	}
	return data, nil
}

// Import decodes data and checks the detected kind against opts.Kind.
func Import(data []byte, opts Options) (*pkgio.Dataset, error) {
	ds, err := pkgio.ParseDataset(data)
	if err != nil {
		return nil, err
	}
	if err := CheckKind(ds, opts.Kind); err != nil {
		return nil, err
	}
	return ds, nil
}

// CheckKind rejects ds when kind is set and differs from the detected kind.
func CheckKind(ds *pkgio.Dataset, kind engagement.Kind) error {
	if kind != "" && ds.Kind != kind {
		return errors.New(errors.ErrCodeInvalidKind, "dataset is a %s chart, expected %s", ds.Kind, kind)
	}
	return nil
}

func (o *Options) source() string {
	if len(o.Data) > 0 {
		return "inline"
	}
	return o.Input
}
