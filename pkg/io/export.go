package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/classviz/pkg/engagement"
	"github.com/matzehuels/classviz/pkg/errors"
)

// WriteDataset encodes ds as indented JSON with an explicit "kind" field.
// The output can be re-imported with [ReadDataset].
func WriteDataset(ds *Dataset, w io.Writer) error {
	var out any
	switch ds.Kind {
	case engagement.KindTimeline:
		out = fromTimeline(*ds.Timeline)
	case engagement.KindPerformance:
		out = wirePerformance{Kind: engagement.KindPerformance, Students: ds.Performance.Students}
	case engagement.KindInteractions:
		out = fromInteractions(*ds.Interactions)
	case engagement.KindActivity:
		out = wireActivity{Kind: engagement.KindActivity, Topics: ds.Activity.Topics, Students: ds.Activity.Students}
	case engagement.KindWeights:
		out = wireWeights{Kind: engagement.KindWeights, Items: ds.Weights.Items}
	default:
		return errors.New(errors.ErrCodeInvalidKind, "unknown dataset kind %q", ds.Kind)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportDataset writes ds to the file at path, replacing any existing file.
func ExportDataset(ds *Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteDataset(ds, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
