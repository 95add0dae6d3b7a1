package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/classviz/pkg/engagement"
	"github.com/matzehuels/classviz/pkg/errors"
)

// DetectKind determines the chart kind of a JSON dataset. An explicit "kind"
// field wins; otherwise the kind is inferred from the document's keys. A
// bare array is a list of weight items.
func DetectKind(data []byte) (engagement.Kind, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		return engagement.KindWeights, nil
	}

	var shape struct {
		Kind      engagement.Kind   `json:"kind"`
		Event     json.RawMessage   `json:"event"`
		StartDate json.RawMessage   `json:"startDate"`
		Topics    json.RawMessage   `json:"topics"`
		Items     json.RawMessage   `json:"items"`
		Students  []json.RawMessage `json:"students"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode")
	}

	if shape.Kind != "" {
		if !slices.Contains(engagement.Kinds, shape.Kind) {
			return "", errors.New(errors.ErrCodeInvalidKind, "unknown dataset kind %q", shape.Kind)
		}
		return shape.Kind, nil
	}

	switch {
	case shape.Event != nil:
		return engagement.KindTimeline, nil
	case shape.StartDate != nil:
		return engagement.KindInteractions, nil
	case shape.Topics != nil:
		return engagement.KindActivity, nil
	case shape.Items != nil:
		return engagement.KindWeights, nil
	}
	for _, raw := range shape.Students {
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(raw, &keys); err != nil {
			continue
		}
		switch {
		case keys["performances"] != nil:
			return engagement.KindPerformance, nil
		case keys["dailyData"] != nil:
			return engagement.KindInteractions, nil
		case keys["sessions"] != nil:
			return engagement.KindTimeline, nil
		case keys["interactions"] != nil:
			return engagement.KindActivity, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidKind, "cannot detect dataset kind")
}

// ReadDataset decodes a dataset of any kind from r. See [DetectKind] for how
// the kind is chosen. ReadDataset does not close r.
func ReadDataset(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return ParseDataset(data)
}

// ParseDataset decodes a dataset of any kind from data.
func ParseDataset(data []byte) (*Dataset, error) {
	kind, err := DetectKind(data)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Kind: kind}
	r := bytes.NewReader(data)
	switch kind {
	case engagement.KindTimeline:
		ds.Timeline, err = ReadTimeline(r)
	case engagement.KindPerformance:
		ds.Performance, err = ReadPerformance(r)
	case engagement.KindInteractions:
		ds.Interactions, err = ReadInteractions(r)
	case engagement.KindActivity:
		ds.Activity, err = ReadActivity(r)
	case engagement.KindWeights:
		ds.Weights, err = ReadWeights(r)
	}
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// ReadTimeline decodes and validates a timeline dataset.
//
// ReadTimeline returns an error if:
//   - The JSON is malformed or a timestamp cannot be parsed
//   - The event does not end after it starts
//   - A student name is empty or contains control characters
//   - A session ends before it starts
func ReadTimeline(r io.Reader) (*engagement.Timeline, error) {
	var w wireTimeline
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode timeline")
	}
	t := w.toTimeline()

	if !t.Event.End.After(t.Event.Start) {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "event must end after it starts")
	}
	ids := idSet{}
	for i, st := range t.Students {
		if err := errors.ValidateName(st.Name); err != nil {
			return nil, fmt.Errorf("student %d: %w", i, err)
		}
		if err := ids.add(st.ID, st.Name); err != nil {
			return nil, err
		}
		for j, s := range st.Sessions {
			if s.End.Before(s.Start) {
				return nil, errors.New(errors.ErrCodeInvalidDataset, "student %q: session %d ends before it starts", st.Name, j)
			}
		}
	}
	return &t, nil
}

// ReadPerformance decodes and validates a performance dataset. Counts must be
// non-negative.
func ReadPerformance(r io.Reader) (*engagement.Performance, error) {
	var w wirePerformance
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode performance")
	}

	ids := idSet{}
	for i, st := range w.Students {
		if err := errors.ValidateName(st.Name); err != nil {
			return nil, fmt.Errorf("student %d: %w", i, err)
		}
		if err := ids.add(st.ID, st.Name); err != nil {
			return nil, err
		}
		for _, p := range st.Performances {
			if p.Correct < 0 || p.Incorrect < 0 || p.Total < 0 {
				return nil, errors.New(errors.ErrCodeInvalidDataset, "student %q: negative count in %q", st.Name, p.Label)
			}
		}
	}
	return &engagement.Performance{Students: w.Students}, nil
}

// ReadInteractions decodes and validates an interactions dataset. The end
// date must not precede the start date.
func ReadInteractions(r io.Reader) (*engagement.Interactions, error) {
	var w wireInteractions
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode interactions")
	}
	d := w.toInteractions()

	if d.EndDate.Before(d.StartDate) {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "endDate precedes startDate")
	}
	ids := idSet{}
	for i, st := range d.Students {
		if err := errors.ValidateName(st.Name); err != nil {
			return nil, fmt.Errorf("student %d: %w", i, err)
		}
		if err := ids.add(st.ID, st.Name); err != nil {
			return nil, err
		}
	}
	return &d, nil
}

// ReadActivity decodes and validates a resource-interaction dataset.
// Resource IDs must be unique and every student state must refer to one of
// them. Unknown state values are kept and drawn with a neutral marker.
func ReadActivity(r io.Reader) (*engagement.Activity, error) {
	var w wireActivity
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode activity")
	}
	a := engagement.Activity{Topics: w.Topics, Students: w.Students}

	cols, _ := a.Columns()
	resources := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidDataset, "resource %q has no id", c.Name)
		}
		if resources[c.ID] {
			return nil, errors.New(errors.ErrCodeInvalidDataset, "resource id %q is used twice", c.ID)
		}
		resources[c.ID] = true
	}

	ids := idSet{}
	for i, st := range a.Students {
		if err := errors.ValidateName(st.Name); err != nil {
			return nil, fmt.Errorf("student %d: %w", i, err)
		}
		if err := ids.add(st.ID, st.Name); err != nil {
			return nil, err
		}
		for id := range st.Interactions {
			if !resources[id] {
				return nil, errors.New(errors.ErrCodeInvalidDataset, "student %q: unknown resource %q", st.Name, id)
			}
		}
	}
	return &a, nil
}

// ReadWeights decodes and validates a grading-weights dataset, given either
// as {"items": [...]} or as a bare array of items. Weights must not be
// negative.
func ReadWeights(r io.Reader) (*engagement.Weights, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var w wireWeights
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &w.Items)
	} else {
		err = json.Unmarshal(data, &w)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode weights")
	}

	ids := idSet{}
	for i, it := range w.Items {
		if err := errors.ValidateName(it.Title); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if it.Weight < 0 {
			return nil, errors.New(errors.ErrCodeInvalidDataset, "item %q: negative weight", it.Title)
		}
		if err := ids.add(it.Key, it.Title); err != nil {
			return nil, err
		}
	}
	return &engagement.Weights{Items: w.Items}, nil
}

// idSet tracks row IDs, given or derived from a name, so a collision can be
// reported with the names involved.
type idSet map[string]string

func (s idSet) add(id, name string) error {
	key := engagement.StudentID(id, name)
	prev, dup := s[key]
	if !dup {
		s[key] = name
		return nil
	}
	if id == "" {
		return errors.New(errors.ErrCodeDuplicateRow, "%q appears twice without an id; give each an id", name)
	}
	return errors.New(errors.ErrCodeDuplicateRow, "%q and %q share the id %q", prev, name, id)
}

// ImportDataset reads the dataset file at path.
//
// The error wraps the underlying cause with the file path for context; a
// missing file is coded [errors.ErrCodeFileNotFound].
func ImportDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	ds, err := ParseDataset(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}
