package io

import (
	"github.com/matzehuels/classviz/pkg/engagement"
	"github.com/matzehuels/classviz/pkg/rowlayout"
)

// Dataset holds exactly one decoded chart dataset, selected by Kind.
type Dataset struct {
	Kind         engagement.Kind
	Timeline     *engagement.Timeline
	Performance  *engagement.Performance
	Interactions *engagement.Interactions
	Activity     *engagement.Activity
	Weights      *engagement.Weights
}

// Rows converts the dataset into sortable rows.
func (d *Dataset) Rows() []rowlayout.Row {
	switch d.Kind {
	case engagement.KindTimeline:
		return engagement.TimelineRows(*d.Timeline)
	case engagement.KindPerformance:
		return engagement.PerformanceRows(*d.Performance)
	case engagement.KindInteractions:
		return engagement.InteractionRows(*d.Interactions)
	case engagement.KindActivity:
		return engagement.ActivityRows(*d.Activity)
	case engagement.KindWeights:
		return engagement.WeightRows(*d.Weights)
	}
	return nil
}

// Len returns the number of rows in the dataset: students, or visible items
// for weights.
func (d *Dataset) Len() int {
	switch d.Kind {
	case engagement.KindTimeline:
		return len(d.Timeline.Students)
	case engagement.KindPerformance:
		return len(d.Performance.Students)
	case engagement.KindInteractions:
		return len(d.Interactions.Students)
	case engagement.KindActivity:
		return len(d.Activity.Students)
	case engagement.KindWeights:
		return len(d.Weights.Visible())
	}
	return 0
}
