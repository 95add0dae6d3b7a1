// Package scale maps data values to pixel coordinates.
//
// Scales are pure values: they hold a domain and an output range and map one
// onto the other. Sinks use [Time] for horizontal session bars, [Linear] for
// bar lengths and [Band] for equal-width day and resource columns.
package scale

import (
	"slices"
	"time"
)

// Time maps instants linearly onto a pixel range.
type Time struct {
	Domain [2]time.Time
	Range  [2]float64
}

// Map returns the pixel position of t. Instants outside the domain
// extrapolate. A zero-length domain maps everything to Range[0].
func (s Time) Map(t time.Time) float64 {
	span := s.Domain[1].Sub(s.Domain[0])
	if span == 0 {
		return s.Range[0]
	}
	frac := float64(t.Sub(s.Domain[0])) / float64(span)
	return s.Range[0] + frac*(s.Range[1]-s.Range[0])
}

// Ticks returns the whole multiples of step inside the domain.
func (s Time) Ticks(step time.Duration) []time.Time {
	if step <= 0 {
		return nil
	}
	var ticks []time.Time
	first := s.Domain[0].Truncate(step)
	if first.Before(s.Domain[0]) {
		first = first.Add(step)
	}
	for t := first; !t.After(s.Domain[1]); t = t.Add(step) {
		ticks = append(ticks, t)
	}
	return ticks
}

// Linear maps numbers linearly onto a pixel range.
type Linear struct {
	Domain [2]float64
	Range  [2]float64
}

// Map returns the pixel position of v. A zero-length domain maps everything
// to Range[0].
func (s Linear) Map(v float64) float64 {
	span := s.Domain[1] - s.Domain[0]
	if span == 0 {
		return s.Range[0]
	}
	return s.Range[0] + (v-s.Domain[0])/span*(s.Range[1]-s.Range[0])
}

// Band divides a pixel range into equal bands, one per key, in domain order.
type Band struct {
	Domain []string
	Range  [2]float64
}

// Bandwidth returns the height of one band.
func (s Band) Bandwidth() float64 {
	if len(s.Domain) == 0 {
		return 0
	}
	return (s.Range[1] - s.Range[0]) / float64(len(s.Domain))
}

// Map returns the start offset of key's band and whether key is in the domain.
func (s Band) Map(key string) (float64, bool) {
	i := slices.Index(s.Domain, key)
	if i < 0 {
		return 0, false
	}
	return s.Range[0] + float64(i)*s.Bandwidth(), true
}
