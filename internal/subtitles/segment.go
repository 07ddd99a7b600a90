package subtitles

import (
	"fmt"
	"math"
)

// Segment is a timed span of subtitle text. Start and End are offsets in
// seconds from the beginning of the media.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Validate reports whether the segment timing is usable.
func (s Segment) Validate() error {
	if math.IsNaN(s.Start) || math.IsNaN(s.End) {
		return fmt.Errorf("%w: NaN offset", ErrInvalidTimestamp)
	}
	if s.Start < 0 {
		return fmt.Errorf("%w: start %.3f is negative", ErrInvalidTimestamp, s.Start)
	}
	if s.End < s.Start {
		return fmt.Errorf("%w: end %.3f precedes start %.3f", ErrInvalidTimestamp, s.End, s.Start)
	}
	return nil
}

// WithText returns a copy of the segment carrying text. Timing is unchanged.
func (s Segment) WithText(text string) Segment {
	s.Text = text
	return s
}

// Clone returns a copy of segments backed by a new array.
func Clone(segments []Segment) []Segment {
	if segments == nil {
		return nil
	}
	out := make([]Segment, len(segments))
	copy(out, segments)
	return out
}
