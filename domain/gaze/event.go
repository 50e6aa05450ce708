package gaze

import "math"

// Kind identifies the type of an eye-movement event
type Kind string

const (
	KindBlink        Kind = "blink"
	KindFixation     Kind = "fixation"
	KindSaccade      Kind = "saccade"
	KindMicrosaccade Kind = "microsaccade"
)

// Point is a gaze position in pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between two points
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Start is a provisional record holding only the onset of an event
type Start struct {
	Kind Kind  `json:"kind"`
	Time int64 `json:"time"`
}

// Event is a finalized end record. Blinks carry no positions, fixations carry
// their anchor position in End, saccades and microsaccades carry both.
type Event struct {
	Kind      Kind  `json:"kind"`
	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time"`
	Duration  int64 `json:"duration"`
	Start     Point `json:"start"`
	End       Point `json:"end"`
}

// Amplitude is the distance covered between start and end positions
func (e Event) Amplitude() float64 {
	return e.Start.Distance(e.End)
}

// HasPositions reports whether Start/End are meaningful for this kind
func (e Event) HasPositions() bool {
	return e.Kind != KindBlink
}

// EventSet groups the event lists a trial is annotated with
type EventSet struct {
	BlinkStarts    []Start `json:"blink_starts,omitempty"`
	Blinks         []Event `json:"blinks"`
	FixationStarts []Start `json:"fixation_starts,omitempty"`
	Fixations      []Event `json:"fixations"`
	SaccadeStarts  []Start `json:"saccade_starts,omitempty"`
	Saccades       []Event `json:"saccades"`
	Microsaccades  []Event `json:"microsaccades"`
	// RecordedBlinks are blinks reported by the tracker itself. They are
	// kept apart from the detected lists and are not counted by All.
	RecordedBlinks []Event `json:"recorded_blinks,omitempty"`
}

// BlinkIntervals returns the recorded blinks followed by the detected ones
func (s EventSet) BlinkIntervals() []Event {
	out := make([]Event, 0, len(s.RecordedBlinks)+len(s.Blinks))
	out = append(out, s.RecordedBlinks...)
	return append(out, s.Blinks...)
}

// All returns every end record ordered by kind then start time
func (s EventSet) All() []Event {
	all := make([]Event, 0, len(s.Blinks)+len(s.Fixations)+len(s.Saccades)+len(s.Microsaccades))
	all = append(all, s.Blinks...)
	all = append(all, s.Fixations...)
	all = append(all, s.Saccades...)
	all = append(all, s.Microsaccades...)
	return all
}

// Count returns the number of end records of the given kind
func (s EventSet) Count(kind Kind) int {
	switch kind {
	case KindBlink:
		return len(s.Blinks)
	case KindFixation:
		return len(s.Fixations)
	case KindSaccade:
		return len(s.Saccades)
	case KindMicrosaccade:
		return len(s.Microsaccades)
	default:
		return 0
	}
}
