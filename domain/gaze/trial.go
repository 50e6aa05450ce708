package gaze

import (
	"gogaze/domain/core"
)

// Trial owns one sample stream plus the events and messages recorded for it.
// A trial is populated once by a loader and treated as read-only afterwards.
type Trial struct {
	ID       core.TrialID `json:"id"`
	Index    int          `json:"index"`
	Samples  Samples      `json:"-"`
	Messages []Message    `json:"messages"`
	Events   EventSet     `json:"events"`
}

// NewTrial creates a trial with a fresh identifier
func NewTrial(index int, samples Samples, messages []Message) Trial {
	return Trial{
		ID:       core.NewTrialID(),
		Index:    index,
		Samples:  samples,
		Messages: messages,
	}
}

// Duration returns the time covered by the sample stream
func (t Trial) Duration() int64 {
	n := t.Samples.Len()
	if n == 0 {
		return 0
	}
	return t.Samples.Time[n-1] - t.Samples.Time[0]
}

// WithEvents returns a copy of the trial annotated with the given events
func (t Trial) WithEvents(events EventSet) Trial {
	t.Events = events
	return t
}

// IndexOfTime returns the first sample index whose timestamp equals ts, or -1
func (t Trial) IndexOfTime(ts int64) int {
	for i, v := range t.Samples.Time {
		if v == ts {
			return i
		}
		if v > ts {
			break
		}
	}
	return -1
}
