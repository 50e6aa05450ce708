package gaze

// Summary holds descriptive statistics of one annotated trial. Duration
// fields are in tracker time units, amplitudes in pixels.
type Summary struct {
	TrialIndex    int   `json:"trial_index"`
	Samples       int   `json:"samples"`
	Duration      int64 `json:"duration"`
	Blinks        int   `json:"blinks"`
	Fixations     int   `json:"fixations"`
	Saccades      int   `json:"saccades"`
	Microsaccades int   `json:"microsaccades"`

	MeanFixationDuration   float64 `json:"mean_fixation_duration"`
	MedianFixationDuration float64 `json:"median_fixation_duration"`
	MeanSaccadeDuration    float64 `json:"mean_saccade_duration"`
	MeanSaccadeAmplitude   float64 `json:"mean_saccade_amplitude"`
	MaxSaccadeAmplitude    float64 `json:"max_saccade_amplitude"`
	BlinkRate              float64 `json:"blink_rate"` // blinks per second of trial time

	MeanPupil float64 `json:"mean_pupil"`
	SDPupil   float64 `json:"sd_pupil"`
}
