package testkit

import (
	"math"
	"math/rand"

	"gogaze/domain/gaze"
)

// GazeGeneratorConfig configures the synthetic gaze trial generator
type GazeGeneratorConfig struct {
	Trials            int     `json:"trials"`
	SampleInterval    int64   `json:"sample_interval"` // ms between samples
	FixationsPerTrial int     `json:"fixations_per_trial"`
	FixationMin       int64   `json:"fixation_min"` // ms
	FixationMax       int64   `json:"fixation_max"` // ms
	SaccadeDuration   int64   `json:"saccade_duration"`
	MinAmplitude      float64 `json:"min_amplitude"` // px
	ScreenWidth       float64 `json:"screen_width"`
	ScreenHeight      float64 `json:"screen_height"`
	PositionNoise     float64 `json:"position_noise"` // px, standard deviation
	BlinkProbability  float64 `json:"blink_probability"`
	BlinkDuration     int64   `json:"blink_duration"` // ms
	PupilBase         float64 `json:"pupil_base"`
	PupilNoise        float64 `json:"pupil_noise"`
	Missing           float64 `json:"missing"` // position code during blinks
	Seed              int64   `json:"seed"`
}

// DefaultGazeConfig returns a 500 Hz recording with clean fixations
func DefaultGazeConfig() GazeGeneratorConfig {
	return GazeGeneratorConfig{
		Trials:            4,
		SampleInterval:    2,
		FixationsPerTrial: 5,
		FixationMin:       200,
		FixationMax:       400,
		SaccadeDuration:   20,
		MinAmplitude:      400,
		ScreenWidth:       1920,
		ScreenHeight:      1080,
		PositionNoise:     0.2,
		BlinkProbability:  0.5,
		BlinkDuration:     100,
		PupilBase:         3000,
		PupilNoise:        0.5,
		Missing:           0,
		Seed:              42,
	}
}

// blinkRamp is the number of samples over which the pupil closes and reopens
const blinkRamp = 3

// GazeDataGenerator generates trials of fixations joined by saccades, with
// occasional blinks planted in the middle of a fixation. Planted blinks are
// recorded in the trial's blink list the way a tracker would report them.
type GazeDataGenerator struct {
	config GazeGeneratorConfig
	rng    *rand.Rand
}

// NewGazeDataGenerator creates a new gaze data generator
func NewGazeDataGenerator(config GazeGeneratorConfig) *GazeDataGenerator {
	if config.SampleInterval < 1 {
		config.SampleInterval = 1
	}
	return &GazeDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateTrials generates the configured number of trials
func (g *GazeDataGenerator) GenerateTrials() []gaze.Trial {
	trials := make([]gaze.Trial, 0, g.config.Trials)
	for i := 0; i < g.config.Trials; i++ {
		trials = append(trials, g.generateTrial(i))
	}
	return trials
}

func (g *GazeDataGenerator) generateTrial(index int) gaze.Trial {
	c := g.config
	var s gaze.Samples
	var blinks []gaze.Event

	blinkFix := -1
	if c.FixationsPerTrial > 0 && g.rng.Float64() < c.BlinkProbability {
		blinkFix = g.rng.Intn(c.FixationsPerTrial)
	}

	pos := g.randomPoint()
	for f := 0; f < c.FixationsPerTrial; f++ {
		if f > 0 {
			next := g.nextPoint(pos)
			g.appendSaccade(&s, pos, next)
			pos = next
		}

		n := int(g.between(c.FixationMin, c.FixationMax) / c.SampleInterval)
		first := len(s.Time)
		for k := 0; k < n; k++ {
			g.appendSample(&s, pos.X+g.noise(c.PositionNoise), pos.Y+g.noise(c.PositionNoise))
		}

		blinkLen := int(c.BlinkDuration / c.SampleInterval)
		if f == blinkFix && blinkLen > 0 && blinkLen+2*blinkRamp < n {
			start := first + (n-blinkLen)/2
			g.plantBlink(&s, start, blinkLen)
			blinks = append(blinks, gaze.Event{
				Kind:      gaze.KindBlink,
				StartTime: s.Time[start],
				EndTime:   s.Time[start+blinkLen-1],
				Duration:  s.Time[start+blinkLen-1] - s.Time[start],
			})
		}
	}

	trial := gaze.NewTrial(index, s, []gaze.Message{{Time: 0, Text: "TRIALSTART"}})
	return trial.WithEvents(gaze.EventSet{RecordedBlinks: blinks})
}

func (g *GazeDataGenerator) appendSample(s *gaze.Samples, x, y float64) {
	c := g.config
	t := int64(len(s.Time)) * c.SampleInterval
	pupil := c.PupilBase + 0.02*c.PupilBase*math.Sin(2*math.Pi*float64(t)/2000) + g.noise(c.PupilNoise)
	s.Time = append(s.Time, t)
	s.X = append(s.X, x)
	s.Y = append(s.Y, y)
	s.Size = append(s.Size, pupil)
}

// appendSaccade moves linearly from a to b, excluding both endpoints
func (g *GazeDataGenerator) appendSaccade(s *gaze.Samples, a, b gaze.Point) {
	steps := int(g.config.SaccadeDuration / g.config.SampleInterval)
	if steps < 1 {
		steps = 1
	}
	for k := 1; k <= steps; k++ {
		f := float64(k) / float64(steps+1)
		g.appendSample(s, a.X+(b.X-a.X)*f, a.Y+(b.Y-a.Y)*f)
	}
}

// plantBlink codes positions as missing and closes the pupil, with a short
// closing and opening ramp on the surrounding valid samples
func (g *GazeDataGenerator) plantBlink(s *gaze.Samples, start, length int) {
	for i := start; i < start+length; i++ {
		s.X[i] = g.config.Missing
		s.Y[i] = g.config.Missing
		s.Size[i] = 0
	}
	for k := 1; k <= blinkRamp; k++ {
		scale := float64(blinkRamp+1-k) / float64(blinkRamp+1)
		s.Size[start-k] *= 1 - scale
		s.Size[start+length-1+k] *= 1 - scale
	}
}

func (g *GazeDataGenerator) randomPoint() gaze.Point {
	const margin = 100
	return gaze.Point{
		X: margin + g.rng.Float64()*(g.config.ScreenWidth-2*margin),
		Y: margin + g.rng.Float64()*(g.config.ScreenHeight-2*margin),
	}
}

// nextPoint picks a target at least MinAmplitude away from p
func (g *GazeDataGenerator) nextPoint(p gaze.Point) gaze.Point {
	for attempt := 0; attempt < 100; attempt++ {
		q := g.randomPoint()
		if p.Distance(q) >= g.config.MinAmplitude {
			return q
		}
	}
	// mirror through the screen centre
	return gaze.Point{X: g.config.ScreenWidth - p.X, Y: g.config.ScreenHeight - p.Y}
}

func (g *GazeDataGenerator) between(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Int63n(hi-lo+1)
}

func (g *GazeDataGenerator) noise(sd float64) float64 {
	if sd == 0 {
		return 0
	}
	return g.rng.NormFloat64() * sd
}
