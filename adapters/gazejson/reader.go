package gazejson

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"gogaze/domain/gaze"
	"gogaze/internal/errors"
)

// Config describes where trials live inside a JSON document
type Config struct {
	FilePath string
	// DataPath is the gjson path of the trial array, "trials" by default.
	// A path resolving to a single object is read as one trial.
	DataPath string
	// Missing is stored for null x and y values, InvalidSize for null sizes
	Missing     float64
	InvalidSize float64
}

// Reader loads trials from a JSON document of the form
//
//	{"trials": [{"time": [...], "x": [...], "y": [...], "size": [...],
//	             "messages": [{"time": 0, "text": "..."}],
//	             "blinks": [{"start_time": 0, "end_time": 0}]}]}
type Reader struct {
	config Config
}

func NewReader(config Config) *Reader {
	if config.DataPath == "" {
		config.DataPath = "trials"
	}
	return &Reader{config: config}
}

func (r *Reader) ReadTrials(ctx context.Context) ([]gaze.Trial, error) {
	body, err := os.ReadFile(r.config.FilePath)
	if err != nil {
		return nil, errors.UnreadableInput("failed to read JSON file "+r.config.FilePath, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.Parse(body)
}

// Parse extracts trials from an in-memory document
func (r *Reader) Parse(body []byte) ([]gaze.Trial, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.UnreadableInput("document is not valid JSON", nil)
	}
	dataResult := gjson.GetBytes(body, r.config.DataPath)
	if !dataResult.Exists() {
		return nil, errors.UnreadableInput("data path '"+r.config.DataPath+"' not found in document", nil)
	}

	var items []gjson.Result
	switch {
	case dataResult.IsArray():
		items = dataResult.Array()
	case dataResult.IsObject():
		items = []gjson.Result{dataResult}
	default:
		return nil, errors.UnreadableInput("data path '"+r.config.DataPath+"' is not an array or object", nil)
	}

	trials := make([]gaze.Trial, 0, len(items))
	for i, item := range items {
		trial, err := r.parseTrial(i, item)
		if err != nil {
			return nil, errors.Wrapf(err, "trial %d", i)
		}
		trials = append(trials, trial)
	}
	log.Info().Int("trials", len(trials)).Str("path", r.config.FilePath).Msg("[JSONReader] trials loaded")
	return trials, nil
}

func (r *Reader) parseTrial(index int, item gjson.Result) (gaze.Trial, error) {
	samples := gaze.Samples{
		Time: int64s(item.Get("time")),
		X:    floats(item.Get("x"), r.config.Missing),
		Y:    floats(item.Get("y"), r.config.Missing),
	}
	if size := item.Get("size"); size.Exists() {
		samples.Size = floats(size, r.config.InvalidSize)
	}
	if err := samples.Validate(); err != nil {
		return gaze.Trial{}, errors.InvalidInput("malformed samples", err)
	}

	var messages []gaze.Message
	item.Get("messages").ForEach(func(_, m gjson.Result) bool {
		messages = append(messages, gaze.Message{Time: m.Get("time").Int(), Text: m.Get("text").String()})
		return true
	})

	trial := gaze.NewTrial(index, samples, messages)
	if idx := item.Get("index"); idx.Exists() {
		trial.Index = int(idx.Int())
	}

	var blinks []gaze.Event
	item.Get("blinks").ForEach(func(_, b gjson.Result) bool {
		start, end := b.Get("start_time").Int(), b.Get("end_time").Int()
		blinks = append(blinks, gaze.Event{Kind: gaze.KindBlink, StartTime: start, EndTime: end, Duration: end - start})
		return true
	})
	if len(blinks) > 0 {
		trial = trial.WithEvents(gaze.EventSet{RecordedBlinks: blinks})
	}
	return trial, nil
}

func int64s(arr gjson.Result) []int64 {
	values := arr.Array()
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = v.Int()
	}
	return out
}

func floats(arr gjson.Result, null float64) []float64 {
	values := arr.Array()
	out := make([]float64, len(values))
	for i, v := range values {
		if v.Type == gjson.Null {
			out[i] = null
			continue
		}
		out[i] = v.Float()
	}
	return out
}
