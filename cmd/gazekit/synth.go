package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"gogaze/domain/gaze"
	"gogaze/internal/errors"
	"gogaze/internal/testkit"
)

func newSynthCmd() *cobra.Command {
	var out string
	var trials int
	var seed int64
	var blinkProb float64

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate synthetic gaze recordings",
		Long: `Generate trials of fixations and saccades with occasional blinks. The output
format follows the file extension: .csv, .xlsx or .json.

Example: gazekit synth --out synthetic.csv --trials 10 --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := testkit.DefaultGazeConfig()
			cfg.Trials = trials
			cfg.Seed = seed
			cfg.BlinkProbability = blinkProb
			generated := testkit.NewGazeDataGenerator(cfg).GenerateTrials()
			if err := writeTrials(out, generated); err != nil {
				return err
			}
			log.Info().Str("path", out).Int("trials", len(generated)).Msg("Synthetic recording written")
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "File to write (.csv, .xlsx or .json)")
	cmd.Flags().IntVar(&trials, "trials", 4, "Number of trials")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic generation")
	cmd.Flags().Float64Var(&blinkProb, "blink-probability", 0.5, "Probability of a blink per trial")
	cmd.MarkFlagRequired("out")

	return cmd
}

func writeTrials(path string, trials []gaze.Trial) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return writeTrialsJSON(path, trials)
	case ".xlsx":
		return writeTrialsSheet(path, trials)
	default:
		return writeTrialsCSV(path, trials)
	}
}

func sampleRows(trials []gaze.Trial) [][]string {
	rows := [][]string{{"trial", "time", "x", "y", "size", "message"}}
	for _, t := range trials {
		trial := strconv.Itoa(t.Index)
		for _, m := range t.Messages {
			rows = append(rows, []string{trial, strconv.FormatInt(m.Time, 10), "", "", "", m.Text})
		}
		s := t.Samples
		for i := range s.Time {
			rows = append(rows, []string{
				trial,
				strconv.FormatInt(s.Time[i], 10),
				strconv.FormatFloat(s.X[i], 'f', 3, 64),
				strconv.FormatFloat(s.Y[i], 'f', 3, 64),
				strconv.FormatFloat(s.Size[i], 'f', 3, 64),
				"",
			})
		}
	}
	return rows
}

func writeTrialsCSV(path string, trials []gaze.Trial) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.StorageError("failed to create "+path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(sampleRows(trials)); err != nil {
		return errors.StorageError("failed to write "+path, err)
	}
	return nil
}

func writeTrialsSheet(path string, trials []gaze.Trial) error {
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range sampleRows(trials) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.StorageError("invalid cell reference", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			return errors.StorageError("failed to write row", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return errors.StorageError("failed to save "+path, err)
	}
	return nil
}

type jsonTrial struct {
	Index    int            `json:"index"`
	Time     []int64        `json:"time"`
	X        []float64      `json:"x"`
	Y        []float64      `json:"y"`
	Size     []float64      `json:"size"`
	Messages []gaze.Message `json:"messages"`
	Blinks   []jsonBlink    `json:"blinks"`
}

type jsonBlink struct {
	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time"`
}

func writeTrialsJSON(path string, trials []gaze.Trial) error {
	doc := struct {
		Trials []jsonTrial `json:"trials"`
	}{Trials: make([]jsonTrial, 0, len(trials))}
	for _, t := range trials {
		jt := jsonTrial{
			Index:    t.Index,
			Time:     t.Samples.Time,
			X:        t.Samples.X,
			Y:        t.Samples.Y,
			Size:     t.Samples.Size,
			Messages: t.Messages,
		}
		for _, b := range t.Events.RecordedBlinks {
			jt.Blinks = append(jt.Blinks, jsonBlink{StartTime: b.StartTime, EndTime: b.EndTime})
		}
		doc.Trials = append(doc.Trials, jt)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode trials")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.StorageError("failed to write "+path, err)
	}
	return nil
}
