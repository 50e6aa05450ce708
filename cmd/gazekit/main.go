package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gogaze/adapters/excel"
	"gogaze/adapters/gazejson"
	"gogaze/adapters/stats/events"
	"gogaze/adapters/stats/traces"
	"gogaze/adapters/store"
	"gogaze/app"
	"gogaze/internal/config"
	"gogaze/ports"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using system environment variables")
	}

	rootCmd := &cobra.Command{
		Use:           "gazekit",
		Short:         "Eye-movement event detection and pupil trace repair",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newDetectCmd(),
		newCleanCmd(),
		newSynthCmd(),
		newRunsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads environment configuration, applies the log level and reads
// the parameter preset named by the flag or GAZEKIT_PARAMS
func setup(paramsFile string) (*config.Config, *config.Parameters, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if paramsFile == "" {
		paramsFile = cfg.ParamsFile
	}
	params, err := config.LoadParameters(paramsFile)
	if err != nil {
		return nil, nil, err
	}
	if paramsFile != "" {
		log.Info().Str("path", paramsFile).Msg("Parameters loaded")
	}
	// the environment can switch on missing-value handling without a preset
	if params.MissingMode == "" || params.MissingMode == events.MissingNone {
		params.MissingMode = cfg.Pipeline.MissingMode
	}
	return cfg, params, nil
}

// openSource picks the trial reader from the file extension
func openSource(input, jsonPath string, params *config.Parameters) ports.TrialSource {
	if strings.EqualFold(filepath.Ext(input), ".json") {
		return gazejson.NewReader(gazejson.Config{
			FilePath:    input,
			DataPath:    jsonPath,
			Missing:     params.Missing,
			InvalidSize: params.Traces.Invalid,
		})
	}
	rc := excel.DefaultReaderConfig(input)
	rc.Missing = params.Missing
	rc.InvalidSize = params.Traces.Invalid
	return excel.NewDataReader(rc)
}

// openSinks builds the workbook writer and the event store requested by flags
func openSinks(ctx context.Context, out, dsn string) ([]ports.ResultSink, func(), error) {
	var sinks []ports.ResultSink
	cleanup := func() {}
	if out != "" {
		sinks = append(sinks, excel.NewEventWriter(out))
	}
	if dsn != "" {
		st, err := store.Open(ctx, dsn)
		if err != nil {
			return nil, cleanup, err
		}
		sinks = append(sinks, st)
		cleanup = func() { st.Close() }
	}
	return sinks, cleanup, nil
}

func newDetectCmd() *cobra.Command {
	var input, paramsFile, out, dsn, jsonPath string
	var workers int

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect blinks, fixations, saccades and microsaccades",
		Long: `Detect eye-movement events in every trial of a recording.

Input is an xlsx/CSV sheet with columns trial,time,x,y[,size][,message] or a JSON
document with per-trial time/x/y/size arrays.

Example: gazekit detect --input p01.csv --params lab.yaml --out p01_events.xlsx --db events.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, params, err := setup(paramsFile)
			if err != nil {
				return err
			}
			if dsn == "" {
				dsn = cfg.Database.DSN
			}
			if workers < 1 {
				workers = cfg.Pipeline.Workers
			}
			return runPipeline(cmd.Context(), input, jsonPath, out, dsn, workers, params)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Sample file (.xlsx, .csv or .json)")
	cmd.Flags().StringVar(&paramsFile, "params", "", "YAML parameter preset (default GAZEKIT_PARAMS)")
	cmd.Flags().StringVar(&out, "out", "", "Write events to this xlsx workbook")
	cmd.Flags().StringVar(&dsn, "db", "", "Store events in this database (default GAZEKIT_DB_DSN)")
	cmd.Flags().StringVar(&jsonPath, "json-path", "", "Path of the trial array inside a JSON input")
	cmd.Flags().IntVar(&workers, "workers", 0, "Trials processed concurrently (default GAZEKIT_WORKERS)")
	cmd.MarkFlagRequired("input")

	return cmd
}

func newCleanCmd() *cobra.Command {
	var input, paramsFile, out, jsonPath, focus, kernel string
	var outliers, hampel, smooth, corrected bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Repair pupil traces and export them next to the raw samples",
		Long: `Repair the pupil trace of every trial: blink interpolation followed by the
optional outlier, Hampel and smoothing steps. The workbook's Pupil sheet holds the
raw and repaired traces.

Example: gazekit clean --input p01.csv --out p01_pupil.xlsx --hampel --smooth`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, params, err := setup(paramsFile)
			if err != nil {
				return err
			}
			t := &params.Traces
			t.Interpolation.Enabled = true
			if cmd.Flags().Changed("outliers") {
				t.Outliers.Enabled = outliers
			}
			if cmd.Flags().Changed("hampel") {
				t.Hampel.Enabled = hampel
			}
			if cmd.Flags().Changed("corrected") {
				t.Hampel.Corrected = corrected
			}
			if focus != "" {
				t.Hampel.Focus = traces.Focus(focus)
			}
			if cmd.Flags().Changed("smooth") {
				t.Smooth.Enabled = smooth
			}
			if kernel != "" {
				t.Smooth.Kernel = traces.Kernel(kernel)
			}
			if err := params.Validate(); err != nil {
				return err
			}
			return runPipeline(cmd.Context(), input, jsonPath, out, "", cfg.Pipeline.Workers, params)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Sample file (.xlsx, .csv or .json)")
	cmd.Flags().StringVar(&paramsFile, "params", "", "YAML parameter preset (default GAZEKIT_PARAMS)")
	cmd.Flags().StringVar(&out, "out", "", "Workbook to write")
	cmd.Flags().StringVar(&jsonPath, "json-path", "", "Path of the trial array inside a JSON input")
	cmd.Flags().BoolVar(&outliers, "outliers", false, "Remove samples beyond the outlier deviation")
	cmd.Flags().BoolVar(&hampel, "hampel", false, "Apply the Hampel filter")
	cmd.Flags().BoolVar(&corrected, "corrected", false, "Compare deviations from the window median in the Hampel filter")
	cmd.Flags().StringVar(&focus, "focus", "", "Hampel window focus: centre, left or right")
	cmd.Flags().BoolVar(&smooth, "smooth", false, "Smooth the repaired trace")
	cmd.Flags().StringVar(&kernel, "kernel", "", "Smoothing kernel: flat, hanning, hamming, bartlett or blackman")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("out")

	return cmd
}

func runPipeline(ctx context.Context, input, jsonPath, out, dsn string, workers int, params *config.Parameters) error {
	sinks, cleanup, err := openSinks(ctx, out, dsn)
	defer cleanup()
	if err != nil {
		return err
	}

	pipeline := app.NewPipeline(*params, workers)
	run, err := pipeline.Execute(ctx, filepath.Base(input), openSource(input, jsonPath, params), sinks...)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s: %d trials, %d events in %v\n", run.ID, len(run.Trials), run.EventCount(), run.Duration)
	for _, tr := range run.Trials {
		s := tr.Summary
		fmt.Printf("  trial %3d: %4d fixations %4d saccades %3d blinks %4d microsaccades\n",
			s.TrialIndex, s.Fixations, s.Saccades, s.Blinks, s.Microsaccades)
	}
	return nil
}
