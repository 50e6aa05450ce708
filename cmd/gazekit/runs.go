package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"gogaze/adapters/store"
	"gogaze/domain/core"
	"gogaze/internal/config"
	"gogaze/internal/errors"
)

func newRunsCmd() *cobra.Command {
	var dsn, runID, kind string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored detection runs",
		Long: `List detection runs recorded in the event store. With --run, print the
stored events of one run, optionally restricted to a single kind.

Example: gazekit runs --db gaze.db --run 0190f5c2-... --kind saccade`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				dsn = cfg.Database.DSN
			}
			if dsn == "" {
				return errors.ConfigInvalid("no event store configured: pass --db or set GAZEKIT_DB_DSN")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			st, err := store.Open(ctx, dsn)
			if err != nil {
				return err
			}
			defer st.Close()

			if runID == "" {
				return listRuns(ctx, st)
			}
			id, err := core.ParseRunID(runID)
			if err != nil {
				return errors.InvalidArgument("invalid run id %q", runID)
			}
			return listEvents(ctx, st, id, kind)
		},
	}

	cmd.Flags().StringVar(&dsn, "db", "", "Event store DSN (defaults to GAZEKIT_DB_DSN)")
	cmd.Flags().StringVar(&runID, "run", "", "Print the events of this run")
	cmd.Flags().StringVar(&kind, "kind", "", "Restrict events to blink, fixation, saccade or microsaccade")

	return cmd
}

func listRuns(ctx context.Context, st *store.Store) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSOURCE\tPARAMS\tSTARTED\tDURATION\tTRIALS")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			r.ID, r.Source, core.Hash(r.ParamsHash).Short(),
			time.UnixMilli(r.StartedAt).Format(time.RFC3339),
			time.Duration(r.DurationMs)*time.Millisecond,
			r.TrialCount)
	}
	return w.Flush()
}

func listEvents(ctx context.Context, st *store.Store, id core.RunID, kind string) error {
	rows, err := st.EventsForRun(ctx, id, kind)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tKIND\tSTART\tEND\tDURATION\tSTART_X\tSTART_Y\tEND_X\tEND_Y")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\t%s\t%s\t%s\n",
			r.TrialIndex, r.Kind, r.StartTime, r.EndTime, r.Duration,
			nullable(r.StartX.Valid, r.StartX.Float64),
			nullable(r.StartY.Valid, r.StartY.Float64),
			nullable(r.EndX.Valid, r.EndX.Float64),
			nullable(r.EndY.Valid, r.EndY.Float64))
	}
	return w.Flush()
}

func nullable(valid bool, v float64) string {
	if !valid {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}
