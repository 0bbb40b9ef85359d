package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quizsight/quizsight/internal/audit"
	"github.com/quizsight/quizsight/internal/db"
	"github.com/quizsight/quizsight/internal/ingest"
	"github.com/quizsight/quizsight/internal/insight"
	"github.com/quizsight/quizsight/internal/pipeline"
	"github.com/quizsight/quizsight/internal/report"
	"github.com/quizsight/quizsight/internal/storage"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "quizsight",
		Short:   "Quiz-poll analytics pipeline",
		Long:    `Quizsight normalizes exported poll tables, reconciles vote tallies, joins ballots against the answer key and ranks voter and question insights.`,
		Version: version,
	}

	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type tableFlags struct {
	questions string
	ballots   string
	answers   string
	now       string
}

func (f *tableFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.questions, "questions", "", "questions table (csv or xlsx)")
	cmd.Flags().StringVar(&f.ballots, "ballots", "", "ballots table (csv or xlsx)")
	cmd.Flags().StringVar(&f.answers, "answers", "", "answer-key table (csv or xlsx)")
	cmd.Flags().StringVar(&f.now, "now", "", "reference time for relative dates, RFC3339 (default: current time)")
	_ = cmd.MarkFlagRequired("questions")
	_ = cmd.MarkFlagRequired("ballots")
	_ = cmd.MarkFlagRequired("answers")
}

func (f *tableFlags) run() (pipeline.Result, pipeline.Tables, error) {
	reference := time.Now()
	if f.now != "" {
		t, err := time.Parse(time.RFC3339, f.now)
		if err != nil {
			return pipeline.Result{}, pipeline.Tables{}, fmt.Errorf("parse --now: %w", err)
		}
		reference = t
	}

	var tables pipeline.Tables
	if err := readFile(f.questions, &tables.Questions, ingest.ReadQuestions); err != nil {
		return pipeline.Result{}, tables, err
	}
	if err := readFile(f.ballots, &tables.Ballots, ingest.ReadBallots); err != nil {
		return pipeline.Result{}, tables, err
	}
	if err := readFile(f.answers, &tables.Answers, ingest.ReadAnswerKey); err != nil {
		return pipeline.Result{}, tables, err
	}
	return pipeline.Run(reference, tables), tables, nil
}

func readFile[T any](path string, dst *[]T, read func(string, io.Reader) ([]T, error)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rows, err := read(path, f)
	if err != nil {
		return err
	}
	*dst = rows
	return nil
}

func ingestCmd() *cobra.Command {
	var flags tableFlags
	var out, dsn, driver string
	var limit int

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run the pipeline and export ranked insight tables",
		Long: `Ingest the three poll tables, run the full pipeline and write one
CSV per ranked metric plus a row set in the insight database.

Example:
  quizsight ingest --questions q.xlsx --ballots b.xlsx --answers a.xlsx --out ./reports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, tables, err := flags.run()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			dbh, err := db.Open(ctx, db.Driver(driver), dsn)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer dbh.Close()

			imp, err := audit.NewLog(dbh).Record(ctx, audit.Import{
				Source:          "cli",
				QuestionRows:    len(tables.Questions),
				BallotRows:      len(tables.Ballots),
				AnswerRows:      len(tables.Answers),
				MergedRows:      len(res.Merged),
				DroppedBallots:  res.DroppedBallots,
				TallyMismatches: res.TallyMismatches,
			})
			if err != nil {
				return fmt.Errorf("record import: %w", err)
			}

			bs, err := storage.NewFSStore(out)
			if err != nil {
				return fmt.Errorf("open %s: %w", out, err)
			}

			rep := insight.NewEngine(res.Merged, limit).Compute()
			if err := report.NewCSVSink(bs).Write(ctx, imp.ID, rep); err != nil {
				return err
			}
			if err := report.NewSQLSink(dbh).Write(ctx, imp.ID, rep); err != nil {
				return err
			}

			fmt.Printf("import %s: merged=%d dropped=%d tally_mismatches=%d\n",
				imp.ID, imp.MergedRows, imp.DroppedBallots, imp.TallyMismatches)
			fmt.Printf("wrote top-%d tables under %s/%s/\n", rep.Limit, out, imp.ID)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&out, "out", "./reports", "directory for exported CSV tables")
	cmd.Flags().StringVar(&driver, "db-driver", "sqlite", "insight database driver (sqlite or postgres)")
	cmd.Flags().StringVar(&dsn, "db", "", "insight database DSN")
	cmd.Flags().IntVar(&limit, "limit", 20, "result-size limit per ranked table")
	return cmd
}

func reportCmd() *cobra.Command {
	var flags tableFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the pipeline and print ranked tables to the terminal",
		Example: `  quizsight report --questions q.csv --ballots b.csv --answers a.csv --limit 10
  quizsight report --questions q.xlsx --ballots b.xlsx --answers a.xlsx --now 2024-10-22T00:00:00Z`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := flags.run()
			if err != nil {
				return err
			}
			rep := insight.NewEngine(res.Merged, limit).Compute()
			report.RenderText(cmd.OutOrStdout(), rep)
			fmt.Fprintf(cmd.OutOrStdout(), "dropped_ballots=%d tally_mismatches=%d\n",
				res.DroppedBallots, res.TallyMismatches)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 20, "result-size limit per ranked table")
	return cmd
}
