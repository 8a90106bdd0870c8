// Command qasweep runs the verification sweep against the built-in
// reference engines and prints a per-engine quality summary.
//
// Examples:
//
//	qasweep list
//	qasweep run
//	qasweep run -e identity,octaver -f 220,440,1000 -s -12,0,12
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/cwbudde/algo-audioverify/dsp/core"
	"github.com/cwbudde/algo-audioverify/verify"
)

var errProStandards = errors.New("one or more engines fail pro standards")

func main() {
	app := &cli.Command{
		Name:  "qasweep",
		Usage: "Offline audio-quality verification sweeps",
		Commands: []*cli.Command{
			listCommand(),
			runCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("qasweep failed", "error", err)
		os.Exit(1)
	}
}

func newRegistry() *verify.Registry {
	reg := verify.NewRegistry()
	verify.RegisterReferenceEngines(reg)
	return reg
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List registered engines",
		Action: func(_ context.Context, _ *cli.Command) error {
			reg := newRegistry()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, id := range reg.IDs() {
				fmt.Fprintf(w, "%s\t%s\n", id, reg.Name(id))
			}

			return w.Flush()
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the sweep and print the aggregate report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "engines",
				Aliases: []string{"e"},
				Usage:   "Comma-separated engine ids (default: all registered)",
			},
			&cli.StringFlag{
				Name:    "frequencies",
				Aliases: []string{"f"},
				Usage:   "Comma-separated test frequencies in Hz",
				Value:   "220,440,1000",
			},
			&cli.StringFlag{
				Name:    "shifts",
				Aliases: []string{"s"},
				Usage:   "Comma-separated pitch shifts in semitones",
				Value:   "-12,0,12",
			},
			&cli.IntFlag{
				Name:  "samplerate",
				Usage: "Sample rate in Hz",
				Value: 48000,
			},
			&cli.IntFlag{
				Name:  "block",
				Usage: "Processing block size in samples",
				Value: 512,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			reg := newRegistry()

			ids := reg.IDs()
			if raw := cmd.String("engines"); raw != "" {
				ids = splitList(raw)
			}

			freqs, err := parseFloats(cmd.String("frequencies"))
			if err != nil {
				return fmt.Errorf("--frequencies: %w", err)
			}

			shifts, err := parseFloats(cmd.String("shifts"))
			if err != nil {
				return fmt.Errorf("--shifts: %w", err)
			}

			orch, err := verify.NewOrchestrator(
				core.WithSampleRate(float64(cmd.Int("samplerate"))),
				core.WithBlockSize(cmd.Int("block")),
			)
			if err != nil {
				return err
			}

			runs := orch.RunSweep(reg, ids, freqs, shifts)
			report := verify.Aggregate(runs)

			printReport(report)

			for _, engine := range report.Engines {
				if !engine.MeetsProStandards {
					return errProStandards
				}
			}

			return nil
		},
	}
}

func printReport(report verify.Report) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "ENGINE\tRUNS\tTHD%\tSNR dB\tSMEAR ms\tSHIFT Hz\tNATURAL\tFLAGS\tGRADE\tPRO")
	for _, e := range report.Engines {
		if e.ValidRuns == 0 {
			fmt.Fprintf(w, "%s\t0/%d\t-\t-\t-\t-\t-\t-\t%s\tno\n",
				e.EngineName, e.TotalRuns, e.AverageGrade)
			continue
		}

		pro := "no"
		if e.MeetsProStandards {
			pro = "yes"
		}

		fmt.Fprintf(w, "%s\t%d/%d\t%.3f\t%.1f\t%.2f\t%.1f\t%.0f\t%.1f\t%s\t%s\n",
			e.EngineName, e.ValidRuns, e.TotalRuns,
			e.MeanTHDPercent, e.MeanSNRdB, e.MeanSmearingMs, e.MeanFormantShiftHz,
			e.MeanNaturalness, e.MeanArtifactFlags, e.AverageGrade, pro)
	}

	w.Flush()

	fmt.Printf("\n%d/%d runs valid\n", report.ValidRuns, report.TotalRuns)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloats(raw string) ([]float64, error) {
	var out []float64
	for _, p := range splitList(raw) {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, errors.New("empty list")
	}
	return out, nil
}
