package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/memoir/pkg/model"
	"github.com/m-mizutani/memoir/pkg/usecase/memory"
	"github.com/urfave/cli/v3"
)

func synthCommand() *cli.Command {
	var (
		cfg   config
		query string
		start string
		end   string
		limit int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Natural language query",
			Sources:     cli.EnvVars("MEMOIR_SYNTH_QUERY"),
			Destination: &query,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "start",
			Usage:       "Keep only memories dated on or after this date",
			Destination: &start,
		},
		&cli.StringFlag{
			Name:        "end",
			Usage:       "Keep only memories dated on or before this date",
			Destination: &end,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum number of memories to retrieve per type",
			Value:       5,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, embeddingFlags(&cfg)...)

	return &cli.Command{
		Name:  "synth",
		Usage: "Build a chronological synthesis across text and image memories",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx)
			if err != nil {
				return err
			}

			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			result, err := withSpinner(" Synthesizing memories...", func() (*model.SynthesisResult, error) {
				return uc.Synthesize(ctx, memory.SynthesizeInput{
					Query:        query,
					Start:        start,
					End:          end,
					NPerModality: int(limit),
				})
			})
			if err != nil {
				return goerr.Wrap(err, "synthesis failed")
			}

			printSynthesis(c.Root().Writer, result)
			return nil
		},
	}
}

func printSynthesis(w io.Writer, result *model.SynthesisResult) {
	fmt.Fprintln(w, result.Summary)
	for _, f := range result.Degraded {
		fmt.Fprintf(w, "warning: %s search unavailable: %s\n", f.Modality, f.Message)
	}
	fmt.Fprintln(w)

	for i, entry := range result.Timeline {
		date := "undated"
		if entry.ResolvedDate != nil {
			date = entry.ResolvedDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%d. [%s] [%s] %s\n", i+1, date, entry.Modality, entry.ID)
		printMetadata(w, entry.Metadata)
		fmt.Fprintf(w, "   %s\n\n", oneline(entry.Content, 120))
	}
}
