package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/memoir/pkg/model"
	"github.com/m-mizutani/memoir/pkg/usecase/memory"
	"github.com/urfave/cli/v3"
)

func searchCommand() *cli.Command {
	var (
		cfg      config
		query    string
		modality string
		limit    int64
		fusion   string
		start    string
		end      string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Natural language query",
			Sources:     cli.EnvVars("MEMOIR_SEARCH_QUERY"),
			Destination: &query,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "type",
			Aliases:     []string{"t"},
			Usage:       "Memory type to search: text, image, or all",
			Value:       string(model.ModalityAll),
			Destination: &modality,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum number of memories to return",
			Value:       5,
			Destination: &limit,
		},
		&cli.StringFlag{
			Name:        "fusion",
			Usage:       "Cross-modal ranking strategy: raw or percentile",
			Value:       string(model.FusionRawDistance),
			Destination: &fusion,
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
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, embeddingFlags(&cfg)...)

	return &cli.Command{
		Name:  "search",
		Usage: "Search memories by semantic similarity",
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

			result, err := withSpinner(" Searching memories...", func() (*model.SearchResult, error) {
				if start != "" || end != "" {
					return uc.SearchByDate(ctx, query, start, end, int(limit))
				}
				return uc.Search(ctx, memory.SearchInput{
					Query:    query,
					Modality: model.Modality(modality),
					N:        int(limit),
					Fusion:   model.Fusion(fusion),
				})
			})
			if err != nil {
				return goerr.Wrap(err, "search failed")
			}

			printSearchResult(c.Root().Writer, result)
			return nil
		},
	}
}

// withSpinner runs fn with a progress spinner on stderr, keeping stdout
// clean for the actual output.
func withSpinner[T any](suffix string, fn func() (T, error)) (T, error) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = suffix
	s.Start()
	defer s.Stop()
	return fn()
}

func printSearchResult(w io.Writer, result *model.SearchResult) {
	fmt.Fprintf(w, "Found %d memories for %q\n", result.Count, result.Query)
	for _, f := range result.Degraded {
		fmt.Fprintf(w, "warning: %s search unavailable: %s\n", f.Modality, f.Message)
	}
	fmt.Fprintln(w)

	for i, rec := range result.Records {
		fmt.Fprintf(w, "%d. [%s] %s (distance: %.4f)\n", i+1, rec.Modality, rec.ID, rec.Distance)
		printMetadata(w, rec.Metadata)
		fmt.Fprintf(w, "   %s\n\n", oneline(rec.Content, 120))
	}
}

func printMetadata(w io.Writer, meta map[string]string) {
	for _, key := range []string{model.MetaKeyTitle, model.MetaKeyDate, model.MetaKeyTags} {
		if v, ok := meta[key]; ok {
			fmt.Fprintf(w, "   %s: %s\n", key, v)
		}
	}
}

func oneline(s string, max int) string {
	runes := []rune(s)
	for i, r := range runes {
		if r == '\n' || r == '\r' {
			runes[i] = ' '
		}
	}
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return string(runes)
}
