package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func statsCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, embeddingFlags(&cfg)...)

	return &cli.Command{
		Name:  "stats",
		Usage: "Show memory counts per type",
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

			stats, err := uc.Stats(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to collect stats")
			}

			w := c.Root().Writer
			fmt.Fprintf(w, "Total memories: %d\n", stats.Total)
			fmt.Fprintf(w, "  Text:  %d\n", stats.TextCount)
			fmt.Fprintf(w, "  Image: %d\n", stats.ImageCount)
			return nil
		},
	}
}
