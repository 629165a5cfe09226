package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/memoir/pkg/model"
	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var (
		cfg      config
		modality string
		limit    int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "type",
			Aliases:     []string{"t"},
			Usage:       "Memory type to list: text, image, or all",
			Value:       string(model.ModalityAll),
			Destination: &modality,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum number of memories to list",
			Value:       10,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, embeddingFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List stored memories",
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

			records, err := uc.ListRecent(ctx, int(limit), model.Modality(modality))
			if err != nil {
				return goerr.Wrap(err, "failed to list memories")
			}

			w := c.Root().Writer
			if len(records) == 0 {
				fmt.Fprintln(w, "No memories stored")
				return nil
			}

			for i, rec := range records {
				fmt.Fprintf(w, "%d. [%s] %s\n", i+1, rec.Modality, rec.ID)
				printMetadata(w, rec.Metadata)
				fmt.Fprintf(w, "   %s\n\n", oneline(rec.Content, 120))
			}
			return nil
		},
	}
}
