package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/memoir/pkg/model"
	"github.com/urfave/cli/v3"
)

func addCommand() *cli.Command {
	var (
		cfg         config
		text        string
		image       string
		title       string
		tags        string
		date        string
		description string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "text",
			Aliases:     []string{"t"},
			Usage:       "Text content to store as a memory",
			Destination: &text,
		},
		&cli.StringFlag{
			Name:        "image",
			Aliases:     []string{"i"},
			Usage:       "Image to store: a local file path or a gs:// URI",
			Destination: &image,
		},
		&cli.StringFlag{
			Name:        "title",
			Usage:       "Title metadata",
			Destination: &title,
		},
		&cli.StringFlag{
			Name:        "tags",
			Usage:       "Comma-separated tags metadata",
			Destination: &tags,
		},
		&cli.StringFlag{
			Name:        "date",
			Usage:       "Date metadata in YYYY-MM-DD format",
			Destination: &date,
		},
		&cli.StringFlag{
			Name:        "description",
			Usage:       "Description metadata (used for image embedding context)",
			Destination: &description,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, embeddingFlags(&cfg)...)

	return &cli.Command{
		Name:  "add",
		Usage: "Store a text or image memory",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx)
			if err != nil {
				return err
			}

			if (text == "") == (image == "") {
				return goerr.New("exactly one of --text or --image is required")
			}

			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			meta := map[string]string{}
			if title != "" {
				meta[model.MetaKeyTitle] = title
			}
			if tags != "" {
				meta[model.MetaKeyTags] = tags
			}
			if date != "" {
				meta[model.MetaKeyDate] = date
			}
			if description != "" {
				meta[model.MetaKeyDescription] = description
			}

			var id model.MemoryID
			if text != "" {
				id, err = uc.AddText(ctx, text, meta)
			} else {
				id, err = uc.AddImage(ctx, image, meta)
			}
			if err != nil {
				return goerr.Wrap(err, "failed to store memory")
			}

			fmt.Fprintf(c.Root().Writer, "Memory stored: %s\n", id)
			return nil
		},
	}
}
