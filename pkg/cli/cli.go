package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "memoir",
		Usage: "Multi-modal memory retrieval and temporal synthesis engine",
		Commands: []*cli.Command{
			addCommand(),
			searchCommand(),
			synthCommand(),
			listCommand(),
			statsCommand(),
			deleteCommand(),
			consoleCommand(),
			serveCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
